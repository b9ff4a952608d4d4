package api

import (
	"context"
	"net/http"
	"net/url"

	"fitmrp-client/internal/auth"
)

func (c *Client) OrderHistory(ctx context.Context, s *auth.Session) ([]Order, error) {
	var res ordersResponse
	err := c.do(ctx, call{
		op:      "order_history",
		method:  http.MethodGet,
		path:    "/pedido/history/" + url.PathEscape(s.UserID),
		session: s,
		out:     &res,
	})
	if err != nil {
		return nil, err
	}
	if res.Orders == nil {
		return []Order{}, nil
	}
	return res.Orders, nil
}

// CreateRefund files a refund request. The contract has no idempotency
// field; idempotencyKey travels as a header and is ignored by servers that
// do not support it.
func (c *Client) CreateRefund(ctx context.Context, s *auth.Session, req RefundRequest, idempotencyKey string) error {
	cl := call{
		op:      "create_refund",
		method:  http.MethodPost,
		path:    "/devoluciones",
		session: s,
		body:    req,
	}
	if idempotencyKey != "" {
		cl.headers = map[string]string{"Idempotency-Key": idempotencyKey}
	}
	return c.do(ctx, cl)
}
