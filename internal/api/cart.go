package api

import (
	"context"
	"net/http"

	"fitmrp-client/internal/auth"
)

// GetOrCreateCart returns the user's cart lines, creating the cart
// server-side when none exists.
func (c *Client) GetOrCreateCart(ctx context.Context, s *auth.Session) ([]CartItem, error) {
	var res cartResponse
	err := c.do(ctx, call{
		op:      "get_or_create_cart",
		method:  http.MethodPost,
		path:    "/carrito/get-or-create",
		session: s,
		body:    cartRequest{UserID: ID(s.UserID)},
		out:     &res,
	})
	if err != nil {
		return nil, err
	}
	if res.Items == nil {
		return []CartItem{}, nil
	}
	return res.Items, nil
}

func (c *Client) AddItem(ctx context.Context, s *auth.Session, productID ID, quantity int) error {
	qty := FlexInt(quantity)
	return c.do(ctx, call{
		op:      "add_cart_item",
		method:  http.MethodPost,
		path:    "/carrito/add-item",
		session: s,
		body:    cartRequest{UserID: ID(s.UserID), ProductID: productID, Quantity: &qty},
	})
}

func (c *Client) UpdateItem(ctx context.Context, s *auth.Session, productID ID, quantity int) error {
	qty := FlexInt(quantity)
	return c.do(ctx, call{
		op:      "update_cart_item",
		method:  http.MethodPut,
		path:    "/carrito/update-item",
		session: s,
		body:    cartRequest{UserID: ID(s.UserID), ProductID: productID, Quantity: &qty},
	})
}

func (c *Client) RemoveItem(ctx context.Context, s *auth.Session, productID ID) error {
	return c.do(ctx, call{
		op:      "remove_cart_item",
		method:  http.MethodDelete,
		path:    "/carrito/remove-item",
		session: s,
		body:    cartRequest{UserID: ID(s.UserID), ProductID: productID},
	})
}

// Checkout converts the server-side cart into an order and returns the
// server's confirmation message.
func (c *Client) Checkout(ctx context.Context, s *auth.Session) (string, error) {
	var res messageResponse
	err := c.do(ctx, call{
		op:      "checkout",
		method:  http.MethodPost,
		path:    "/carrito/checkout",
		session: s,
		body:    cartRequest{UserID: ID(s.UserID)},
		out:     &res,
	})
	if err != nil {
		return "", err
	}
	return res.Message, nil
}
