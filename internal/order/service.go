package order

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"fitmrp-client/internal/api"
	"fitmrp-client/internal/auth"
	"fitmrp-client/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gateway is the slice of the remote API the order service needs.
type Gateway interface {
	OrderHistory(ctx context.Context, s *auth.Session) ([]api.Order, error)
	CreateRefund(ctx context.Context, s *auth.Session, req api.RefundRequest, idempotencyKey string) error
}

type Service interface {
	History(ctx context.Context, s *auth.Session) ([]Order, error)
	RequestRefund(ctx context.Context, s *auth.Session, orderID, reason string) (*RefundRequest, error)
}

type service struct {
	gateway Gateway
	now     func() time.Time

	mu        sync.Mutex
	requested map[string]struct{}
}

func NewService(gateway Gateway) Service {
	return &service{
		gateway:   gateway,
		now:       time.Now,
		requested: make(map[string]struct{}),
	}
}

// refundNamespace scopes idempotency keys so the same order always maps
// to the same key.
var refundNamespace = uuid.MustParse("8f3c2a8e-4d0b-4c55-9a51-3d7e3f0b6c21")

// RefundIdempotencyKey derives a stable key for a user's refund on an order.
func RefundIdempotencyKey(userID, orderID string) string {
	return uuid.NewSHA1(refundNamespace, []byte(userID+":"+orderID)).String()
}

func (s *service) History(ctx context.Context, sess *auth.Session) ([]Order, error) {
	log := logger.FromCtx(ctx)

	if err := sess.Validate(s.now()); err != nil {
		return nil, err
	}

	orders, err := s.gateway.OrderHistory(ctx, sess)
	if err != nil {
		log.Error("failed to fetch order history",
			zap.String("user_id", sess.UserID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("fetch order history: %w", err)
	}

	return MapOrders(orders), nil
}

// RequestRefund files a pending refund for a past order. A second request
// for the same order within this process is rejected locally; the server
// additionally sees the same Idempotency-Key for every attempt.
func (s *service) RequestRefund(ctx context.Context, sess *auth.Session, orderID, reason string) (*RefundRequest, error) {
	log := logger.FromCtx(ctx).With(zap.String("order_id", orderID))

	if err := sess.Validate(s.now()); err != nil {
		return nil, err
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrOrderNotFound
	}
	if strings.TrimSpace(reason) == "" {
		reason = DefaultRefundReason
	}

	key := RefundIdempotencyKey(sess.UserID, orderID)
	if !s.claim(key) {
		log.Warn("duplicate refund request blocked")
		return nil, ErrRefundAlreadyRequested
	}

	req := RefundRequest{
		OrderID:     orderID,
		Reason:      reason,
		Status:      StatusPending,
		RequestedAt: s.now(),
	}

	if err := s.gateway.CreateRefund(ctx, sess, toAPIRefund(req), key); err != nil {
		s.release(key)
		log.Error("failed to request refund", zap.Error(err))
		return nil, fmt.Errorf("request refund: %w", err)
	}

	log.Info("refund requested", zap.String("status", string(req.Status)))
	return &req, nil
}

func (s *service) claim(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requested[key]; ok {
		return false
	}
	s.requested[key] = struct{}{}
	return true
}

func (s *service) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.requested, key)
}
