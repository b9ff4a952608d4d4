package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"fitmrp-client/internal/api"
	"fitmrp-client/internal/auth"
	"fitmrp-client/internal/config"
	"fitmrp-client/internal/logger"
	"fitmrp-client/internal/order"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// CommerceAPI is the slice of the remote API the cart needs.
type CommerceAPI interface {
	GetOrCreateCart(ctx context.Context, s *auth.Session) ([]api.CartItem, error)
	AddItem(ctx context.Context, s *auth.Session, productID api.ID, quantity int) error
	UpdateItem(ctx context.Context, s *auth.Session, productID api.ID, quantity int) error
	RemoveItem(ctx context.Context, s *auth.Session, productID api.ID) error
	Checkout(ctx context.Context, s *auth.Session) (string, error)
}

// Service owns one user's cart for the lifetime of a session. Every
// mutation is followed by a full re-fetch; the local cart is never merged
// optimistically.
type Service interface {
	LoadCart(ctx context.Context) Cart
	AddItem(ctx context.Context, productID string, quantity int) error
	SetQuantity(ctx context.Context, productID string, quantity int) error
	RemoveItem(ctx context.Context, productID string) error
	Checkout(ctx context.Context) (string, error)

	LoadOrders(ctx context.Context) ([]order.Order, error)
	Orders() []order.Order
	RequestRefund(ctx context.Context, orderID, reason string) (*order.RefundRequest, error)

	Snapshot() Cart
	State() State
	Status() Status
	Session() *auth.Session
}

type service struct {
	api      CommerceAPI
	orders   order.Service
	session  *auth.Session
	notifier Notifier
	policy   string
	now      func() time.Time

	// guard admits one mutation (and its resync) at a time.
	guard *semaphore.Weighted
	busy  atomic.Bool

	mu      sync.RWMutex
	cart    Cart
	history []order.Order
}

type Option func(*service)

func WithNotifier(n Notifier) Option {
	return func(s *service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithMutationPolicy selects what happens when a mutation arrives while
// another is in flight: config.MutationPolicyQueue waits, and
// config.MutationPolicyReject fails fast with ErrBusy.
func WithMutationPolicy(policy string) Option {
	return func(s *service) {
		if policy == config.MutationPolicyReject {
			s.policy = config.MutationPolicyReject
			return
		}
		s.policy = config.MutationPolicyQueue
	}
}

// NewService creates a cart bound to the given session.
func NewService(commerce CommerceAPI, orders order.Service, session *auth.Session, opts ...Option) Service {
	s := &service{
		api:      commerce,
		orders:   orders,
		session:  session,
		notifier: logNotifier{},
		policy:   config.MutationPolicyQueue,
		now:      time.Now,
		guard:    semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cart = newCart(nil, time.Time{})
	return s
}

// LoadCart replaces the local cart with the server's. It never fails: when
// the fetch fails the cart degrades to empty and FetchFailed is raised.
func (s *service) LoadCart(ctx context.Context) Cart {
	const op = "load_cart"
	log := logger.FromCtx(ctx)

	if err := s.session.Validate(s.now()); err != nil {
		s.replaceCart(newCart(nil, s.now()))
		s.notify(ctx, Condition{Kind: SessionInvalid, Op: op, Err: err})
		return s.Snapshot()
	}

	// Loads always queue regardless of the mutation policy.
	if err := s.guard.Acquire(ctx, 1); err != nil {
		log.Warn("gave up waiting for cart", zap.String("user_id", s.session.UserID), zap.Error(err))
		s.replaceCart(newCart(nil, s.now()))
		s.notify(ctx, Condition{Kind: FetchFailed, Op: op, Err: err, Retryable: true})
		return s.Snapshot()
	}
	s.busy.Store(true)
	defer s.release()

	if err := s.resync(ctx); err != nil {
		log.Error("failed to load cart", zap.String("user_id", s.session.UserID), zap.Error(err))
		s.replaceCart(newCart(nil, s.now()))
		s.notify(ctx, Condition{Kind: FetchFailed, Op: op, Err: err, Retryable: true})
	}

	return s.Snapshot()
}

func (s *service) AddItem(ctx context.Context, productID string, quantity int) error {
	const op = "add_item"

	productID = strings.TrimSpace(productID)
	if productID == "" {
		return s.reject(ctx, op, ErrProductRequired)
	}
	if quantity < 1 {
		return s.reject(ctx, op, ErrInvalidQuantity)
	}

	return s.mutate(ctx, op, func(ctx context.Context) error {
		return s.api.AddItem(ctx, s.session, api.ID(productID), quantity)
	})
}

// SetQuantity changes a line's quantity. Quantities below one are ignored
// without contacting the server; use RemoveItem to drop a line.
func (s *service) SetQuantity(ctx context.Context, productID string, quantity int) error {
	const op = "set_quantity"

	if quantity < 1 {
		logger.FromCtx(ctx).Debug("ignoring quantity below one",
			zap.String("product_id", productID),
			zap.Int("quantity", quantity),
		)
		return nil
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return s.reject(ctx, op, ErrProductRequired)
	}

	return s.mutate(ctx, op, func(ctx context.Context) error {
		return s.api.UpdateItem(ctx, s.session, api.ID(productID), quantity)
	})
}

func (s *service) RemoveItem(ctx context.Context, productID string) error {
	const op = "remove_item"

	productID = strings.TrimSpace(productID)
	if productID == "" {
		return s.reject(ctx, op, ErrProductRequired)
	}

	return s.mutate(ctx, op, func(ctx context.Context) error {
		return s.api.RemoveItem(ctx, s.session, api.ID(productID))
	})
}

// Checkout converts the cart into an order. On success the local cart is
// cleared and order history re-fetched; on failure nothing changes.
func (s *service) Checkout(ctx context.Context) (string, error) {
	const op = "checkout"
	log := logger.FromCtx(ctx)

	if err := s.checkSession(ctx, op); err != nil {
		return "", err
	}
	if err := s.acquire(ctx); err != nil {
		return "", err
	}
	defer s.release()

	if s.Snapshot().Empty() {
		return "", s.reject(ctx, op, ErrCartEmpty)
	}

	msg, err := s.api.Checkout(ctx, s.session)
	if err != nil {
		log.Error("checkout failed", zap.String("user_id", s.session.UserID), zap.Error(err))
		s.notify(ctx, Condition{Kind: CheckoutFailed, Op: op, Err: err, Retryable: true})
		return "", err
	}

	s.replaceCart(newCart(nil, s.now()))
	log.Info("checkout completed", zap.String("user_id", s.session.UserID), zap.String("message", msg))

	if _, err := s.refreshOrders(ctx); err != nil {
		s.notify(ctx, Condition{Kind: FetchFailed, Op: "load_orders", Err: err, Retryable: true})
	}

	return msg, nil
}

func (s *service) LoadOrders(ctx context.Context) ([]order.Order, error) {
	const op = "load_orders"

	if err := s.checkSession(ctx, op); err != nil {
		return nil, err
	}

	orders, err := s.refreshOrders(ctx)
	if err != nil {
		s.notify(ctx, Condition{Kind: FetchFailed, Op: op, Err: err, Retryable: true})
		return nil, err
	}
	return orders, nil
}

func (s *service) Orders() []order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]order.Order, len(s.history))
	copy(out, s.history)
	return out
}

// RequestRefund files a pending refund for a past order. The order's own
// status is not consulted.
func (s *service) RequestRefund(ctx context.Context, orderID, reason string) (*order.RefundRequest, error) {
	const op = "request_refund"

	if err := s.checkSession(ctx, op); err != nil {
		return nil, err
	}

	req, err := s.orders.RequestRefund(ctx, s.session, orderID, reason)
	if err != nil {
		kind := RefundFailed
		if errors.Is(err, order.ErrRefundAlreadyRequested) || errors.Is(err, order.ErrOrderNotFound) {
			kind = ValidationFailed
		}
		s.notify(ctx, Condition{Kind: kind, Op: op, Err: err, Retryable: kind == RefundFailed})
		return nil, err
	}
	return req, nil
}

func (s *service) Snapshot() Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.clone()
}

func (s *service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.State()
}

func (s *service) Status() Status {
	if s.busy.Load() {
		return StatusBusy
	}
	return StatusIdle
}

func (s *service) Session() *auth.Session {
	return s.session
}

// ----------------- internals -----------------

// mutate runs a remote mutation under the guard and resyncs afterwards. A
// failed mutation leaves the cart untouched. A failed resync after a
// successful mutation keeps the stale cart and raises FetchFailed.
func (s *service) mutate(ctx context.Context, op string, call func(context.Context) error) error {
	log := logger.FromCtx(ctx).With(zap.String("op", op))

	if err := s.checkSession(ctx, op); err != nil {
		return err
	}
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	if err := call(ctx); err != nil {
		log.Error("cart mutation failed", zap.Error(err))
		s.notify(ctx, Condition{Kind: MutationFailed, Op: op, Err: err, Retryable: true})
		return err
	}

	if err := s.resync(ctx); err != nil {
		log.Warn("cart resync failed, keeping previous snapshot", zap.Error(err))
		s.notify(ctx, Condition{Kind: FetchFailed, Op: op, Err: err, Retryable: true})
	}
	return nil
}

func (s *service) acquire(ctx context.Context) error {
	if s.policy == config.MutationPolicyReject {
		if !s.guard.TryAcquire(1) {
			return ErrBusy
		}
	} else if err := s.guard.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("wait for cart: %w", err)
	}
	s.busy.Store(true)
	return nil
}

func (s *service) release() {
	s.busy.Store(false)
	s.guard.Release(1)
}

// resync must be called with the guard held.
func (s *service) resync(ctx context.Context) error {
	items, err := s.api.GetOrCreateCart(ctx, s.session)
	if err != nil {
		return err
	}
	s.replaceCart(mapCart(items, s.now()))
	return nil
}

func (s *service) refreshOrders(ctx context.Context) ([]order.Order, error) {
	orders, err := s.orders.History(ctx, s.session)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.history = orders
	s.mu.Unlock()

	return s.Orders(), nil
}

func (s *service) replaceCart(c Cart) {
	s.mu.Lock()
	s.cart = c
	s.mu.Unlock()
}

func (s *service) checkSession(ctx context.Context, op string) error {
	if err := s.session.Validate(s.now()); err != nil {
		s.notify(ctx, Condition{Kind: SessionInvalid, Op: op, Err: err})
		return err
	}
	return nil
}

func (s *service) reject(ctx context.Context, op string, err error) error {
	verr := invalid(op, err)
	s.notify(ctx, Condition{Kind: ValidationFailed, Op: op, Err: verr})
	return verr
}

func (s *service) notify(ctx context.Context, c Condition) {
	s.notifier.Notify(ctx, c)
}
