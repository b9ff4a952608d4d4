package cart

import (
	"context"

	"fitmrp-client/internal/logger"

	"go.uber.org/zap"
)

type ConditionKind string

const (
	FetchFailed      ConditionKind = "fetch_failed"
	MutationFailed   ConditionKind = "mutation_failed"
	CheckoutFailed   ConditionKind = "checkout_failed"
	RefundFailed     ConditionKind = "refund_failed"
	ValidationFailed ConditionKind = "validation_failed"
	SessionInvalid   ConditionKind = "session_invalid"
)

// Condition is a user-facing failure signal. Retryable conditions can be
// cleared by invoking the same operation again.
type Condition struct {
	Kind      ConditionKind
	Op        string
	Err       error
	Retryable bool
}

// Notifier receives conditions raised by the cart. It is the UI hook.
type Notifier interface {
	Notify(ctx context.Context, c Condition)
}

type NotifierFunc func(ctx context.Context, c Condition)

func (f NotifierFunc) Notify(ctx context.Context, c Condition) { f(ctx, c) }

type logNotifier struct{}

func (logNotifier) Notify(ctx context.Context, c Condition) {
	logger.FromCtx(ctx).Warn("cart condition",
		zap.String("kind", string(c.Kind)),
		zap.String("op", c.Op),
		zap.Bool("retryable", c.Retryable),
		zap.Error(c.Err),
	)
}
