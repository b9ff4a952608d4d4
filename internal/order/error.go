package order

import "errors"

var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrRefundAlreadyRequested = errors.New("refund already requested for this order")
)
