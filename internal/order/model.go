package order

import (
	"time"

	"fitmrp-client/internal/pricing"

	"github.com/shopspring/decimal"
)

type RefundStatus string

// StatusPending is the only status the client ever submits; the server
// adjudicates from there.
const StatusPending RefundStatus = "pending"

const DefaultRefundReason = "Solicitud de devolución"

// Order is a read-only mirror of a server-side order.
type Order struct {
	ID    string
	Date  time.Time
	Total decimal.Decimal
	Items []pricing.Line
}

// Totals recomputes the breakdown from the item snapshot. Total on the
// Order stays the server's figure.
func (o Order) Totals() pricing.Totals {
	return pricing.ComputeTotals(o.Items)
}

func (o Order) TotalDisplay() string {
	return o.Total.StringFixed(2)
}

type RefundRequest struct {
	OrderID     string
	Reason      string
	Status      RefundStatus
	RequestedAt time.Time
}
