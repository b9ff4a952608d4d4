// Package pricing holds the one place cart totals are derived. The cart
// screen, order history and exported documents all read these numbers.
package pricing

import (
	"github.com/shopspring/decimal"
)

var (
	// DiscountThreshold is exclusive: a subtotal of exactly 1500 gets no discount.
	DiscountThreshold = decimal.NewFromInt(1500)
	DiscountRate      = decimal.NewFromFloat(0.10)
)

// Line is one product's presence in a cart or order snapshot.
type Line struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

func (l Line) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals keeps exact values. Use the Display helpers for presentation.
type Totals struct {
	Subtotal     decimal.Decimal
	DiscountRate decimal.Decimal
	Discount     decimal.Decimal
	Total        decimal.Decimal
}

func (t Totals) Discounted() bool {
	return t.DiscountRate.IsPositive()
}

func (t Totals) SubtotalDisplay() string { return t.Subtotal.StringFixed(2) }
func (t Totals) DiscountDisplay() string { return t.Discount.StringFixed(2) }
func (t Totals) TotalDisplay() string    { return t.Total.StringFixed(2) }

// DiscountPercent renders the rate as a whole percentage, e.g. "10".
func (t Totals) DiscountPercent() string {
	return t.DiscountRate.Mul(decimal.NewFromInt(100)).String()
}

// ComputeTotals sums unitPrice*quantity over lines and applies the threshold
// discount. Nothing is rounded here.
func ComputeTotals(lines []Line) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Amount())
	}

	rate := decimal.Zero
	if subtotal.GreaterThan(DiscountThreshold) {
		rate = DiscountRate
	}

	discount := subtotal.Mul(rate)

	return Totals{
		Subtotal:     subtotal,
		DiscountRate: rate,
		Discount:     discount,
		Total:        subtotal.Sub(discount),
	}
}
