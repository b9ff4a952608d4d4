package document

import (
	"context"
	"time"

	"fitmrp-client/internal/cart"
	"fitmrp-client/internal/logger"
	"fitmrp-client/internal/order"
	"fitmrp-client/internal/pricing"

	"go.uber.org/zap"
)

type Kind string

const (
	KindQuotation Kind = "quotation"
	KindInvoice   Kind = "invoice"
)

type Line struct {
	Name      string
	Quantity  int
	UnitPrice string
	Amount    string
}

// Document is the display model for an exported quotation or invoice. All
// money fields are preformatted; nothing here computes prices.
type Document struct {
	Kind     Kind
	Number   string
	Title    string
	Date     time.Time
	Customer string
	OrderID  string
	Lines    []Line

	// Breakdown is false when only a total is known to be correct.
	Breakdown       bool
	Subtotal        string
	Discounted      bool
	DiscountPercent string
	Discount        string
	Total           string
}

// Quotation formats the current cart. Totals are taken from the cart as-is.
func Quotation(c cart.Cart, customer string, now time.Time) Document {
	d := Document{
		Kind:     KindQuotation,
		Number:   NewNumber(PrefixQuotation, now),
		Title:    "Cotización de Compra",
		Date:     now,
		Customer: customer,
		Lines:    mapLines(c.Lines),
	}
	applyTotals(&d, c.Totals)
	return d
}

// Invoice formats a past order. When the server total matches the order's
// lines the full breakdown is shown; otherwise only the server total is,
// so the footer never mixes two sources.
func Invoice(ctx context.Context, o order.Order, customer string, now time.Time) Document {
	d := Document{
		Kind:     KindInvoice,
		Number:   NewNumber(PrefixInvoice, now),
		Title:    "Factura de Compra",
		Date:     o.Date,
		Customer: customer,
		OrderID:  o.ID,
		Lines:    mapLines(o.Items),
	}

	totals := o.Totals()
	if totals.Total.Equal(o.Total) {
		applyTotals(&d, totals)
		return d
	}

	if len(o.Items) > 0 {
		logger.FromCtx(ctx).Warn("order total differs from line items",
			zap.String("order_id", o.ID),
			zap.String("server_total", o.Total.String()),
			zap.String("computed_total", totals.Total.String()),
		)
	}
	d.Total = o.TotalDisplay()

	return d
}

func applyTotals(d *Document, t pricing.Totals) {
	d.Breakdown = true
	d.Subtotal = t.SubtotalDisplay()
	d.Discounted = t.Discounted()
	d.DiscountPercent = t.DiscountPercent()
	d.Discount = t.DiscountDisplay()
	d.Total = t.TotalDisplay()
}

func mapLines(lines []pricing.Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, Line{
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.StringFixed(2),
			Amount:    l.Amount().StringFixed(2),
		})
	}
	return out
}
