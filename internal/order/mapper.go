package order

import (
	"fitmrp-client/internal/api"
	"fitmrp-client/internal/pricing"
)

// MapLines converts API line items into pricing lines. Lines with a
// quantity below one or a negative unit price are dropped, and repeated
// product ids are merged into the first occurrence.
func MapLines(items []api.CartItem) []pricing.Line {
	lines := make([]pricing.Line, 0, len(items))
	index := make(map[string]int, len(items))

	for _, item := range items {
		qty := int(item.Quantity)
		if qty < 1 || item.ProductID == "" || item.UnitPrice.IsNegative() {
			continue
		}
		id := item.ProductID.String()
		if i, ok := index[id]; ok {
			lines[i].Quantity += qty
			continue
		}
		index[id] = len(lines)
		lines = append(lines, pricing.Line{
			ProductID: id,
			Name:      item.Name,
			UnitPrice: item.UnitPrice.Decimal,
			Quantity:  qty,
		})
	}
	return lines
}

func MapOrder(o api.Order) Order {
	return Order{
		ID:    o.ID.String(),
		Date:  o.Date.Time,
		Total: o.Total.Decimal,
		Items: MapLines(o.Items),
	}
}

func MapOrders(orders []api.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, MapOrder(o))
	}
	return out
}

func toAPIRefund(r RefundRequest) api.RefundRequest {
	return api.RefundRequest{
		OrderID: api.ID(r.OrderID),
		Reason:  r.Reason,
		Status:  string(r.Status),
	}
}
