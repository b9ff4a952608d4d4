package cart

import (
	"time"

	"fitmrp-client/internal/api"
	"fitmrp-client/internal/order"
)

func mapCart(items []api.CartItem, fetchedAt time.Time) Cart {
	return newCart(order.MapLines(items), fetchedAt)
}
