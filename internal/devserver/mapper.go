package devserver

import (
	"strconv"

	"fitmrp-client/internal/api"
	"fitmrp-client/internal/pricing"
)

func idOf(id uint) api.ID {
	return api.ID(strconv.FormatUint(uint64(id), 10))
}

func toAPIUser(u userRecord) *api.User {
	return &api.User{
		ID:     idOf(u.ID),
		Name:   u.Name,
		Email:  u.Email,
		RoleID: api.ID(strconv.Itoa(u.RoleID)),
	}
}

func toAPIItems(lines []pricing.Line) []api.CartItem {
	out := make([]api.CartItem, 0, len(lines))
	for _, l := range lines {
		out = append(out, api.CartItem{
			ProductID: api.ID(l.ProductID),
			Name:      l.Name,
			UnitPrice: api.NewAmount(l.UnitPrice),
			Quantity:  api.FlexInt(l.Quantity),
		})
	}
	return out
}

func toAPIOrders(orders []orderRecord) []api.Order {
	out := make([]api.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, api.Order{
			ID:    idOf(o.ID),
			Date:  api.Timestamp{Time: o.Date},
			Total: api.NewAmount(o.Total),
			Items: toAPIItems(o.Lines),
		})
	}
	return out
}

func toAPIProducts(products []productRecord) []api.Product {
	out := make([]api.Product, 0, len(products))
	for _, p := range products {
		out = append(out, api.Product{
			ID:          idOf(p.ID),
			Name:        p.Name,
			Description: p.Description,
			Price:       api.NewAmount(p.Price),
			CategoryID:  idOf(p.CategoryID),
		})
	}
	return out
}

func toAPICategories(categories []categoryRecord) []api.Category {
	out := make([]api.Category, 0, len(categories))
	for _, c := range categories {
		out = append(out, api.Category{ID: idOf(c.ID), Name: c.Name})
	}
	return out
}

func toAPIInventories(inventories []inventoryView) []api.InventoryLevel {
	out := make([]api.InventoryLevel, 0, len(inventories))
	for _, inv := range inventories {
		out = append(out, api.InventoryLevel{
			ID:        idOf(inv.ID),
			Name:      inv.Name,
			Available: api.FlexInt(inv.Available),
		})
	}
	return out
}

func toAPIRawMaterials(materials []rawMaterialRecord) []api.RawMaterial {
	out := make([]api.RawMaterial, 0, len(materials))
	for _, m := range materials {
		out = append(out, api.RawMaterial{ID: idOf(m.ID), Name: m.Name})
	}
	return out
}

func toAPIMovements(movements []movementRecord) []api.Movement {
	out := make([]api.Movement, 0, len(movements))
	for _, m := range movements {
		out = append(out, api.Movement{
			ID:    idOf(m.ID),
			Type:  m.Type,
			Date:  api.Timestamp{Time: m.Date},
			Notes: m.Notes,
		})
	}
	return out
}
