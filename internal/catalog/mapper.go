package catalog

import (
	"strings"

	"fitmrp-client/internal/api"
)

func mapProducts(products []api.Product, categories []api.Category) []Product {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID.String()] = c.Name
	}

	out := make([]Product, 0, len(products))
	for _, p := range products {
		categoryName, ok := names[p.CategoryID.String()]
		if !ok || categoryName == "" {
			categoryName = UncategorizedName
		}
		out = append(out, Product{
			ID:           p.ID.String(),
			Name:         p.Name,
			Description:  p.Description,
			Price:        p.Price.Decimal,
			CategoryID:   p.CategoryID.String(),
			CategoryName: categoryName,
		})
	}
	return out
}

func mapInventory(levels []api.InventoryLevel) []InventoryItem {
	out := make([]InventoryItem, 0, len(levels))
	for _, l := range levels {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			name = UnknownProductName
		}
		available := int(l.Available)
		if available < 0 {
			available = 0
		}
		out = append(out, InventoryItem{ID: l.ID.String(), Name: name, Available: available})
	}
	return out
}

func mapRawMaterials(raw []api.RawMaterial) []RawMaterial {
	out := make([]RawMaterial, 0, len(raw))
	for _, r := range raw {
		out = append(out, RawMaterial{ID: r.ID.String(), Name: r.Name})
	}
	return out
}

func mapMovements(moves []api.Movement) []Movement {
	out := make([]Movement, 0, len(moves))
	for _, m := range moves {
		out = append(out, Movement{
			ID:    m.ID.String(),
			Type:  m.Type,
			Date:  m.Date.Time,
			Notes: m.Notes,
		})
	}
	return out
}

// matches reports whether name contains query, ignoring case. An empty
// query matches everything.
func matches(name, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(query))
}
