package order

import (
	"testing"
	"time"

	"fitmrp-client/internal/api"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapLines(t *testing.T) {
	t.Run("Merges duplicates and drops empty lines", func(t *testing.T) {
		lines := MapLines([]api.CartItem{
			{ProductID: "1", Name: "Proteina", UnitPrice: amount("100"), Quantity: 2},
			{ProductID: "2", Name: "Creatina", UnitPrice: amount("50"), Quantity: 0},
			{ProductID: "1", Name: "Proteina", UnitPrice: amount("100"), Quantity: 3},
			{ProductID: "", Name: "Ghost", UnitPrice: amount("1"), Quantity: 1},
			{ProductID: "3", Name: "Barra", UnitPrice: amount("2.5"), Quantity: 4},
		})

		require.Len(t, lines, 2)
		assert.Equal(t, "1", lines[0].ProductID)
		assert.Equal(t, 5, lines[0].Quantity)
		assert.Equal(t, "3", lines[1].ProductID)
		assert.Equal(t, "2.5", lines[1].UnitPrice.String())
	})

	t.Run("Drops negative prices", func(t *testing.T) {
		tests := []struct {
			name  string
			price string
			keep  bool
		}{
			{"Negative", "-25.50", false},
			{"Tiny negative", "-0.01", false},
			{"Zero", "0", true},
			{"Positive", "25.50", true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				lines := MapLines([]api.CartItem{
					{ProductID: "1", Name: "Proteina", UnitPrice: amount(tt.price), Quantity: 2},
				})
				if !tt.keep {
					assert.Empty(t, lines)
					return
				}
				require.Len(t, lines, 1)
				assert.False(t, lines[0].UnitPrice.IsNegative())
			})
		}
	})

	t.Run("Negative price does not lower a merged line", func(t *testing.T) {
		lines := MapLines([]api.CartItem{
			{ProductID: "1", Name: "Proteina", UnitPrice: amount("100"), Quantity: 2},
			{ProductID: "1", Name: "Proteina", UnitPrice: amount("-100"), Quantity: 5},
		})

		require.Len(t, lines, 1)
		assert.Equal(t, 2, lines[0].Quantity)
	})

	t.Run("Empty input", func(t *testing.T) {
		lines := MapLines(nil)
		assert.NotNil(t, lines)
		assert.Empty(t, lines)
	})
}

func TestMapOrder(t *testing.T) {
	date := time.Date(2024, 11, 5, 10, 30, 0, 0, time.UTC)
	o := MapOrder(api.Order{
		ID:    "5",
		Date:  api.Timestamp{Time: date},
		Total: amount("1440"),
		Items: []api.CartItem{
			{ProductID: "1", Name: "Proteina", UnitPrice: amount("100"), Quantity: 16},
		},
	})

	assert.Equal(t, "5", o.ID)
	assert.Equal(t, date, o.Date)
	assert.Equal(t, "1440.00", o.TotalDisplay())
	require.Len(t, o.Items, 1)

	totals := o.Totals()
	assert.Equal(t, "1600.00", totals.SubtotalDisplay())
	assert.Equal(t, "1440.00", totals.TotalDisplay())
}

func TestMapOrders(t *testing.T) {
	orders := MapOrders([]api.Order{{ID: "1"}, {ID: "2"}})
	require.Len(t, orders, 2)
	assert.Equal(t, "2", orders[1].ID)
	assert.Empty(t, orders[0].Items)
}

// amount builds a test price from a literal.
func amount(s string) api.Amount {
	return api.NewAmount(decimal.RequireFromString(s))
}
