package devserver

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductStore(t *testing.T) (*Store, uint, uint) {
	t.Helper()
	s := NewStore()
	s.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	cat := s.AddCategory("Equipo")
	a := s.AddProduct(productRecord{Name: "Barra", Price: decimal.NewFromInt(1000), CategoryID: cat}, 3)
	b := s.AddProduct(productRecord{Name: "Disco", Price: decimal.RequireFromString("250.50"), CategoryID: cat}, 10)
	return s, a, b
}

func TestStore_Users(t *testing.T) {
	s := NewStore()
	hash, err := HashPassword("pw")
	require.NoError(t, err)

	u, err := s.CreateUser("Ana", " Ana@Fit.mx ", hash, 0)
	require.NoError(t, err)
	assert.Equal(t, "ana@fit.mx", u.Email)
	assert.Equal(t, RoleCustomer, u.RoleID)
	assert.Equal(t, "cliente", u.roleName())

	_, err = s.CreateUser("Otra", "ana@fit.mx", hash, RoleCustomer)
	assert.ErrorIs(t, err, ErrEmailExists)

	got, err := s.Authenticate("ANA@fit.mx", "pw")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Authenticate("ana@fit.mx", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Authenticate("nobody@fit.mx", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestStore_Cart(t *testing.T) {
	s, barra, disco := newProductStore(t)
	const user = 99

	t.Run("Add merges lines", func(t *testing.T) {
		require.NoError(t, s.AddItem(user, barra, 1))
		require.NoError(t, s.AddItem(user, disco, 2))
		require.NoError(t, s.AddItem(user, barra, 1))

		lines := s.Cart(user)
		require.Len(t, lines, 2)
		assert.Equal(t, "Barra", lines[0].Name)
		assert.Equal(t, 2, lines[0].Quantity)
	})

	t.Run("Validation", func(t *testing.T) {
		assert.ErrorIs(t, s.AddItem(user, barra, 0), ErrInvalidQuantity)
		assert.ErrorIs(t, s.AddItem(user, 12345, 1), ErrProductNotFound)
		assert.ErrorIs(t, s.UpdateItem(user, barra, 0), ErrInvalidQuantity)
		assert.ErrorIs(t, s.UpdateItem(user, 12345, 1), ErrItemNotFound)
		assert.ErrorIs(t, s.RemoveItem(user, 12345), ErrItemNotFound)
	})

	t.Run("Update and remove", func(t *testing.T) {
		require.NoError(t, s.UpdateItem(user, disco, 5))
		require.NoError(t, s.RemoveItem(user, barra))

		lines := s.Cart(user)
		require.Len(t, lines, 1)
		assert.Equal(t, 5, lines[0].Quantity)
	})

	t.Run("Carts are per user", func(t *testing.T) {
		assert.Empty(t, s.Cart(7))
	})
}

func TestStore_Checkout(t *testing.T) {
	s, barra, disco := newProductStore(t)
	const user = 42

	_, err := s.Checkout(user)
	assert.ErrorIs(t, err, ErrCartEmpty)

	require.NoError(t, s.AddItem(user, barra, 2))
	require.NoError(t, s.AddItem(user, disco, 1))

	o, err := s.Checkout(user)
	require.NoError(t, err)

	// 2000 + 250.50 = 2250.50, less 10%.
	assert.Equal(t, "2025.45", o.Total.StringFixed(2))
	assert.Len(t, o.Lines, 2)
	assert.Empty(t, s.Cart(user))
	assert.Len(t, s.Orders(user), 1)
	assert.Empty(t, s.Orders(7))

	for _, inv := range s.Inventories() {
		if inv.ProductID == barra {
			assert.Equal(t, 1, inv.Available)
		}
	}

	moves := s.ProductMovements(barra)
	require.Len(t, moves, 2)
	assert.Equal(t, MovementIn, moves[0].Type)
	assert.Equal(t, MovementOut, moves[1].Type)

	got, err := s.Order(o.ID)
	require.NoError(t, err)
	assert.Equal(t, user, int(got.UserID))

	_, err = s.Order(9999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestStore_CheckoutClampsStock(t *testing.T) {
	s, barra, _ := newProductStore(t)
	require.NoError(t, s.AddItem(1, barra, 10))

	_, err := s.Checkout(1)
	require.NoError(t, err)

	for _, inv := range s.Inventories() {
		if inv.ProductID == barra {
			assert.Equal(t, 0, inv.Available)
		}
	}
}

func TestStore_Refunds(t *testing.T) {
	s := NewStore()

	r, created, err := s.CreateRefund(5, "roto", "pending", "key-1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, r.ID)

	again, created, err := s.CreateRefund(5, "roto", "pending", "key-1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, r.ID, again.ID)

	_, _, err = s.CreateRefund(5, "otra vez", "pending", "key-2")
	assert.ErrorIs(t, err, ErrRefundExists)

	assert.Len(t, s.Refunds(), 1)
}

func TestSeed(t *testing.T) {
	s := NewStore()
	require.NoError(t, Seed(s))

	assert.Len(t, s.Categories(), 3)
	assert.Len(t, s.Products(), 6)
	assert.Len(t, s.Inventories(), 6)
	assert.Len(t, s.RawMaterials(), 5)

	_, err := s.Authenticate(DemoEmail, DemoPassword)
	assert.NoError(t, err)
}
