package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"fitmrp-client/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRoundTripper allows us to mock the HTTP response
type MockRoundTripper func(req *http.Request) *http.Response

func (f MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

type MockRoundTripperWithError func(req *http.Request) (*http.Response, error)

func (f MockRoundTripperWithError) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

const testBaseURL = "https://backend.test/api"

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func newTestClient(rt http.RoundTripper) *Client {
	return NewClient(testBaseURL, WithHTTPClient(&http.Client{Transport: rt}))
}

func decodeBody(t *testing.T, req *http.Request) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.NewDecoder(req.Body).Decode(&m))
	return m
}

var testSession = &auth.Session{UserID: "24", Token: "tok"}

func TestClient_GetOrCreateCart(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		client := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, testBaseURL+"/carrito/get-or-create", req.URL.String())
			assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			assert.NotEmpty(t, req.Header.Get("X-Request-ID"))

			body := decodeBody(t, req)
			assert.Equal(t, float64(24), body["usuario_id"])

			return jsonResponse(http.StatusOK, `{"items": [
				{"producto_id": 1, "nombre": "Proteina", "precio_unitario": "100.00", "cantidad": 10},
				{"producto_id": "2", "nombre": "Creatina", "precio_unitario": 600, "cantidad": "1"}
			]}`)
		}))

		items, err := client.GetOrCreateCart(context.Background(), testSession)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, ID("1"), items[0].ProductID)
		assert.Equal(t, "100", items[0].UnitPrice.String())
		assert.Equal(t, FlexInt(10), items[0].Quantity)
		assert.Equal(t, FlexInt(1), items[1].Quantity)
	})

	t.Run("Missing items is an empty cart", func(t *testing.T) {
		client := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusOK, `{}`)
		}))

		items, err := client.GetOrCreateCart(context.Background(), testSession)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("ServerError", func(t *testing.T) {
		client := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusInternalServerError, `{"message": "db down"}`)
		}))

		_, err := client.GetOrCreateCart(context.Background(), testSession)
		require.Error(t, err)
		assert.True(t, IsServer(err))
		assert.False(t, IsNetwork(err))
		assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
		assert.Contains(t, err.Error(), "db down")
	})

	t.Run("NetworkError", func(t *testing.T) {
		client := newTestClient(MockRoundTripperWithError(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		}))

		_, err := client.GetOrCreateCart(context.Background(), testSession)
		require.Error(t, err)
		assert.True(t, IsNetwork(err))
		assert.Contains(t, err.Error(), "connection refused")
		assert.Equal(t, 0, StatusCode(err))
	})

	t.Run("InvalidJSONResponse", func(t *testing.T) {
		client := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusOK, `{invalid-json`)
		}))

		_, err := client.GetOrCreateCart(context.Background(), testSession)
		var de *DecodeError
		assert.ErrorAs(t, err, &de)
	})

	t.Run("Unusable quantity is a decode error", func(t *testing.T) {
		for _, qty := range []string{`"1.9"`, `0.5`, `"99999999999999999999"`, `1e300`} {
			client := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
				return jsonResponse(http.StatusOK, `{"items": [
					{"producto_id": 1, "nombre": "Proteina", "precio_unitario": "100.00", "cantidad": `+qty+`}
				]}`)
			}))

			items, err := client.GetOrCreateCart(context.Background(), testSession)
			var de *DecodeError
			assert.ErrorAs(t, err, &de, qty)
			assert.Nil(t, items, qty)
		}
	})
}

func TestClient_CartMutations(t *testing.T) {
	t.Run("AddItem", func(t *testing.T) {
		client := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, "/api/carrito/add-item", req.URL.Path)
			body := decodeBody(t, req)
			assert.Equal(t, float64(7), body["producto_id"])
			assert.Equal(t, float64(2), body["cantidad"])
			return jsonResponse(http.StatusCreated, `{"message": "ok"}`)
		}))

		assert.NoError(t, client.AddItem(context.Background(), testSession, "7", 2))
	})

	t.Run("UpdateItem", func(t *testing.T) {
		client := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, http.MethodPut, req.Method)
			assert.Equal(t, "/api/carrito/update-item", req.URL.Path)
			body := decodeBody(t, req)
			assert.Equal(t, float64(24), body["usuario_id"])
			assert.Equal(t, float64(7), body["producto_id"])
			assert.Equal(t, float64(3), body["cantidad"])
			return jsonResponse(http.StatusOK, ``)
		}))

		assert.NoError(t, client.UpdateItem(context.Background(), testSession, "7", 3))
	})

	t.Run("RemoveItem sends body with DELETE", func(t *testing.T) {
		client := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, http.MethodDelete, req.Method)
			assert.Equal(t, "/api/carrito/remove-item", req.URL.Path)
			body := decodeBody(t, req)
			assert.Equal(t, float64(7), body["producto_id"])
			_, hasQty := body["cantidad"]
			assert.False(t, hasQty)
			return jsonResponse(http.StatusOK, `{}`)
		}))

		assert.NoError(t, client.RemoveItem(context.Background(), testSession, "7"))
	})

	t.Run("Checkout", func(t *testing.T) {
		client := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, "/api/carrito/checkout", req.URL.Path)
			return jsonResponse(http.StatusOK, `{"message": "Pedido creado"}`)
		}))

		msg, err := client.Checkout(context.Background(), testSession)
		require.NoError(t, err)
		assert.Equal(t, "Pedido creado", msg)
	})

	t.Run("Checkout failure", func(t *testing.T) {
		client := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusBadRequest, `{"error": "carrito vacio"}`)
		}))

		_, err := client.Checkout(context.Background(), testSession)
		assert.True(t, IsServer(err))
		assert.Contains(t, err.Error(), "carrito vacio")
	})
}

func TestClient_Orders(t *testing.T) {
	t.Run("OrderHistory", func(t *testing.T) {
		client := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, "/api/pedido/history/24", req.URL.Path)
			assert.Nil(t, req.Body)
			return jsonResponse(http.StatusOK, `{"orders": [
				{"id": 5, "fecha": "2024-11-05T10:30:00Z", "total": "1440.00",
				 "items": [{"producto_id": 1, "nombre": "Proteina", "precio_unitario": "100", "cantidad": 10}]}
			]}`)
		}))

		orders, err := client.OrderHistory(context.Background(), testSession)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, ID("5"), orders[0].ID)
		assert.Equal(t, "1440", orders[0].Total.String())
		assert.Equal(t, 2024, orders[0].Date.Year())
		assert.Len(t, orders[0].Items, 1)
	})

	t.Run("CreateRefund", func(t *testing.T) {
		client := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, "/api/devoluciones", req.URL.Path)
			assert.Equal(t, "key-1", req.Header.Get("Idempotency-Key"))
			body := decodeBody(t, req)
			assert.Equal(t, float64(5), body["pedido_id"])
			assert.Equal(t, "pending", body["estado"])
			assert.Equal(t, "damaged", body["motivo"])
			return jsonResponse(http.StatusCreated, `{}`)
		}))

		err := client.CreateRefund(context.Background(), testSession,
			RefundRequest{OrderID: "5", Reason: "damaged", Status: "pending"}, "key-1")
		assert.NoError(t, err)
	})
}

func TestClient_Auth(t *testing.T) {
	t.Run("Login", func(t *testing.T) {
		client := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, "/api/auth/login", req.URL.Path)
			assert.Empty(t, req.Header.Get("Authorization"))
			body := decodeBody(t, req)
			assert.Equal(t, "ana@fit.mx", body["email"])
			return jsonResponse(http.StatusOK, `{"user": {"id": 24, "nombre": "Ana", "email": "ana@fit.mx"}, "token": "jwt"}`)
		}))

		res, err := client.Login(context.Background(), "ana@fit.mx", "pw")
		require.NoError(t, err)
		assert.Equal(t, ID("24"), res.User.ID)
		assert.Equal(t, "jwt", res.Token)
	})

	t.Run("Login without user", func(t *testing.T) {
		client := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusOK, `{"token": "jwt"}`)
		}))

		_, err := client.Login(context.Background(), "ana@fit.mx", "pw")
		assert.ErrorIs(t, err, ErrMissingUser)
	})

	t.Run("Signup", func(t *testing.T) {
		client := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			body := decodeBody(t, req)
			assert.Equal(t, "Ana", body["nombre"])
			assert.Equal(t, float64(2), body["rol_id"])
			return jsonResponse(http.StatusCreated, `{"message": "ok"}`)
		}))

		err := client.Signup(context.Background(), SignupRequest{Name: "Ana", Email: "a@b.c", Password: "pw", RoleID: 2})
		assert.NoError(t, err)
	})
}

func TestClient_Catalog(t *testing.T) {
	routes := map[string]string{
		"/api/products":   `[{"id": 1, "nombre": "Proteina", "descripcion": "Whey", "precio": "35.50", "categoria_id": 3}]`,
		"/api/categories": `[{"id": 3, "nombre": "Suplementos"}]`,
		"/api/inventories": `[{"id": 1, "nombre": "Proteina", "cantidad_disponible": "12"}]`,
		"/api/materiaprima": `[{"id": 9, "nombre": "Suero"}]`,
		"/api/movements/producto/1": `[{"id": 1, "tipo_movimiento": "entrada", "fecha": "2024-01-02", "observaciones": "lote 4"}]`,
		"/api/movements-materiaprima/materia-prima/9": `[{"id": 2, "tipo_movimiento": "salida", "fecha": "2024-01-03 08:00:00", "observaciones": ""}]`,
	}
	client := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
		body, ok := routes[req.URL.Path]
		if !ok {
			return jsonResponse(http.StatusNotFound, `{"message": "not found"}`)
		}
		return jsonResponse(http.StatusOK, body)
	}))
	ctx := context.Background()

	products, err := client.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, "35.5", products[0].Price.String())
	assert.Equal(t, ID("3"), products[0].CategoryID)

	categories, err := client.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Suplementos", categories[0].Name)

	inv, err := client.ListInventories(ctx)
	require.NoError(t, err)
	assert.Equal(t, FlexInt(12), inv[0].Available)

	raw, err := client.ListRawMaterials(ctx)
	require.NoError(t, err)
	assert.Equal(t, ID("9"), raw[0].ID)

	moves, err := client.ProductMovements(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "entrada", moves[0].Type)

	rawMoves, err := client.RawMaterialMovements(ctx, "9")
	require.NoError(t, err)
	assert.Equal(t, "salida", rawMoves[0].Type)

	_, err = client.ProductMovements(ctx, "404")
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
}

func TestClient_RateLimitAndStats(t *testing.T) {
	client := NewClient(testBaseURL,
		WithHTTPClient(&http.Client{Transport: MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusOK, `[]`)
		})}),
		WithRateLimit(1000, 1),
	)

	_, err := client.ListCategories(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.ListCategories(ctx)
	assert.True(t, IsNetwork(err))

	snap := client.Stats()
	assert.Equal(t, uint64(2), snap.Requests)
	assert.Equal(t, uint64(1), snap.Failures)
}

func TestClient_Options(t *testing.T) {
	c := NewClient(testBaseURL, WithTimeout(3e9), WithRateLimit(0, 0))
	assert.Equal(t, testBaseURL, c.BaseURL())
	assert.Nil(t, c.limiter)
	assert.Equal(t, float64(3), c.httpClient.Timeout.Seconds())
}
