package devserver

import (
	"net/http"

	"fitmrp-client/internal/logger"
	"fitmrp-client/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the REST contract under /api. A nil limiter disables
// rate limiting.
func NewRouter(h *Handler, limiter *middleware.RateLimiter) http.Handler {
	r := chi.NewRouter()
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AuthMiddleware(h.issuer))
	if limiter != nil {
		r.Use(limiter.Middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", h.Login)
		r.Post("/auth/signup", h.Signup)

		r.Get("/products", h.Products)
		r.Get("/categories", h.Categories)
		r.Get("/inventories", h.Inventories)
		r.Get("/materiaprima", h.RawMaterials)
		r.Get("/movements/producto/{id}", h.ProductMovements)
		r.Get("/movements-materiaprima/materia-prima/{id}", h.RawMaterialMovements)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)

			r.Route("/carrito", func(r chi.Router) {
				r.Post("/get-or-create", h.GetOrCreateCart)
				r.Post("/add-item", h.AddItem)
				r.Put("/update-item", h.UpdateItem)
				r.Delete("/remove-item", h.RemoveItem)
				r.Post("/checkout", h.Checkout)
			})
			r.Get("/pedido/history/{usuario_id}", h.OrderHistory)
			r.Post("/devoluciones", h.CreateRefund)
		})
	})

	return r
}
