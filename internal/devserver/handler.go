package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"fitmrp-client/internal/api"
	"fitmrp-client/internal/logger"
	"fitmrp-client/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RefundStatusPending is the only estado the dev server accepts on create.
const RefundStatusPending = "pending"

type Handler struct {
	store  *Store
	issuer *middleware.TokenIssuer
}

func NewHandler(store *Store, issuer *middleware.TokenIssuer) *Handler {
	return &Handler{store: store, issuer: issuer}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type cartRequest struct {
	UserID    api.ID       `json:"usuario_id"`
	ProductID api.ID       `json:"producto_id"`
	Quantity  *api.FlexInt `json:"cantidad"`
}

func (r cartRequest) quantity() int {
	if r.Quantity == nil {
		return 0
	}
	return int(*r.Quantity)
}

// ----------------- Auth -----------------

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}

	u, err := h.store.Authenticate(req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.issuer.Generate(u.ID, u.roleName(), u.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.LoginResponse{User: toAPIUser(u), Token: token})
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req api.SignupRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "nombre, email and password are required")
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.store.CreateUser(strings.TrimSpace(req.Name), req.Email, hash, signupRole(r, req.RoleID))
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromCtx(r.Context()).Info("user registered", zap.Uint("user_id", u.ID), zap.String("email", u.Email))
	writeJSON(w, http.StatusCreated, map[string]any{"message": "user registered", "user": toAPIUser(u)})
}

// signupRole grants the requested role only to an authenticated admin;
// everyone else registers as a customer.
func signupRole(r *http.Request, requested int) int {
	if requested != 0 && middleware.GetUserRoleFromContext(r.Context()) == roleNameAdmin {
		return requested
	}
	return RoleCustomer
}

// ----------------- Catalog -----------------

func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toAPIProducts(h.store.Products()))
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toAPICategories(h.store.Categories()))
}

func (h *Handler) Inventories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toAPIInventories(h.store.Inventories()))
}

func (h *Handler) RawMaterials(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toAPIRawMaterials(h.store.RawMaterials()))
}

func (h *Handler) ProductMovements(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toAPIMovements(h.store.ProductMovements(id)))
}

func (h *Handler) RawMaterialMovements(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toAPIMovements(h.store.RawMaterialMovements(id)))
}

// ----------------- Cart -----------------

func (h *Handler) GetOrCreateCart(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if !decode(w, r, &req) {
		return
	}
	userID, ok := owner(w, r, req.UserID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": toAPIItems(h.store.Cart(userID))})
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	h.mutateCart(w, r, func(userID, productID uint, req cartRequest) error {
		return h.store.AddItem(userID, productID, req.quantity())
	})
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	h.mutateCart(w, r, func(userID, productID uint, req cartRequest) error {
		return h.store.UpdateItem(userID, productID, req.quantity())
	})
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.mutateCart(w, r, func(userID, productID uint, _ cartRequest) error {
		return h.store.RemoveItem(userID, productID)
	})
}

func (h *Handler) mutateCart(w http.ResponseWriter, r *http.Request, apply func(userID, productID uint, req cartRequest) error) {
	var req cartRequest
	if !decode(w, r, &req) {
		return
	}
	userID, ok := owner(w, r, req.UserID)
	if !ok {
		return
	}
	productID, err := parseID(req.ProductID)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid producto_id")
		return
	}

	if err := apply(userID, productID, req); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if !decode(w, r, &req) {
		return
	}
	userID, ok := owner(w, r, req.UserID)
	if !ok {
		return
	}

	o, err := h.store.Checkout(userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromCtx(r.Context()).Info("order created",
		zap.Uint("order_id", o.ID),
		zap.Uint("user_id", userID),
		zap.String("total", o.Total.StringFixed(2)),
	)
	writeMessage(w, http.StatusOK, "Pedido #"+strconv.FormatUint(uint64(o.ID), 10)+" creado")
}

// ----------------- Orders -----------------

func (h *Handler) OrderHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r, api.ID(chi.URLParam(r, "usuario_id")))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": toAPIOrders(h.store.Orders(userID))})
}

func (h *Handler) CreateRefund(w http.ResponseWriter, r *http.Request) {
	var req api.RefundRequest
	if !decode(w, r, &req) {
		return
	}

	orderID, err := parseID(req.OrderID)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid pedido_id")
		return
	}
	if req.Status != RefundStatusPending {
		writeMessage(w, http.StatusBadRequest, "estado must be "+RefundStatusPending)
		return
	}

	o, err := h.store.Order(orderID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if uid, _ := middleware.GetUserIDFromContext(r.Context()); uid != o.UserID {
		writeMessage(w, http.StatusForbidden, http.StatusText(http.StatusForbidden))
		return
	}

	refund, created, err := h.store.CreateRefund(orderID, req.Reason, req.Status, r.Header.Get("Idempotency-Key"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	writeJSON(w, status, map[string]any{
		"id":        refund.ID,
		"pedido_id": idOf(refund.OrderID),
		"motivo":    refund.Reason,
		"estado":    refund.Status,
	})
}

// ----------------- helpers -----------------

func parseID(id api.ID) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(id.String()), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(n), nil
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (uint, bool) {
	id, err := parseID(api.ID(chi.URLParam(r, param)))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid "+param)
		return 0, false
	}
	return id, true
}

// owner checks that the authenticated user is the one named in the request.
func owner(w http.ResponseWriter, r *http.Request, requested api.ID) (uint, bool) {
	id, err := parseID(requested)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid usuario_id")
		return 0, false
	}
	uid, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok || uid != id {
		writeMessage(w, http.StatusForbidden, http.StatusText(http.StatusForbidden))
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed", zap.Error(err))
		writeMessage(w, status, http.StatusText(status))
		return
	}
	writeMessage(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrEmailExists), errors.Is(err, ErrRefundExists):
		return http.StatusConflict
	case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrItemNotFound), errors.Is(err, ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrCartEmpty):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
