package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flamedough/api/internal/enum"
	"github.com/flamedough/api/internal/orders"
)

// OrderLifecycle defines the bridge methods needed by order handlers.
// Satisfied by *orders.Bridge; narrow interface for testability.
type OrderLifecycle interface {
	AllOrders(ctx context.Context) []orders.Order
	Get(ctx context.Context, id string) (orders.Order, error)
	UpdateStatus(ctx context.Context, id string, status enum.OrderStatus) (orders.Order, error)
}

// OrderHandler handles the dashboard order endpoints.
type OrderHandler struct {
	orders OrderLifecycle
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(lifecycle OrderLifecycle) *OrderHandler {
	return &OrderHandler{orders: lifecycle}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted at /dashboard/orders.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}/status", h.UpdateStatus)
}

// --- Request / Response types ---

// orderResponse carries the transitions the dashboard may offer next.
type orderResponse struct {
	orders.Order
	NextStatuses []enum.OrderStatus `json:"nextStatuses"`
}

type orderListResponse struct {
	Orders  []orderResponse `json:"orders"`
	Pending int             `json:"pending"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func toOrderResponse(o orders.Order) orderResponse {
	next := orders.NextStatuses(o.Status)
	if next == nil {
		next = []enum.OrderStatus{}
	}
	return orderResponse{Order: o, NextStatuses: next}
}

// --- Handlers ---

// List handles GET /dashboard/orders?status=. Orders are newest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	all := h.orders.AllOrders(r.Context())
	list := all
	if s := r.URL.Query().Get("status"); s != "" && s != "all" {
		status := enum.OrderStatus(s)
		if !orders.ValidStatus(status) {
			writeError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		list = orders.Filter(all, status)
	}

	resp := orderListResponse{Orders: make([]orderResponse, len(list))}
	for i, o := range list {
		resp.Orders[i] = toOrderResponse(o)
	}
	resp.Pending = len(orders.Filter(all, enum.OrderStatusNew))
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /dashboard/orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeInternal(w, err, "get order")
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// UpdateStatus handles PATCH /dashboard/orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), enum.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, orders.ErrOrderNotFound):
			writeError(w, http.StatusNotFound, "order not found")
		case errors.Is(err, orders.ErrIllegalTransition):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeInternal(w, err, "update order status")
		}
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}
