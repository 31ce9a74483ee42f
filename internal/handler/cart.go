package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flamedough/api/internal/cart"
	"github.com/flamedough/api/internal/catalog"
	"github.com/flamedough/api/internal/configurator"
	"github.com/flamedough/api/internal/enum"
)

// CartSource returns the ledger of a customer session.
// Satisfied by *cart.Registry; narrow interface for testability.
type CartSource interface {
	Get(ctx context.Context, session string) *cart.Ledger
}

// CartHandler handles the customer cart endpoints.
type CartHandler struct {
	carts   CartSource
	catalog CatalogSource
}

func NewCartHandler(carts CartSource, src CatalogSource) *CartHandler {
	return &CartHandler{carts: carts, catalog: src}
}

// RegisterRoutes registers cart endpoints on the given Chi router.
// Expected to be mounted behind middleware.Session.
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/cart", h.Get)
	r.Post("/cart/items", h.AddItem)
	r.Patch("/cart/items/{lineId}", h.UpdateQuantity)
	r.Delete("/cart/items/{lineId}", h.RemoveItem)
	r.Delete("/cart", h.Clear)
	r.Post("/cart/stale-notice/dismiss", h.DismissStaleNotice)
}

// --- Request / Response types ---

type addItemRequest struct {
	MenuItemID string `json:"menuItemId"`
	configurationRequest
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type cartResponse struct {
	Items       []cart.Item    `json:"items"`
	Mode        enum.OrderMode `json:"mode"`
	Subtotal    int64          `json:"subtotal"`
	DeliveryFee int64          `json:"deliveryFee"`
	Total       int64          `json:"total"`
	ItemCount   int            `json:"itemCount"`
	LineCount   int            `json:"lineCount"`
	StaleNotice bool           `json:"staleNotice"`
}

// modeOf reads the ?mode= totals mode, defaulting to delivery.
func modeOf(r *http.Request) (enum.OrderMode, bool) {
	s := r.URL.Query().Get("mode")
	if s == "" {
		return enum.OrderModeDelivery, true
	}
	m := enum.OrderMode(s)
	return m, m.Valid()
}

func toCartResponse(l *cart.Ledger, mode enum.OrderMode) cartResponse {
	return cartResponse{
		Items:       l.Items(),
		Mode:        mode,
		Subtotal:    l.Subtotal(),
		DeliveryFee: l.DeliveryFee(mode),
		Total:       l.Total(mode),
		ItemCount:   l.ItemCount(),
		LineCount:   l.LineCount(),
		StaleNotice: l.StaleNotice(),
	}
}

// ledger resolves the session's cart and totals mode, replying on failure.
func (h *CartHandler) ledger(w http.ResponseWriter, r *http.Request) (*cart.Ledger, enum.OrderMode, bool) {
	sess, ok := sessionOf(w, r)
	if !ok {
		return nil, "", false
	}
	mode, ok := modeOf(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "mode must be delivery or pickup")
		return nil, "", false
	}
	return h.carts.Get(r.Context(), sess.ID), mode, true
}

// --- Handlers ---

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, mode, ok := h.ledger(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(l, mode))
}

// AddItem handles POST /api/cart/items. The configuration is checked
// against the published catalog and the unit price frozen into the line.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	l, mode, ok := h.ledger(w, r)
	if !ok {
		return
	}
	var req addItemRequest
	if !decode(w, r, &req) {
		return
	}
	if req.MenuItemID == "" {
		writeError(w, http.StatusBadRequest, "menuItemId is required")
		return
	}
	item, found := catalog.FindItem(h.catalog.PublishedCategories(), req.MenuItemID)
	if !found {
		writeError(w, http.StatusNotFound, "menu item not found")
		return
	}

	line, err := configurator.BuildLine(item, req.configuration(item))
	if err != nil {
		writeConfigError(w, err)
		return
	}
	added := l.Add(r.Context(), line)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"item": added,
		"cart": toCartResponse(l, mode),
	})
}

// UpdateQuantity handles PATCH /api/cart/items/{lineId}. Zero removes the line.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	l, mode, ok := h.ledger(w, r)
	if !ok {
		return
	}
	var req updateQuantityRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "quantity is required")
		return
	}
	if err := l.UpdateQuantity(r.Context(), chi.URLParam(r, "lineId"), *req.Quantity); err != nil {
		if errors.Is(err, cart.ErrLineNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(l, mode))
}

// RemoveItem handles DELETE /api/cart/items/{lineId}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	l, mode, ok := h.ledger(w, r)
	if !ok {
		return
	}
	if err := l.Remove(r.Context(), chi.URLParam(r, "lineId")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(l, mode))
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	l, mode, ok := h.ledger(w, r)
	if !ok {
		return
	}
	l.Clear(r.Context())
	writeJSON(w, http.StatusOK, toCartResponse(l, mode))
}

// DismissStaleNotice handles POST /api/cart/stale-notice/dismiss.
func (h *CartHandler) DismissStaleNotice(w http.ResponseWriter, r *http.Request) {
	l, mode, ok := h.ledger(w, r)
	if !ok {
		return
	}
	l.DismissStaleNotice()
	writeJSON(w, http.StatusOK, toCartResponse(l, mode))
}
