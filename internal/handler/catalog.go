package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flamedough/api/internal/catalog"
	"github.com/flamedough/api/internal/configurator"
	"github.com/flamedough/api/internal/search"
)

// CatalogSource serves the published menu and restaurant, nil until published.
// Satisfied by *publication.Bridge; narrow interface for testability.
type CatalogSource interface {
	PublishedCategories() []catalog.Category
	PublishedRestaurant() *catalog.Restaurant
}

// CatalogHandler handles the customer-facing menu endpoints.
type CatalogHandler struct {
	catalog CatalogSource
}

func NewCatalogHandler(src CatalogSource) *CatalogHandler {
	return &CatalogHandler{catalog: src}
}

// RegisterRoutes registers catalog endpoints on the given Chi router.
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/menu", h.Menu)
	r.Get("/menu/search", h.Search)
	r.Post("/menu/items/{id}/quote", h.Quote)
	r.Get("/restaurant", h.Restaurant)
}

// --- Request / Response types ---

// configurationRequest is the customer's modifier selection for one item.
// Omitted single-select groups keep their default option.
type configurationRequest struct {
	RemovedIngredients []string            `json:"removedIngredients"`
	SingleSelections   map[string]string   `json:"singleSelections"`
	MultiSelections    map[string][]string `json:"multiSelections"`
	Quantity           int                 `json:"quantity"`
}

func (req configurationRequest) configuration(item catalog.MenuItem) configurator.Configuration {
	c := configurator.New(item)
	for _, ing := range req.RemovedIngredients {
		c.RemovedIngredients[ing] = true
	}
	for group, id := range req.SingleSelections {
		c.SelectSingle(group, id)
	}
	for group, ids := range req.MultiSelections {
		set := make(map[string]bool, len(ids))
		for _, id := range ids {
			set[id] = true
		}
		c.MultiSelections[group] = set
	}
	if req.Quantity != 0 {
		c.Quantity = req.Quantity
	}
	return c
}

type quoteResponse struct {
	UnitPrice  int64  `json:"unitPrice"`
	LineTotal  int64  `json:"lineTotal"`
	Valid      bool   `json:"valid"`
	UnmetGroup string `json:"unmetGroup,omitempty"`
	Error      string `json:"error,omitempty"`
}

// writeConfigError maps configurator rejections: 422 for an unmet required
// group, 400 for anything malformed.
func writeConfigError(w http.ResponseWriter, err error) {
	var unmet *configurator.RequiredGroupError
	if errors.As(err, &unmet) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error(), "group": unmet.Group})
		return
	}
	if errors.Is(err, configurator.ErrItemSoldOut) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

// --- Handlers ---

// Menu handles GET /api/menu. Categories are null until a live menu exists.
func (h *CatalogHandler) Menu(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"categories": h.catalog.PublishedCategories()})
}

// Search handles GET /api/menu/search?q=.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	hits := search.New(h.catalog.PublishedCategories()).Search(q)
	if hits == nil {
		hits = []search.Hit{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"query": q, "results": hits})
}

// Quote handles POST /api/menu/items/{id}/quote: prices a configuration
// without touching the cart.
func (h *CatalogHandler) Quote(w http.ResponseWriter, r *http.Request) {
	item, ok := catalog.FindItem(h.catalog.PublishedCategories(), chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "menu item not found")
		return
	}
	var req configurationRequest
	if !decode(w, r, &req) {
		return
	}

	c := req.configuration(item)
	resp := quoteResponse{UnitPrice: configurator.UnitPrice(item, c)}
	resp.LineTotal = resp.UnitPrice * int64(c.Quantity)
	if err := configurator.Check(item, c); err != nil {
		resp.Error = err.Error()
		var unmet *configurator.RequiredGroupError
		if errors.As(err, &unmet) {
			resp.UnmetGroup = unmet.Group
		}
	} else {
		resp.Valid = true
	}
	writeJSON(w, http.StatusOK, resp)
}

// Restaurant handles GET /api/restaurant.
func (h *CatalogHandler) Restaurant(w http.ResponseWriter, r *http.Request) {
	rest := h.catalog.PublishedRestaurant()
	if rest == nil {
		writeError(w, http.StatusNotFound, "restaurant not published")
		return
	}
	writeJSON(w, http.StatusOK, rest)
}
