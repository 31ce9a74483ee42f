package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/flamedough/api/internal/dashboard"
	"github.com/flamedough/api/internal/enum"
)

// ItemHandler handles dashboard menu item CRUD and stock.
type ItemHandler struct {
	editor MenuEditor
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(editor MenuEditor) *ItemHandler {
	return &ItemHandler{editor: editor}
}

// RegisterRoutes registers single-item endpoints on the given Chi router.
// Expected to be mounted at /dashboard/menu/items/{iid}.
func (h *ItemHandler) RegisterRoutes(r chi.Router) {
	r.Patch("/", h.Update)
	r.Put("/stock", h.SetStock)
}

// RegisterCategoryRoutes registers the category-scoped item endpoints.
// Expected to be mounted at /dashboard/menu/categories/{cid}/items.
func (h *ItemHandler) RegisterCategoryRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Delete("/{iid}", h.Delete)
	r.Post("/{iid}/duplicate", h.Duplicate)
	r.Post("/{iid}/toggle-stock", h.ToggleStock)
}

type stockRequest struct {
	StockStatus string `json:"stockStatus"`
}

// Create handles POST /dashboard/menu/categories/{cid}/items. The new item
// is a placeholder edited afterwards.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var created dashboard.MenuItem
	_, err := h.editor.Edit(r.Context(), func(m *dashboard.Menu, newID func() string) error {
		var err error
		created, err = m.AddItem(chi.URLParam(r, "cid"), newID)
		return err
	})
	if err != nil {
		writeEditError(w, err, "create item")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PATCH /dashboard/menu/items/{iid}.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dashboard.ItemPatch
	if !decode(w, r, &req) {
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name cannot be empty")
		return
	}
	if req.BasePrice != nil && *req.BasePrice < 0 {
		writeError(w, http.StatusBadRequest, "basePrice must be >= 0")
		return
	}
	if req.TaxRate != nil && (*req.TaxRate < 0 || *req.TaxRate > 100) {
		writeError(w, http.StatusBadRequest, "taxRate must be between 0 and 100")
		return
	}
	m, err := h.editor.Edit(r.Context(), func(m *dashboard.Menu, _ func() string) error {
		return m.UpdateItem(chi.URLParam(r, "iid"), req)
	})
	if err != nil {
		writeEditError(w, err, "update item")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// Delete handles DELETE /dashboard/menu/categories/{cid}/items/{iid}.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_, err := h.editor.Edit(r.Context(), func(m *dashboard.Menu, _ func() string) error {
		return m.DeleteItem(chi.URLParam(r, "cid"), chi.URLParam(r, "iid"))
	})
	if err != nil {
		writeEditError(w, err, "delete item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Duplicate handles POST /dashboard/menu/categories/{cid}/items/{iid}/duplicate.
func (h *ItemHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	var dup dashboard.MenuItem
	_, err := h.editor.Edit(r.Context(), func(m *dashboard.Menu, newID func() string) error {
		var err error
		dup, err = m.DuplicateItem(chi.URLParam(r, "cid"), chi.URLParam(r, "iid"), newID)
		return err
	})
	if err != nil {
		writeEditError(w, err, "duplicate item")
		return
	}
	writeJSON(w, http.StatusCreated, dup)
}

// ToggleStock handles POST /dashboard/menu/categories/{cid}/items/{iid}/toggle-stock.
func (h *ItemHandler) ToggleStock(w http.ResponseWriter, r *http.Request) {
	var status enum.StockStatus
	_, err := h.editor.Edit(r.Context(), func(m *dashboard.Menu, _ func() string) error {
		var err error
		status, err = m.ToggleItemStock(chi.URLParam(r, "cid"), chi.URLParam(r, "iid"))
		return err
	})
	if err != nil {
		writeEditError(w, err, "toggle item stock")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"stockStatus": string(status)})
}

// SetStock handles PUT /dashboard/menu/items/{iid}/stock.
func (h *ItemHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if !decode(w, r, &req) {
		return
	}
	status := enum.StockStatus(req.StockStatus)
	m, err := h.editor.Edit(r.Context(), func(m *dashboard.Menu, _ func() string) error {
		return m.UpdateItem(chi.URLParam(r, "iid"), dashboard.ItemPatch{StockStatus: &status})
	})
	if err != nil {
		writeEditError(w, err, "set item stock")
		return
	}
	writeJSON(w, http.StatusOK, m)
}
