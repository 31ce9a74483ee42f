package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/flamedough/api/internal/dashboard"
)

// CategoryHandler handles dashboard category CRUD.
type CategoryHandler struct {
	editor MenuEditor
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(editor MenuEditor) *CategoryHandler {
	return &CategoryHandler{editor: editor}
}

// RegisterRoutes registers category endpoints on the given Chi router.
// Expected to be mounted at /dashboard/menu/categories.
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Post("/reorder", h.Reorder)
	r.Patch("/{cid}", h.Update)
	r.Delete("/{cid}", h.Delete)
	r.Post("/{cid}/duplicate", h.Duplicate)
}

// --- Request types ---

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type reorderRequest struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

// --- Handlers ---

// Create handles POST /dashboard/menu/categories.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if !decode(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	var created dashboard.Category
	_, err := h.editor.Edit(r.Context(), func(m *dashboard.Menu, newID func() string) error {
		created = m.AddCategory(req.Name, req.Description, newID)
		return nil
	})
	if err != nil {
		writeEditError(w, err, "create category")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PATCH /dashboard/menu/categories/{cid}.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dashboard.CategoryPatch
	if !decode(w, r, &req) {
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name cannot be empty")
		return
	}
	m, err := h.editor.Edit(r.Context(), func(m *dashboard.Menu, _ func() string) error {
		return m.UpdateCategory(chi.URLParam(r, "cid"), req)
	})
	if err != nil {
		writeEditError(w, err, "update category")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// Delete handles DELETE /dashboard/menu/categories/{cid}.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_, err := h.editor.Edit(r.Context(), func(m *dashboard.Menu, _ func() string) error {
		return m.DeleteCategory(chi.URLParam(r, "cid"))
	})
	if err != nil {
		writeEditError(w, err, "delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Duplicate handles POST /dashboard/menu/categories/{cid}/duplicate.
func (h *CategoryHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	var dup dashboard.Category
	_, err := h.editor.Edit(r.Context(), func(m *dashboard.Menu, newID func() string) error {
		var err error
		dup, err = m.DuplicateCategory(chi.URLParam(r, "cid"), newID)
		return err
	})
	if err != nil {
		writeEditError(w, err, "duplicate category")
		return
	}
	writeJSON(w, http.StatusCreated, dup)
}

// Reorder handles POST /dashboard/menu/categories/reorder.
func (h *CategoryHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decode(w, r, &req) {
		return
	}
	if req.From == nil || req.To == nil {
		writeError(w, http.StatusBadRequest, "from and to are required")
		return
	}
	m, err := h.editor.Edit(r.Context(), func(m *dashboard.Menu, _ func() string) error {
		return m.ReorderCategories(*req.From, *req.To)
	})
	if err != nil {
		writeEditError(w, err, "reorder categories")
		return
	}
	writeJSON(w, http.StatusOK, m)
}
