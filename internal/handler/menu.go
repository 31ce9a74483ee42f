package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flamedough/api/internal/dashboard"
	"github.com/flamedough/api/internal/enum"
)

// MenuEditor reads and atomically edits the dashboard menu document.
// Satisfied by *dashboard.MenuEditor; narrow interface for testability.
type MenuEditor interface {
	Get(ctx context.Context) (dashboard.Menu, error)
	Edit(ctx context.Context, fn func(m *dashboard.Menu, newID func() string) error) (dashboard.Menu, error)
}

// MenuHandler handles the dashboard menu document and its status.
type MenuHandler struct {
	editor MenuEditor
}

func NewMenuHandler(editor MenuEditor) *MenuHandler {
	return &MenuHandler{editor: editor}
}

// RegisterRoutes registers menu endpoints on the given Chi router.
// Expected to be mounted at /dashboard/menu.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Put("/status", h.SetStatus)
}

type menuStatusRequest struct {
	Status string `json:"status"`
}

// Get handles GET /dashboard/menu.
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.editor.Get(r.Context())
	if err != nil {
		writeInternal(w, err, "get menu")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// SetStatus handles PUT /dashboard/menu/status. Only live menus are published.
func (h *MenuHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req menuStatusRequest
	if !decode(w, r, &req) {
		return
	}
	m, err := h.editor.Edit(r.Context(), func(m *dashboard.Menu, _ func() string) error {
		return m.SetStatus(enum.MenuStatus(req.Status))
	})
	if err != nil {
		writeEditError(w, err, "set menu status")
		return
	}
	writeJSON(w, http.StatusOK, m)
}
