package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/flamedough/api/internal/dashboard"
)

// ModifierHandler handles modifier group and option CRUD on menu items.
type ModifierHandler struct {
	editor MenuEditor
}

// NewModifierHandler creates a new ModifierHandler.
func NewModifierHandler(editor MenuEditor) *ModifierHandler {
	return &ModifierHandler{editor: editor}
}

// RegisterRoutes registers modifier endpoints on the given Chi router.
// Expected to be mounted at /dashboard/menu/items/{iid}/groups.
func (h *ModifierHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.CreateGroup)
	r.Patch("/{gid}", h.UpdateGroup)
	r.Delete("/{gid}", h.DeleteGroup)
	r.Post("/{gid}/options", h.CreateOption)
	r.Patch("/{gid}/options/{oid}", h.UpdateOption)
	r.Delete("/{gid}/options/{oid}", h.DeleteOption)
}

// validBounds rejects selection bounds that no selection could satisfy.
func validBounds(lo, hi *int) bool {
	if lo != nil && *lo < 0 {
		return false
	}
	if hi != nil && *hi < 0 {
		return false
	}
	return lo == nil || hi == nil || *lo <= *hi
}

// --- Group handlers ---

// CreateGroup handles POST /dashboard/menu/items/{iid}/groups.
func (h *ModifierHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req dashboard.GroupInput
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !validBounds(&req.MinSelections, &req.MaxSelections) {
		writeError(w, http.StatusBadRequest, "invalid selection bounds")
		return
	}

	var created dashboard.ModifierGroup
	_, err := h.editor.Edit(r.Context(), func(m *dashboard.Menu, newID func() string) error {
		var err error
		created, err = m.AddModifierGroup(chi.URLParam(r, "iid"), req, newID)
		return err
	})
	if err != nil {
		writeEditError(w, err, "create modifier group")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateGroup handles PATCH /dashboard/menu/items/{iid}/groups/{gid}.
func (h *ModifierHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	var req dashboard.GroupPatch
	if !decode(w, r, &req) {
		return
	}
	if !validBounds(req.MinSelections, req.MaxSelections) {
		writeError(w, http.StatusBadRequest, "invalid selection bounds")
		return
	}
	m, err := h.editor.Edit(r.Context(), func(m *dashboard.Menu, _ func() string) error {
		return m.UpdateModifierGroup(chi.URLParam(r, "iid"), chi.URLParam(r, "gid"), req)
	})
	if err != nil {
		writeEditError(w, err, "update modifier group")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// DeleteGroup handles DELETE /dashboard/menu/items/{iid}/groups/{gid}.
func (h *ModifierHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	_, err := h.editor.Edit(r.Context(), func(m *dashboard.Menu, _ func() string) error {
		return m.DeleteModifierGroup(chi.URLParam(r, "iid"), chi.URLParam(r, "gid"))
	})
	if err != nil {
		writeEditError(w, err, "delete modifier group")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Option handlers ---

// CreateOption handles POST /dashboard/menu/items/{iid}/groups/{gid}/options.
func (h *ModifierHandler) CreateOption(w http.ResponseWriter, r *http.Request) {
	var req dashboard.ModifierOption
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	var created dashboard.ModifierOption
	_, err := h.editor.Edit(r.Context(), func(m *dashboard.Menu, newID func() string) error {
		var err error
		created, err = m.AddModifierOption(chi.URLParam(r, "iid"), chi.URLParam(r, "gid"), req, newID)
		return err
	})
	if err != nil {
		writeEditError(w, err, "create modifier option")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateOption handles PATCH /dashboard/menu/items/{iid}/groups/{gid}/options/{oid}.
func (h *ModifierHandler) UpdateOption(w http.ResponseWriter, r *http.Request) {
	var req dashboard.OptionPatch
	if !decode(w, r, &req) {
		return
	}
	m, err := h.editor.Edit(r.Context(), func(m *dashboard.Menu, _ func() string) error {
		return m.UpdateModifierOption(chi.URLParam(r, "iid"), chi.URLParam(r, "gid"), chi.URLParam(r, "oid"), req)
	})
	if err != nil {
		writeEditError(w, err, "update modifier option")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// DeleteOption handles DELETE /dashboard/menu/items/{iid}/groups/{gid}/options/{oid}.
func (h *ModifierHandler) DeleteOption(w http.ResponseWriter, r *http.Request) {
	_, err := h.editor.Edit(r.Context(), func(m *dashboard.Menu, _ func() string) error {
		return m.DeleteModifierOption(chi.URLParam(r, "iid"), chi.URLParam(r, "gid"), chi.URLParam(r, "oid"))
	})
	if err != nil {
		writeEditError(w, err, "delete modifier option")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
