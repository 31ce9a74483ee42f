package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flamedough/api/internal/dashboard"
)

// SettingsEditor reads and atomically edits the settings document.
// Satisfied by *dashboard.SettingsEditor; narrow interface for testability.
type SettingsEditor interface {
	Get(ctx context.Context) (dashboard.Settings, error)
	Edit(ctx context.Context, fn func(s *dashboard.Settings) error) (dashboard.Settings, error)
	Reset(ctx context.Context) (dashboard.Settings, error)
}

// SettingsHandler handles the dashboard restaurant settings.
type SettingsHandler struct {
	editor SettingsEditor
}

func NewSettingsHandler(editor SettingsEditor) *SettingsHandler {
	return &SettingsHandler{editor: editor}
}

// RegisterRoutes registers settings endpoints on the given Chi router.
// Expected to be mounted at /dashboard/settings.
func (h *SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Patch("/profile", h.UpdateProfile)
	r.Patch("/hours/{day}", h.UpdateHours)
	r.Patch("/delivery", h.UpdateDelivery)
	r.Put("/order-accept-mode", h.SetOrderAcceptMode)
	r.Put("/notification-phone", h.SetNotificationPhone)
	r.Post("/reset", h.Reset)
}

type acceptModeRequest struct {
	Mode string `json:"mode"`
}

type phoneRequest struct {
	Phone string `json:"phone"`
}

// Get handles GET /dashboard/settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.editor.Get(r.Context())
	if err != nil {
		writeInternal(w, err, "get settings")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// edit applies fn and writes the resulting settings document.
func (h *SettingsHandler) edit(w http.ResponseWriter, r *http.Request, op string, fn func(s *dashboard.Settings) error) {
	s, err := h.editor.Edit(r.Context(), fn)
	if err != nil {
		writeEditError(w, err, op)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// UpdateProfile handles PATCH /dashboard/settings/profile.
func (h *SettingsHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req dashboard.ProfilePatch
	if !decode(w, r, &req) {
		return
	}
	h.edit(w, r, "update profile", func(s *dashboard.Settings) error {
		s.UpdateProfile(req)
		return nil
	})
}

// UpdateHours handles PATCH /dashboard/settings/hours/{day}, day being mon..sun.
func (h *SettingsHandler) UpdateHours(w http.ResponseWriter, r *http.Request) {
	var req dashboard.HoursPatch
	if !decode(w, r, &req) {
		return
	}
	h.edit(w, r, "update working hours", func(s *dashboard.Settings) error {
		return s.UpdateWorkingHours(chi.URLParam(r, "day"), req)
	})
}

// UpdateDelivery handles PATCH /dashboard/settings/delivery.
func (h *SettingsHandler) UpdateDelivery(w http.ResponseWriter, r *http.Request) {
	var req dashboard.DeliveryPatch
	if !decode(w, r, &req) {
		return
	}
	for _, v := range []*int64{req.DeliveryFee, req.FreeDeliveryThreshold, req.MinOrderAmount} {
		if v != nil && *v < 0 {
			writeError(w, http.StatusBadRequest, "amounts must be >= 0")
			return
		}
	}
	h.edit(w, r, "update delivery", func(s *dashboard.Settings) error {
		s.UpdateDelivery(req)
		return nil
	})
}

// SetOrderAcceptMode handles PUT /dashboard/settings/order-accept-mode.
func (h *SettingsHandler) SetOrderAcceptMode(w http.ResponseWriter, r *http.Request) {
	var req acceptModeRequest
	if !decode(w, r, &req) {
		return
	}
	h.edit(w, r, "set order accept mode", func(s *dashboard.Settings) error {
		return s.SetOrderAcceptMode(req.Mode)
	})
}

// SetNotificationPhone handles PUT /dashboard/settings/notification-phone.
func (h *SettingsHandler) SetNotificationPhone(w http.ResponseWriter, r *http.Request) {
	var req phoneRequest
	if !decode(w, r, &req) {
		return
	}
	h.edit(w, r, "set notification phone", func(s *dashboard.Settings) error {
		s.SetNotificationPhone(req.Phone)
		return nil
	})
}

// Reset handles POST /dashboard/settings/reset.
func (h *SettingsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	s, err := h.editor.Reset(r.Context())
	if err != nil {
		writeInternal(w, err, "reset settings")
		return
	}
	writeJSON(w, http.StatusOK, s)
}
