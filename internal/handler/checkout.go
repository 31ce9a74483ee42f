package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flamedough/api/internal/cart"
	"github.com/flamedough/api/internal/service"
	"github.com/flamedough/api/internal/session"
)

// CheckoutServicer defines the service methods needed by checkout handlers.
// Satisfied by *service.CheckoutService; narrow interface for testability.
type CheckoutServicer interface {
	Open(sess *session.Session) *service.Attempt
	Current(sessionID string) (*service.Attempt, error)
	Close(sessionID string)
	Submit(ctx context.Context, sess *session.Session, ledger *cart.Ledger) (service.SubmitResult, error)
}

// CheckoutHandler handles the checkout form and order submission endpoints.
type CheckoutHandler struct {
	svc   CheckoutServicer
	carts CartSource
}

func NewCheckoutHandler(svc CheckoutServicer, carts CartSource) *CheckoutHandler {
	return &CheckoutHandler{svc: svc, carts: carts}
}

// RegisterRoutes registers checkout endpoints on the given Chi router.
// Expected to be mounted behind middleware.Session.
func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Post("/checkout", h.Open)
	r.Get("/checkout", h.Get)
	r.Delete("/checkout", h.Cancel)
	r.Put("/checkout/form", h.UpdateForm)
	r.Post("/checkout/submit", h.Submit)
}

// --- Request / Response types ---

type pinRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type updateFormRequest struct {
	Updates []service.FieldUpdate `json:"updates"`
	Pin     *pinRequest           `json:"pin"`
}

type validationResponse struct {
	Error      string            `json:"error"`
	Errors     map[string]string `json:"errors"`
	FirstError string            `json:"firstError"`
}

// --- Handlers ---

// Open handles POST /api/checkout. Reopening returns the same attempt and
// idempotency key.
func (h *CheckoutHandler) Open(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOf(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Open(sess).View())
}

// Get handles GET /api/checkout.
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOf(w, r)
	if !ok {
		return
	}
	a, err := h.svc.Current(sess.ID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, a.View())
}

// Cancel handles DELETE /api/checkout.
func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOf(w, r)
	if !ok {
		return
	}
	h.svc.Close(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

// UpdateForm handles PUT /api/checkout/form.
func (h *CheckoutHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOf(w, r)
	if !ok {
		return
	}
	a, err := h.svc.Current(sess.ID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	var req updateFormRequest
	if !decode(w, r, &req) {
		return
	}
	if err := a.Apply(req.Updates); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Pin != nil {
		a.SetPin(req.Pin.Lat, req.Pin.Lng)
	}
	writeJSON(w, http.StatusOK, a.View())
}

// Submit handles POST /api/checkout/submit. A transport failure answers
// 502 with the structured result; the attempt keeps its key for retry.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOf(w, r)
	if !ok {
		return
	}
	result, err := h.svc.Submit(r.Context(), sess, h.carts.Get(r.Context(), sess.ID))
	if err != nil {
		writeSubmitError(w, err)
		return
	}
	if !result.Success {
		writeJSON(w, http.StatusBadGateway, result)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func writeSubmitError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		errs := make(map[string]string, len(verr.Errors))
		for f, msg := range verr.Errors {
			errs[string(f)] = msg
		}
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{
			Error:      service.ErrFormInvalid.Error(),
			Errors:     errs,
			FirstError: string(verr.FirstError),
		})
	case errors.Is(err, service.ErrNoCheckout):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSubmissionInProgress):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrRestaurantClosed),
		errors.Is(err, service.ErrBelowMinimum),
		errors.Is(err, service.ErrModeUnavailable):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeInternal(w, err, "submit checkout")
	}
}
