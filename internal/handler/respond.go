package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/flamedough/api/internal/dashboard"
	"github.com/flamedough/api/internal/middleware"
	"github.com/flamedough/api/internal/session"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeInternal(w http.ResponseWriter, err error, op string) {
	log.Error().Err(err).Msg(op)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// decode reads a JSON body into v, replying 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// sessionOf returns the request's customer session, replying 401 when the
// Session middleware did not run.
func sessionOf(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s := middleware.SessionFromContext(r.Context())
	if s == nil {
		writeError(w, http.StatusUnauthorized, "no session")
		return nil, false
	}
	return s, true
}

func isNotFound(err error) bool {
	return errors.Is(err, dashboard.ErrCategoryNotFound) ||
		errors.Is(err, dashboard.ErrItemNotFound) ||
		errors.Is(err, dashboard.ErrGroupNotFound) ||
		errors.Is(err, dashboard.ErrOptionNotFound) ||
		errors.Is(err, dashboard.ErrDayNotFound)
}

func isValidationError(err error) bool {
	return errors.Is(err, dashboard.ErrInvalidStatus) ||
		errors.Is(err, dashboard.ErrInvalidIndex) ||
		errors.Is(err, dashboard.ErrInvalidGroupType) ||
		errors.Is(err, dashboard.ErrInvalidTime) ||
		errors.Is(err, dashboard.ErrInvalidAcceptMode)
}

// writeEditError maps a dashboard edit failure to a response.
func writeEditError(w http.ResponseWriter, err error, op string) {
	switch {
	case isNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case isValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeInternal(w, err, op)
	}
}
