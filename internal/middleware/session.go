package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/flamedough/api/internal/session"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type contextKey string

const sessionKey contextKey = "session"

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "sid"
)

// Session resolves the customer session of every storefront request. The
// id comes from the X-Session-ID header or the sid cookie; a fresh one is
// issued as a cookie otherwise. A WhatsApp hand-off in the query string is
// verified once and remembered for the session.
func Session(store *session.Store, verifier *session.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(SessionHeader))
			if id == "" {
				if c, err := r.Cookie(SessionCookie); err == nil {
					id = c.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			w.Header().Set(SessionHeader, id)

			if wa, ok := session.FromQuery(r.URL.Query()); ok {
				if err := verifier.Verify(wa); err != nil {
					log.Warn().Err(err).Str("session", id).Msg("reject whatsapp hand-off")
				} else {
					store.Put(id, wa)
				}
			}

			s := &session.Session{ID: id, WhatsApp: store.Get(id)}
			ctx := context.WithValue(r.Context(), sessionKey, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession rejects requests that did not pass through Session.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromContext(r.Context()) == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no session"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func SessionFromContext(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey).(*session.Session)
	return s
}

// WithSession returns ctx carrying s, for tests and internal callers.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
