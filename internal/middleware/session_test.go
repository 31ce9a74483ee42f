package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flamedough/api/internal/enum"
	"github.com/flamedough/api/internal/middleware"
	"github.com/flamedough/api/internal/session"
)

const testSecret = "test-secret"

func captureSession(t *testing.T, got **session.Session) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = middleware.SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestSessionMiddleware_IssuesCookie(t *testing.T) {
	var s *session.Session
	handler := middleware.Session(session.NewStore(), session.NewVerifier(""))(captureSession(t, &s))

	req := httptest.NewRequest("GET", "/api/cart", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if s == nil || s.ID == "" {
		t.Fatal("expected session in context")
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != middleware.SessionCookie || cookies[0].Value != s.ID {
		t.Errorf("cookie: got %v", cookies)
	}
	if s.Source() != enum.SourceWeb {
		t.Errorf("source: got %q", s.Source())
	}
}

func TestSessionMiddleware_HeaderWins(t *testing.T) {
	var s *session.Session
	handler := middleware.Session(session.NewStore(), session.NewVerifier(""))(captureSession(t, &s))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(middleware.SessionHeader, "abc")
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "cookie-id"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if s.ID != "abc" {
		t.Errorf("id: got %q, want abc", s.ID)
	}
	if len(rr.Result().Cookies()) != 0 {
		t.Error("expected no new cookie")
	}
}

func TestSessionMiddleware_WhatsAppHandOffRemembered(t *testing.T) {
	token, err := session.IssueToken(testSecret, "905321234567", "Ayşe", time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	store := session.NewStore()
	var s *session.Session
	handler := middleware.Session(store, session.NewVerifier(testSecret))(captureSession(t, &s))

	req := httptest.NewRequest("GET", "/?wa_phone=905321234567&wa_token="+token, nil)
	req.Header.Set(middleware.SessionHeader, "s1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if s.Source() != enum.SourceWhatsApp {
		t.Fatalf("source: got %q", s.Source())
	}
	if s.WhatsApp.Name != "Ayşe" {
		t.Errorf("name: got %q", s.WhatsApp.Name)
	}

	// Later requests carry no query parameters.
	req = httptest.NewRequest("GET", "/api/checkout", nil)
	req.Header.Set(middleware.SessionHeader, "s1")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if s.WhatsApp == nil || s.WhatsApp.Phone != "+905321234567" {
		t.Errorf("expected remembered hand-off, got %+v", s.WhatsApp)
	}
}

func TestSessionMiddleware_BadTokenFallsBackToWeb(t *testing.T) {
	var s *session.Session
	handler := middleware.Session(session.NewStore(), session.NewVerifier(testSecret))(captureSession(t, &s))

	req := httptest.NewRequest("GET", "/?wa_phone=905321234567&wa_token=forged", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d", rr.Code)
	}
	if s.Source() != enum.SourceWeb {
		t.Errorf("source: got %q", s.Source())
	}
}

func TestRequireSession(t *testing.T) {
	handler := middleware.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}
