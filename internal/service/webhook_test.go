package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flamedough/api/internal/orders"
)

func TestWebhookTransport_Success(t *testing.T) {
	var (
		gotKey  string
		gotBody orders.Payload
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get(IdempotencyHeader)
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type: got %q", ct)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	tr := NewWebhookTransport(srv.URL, time.Second)
	res := tr.Submit(context.Background(), orders.Payload{IdempotencyKey: "ord_1"})

	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if gotKey != "ord_1" || gotBody.IdempotencyKey != "ord_1" {
		t.Errorf("key: header %q body %q", gotKey, gotBody.IdempotencyKey)
	}
}

func TestWebhookTransport_Failures(t *testing.T) {
	rejecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer rejecting.Close()

	closed := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"not configured", "", "Webhook URL is not configured. Please contact support."},
		{"non-2xx", rejecting.URL, "Order submission failed (502). Please try again."},
		{"unreachable", closedURL, "Could not reach the server. Please check your connection and try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewWebhookTransport(tt.url, time.Second).Submit(context.Background(), orders.Payload{IdempotencyKey: "k"})
			if res.Success {
				t.Fatal("expected failure")
			}
			if res.Error != tt.want {
				t.Errorf("error: got %q, want %q", res.Error, tt.want)
			}
		})
	}
}
