package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/flamedough/api/internal/orders"
	"github.com/rs/zerolog/log"
)

// IdempotencyHeader carries the payload's idempotency key.
const IdempotencyHeader = "X-Idempotency-Key"

// User-facing submission failure messages.
const (
	msgNotConfigured = "Webhook URL is not configured. Please contact support."
	msgUnreachable   = "Could not reach the server. Please check your connection and try again."
)

// SubmitResult is the outcome of one submission attempt.
type SubmitResult struct {
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
	Order   *orders.Order `json:"order,omitempty"`
}

// Submitter hands a payload to the order workflow.
// Satisfied by *WebhookTransport; narrow interface for testability.
type Submitter interface {
	Submit(ctx context.Context, p orders.Payload) SubmitResult
}

// WebhookTransport posts payloads to the order automation webhook.
type WebhookTransport struct {
	url    string
	client *http.Client
}

func NewWebhookTransport(url string, timeout time.Duration) *WebhookTransport {
	return &WebhookTransport{url: url, client: &http.Client{Timeout: timeout}}
}

// Submit posts p. Every failure becomes a SubmitResult with a message for
// the customer; it never returns an error.
func (t *WebhookTransport) Submit(ctx context.Context, p orders.Payload) SubmitResult {
	if t.url == "" {
		log.Error().Msg("order webhook url is not set")
		return SubmitResult{Error: msgNotConfigured}
	}

	body, err := json.Marshal(p)
	if err != nil {
		log.Error().Err(err).Str("idempotency_key", p.IdempotencyKey).Msg("encode order payload")
		return SubmitResult{Error: msgUnreachable}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		log.Error().Err(err).Msg("build webhook request")
		return SubmitResult{Error: msgNotConfigured}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(IdempotencyHeader, p.IdempotencyKey)

	resp, err := t.client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("idempotency_key", p.IdempotencyKey).Msg("order webhook network error")
		return SubmitResult{Error: msgUnreachable}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Error().
			Int("status", resp.StatusCode).
			Str("body", string(text)).
			Str("idempotency_key", p.IdempotencyKey).
			Msg("order webhook rejected")
		return SubmitResult{Error: fmt.Sprintf("Order submission failed (%d). Please try again.", resp.StatusCode)}
	}
	io.Copy(io.Discard, resp.Body)
	return SubmitResult{Success: true}
}
