package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/flamedough/api/internal/cart"
	"github.com/flamedough/api/internal/catalog"
	"github.com/flamedough/api/internal/checkout"
	"github.com/flamedough/api/internal/enum"
	"github.com/flamedough/api/internal/orders"
	"github.com/flamedough/api/internal/session"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Errors returned by the checkout service.
// AttemptIdleTimeout is how long an abandoned checkout is kept.
const AttemptIdleTimeout = 24 * time.Hour

var (
	ErrNoCheckout           = errors.New("no open checkout")
	ErrSubmissionInProgress = errors.New("submission in progress")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrFormInvalid          = errors.New("checkout form is invalid")
	ErrInvalidField         = errors.New("invalid form field")
	ErrRestaurantClosed     = errors.New("restaurant is closed")
	ErrBelowMinimum         = errors.New("subtotal is below the minimum order amount")
	ErrModeUnavailable      = errors.New("order mode is not available")
)

// OrderPusher records a successfully submitted order.
// Satisfied by *orders.Bridge; narrow interface for testability.
type OrderPusher interface {
	PushOrder(ctx context.Context, p orders.Payload) (orders.Order, error)
}

// RestaurantSource reports the published restaurant, nil until published.
// Satisfied by *publication.Bridge.
type RestaurantSource interface {
	PublishedRestaurant() *catalog.Restaurant
}

// Attempt is one checkout session: its idempotency key, form state and the
// last submission error. The key is generated once and reused on retry.
type Attempt struct {
	mu        sync.Mutex
	key       string
	state     *checkout.State
	inFlight  bool
	lastError string
	touched   time.Time
}

// AttemptView is the JSON view of an attempt.
type AttemptView struct {
	IdempotencyKey string                    `json:"idempotencyKey"`
	Form           checkout.Form             `json:"form"`
	Errors         map[checkout.Field]string `json:"errors"`
	Touched        map[checkout.Field]bool   `json:"touched"`
	PhoneLocked    bool                      `json:"phoneLocked"`
	Submitting     bool                      `json:"submitting"`
	LastError      string                    `json:"lastError,omitempty"`
}

func (a *Attempt) View() AttemptView {
	a.mu.Lock()
	defer a.mu.Unlock()
	errs := make(map[checkout.Field]string, len(a.state.Errors))
	for k, v := range a.state.Errors {
		errs[k] = v
	}
	touched := make(map[checkout.Field]bool, len(a.state.Touched))
	for k, v := range a.state.Touched {
		touched[k] = v
	}
	return AttemptView{
		IdempotencyKey: a.key,
		Form:           a.state.Form,
		Errors:         errs,
		Touched:        touched,
		PhoneLocked:    a.state.PhoneLocked,
		Submitting:     a.inFlight,
		LastError:      a.lastError,
	}
}

func (a *Attempt) touch(now time.Time) {
	a.mu.Lock()
	a.touched = now
	a.mu.Unlock()
}

// FieldUpdate is one form edit. Blur marks the field touched.
type FieldUpdate struct {
	Field checkout.Field `json:"field"`
	Value string         `json:"value"`
	Blur  bool           `json:"blur"`
}

// Apply edits the form.
func (a *Attempt) Apply(updates []FieldUpdate) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, u := range updates {
		if err := a.state.SetField(u.Field, u.Value); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidField, err)
		}
		if u.Blur {
			a.state.Blur(u.Field)
		}
	}
	return nil
}

// SetPin moves the delivery pin.
func (a *Attempt) SetPin(lat, lng float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.SetPin(lat, lng)
}

// ValidationError lists the offending fields of a rejected submission.
type ValidationError struct {
	Errors     map[checkout.Field]string
	FirstError checkout.Field
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: first error on %s", ErrFormInvalid, e.FirstError)
}

func (e *ValidationError) Unwrap() error { return ErrFormInvalid }

// CheckoutService runs the order submission pipeline per customer session.
type CheckoutService struct {
	submitter  Submitter
	pusher     OrderPusher
	restaurant RestaurantSource
	now        func() time.Time
	newKey     func() string

	mu       sync.Mutex
	attempts map[string]*Attempt
}

func NewCheckoutService(submitter Submitter, pusher OrderPusher, restaurant RestaurantSource) *CheckoutService {
	return &CheckoutService{
		submitter:  submitter,
		pusher:     pusher,
		restaurant: restaurant,
		now:        time.Now,
		newKey:     newIdempotencyKey,
		attempts:   make(map[string]*Attempt),
	}
}

func newIdempotencyKey() string {
	return fmt.Sprintf("ord_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// Open returns the session's checkout attempt, starting one if needed.
// A WhatsApp session pre-fills and locks the phone and pre-fills the name.
func (s *CheckoutService) Open(sess *session.Session) *Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.attempts[sess.ID]; ok {
		a.touch(s.now())
		return a
	}
	var phone, name string
	if sess.WhatsApp != nil {
		phone, name = sess.WhatsApp.Phone, sess.WhatsApp.Name
	}
	a := &Attempt{key: s.newKey(), state: checkout.NewState(phone, name), touched: s.now()}
	s.attempts[sess.ID] = a
	return a
}

// Current returns the open attempt of a session.
func (s *CheckoutService) Current(sessionID string) (*Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[sessionID]
	if !ok {
		return nil, ErrNoCheckout
	}
	a.touch(s.now())
	return a, nil
}

// Close abandons the session's attempt; the next Open gets a fresh key.
func (s *CheckoutService) Close(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, sessionID)
}

// Submit validates the form, checks the restaurant gate, builds the
// payload and hands it to the transport. A transport failure is returned
// as an unsuccessful result and the attempt stays open for retry with the
// same key. On success the order is recorded, the cart cleared and the
// attempt closed.
func (s *CheckoutService) Submit(ctx context.Context, sess *session.Session, ledger *cart.Ledger) (SubmitResult, error) {
	a, err := s.Current(sess.ID)
	if err != nil {
		return SubmitResult{}, err
	}

	a.mu.Lock()
	if a.inFlight {
		a.mu.Unlock()
		return SubmitResult{}, ErrSubmissionInProgress
	}
	payload, err := s.prepare(a, sess, ledger)
	if err != nil {
		a.mu.Unlock()
		return SubmitResult{}, err
	}
	a.inFlight = true
	a.lastError = ""
	a.mu.Unlock()

	result := s.submitter.Submit(ctx, payload)

	if !result.Success {
		a.mu.Lock()
		a.inFlight = false
		a.lastError = result.Error
		a.touched = s.now()
		a.mu.Unlock()
		return result, nil
	}

	// The attempt stays in flight until it is closed.
	order, err := s.pusher.PushOrder(ctx, payload)
	if err != nil {
		log.Error().Err(err).Str("idempotency_key", payload.IdempotencyKey).Msg("push order")
	} else {
		result.Order = &order
	}
	ledger.Clear(ctx)
	s.Close(sess.ID)

	a.mu.Lock()
	a.inFlight = false
	a.mu.Unlock()
	return result, nil
}

// Sweep drops attempts untouched for longer than AttemptIdleTimeout.
// Attempts with a submission in flight are kept.
func (s *CheckoutService) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, a := range s.attempts {
		a.mu.Lock()
		idle := !a.inFlight && now.Sub(a.touched) > AttemptIdleTimeout
		a.mu.Unlock()
		if idle {
			delete(s.attempts, id)
			n++
		}
	}
	return n
}

// prepare runs the submission gate. Callers hold a.mu.
func (s *CheckoutService) prepare(a *Attempt, sess *session.Session, ledger *cart.Ledger) (orders.Payload, error) {
	items := ledger.Items()
	if len(items) == 0 {
		return orders.Payload{}, ErrEmptyCart
	}

	if !a.state.ValidateAll() {
		first, _ := a.state.FirstError()
		errs := make(map[checkout.Field]string, len(a.state.Errors))
		for k, v := range a.state.Errors {
			errs[k] = v
		}
		return orders.Payload{}, &ValidationError{Errors: errs, FirstError: first}
	}

	mode := a.state.Form.Mode
	subtotal := ledger.Subtotal()
	var r *catalog.Restaurant
	if s.restaurant != nil {
		r = s.restaurant.PublishedRestaurant()
	}
	if r != nil {
		if !r.IsOpen {
			return orders.Payload{}, ErrRestaurantClosed
		}
		if subtotal < r.MinOrder {
			return orders.Payload{}, fmt.Errorf("%d < %d: %w", subtotal, r.MinOrder, ErrBelowMinimum)
		}
		if (mode == enum.OrderModeDelivery && !r.DeliveryAvailable) ||
			(mode == enum.OrderModePickup && !r.PickupAvailable) {
			return orders.Payload{}, fmt.Errorf("%s: %w", mode, ErrModeUnavailable)
		}
	}

	fee := ledger.DeliveryFee(mode)
	return BuildPayload(
		a.state.Form,
		items,
		subtotal,
		fee,
		subtotal+fee,
		a.key,
		sess.Source() == enum.SourceWhatsApp,
		s.now(),
	), nil
}
