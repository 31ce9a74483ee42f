package handler_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/flamedough/api/internal/cart"
	"github.com/flamedough/api/internal/catalog"
	"github.com/flamedough/api/internal/checkout"
	"github.com/flamedough/api/internal/configurator"
	"github.com/flamedough/api/internal/enum"
	"github.com/flamedough/api/internal/handler"
	"github.com/flamedough/api/internal/orders"
	"github.com/flamedough/api/internal/service"
)

// --- Mock implementations ---

type mockSubmitter struct {
	mu       sync.Mutex
	fail     string
	payloads []orders.Payload
	started  chan struct{}
	release  chan struct{}
}

func (m *mockSubmitter) Submit(_ context.Context, p orders.Payload) service.SubmitResult {
	if m.started != nil {
		m.started <- struct{}{}
		<-m.release
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads = append(m.payloads, p)
	if m.fail != "" {
		return service.SubmitResult{Error: m.fail}
	}
	return service.SubmitResult{Success: true}
}

type mockPusher struct {
	mu     sync.Mutex
	pushed []orders.Payload
}

func (m *mockPusher) PushOrder(_ context.Context, p orders.Payload) (orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pushed = append(m.pushed, p)
	return orders.Order{ID: p.IdempotencyKey, OrderNumber: "#0001", Status: enum.OrderStatusNew}, nil
}

type checkoutFixture struct {
	router    *chi.Mux
	carts     *cart.Registry
	submitter *mockSubmitter
	pusher    *mockPusher
	src       *staticCatalog
}

func setupCheckout(t *testing.T) *checkoutFixture {
	t.Helper()
	f := &checkoutFixture{
		carts:     cart.NewRegistry(cart.NewMemoryStorage(), cart.WithDeliveryFee(func() (int64, bool) { return 15, true })),
		submitter: &mockSubmitter{},
		pusher:    &mockPusher{},
		src:       testCatalog(),
	}
	svc := service.NewCheckoutService(f.submitter, f.pusher, f.src)
	f.router = storefrontRouter(handler.NewCheckoutHandler(svc, f.carts).RegisterRoutes)
	return f
}

func (f *checkoutFixture) fillCart(qty int) {
	ctx := context.Background()
	f.carts.Get(ctx, testSessionID).Add(ctx, configurator.Line{
		MenuItemID: "adana", Name: "Adana Kebap", BasePrice: 180, UnitPrice: 180, Quantity: qty,
	})
}

func validFormUpdates() map[string]interface{} {
	return map[string]interface{}{
		"updates": []service.FieldUpdate{
			{Field: checkout.FieldFullName, Value: "Ayşe Yılmaz"},
			{Field: checkout.FieldPhone, Value: "0532 123 45 67"},
			{Field: checkout.FieldAddressLine, Value: "Moda Cd. 12"},
			{Field: checkout.FieldBuildingNo, Value: "4"},
			{Field: checkout.FieldDistrict, Value: "Kadıköy"},
		},
	}
}

func (f *checkoutFixture) openWithValidForm(t *testing.T) string {
	t.Helper()
	rr := doRequest(t, f.router, "POST", "/api/checkout", nil)
	expectStatus(t, rr, http.StatusOK)
	key, _ := decodeMap(t, rr)["idempotencyKey"].(string)
	if key == "" {
		t.Fatal("expected idempotencyKey")
	}
	rr = doRequest(t, f.router, "PUT", "/api/checkout/form", validFormUpdates())
	expectStatus(t, rr, http.StatusOK)
	return key
}

// --- Tests ---

func TestCheckoutOpen_ReusesKey(t *testing.T) {
	f := setupCheckout(t)

	rr := doRequest(t, f.router, "POST", "/api/checkout", nil)
	expectStatus(t, rr, http.StatusOK)
	first := decodeMap(t, rr)["idempotencyKey"]

	rr = doRequest(t, f.router, "POST", "/api/checkout", nil)
	expectStatus(t, rr, http.StatusOK)
	if again := decodeMap(t, rr)["idempotencyKey"]; again != first {
		t.Errorf("key changed on reopen: %v -> %v", first, again)
	}
}

func TestCheckoutGet_NoneOpen(t *testing.T) {
	f := setupCheckout(t)

	rr := doRequest(t, f.router, "GET", "/api/checkout", nil)
	expectStatus(t, rr, http.StatusNotFound)

	rr = doRequest(t, f.router, "PUT", "/api/checkout/form", validFormUpdates())
	expectStatus(t, rr, http.StatusNotFound)
}

func TestCheckoutCancel(t *testing.T) {
	f := setupCheckout(t)
	f.openWithValidForm(t)

	rr := doRequest(t, f.router, "DELETE", "/api/checkout", nil)
	expectStatus(t, rr, http.StatusNoContent)

	rr = doRequest(t, f.router, "GET", "/api/checkout", nil)
	expectStatus(t, rr, http.StatusNotFound)
}

func TestCheckoutUpdateForm_UnknownField(t *testing.T) {
	f := setupCheckout(t)
	doRequest(t, f.router, "POST", "/api/checkout", nil)

	rr := doRequest(t, f.router, "PUT", "/api/checkout/form", map[string]interface{}{
		"updates": []map[string]string{{"field": "favouriteColour", "value": "mavi"}},
	})
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestCheckoutUpdateForm_BlurShowsError(t *testing.T) {
	f := setupCheckout(t)
	doRequest(t, f.router, "POST", "/api/checkout", nil)

	rr := doRequest(t, f.router, "PUT", "/api/checkout/form", map[string]interface{}{
		"updates": []map[string]interface{}{{"field": "phone", "value": "123", "blur": true}},
	})
	expectStatus(t, rr, http.StatusOK)

	var view service.AttemptView
	decodeInto(t, rr, &view)
	if view.Errors[checkout.FieldPhone] == "" {
		t.Errorf("expected phone error, got %v", view.Errors)
	}
	if !view.Touched[checkout.FieldPhone] {
		t.Error("expected phone touched")
	}
}

func TestCheckoutSubmit_Success(t *testing.T) {
	f := setupCheckout(t)
	f.fillCart(2)
	key := f.openWithValidForm(t)

	rr := doRequest(t, f.router, "POST", "/api/checkout/submit", nil)
	expectStatus(t, rr, http.StatusCreated)

	resp := decodeMap(t, rr)
	if resp["success"] != true {
		t.Fatalf("success: got %v", resp["success"])
	}
	order := resp["order"].(map[string]interface{})
	if order["id"] != key {
		t.Errorf("order id: got %v, want %s", order["id"], key)
	}
	if len(f.pusher.pushed) != 1 {
		t.Fatalf("pushed: got %d, want 1", len(f.pusher.pushed))
	}
	if p := f.pusher.pushed[0]; p.Totals.Total != 375 {
		t.Errorf("total: got %d, want 375", p.Totals.Total)
	}
	if n := f.carts.Get(context.Background(), testSessionID).LineCount(); n != 0 {
		t.Errorf("cart lines after success: got %d, want 0", n)
	}
}

func TestCheckoutSubmit_FailureKeepsKeyForRetry(t *testing.T) {
	f := setupCheckout(t)
	f.submitter.fail = "Sipariş gönderilemedi"
	f.fillCart(1)
	key := f.openWithValidForm(t)

	rr := doRequest(t, f.router, "POST", "/api/checkout/submit", nil)
	expectStatus(t, rr, http.StatusBadGateway)
	if resp := decodeMap(t, rr); resp["error"] != "Sipariş gönderilemedi" {
		t.Errorf("error: got %v", resp["error"])
	}

	f.submitter.fail = ""
	rr = doRequest(t, f.router, "POST", "/api/checkout/submit", nil)
	expectStatus(t, rr, http.StatusCreated)

	if len(f.submitter.payloads) != 2 {
		t.Fatalf("submissions: got %d, want 2", len(f.submitter.payloads))
	}
	for i, p := range f.submitter.payloads {
		if p.IdempotencyKey != key {
			t.Errorf("submission %d key: got %s, want %s", i, p.IdempotencyKey, key)
		}
	}
}

func TestCheckoutSubmit_ConcurrentSubmitConflicts(t *testing.T) {
	f := setupCheckout(t)
	f.submitter.started = make(chan struct{})
	f.submitter.release = make(chan struct{})
	f.fillCart(1)
	f.openWithValidForm(t)

	done := make(chan int)
	go func() {
		rr := doRequest(t, f.router, "POST", "/api/checkout/submit", nil)
		done <- rr.Code
	}()
	<-f.submitter.started

	rr := doRequest(t, f.router, "POST", "/api/checkout/submit", nil)
	expectStatus(t, rr, http.StatusConflict)

	close(f.submitter.release)
	if code := <-done; code != http.StatusCreated {
		t.Errorf("first submit: got %d, want %d", code, http.StatusCreated)
	}
}

func TestCheckoutSubmit_ValidationErrors(t *testing.T) {
	f := setupCheckout(t)
	f.fillCart(1)
	doRequest(t, f.router, "POST", "/api/checkout", nil)

	rr := doRequest(t, f.router, "POST", "/api/checkout/submit", nil)
	expectStatus(t, rr, http.StatusUnprocessableEntity)

	resp := decodeMap(t, rr)
	if resp["firstError"] != string(checkout.FieldFullName) {
		t.Errorf("firstError: got %v, want fullName", resp["firstError"])
	}
	errs := resp["errors"].(map[string]interface{})
	if _, ok := errs["phone"]; !ok {
		t.Errorf("expected phone error, got %v", errs)
	}
	if len(f.submitter.payloads) != 0 {
		t.Error("invalid form must not be submitted")
	}
}

func TestCheckoutSubmit_Gates(t *testing.T) {
	tests := []struct {
		name    string
		qty     int
		restore func(r *catalog.Restaurant)
		want    int
	}{
		{"empty cart", 0, nil, http.StatusBadRequest},
		{"closed", 1, func(r *catalog.Restaurant) { r.IsOpen = false }, http.StatusUnprocessableEntity},
		{"below minimum", 1, func(r *catalog.Restaurant) { r.MinOrder = 500 }, http.StatusUnprocessableEntity},
		{"delivery disabled", 1, func(r *catalog.Restaurant) { r.DeliveryAvailable = false }, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupCheckout(t)
			if tt.restore != nil {
				tt.restore(f.src.restaurant)
			}
			if tt.qty > 0 {
				f.fillCart(tt.qty)
			}
			f.openWithValidForm(t)

			rr := doRequest(t, f.router, "POST", "/api/checkout/submit", nil)
			expectStatus(t, rr, tt.want)
		})
	}
}

func TestCheckoutSubmit_NoneOpen(t *testing.T) {
	f := setupCheckout(t)
	f.fillCart(1)

	rr := doRequest(t, f.router, "POST", "/api/checkout/submit", nil)
	expectStatus(t, rr, http.StatusNotFound)
}
