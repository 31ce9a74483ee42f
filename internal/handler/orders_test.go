package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/flamedough/api/internal/enum"
	"github.com/flamedough/api/internal/handler"
	"github.com/flamedough/api/internal/orders"
)

// --- Mock lifecycle ---

type mockOrderLifecycle struct {
	orders []orders.Order
}

func (m *mockOrderLifecycle) AllOrders(_ context.Context) []orders.Order {
	return append([]orders.Order(nil), m.orders...)
}

func (m *mockOrderLifecycle) Get(_ context.Context, id string) (orders.Order, error) {
	for _, o := range m.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return orders.Order{}, orders.ErrOrderNotFound
}

func (m *mockOrderLifecycle) UpdateStatus(_ context.Context, id string, status enum.OrderStatus) (orders.Order, error) {
	if !orders.ValidStatus(status) {
		return orders.Order{}, orders.ErrInvalidStatus
	}
	for i, o := range m.orders {
		if o.ID != id {
			continue
		}
		allowed := false
		for _, next := range orders.NextStatuses(o.Status) {
			if next == status {
				allowed = true
			}
		}
		if !allowed {
			return orders.Order{}, fmt.Errorf("%s -> %s: %w", o.Status, status, orders.ErrIllegalTransition)
		}
		m.orders[i].Status = status
		return m.orders[i], nil
	}
	return orders.Order{}, orders.ErrOrderNotFound
}

func newMockOrders() *mockOrderLifecycle {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	return &mockOrderLifecycle{orders: []orders.Order{
		{ID: "o3", OrderNumber: "#0003", Status: enum.OrderStatusNew, CreatedAt: now},
		{ID: "o2", OrderNumber: "#0002", Status: enum.OrderStatusPreparing, CreatedAt: now.Add(-time.Hour)},
		{ID: "o1", OrderNumber: "#0001", Status: enum.OrderStatusDelivered, CreatedAt: now.Add(-2 * time.Hour)},
	}}
}

func setupOrderRouter(lc *mockOrderLifecycle) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/dashboard/orders", handler.NewOrderHandler(lc).RegisterRoutes)
	return r
}

type orderListBody struct {
	Orders []struct {
		ID           string   `json:"id"`
		Status       string   `json:"status"`
		NextStatuses []string `json:"nextStatuses"`
	} `json:"orders"`
	Pending int `json:"pending"`
}

// --- List tests ---

func TestOrderList_All(t *testing.T) {
	router := setupOrderRouter(newMockOrders())

	rr := doRequest(t, router, "GET", "/dashboard/orders", nil)
	expectStatus(t, rr, http.StatusOK)

	var body orderListBody
	decodeInto(t, rr, &body)
	if len(body.Orders) != 3 {
		t.Fatalf("orders: got %d, want 3", len(body.Orders))
	}
	if body.Pending != 1 {
		t.Errorf("pending: got %d, want 1", body.Pending)
	}
	if got := body.Orders[2].NextStatuses; len(got) != 0 {
		t.Errorf("delivered order next statuses: got %v, want none", got)
	}
}

func TestOrderList_FilterByStatus(t *testing.T) {
	router := setupOrderRouter(newMockOrders())

	rr := doRequest(t, router, "GET", "/dashboard/orders?status=preparing", nil)
	expectStatus(t, rr, http.StatusOK)

	var body orderListBody
	decodeInto(t, rr, &body)
	if len(body.Orders) != 1 || body.Orders[0].ID != "o2" {
		t.Fatalf("filtered: %+v", body.Orders)
	}
	if body.Pending != 1 {
		t.Errorf("pending counts every order: got %d, want 1", body.Pending)
	}
}

func TestOrderList_FilterAllAndInvalid(t *testing.T) {
	router := setupOrderRouter(newMockOrders())

	rr := doRequest(t, router, "GET", "/dashboard/orders?status=all", nil)
	expectStatus(t, rr, http.StatusOK)

	rr = doRequest(t, router, "GET", "/dashboard/orders?status=lost", nil)
	expectStatus(t, rr, http.StatusBadRequest)
}

// --- Get tests ---

func TestOrderGet(t *testing.T) {
	router := setupOrderRouter(newMockOrders())

	rr := doRequest(t, router, "GET", "/dashboard/orders/o3", nil)
	expectStatus(t, rr, http.StatusOK)

	resp := decodeMap(t, rr)
	if resp["orderNumber"] != "#0003" {
		t.Errorf("orderNumber: got %v", resp["orderNumber"])
	}
	next := resp["nextStatuses"].([]interface{})
	if len(next) != 2 {
		t.Errorf("next statuses for new: got %v", next)
	}

	rr = doRequest(t, router, "GET", "/dashboard/orders/missing", nil)
	expectStatus(t, rr, http.StatusNotFound)
}

// --- UpdateStatus tests ---

func TestOrderUpdateStatus(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		status string
		want   int
	}{
		{"new to preparing", "o3", "preparing", http.StatusOK},
		{"new to cancelled", "o3", "cancelled", http.StatusOK},
		{"preparing to on the way", "o2", "on_the_way", http.StatusOK},
		{"skip ahead", "o3", "delivered", http.StatusConflict},
		{"terminal", "o1", "preparing", http.StatusConflict},
		{"unknown status", "o3", "lost", http.StatusBadRequest},
		{"missing status", "o3", "", http.StatusBadRequest},
		{"unknown order", "nope", "preparing", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupOrderRouter(newMockOrders())
			rr := doRequest(t, router, "PATCH", "/dashboard/orders/"+tt.id+"/status", map[string]string{"status": tt.status})
			expectStatus(t, rr, tt.want)
			if tt.want == http.StatusOK {
				if got := decodeMap(t, rr)["status"]; got != tt.status {
					t.Errorf("status: got %v, want %s", got, tt.status)
				}
			}
		})
	}
}
