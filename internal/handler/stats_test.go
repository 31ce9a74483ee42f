package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/flamedough/api/internal/dashboard"
	"github.com/flamedough/api/internal/enum"
	"github.com/flamedough/api/internal/handler"
	"github.com/flamedough/api/internal/orders"
)

type staticMenu struct {
	menu dashboard.Menu
	err  error
}

func (s staticMenu) Get(_ context.Context) (dashboard.Menu, error) { return s.menu, s.err }

func setupStatsRouter(list []orders.Order, menu staticMenu) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/dashboard", handler.NewStatsHandler(&mockOrderLifecycle{orders: list}, menu, time.UTC).RegisterRoutes)
	return r
}

func TestStatsOverview(t *testing.T) {
	now := time.Now().UTC()
	list := []orders.Order{
		{ID: "a", Status: enum.OrderStatusNew, CreatedAt: now, Total: 110,
			Items: []orders.Item{{MenuItemID: "item-ayran", Quantity: 1, UnitPrice: 110}}},
		{ID: "b", Status: enum.OrderStatusDelivered, CreatedAt: now, Total: 220},
		{ID: "c", Status: enum.OrderStatusCancelled, CreatedAt: now, Total: 999},
	}
	router := setupStatsRouter(list, staticMenu{menu: dashboard.DefaultMenu()})

	rr := doRequest(t, router, "GET", "/dashboard/stats", nil)
	expectStatus(t, rr, http.StatusOK)

	resp := decodeMap(t, rr)
	if resp["todayOrders"] != float64(3) {
		t.Errorf("todayOrders: got %v, want 3", resp["todayOrders"])
	}
	if resp["todayRevenue"] != float64(330) {
		t.Errorf("todayRevenue: got %v, want 330", resp["todayRevenue"])
	}
	if resp["pendingCount"] != float64(1) {
		t.Errorf("pendingCount: got %v, want 1", resp["pendingCount"])
	}
}

func TestStatsOverview_MenuUnavailable(t *testing.T) {
	router := setupStatsRouter(nil, staticMenu{err: errors.New("store down")})

	rr := doRequest(t, router, "GET", "/dashboard/stats", nil)
	expectStatus(t, rr, http.StatusOK)
	if resp := decodeMap(t, rr); resp["todayOrders"] != float64(0) {
		t.Errorf("todayOrders: got %v, want 0", resp["todayOrders"])
	}
}
