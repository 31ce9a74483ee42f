package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/flamedough/api/internal/dashboard"
	"github.com/flamedough/api/internal/orders"
)

// OrderLister returns every order.
// Satisfied by *orders.Bridge; narrow interface for testability.
type OrderLister interface {
	AllOrders(ctx context.Context) []orders.Order
}

// MenuReader returns the dashboard menu.
// Satisfied by *dashboard.MenuEditor; narrow interface for testability.
type MenuReader interface {
	Get(ctx context.Context) (dashboard.Menu, error)
}

// StatsHandler serves the dashboard overview cards.
type StatsHandler struct {
	orders OrderLister
	menu   MenuReader
	loc    *time.Location
	now    func() time.Time
}

func NewStatsHandler(lister OrderLister, menu MenuReader, loc *time.Location) *StatsHandler {
	if loc == nil {
		loc = time.Local
	}
	return &StatsHandler{orders: lister, menu: menu, loc: loc, now: time.Now}
}

// RegisterRoutes registers the stats endpoint on the given Chi router.
func (h *StatsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/stats", h.Overview)
}

// Overview handles GET /dashboard/stats. "Today" is the restaurant's
// calendar day.
func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	rates := map[string]int{}
	if m, err := h.menu.Get(r.Context()); err != nil {
		log.Warn().Err(err).Msg("load menu tax rates")
	} else {
		rates = dashboard.TaxRates(m)
	}
	st := dashboard.ComputeStats(h.orders.AllOrders(r.Context()), rates, h.now().In(h.loc))
	writeJSON(w, http.StatusOK, st)
}
