package handler

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/flamedough/api/internal/catalog"
	"github.com/flamedough/api/internal/orders"
	"github.com/flamedough/api/internal/ws"
)

// MenuFeed is the published catalog plus change notification.
// Satisfied by *publication.Bridge; narrow interface for testability.
type MenuFeed interface {
	CatalogSource
	OnChange(fn func()) (unsubscribe func())
}

// OrderFeed delivers the full order collection on every change.
// Satisfied by *orders.Bridge; narrow interface for testability.
type OrderFeed interface {
	AllOrders(ctx context.Context) []orders.Order
	Subscribe(ctx context.Context, fn func([]orders.Order)) (unsubscribe func())
}

// WSHandler serves the live menu and order feeds.
type WSHandler struct {
	hub    *ws.Hub
	menu   MenuFeed
	orders OrderFeed
}

func NewWSHandler(hub *ws.Hub, menu MenuFeed, feed OrderFeed) *WSHandler {
	return &WSHandler{hub: hub, menu: menu, orders: feed}
}

// RegisterRoutes registers websocket endpoints on the given Chi router.
// Expected to be mounted at /ws.
func (h *WSHandler) RegisterRoutes(r chi.Router) {
	r.Get("/menu", h.Menu)
	r.Get("/dashboard/orders", h.Orders)
}

type menuEvent struct {
	Categories []catalog.Category  `json:"categories"`
	Restaurant *catalog.Restaurant `json:"restaurant"`
}

type ordersEvent struct {
	Orders      []orders.Order `json:"orders"`
	NewOrderIDs []string       `json:"newOrderIds"`
}

func (h *WSHandler) menuEvent() (ws.Event, error) {
	return ws.NewEvent(ws.EventMenuUpdated, menuEvent{
		Categories: h.menu.PublishedCategories(),
		Restaurant: h.menu.PublishedRestaurant(),
	})
}

// Start relays publication and order changes to connected clients until
// ctx is done.
func (h *WSHandler) Start(ctx context.Context) {
	unsubMenu := h.menu.OnChange(func() {
		ev, err := h.menuEvent()
		if err != nil {
			log.Error().Err(err).Msg("encode menu event")
			return
		}
		h.hub.Broadcast(ws.TopicMenu, ev)
	})

	var (
		mu   sync.Mutex
		prev []orders.Order
	)
	// The first snapshot only primes prev; every order in it is already known.
	primed := false
	unsubOrders := h.orders.Subscribe(ctx, func(list []orders.Order) {
		mu.Lock()
		if !primed {
			prev, primed = list, true
			mu.Unlock()
			return
		}
		fresh := orders.NewOrderIDs(prev, list)
		prev = list
		mu.Unlock()

		ev, err := ws.NewEvent(ws.EventOrdersSnapshot, ordersEvent{
			Orders:      list,
			NewOrderIDs: fresh,
		})
		if err != nil {
			log.Error().Err(err).Msg("encode orders event")
			return
		}
		h.hub.Broadcast(ws.TopicOrders, ev)
	})

	go func() {
		<-ctx.Done()
		unsubMenu()
		unsubOrders()
	}()
}

// Menu handles GET /ws/menu.
func (h *WSHandler) Menu(w http.ResponseWriter, r *http.Request) {
	ev, err := h.menuEvent()
	if err != nil {
		writeInternal(w, err, "encode menu event")
		return
	}
	ws.ServeWS(h.hub, ws.TopicMenu, &ev, w, r)
}

// Orders handles GET /ws/dashboard/orders.
func (h *WSHandler) Orders(w http.ResponseWriter, r *http.Request) {
	ev, err := ws.NewEvent(ws.EventOrdersSnapshot, ordersEvent{
		Orders:      h.orders.AllOrders(r.Context()),
		NewOrderIDs: []string{},
	})
	if err != nil {
		writeInternal(w, err, "encode orders event")
		return
	}
	ws.ServeWS(h.hub, ws.TopicOrders, &ev, w, r)
}
