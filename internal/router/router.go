package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/flamedough/api/internal/cart"
	"github.com/flamedough/api/internal/config"
	"github.com/flamedough/api/internal/dashboard"
	"github.com/flamedough/api/internal/handler"
	mw "github.com/flamedough/api/internal/middleware"
	"github.com/flamedough/api/internal/orders"
	"github.com/flamedough/api/internal/publication"
	"github.com/flamedough/api/internal/service"
	"github.com/flamedough/api/internal/session"
)

// Deps are the long-lived components the routes are served from.
type Deps struct {
	Publication *publication.Bridge
	Orders      *orders.Bridge
	Carts       *cart.Registry
	Checkout    *service.CheckoutService
	Menu        *dashboard.MenuEditor
	Settings    *dashboard.SettingsEditor
	Sessions    *session.Store
	Verifier    *session.Verifier
	Feeds       *handler.WSHandler
}

// New creates a Chi router with the storefront, dashboard and websocket
// routes wired up.
func New(cfg *config.Config, d Deps) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", mw.SessionHeader},
		ExposedHeaders:   []string{mw.SessionHeader},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Storefront
	r.Route("/api", func(r chi.Router) {
		handler.NewQRHandler(cfg.StorefrontURL).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(mw.Session(d.Sessions, d.Verifier))
			handler.NewCatalogHandler(d.Publication).RegisterRoutes(r)
			handler.NewCartHandler(d.Carts, d.Publication).RegisterRoutes(r)
			handler.NewCheckoutHandler(d.Checkout, d.Carts).RegisterRoutes(r)
		})
	})

	// Dashboard
	r.Route("/dashboard", func(r chi.Router) {
		r.Route("/orders", handler.NewOrderHandler(d.Orders).RegisterRoutes)
		handler.NewStatsHandler(d.Orders, d.Menu, cfg.Location()).RegisterRoutes(r)

		r.Route("/menu", func(r chi.Router) {
			handler.NewMenuHandler(d.Menu).RegisterRoutes(r)
			itemHandler := handler.NewItemHandler(d.Menu)
			r.Route("/categories", func(r chi.Router) {
				handler.NewCategoryHandler(d.Menu).RegisterRoutes(r)
				r.Route("/{cid}/items", itemHandler.RegisterCategoryRoutes)
			})
			r.Route("/items/{iid}", func(r chi.Router) {
				itemHandler.RegisterRoutes(r)
				r.Route("/groups", handler.NewModifierHandler(d.Menu).RegisterRoutes)
			})
		})

		r.Route("/settings", handler.NewSettingsHandler(d.Settings).RegisterRoutes)
	})

	// Live feeds
	r.Route("/ws", d.Feeds.RegisterRoutes)

	log.Info().Msg("router initialized")
	return r
}
