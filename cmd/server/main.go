package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/flamedough/api/internal/cart"
	"github.com/flamedough/api/internal/config"
	"github.com/flamedough/api/internal/dashboard"
	"github.com/flamedough/api/internal/docstore"
	"github.com/flamedough/api/internal/events"
	"github.com/flamedough/api/internal/handler"
	"github.com/flamedough/api/internal/logging"
	"github.com/flamedough/api/internal/orders"
	"github.com/flamedough/api/internal/publication"
	"github.com/flamedough/api/internal/router"
	"github.com/flamedough/api/internal/service"
	"github.com/flamedough/api/internal/session"
	"github.com/flamedough/api/internal/ws"
)

const (
	sweepInterval   = time.Hour
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	store, closeStore, err := docstore.Open(ctx, cfg.StoreBackend, cfg.DatabaseURL, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("open document store: %w", err)
	}
	defer closeStore()
	log.Info().Str("backend", cfg.StoreBackend).Msg("document store ready")

	publisher, err := newPublisher(cfg)
	if err != nil {
		return err
	}
	defer publisher.Close()

	cartStorage, closeCarts, err := newCartStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCarts()

	pub := publication.NewBridge(store, cfg.Location())
	stopPub := pub.Start(ctx)
	defer stopPub()

	orderBridge := orders.NewBridge(store, publisher)
	carts := cart.NewRegistry(cartStorage, cart.WithDeliveryFee(pub.DeliveryFee))
	checkout := service.NewCheckoutService(
		service.NewWebhookTransport(cfg.OrderWebhookURL, cfg.WebhookTimeout),
		orderBridge,
		pub,
	)

	hub := ws.NewHub()
	go hub.Run(ctx)
	feeds := handler.NewWSHandler(hub, pub, orderBridge)
	feeds.Start(ctx)

	sessions := session.NewStore()
	go sweepIdle(ctx, map[string]sweeper{
		"carts":     carts,
		"checkouts": checkout,
		"handoffs":  sessions,
	})

	r := router.New(cfg, router.Deps{
		Publication: pub,
		Orders:      orderBridge,
		Carts:       carts,
		Checkout:    checkout,
		Menu:        dashboard.NewMenuEditor(store),
		Settings:    dashboard.NewSettingsEditor(store),
		Sessions:    sessions,
		Verifier:    session.NewVerifier(cfg.SessionTokenSecret),
		Feeds:       feeds,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newPublisher(cfg *config.Config) (events.Publisher, error) {
	switch cfg.EventsBackend {
	case "kafka":
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("publishing order events to kafka")
		return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	case "nats":
		p, err := events.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			return nil, fmt.Errorf("connect nats: %w", err)
		}
		log.Info().Str("subject", cfg.NATSSubject).Msg("publishing order events to nats")
		return p, nil
	case "none", "":
		return events.Nop{}, nil
	}
	return nil, fmt.Errorf("unknown events backend %q", cfg.EventsBackend)
}

func newCartStorage(ctx context.Context, cfg *config.Config) (cart.Storage, func(), error) {
	switch cfg.CartStore {
	case "redis":
		client, err := docstore.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("cart storage: %w", err)
		}
		return cart.NewRedisStorage(client), func() { client.Close() }, nil
	case "memory", "":
		return cart.NewMemoryStorage(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown cart store %q", cfg.CartStore)
}

// sweeper drops per-session state that has gone idle.
type sweeper interface {
	Sweep(now time.Time) int
}

// sweepIdle runs every sweeper once per interval until ctx is done.
func sweepIdle(ctx context.Context, sweepers map[string]sweeper) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for name, sw := range sweepers {
				if n := sw.Sweep(now); n > 0 {
					log.Debug().Str("kind", name).Int("count", n).Msg("swept idle sessions")
				}
			}
		}
	}
}
