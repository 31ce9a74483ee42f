package main

import (
	"context"
	"flag"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/flamedough/api/internal/config"
	"github.com/flamedough/api/internal/dashboard"
	"github.com/flamedough/api/internal/docstore"
	"github.com/flamedough/api/internal/logging"
)

func main() {
	force := flag.Bool("force", false, "Overwrite existing menu and settings documents")
	flag.Parse()

	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogPretty)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.StoreBackend == docstore.BackendMemory {
		log.Warn().Msg("STORE_BACKEND is memory; seeded documents are discarded on exit")
	}

	store, closeStore, err := docstore.Open(ctx, cfg.StoreBackend, cfg.DatabaseURL, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open document store")
	}
	defer closeStore()

	seeded, err := dashboard.NewMenuEditor(store).Seed(ctx, *force)
	if err != nil {
		log.Fatal().Err(err).Msg("seed menu")
	}
	logSeed(docstore.PathMenu, seeded)

	seeded, err = dashboard.NewSettingsEditor(store).Seed(ctx, *force)
	if err != nil {
		log.Fatal().Err(err).Msg("seed settings")
	}
	logSeed(docstore.PathSettings, seeded)
}

func logSeed(path string, seeded bool) {
	if seeded {
		log.Info().Str("path", path).Msg("document seeded")
		return
	}
	log.Info().Str("path", path).Msg("document exists, skipped (use -force to overwrite)")
}
