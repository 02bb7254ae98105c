// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/sakesensei/internal/api"
	"github.com/tomtom215/sakesensei/internal/config"
	"github.com/tomtom215/sakesensei/internal/database"
	"github.com/tomtom215/sakesensei/internal/logging"
	"github.com/tomtom215/sakesensei/internal/supervisor"
	"github.com/tomtom215/sakesensei/internal/supervisor/services"
	"github.com/tomtom215/sakesensei/internal/upstream"
)

func main() {
	seed := flag.Bool("seed", false, "load the demo catalog and profiles when the catalog is empty")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.Logging.ToLoggingConfig())
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("cache_backend", cfg.Cache.Backend).
		Str("collaborative_metric", cfg.Recommend.Collaborative.Metric).
		Msg("Configuration loaded")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	if *seed || cfg.Database.SeedDemoData {
		if err := db.Seed(context.Background()); err != nil {
			_ = db.Close()
			logging.Fatal().Err(err).Msg("Failed to seed demo data")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	guarded := upstream.NewGuarded(db, cfg.Upstream)

	simCache, closeCache, err := buildSimilarityCache(ctx, &cfg.Cache, tree)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize similarity cache")
	}
	defer closeCache()

	engine, err := buildEngine(&cfg.Recommend, guarded, simCache)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	handler := api.NewHandler(engine, db,
		api.WithRequestTimeout(cfg.Server.RequestTimeout),
		api.WithDefaultLimit(cfg.Recommend.Limits.DefaultLimit),
		api.WithUpstreamState(func() string { return guarded.State().String() }),
	)
	router := api.NewRouter(handler, api.ChiMiddlewareConfigFromServer(&cfg.Server))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	if cfg.Database.CheckpointInterval > 0 {
		tree.AddMaintenanceService(services.NewCheckpointService(db, cfg.Database.CheckpointInterval, logging.WithComponent("database")))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	if err := tree.Run(ctx); err != nil {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Application stopped gracefully")
}
