// Feedwright - Social Feed Ranking and Distribution Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwright

// Command server runs the Feedwright HTTP service: an in-memory social
// graph and post store (optionally persisted to Badger), the feed ranking
// engine, and the REST API, all under a suture supervision tree.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/feedwright/internal/api"
	"github.com/tomtom215/feedwright/internal/config"
	"github.com/tomtom215/feedwright/internal/feed"
	"github.com/tomtom215/feedwright/internal/logging"
	"github.com/tomtom215/feedwright/internal/store"
	"github.com/tomtom215/feedwright/internal/supervisor"
	"github.com/tomtom215/feedwright/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config not yet available, the default logger has to do.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr).
		Str("badger_path", cfg.Store.BadgerPath).
		Bool("seed_demo_data", cfg.Store.SeedDemoData).
		Msg("Starting Feedwright")

	storeOpts := []store.Option{store.WithLogger(logging.Logger())}

	if cfg.Store.BadgerPath != "" {
		db, err := store.OpenBadger(cfg.Store.BadgerPath)
		if err != nil {
			logging.Fatal().Err(err).Str("path", cfg.Store.BadgerPath).Msg("Failed to open Badger database")
		}
		defer func() {
			if err := db.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing Badger database")
			}
		}()
		storeOpts = append(storeOpts, store.WithBadger(db))
		logging.Info().Str("path", cfg.Store.BadgerPath).Msg("Badger persistence enabled")
	}

	st := store.NewMemoryStore(storeOpts...)

	if posts, users := st.Counts(); cfg.Store.SeedDemoData && posts == 0 && users == 0 {
		seedCfg := store.DefaultSeedConfig()
		if cfg.Store.SeedUsers > 0 {
			seedCfg.Users = cfg.Store.SeedUsers
		}
		if err := st.Seed(seedCfg); err != nil {
			logging.Fatal().Err(err).Msg("Failed to seed demo data")
		}
		posts, users = st.Counts()
		logging.Info().Int("users", users).Int("posts", posts).Msg("Demo network seeded")
	}

	engine, err := feed.NewEngine(cfg.Engine.FeedConfig(), st, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create feed engine")
	}

	router := api.NewRouter(engine, st, api.RouterConfig{
		DefaultFeedLimit: cfg.Engine.DefaultLimit,
		MaxFeedLimit:     cfg.Engine.MaxLimit,
		RateLimit:        cfg.Server.RateLimit,
		RatePeriod:       cfg.Server.RatePeriod,
		CORSOrigins:      cfg.Server.CORSOrigins,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeCfg)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	tree.AddMaintenanceService(services.NewStoreGaugeService(st, 0))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", cfg.Server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Feedwright stopped gracefully")
}
