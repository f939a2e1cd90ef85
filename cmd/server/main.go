// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/thejerf/suture/v4"

	"github.com/nvtruongops/smart-cooking-sub003/internal/api"
	"github.com/nvtruongops/smart-cooking-sub003/internal/approval"
	"github.com/nvtruongops/smart-cooking-sub003/internal/config"
	"github.com/nvtruongops/smart-cooking-sub003/internal/logging"
	"github.com/nvtruongops/smart-cooking-sub003/internal/middleware"
	"github.com/nvtruongops/smart-cooking-sub003/internal/rating"
	"github.com/nvtruongops/smart-cooking-sub003/internal/store"
	"github.com/nvtruongops/smart-cooking-sub003/internal/supervisor"
	"github.com/nvtruongops/smart-cooking-sub003/internal/supervisor/services"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Caller:      cfg.Logging.Caller,
		Timestamp:   true,
		Environment: cfg.Server.Environment,
		Output:      os.Stderr,
	})

	logging.Info().
		Str("dispatch", cfg.Approval.Dispatch).
		Str("aggregate_mode", cfg.Rating.AggregateMode).
		Msg("Starting Smart Cooking rating service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// === DATA LAYER ===

	db, err := openStore(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	recipes := store.NewRecipes(db)
	ratings := store.NewRatings(db)
	history := store.NewHistory(db)
	notifications := store.NewNotifications(db)

	// === APPROVAL ===

	effects := approval.NewEffects(newEnricher(cfg), notifications)
	pipeline, err := newApprovalPipeline(ctx, cfg, effects)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize approval pipeline")
	}
	defer pipeline.Close()

	trigger := approval.NewTrigger(recipes, pipeline.dispatcher)

	ratingService := rating.NewService(recipes, ratings, history, trigger, rating.Config{
		AggregateMode: cfg.Rating.AggregateMode,
		UniqueGuard:   cfg.Rating.UniqueGuard,
		Thresholds: rating.Thresholds{
			MinCount:   cfg.Rating.MinCount,
			MinAverage: cfg.Rating.MinAverage,
		},
		DefaultPageSize: cfg.API.DefaultPageSize,
		MaxPageSize:     cfg.API.MaxPageSize,
	})

	// === HTTP ===

	auth, err := api.NewAuthenticator(middleware.AuthConfig{
		Mode:       cfg.Auth.Mode,
		Secret:     cfg.Auth.JWTSecret,
		Issuer:     cfg.Auth.JWTIssuer,
		UserHeader: cfg.Auth.UserHeader,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authentication")
	}

	checks := []api.ReadinessCheck{{Name: "store", Check: db.Ping}}
	if pipeline.router != nil {
		checks = append(checks, api.ReadinessCheck{Name: "events", Check: pipeline.router.Ready})
	}
	handler := api.NewHandler(ratingService, notifications, checks...)

	edge := api.EdgeConfig{
		AllowedOrigins: cfg.Security.CORSOrigins,
		RateLimit:      cfg.Security.RateLimitReqs,
		RateWindow:     cfg.Security.RateLimitWindow,
	}
	if cfg.Security.RateLimitDisabled {
		edge.RateLimit = 0
	}

	router := api.NewRouter(handler, edge, auth)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// === SUPERVISOR TREE ===

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: cfg.Supervisor.FailureThreshold,
		FailureDecay:     cfg.Supervisor.FailureDecay,
		FailureBackoff:   cfg.Supervisor.FailureBackoff,
		ShutdownTimeout:  cfg.Supervisor.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	supervise(tree, supervisor.LayerData, services.NewStoreGCService(db, cfg.Store.GCInterval))
	if pipeline.router != nil {
		supervise(tree, supervisor.LayerMessaging, pipeline.router)
		logging.Info().Str("transport", pipeline.transport.Name).Msg("Approval consumer added to supervisor tree")
	}
	supervise(tree, supervisor.LayerAPI, services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	if err := tree.Run(ctx); err != nil {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	logging.Info().Msg("Application stopped gracefully")
}

func supervise(tree *supervisor.SupervisorTree, layer supervisor.Layer, svc suture.Service) {
	if _, err := tree.Add(layer, svc); err != nil {
		logging.Fatal().Err(err).Str("service", fmt.Sprint(svc)).Msg("Failed to add service")
	}
}
