// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package main

import (
	"context"
	"fmt"

	"github.com/nvtruongops/smart-cooking-sub003/internal/approval"
	"github.com/nvtruongops/smart-cooking-sub003/internal/config"
	"github.com/nvtruongops/smart-cooking-sub003/internal/enrichment"
	"github.com/nvtruongops/smart-cooking-sub003/internal/events"
	"github.com/nvtruongops/smart-cooking-sub003/internal/logging"
	"github.com/nvtruongops/smart-cooking-sub003/internal/retry"
	"github.com/nvtruongops/smart-cooking-sub003/internal/store"
	"github.com/nvtruongops/smart-cooking-sub003/internal/supervisor/services"
)

func openStore(cfg *config.Config) (*store.Store, error) {
	storeCfg := store.Config{
		Path:             cfg.Store.Path,
		InMemory:         cfg.Store.InMemory,
		SyncWrites:       cfg.Store.SyncWrites,
		OperationTimeout: cfg.Store.OperationTimeout,
		MaxOpsPerSecond:  cfg.Store.MaxOpsPerSecond,
		Burst:            cfg.Store.Burst,
		GCInterval:       cfg.Store.GCInterval,
		GCRatio:          cfg.Store.GCRatio,
		NotificationTTL:  cfg.Notification.TTL,
	}

	// A nil predicate falls back to store.IsTransient.
	policy := retry.Policy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.Retry.BaseDelay,
		MaxDelay:    cfg.Retry.MaxDelay,
		Multiplier:  cfg.Retry.Multiplier,
	}

	return store.Open(storeCfg, policy)
}

// newEnricher returns the catalog client, or a no-op when no catalog is configured.
func newEnricher(cfg *config.Config) enrichment.Client {
	if cfg.Enrichment.BaseURL == "" {
		logging.Info().Msg("Enrichment disabled: no catalog base URL configured")
		return enrichment.NoopClient{}
	}

	breaker := enrichment.DefaultBreakerConfig()
	breaker.MaxRequests = cfg.Enrichment.BreakerMaxRequests
	breaker.Interval = cfg.Enrichment.BreakerInterval
	breaker.Timeout = cfg.Enrichment.BreakerTimeout
	breaker.FailureThreshold = cfg.Enrichment.BreakerFailureThreshold

	logging.Info().Str("base_url", cfg.Enrichment.BaseURL).Msg("Enrichment enabled")
	return enrichment.NewBreakerClient(
		enrichment.NewHTTPClient(cfg.Enrichment.BaseURL, cfg.Enrichment.Timeout),
		breaker,
	)
}

// approvalPipeline holds whatever the configured dispatch mode needs.
// transport and router are nil in sync mode.
type approvalPipeline struct {
	dispatcher approval.Dispatcher
	transport  *events.Transport
	router     *services.EventRouterService
	embedded   *events.EmbeddedServer
}

func (p *approvalPipeline) Close() {
	if p.transport != nil {
		if err := p.transport.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event transport")
		}
	}
	if p.embedded != nil {
		p.embedded.Shutdown()
		logging.Info().Msg("Embedded NATS server stopped")
	}
}

func eventsConfig(cfg *config.Config) events.Config {
	ec := events.DefaultConfig()
	ec.Transport = cfg.Events.Transport
	ec.NATSURL = cfg.Events.NATSURL
	ec.StreamName = cfg.Events.StreamName
	if len(cfg.Events.StreamSubjects) > 0 {
		ec.StreamSubjects = cfg.Events.StreamSubjects
	}
	ec.DurableName = cfg.Events.DurableName
	ec.QueueGroup = cfg.Events.QueueGroup
	ec.RetryCount = cfg.Events.RetryCount
	ec.RetryInitialInterval = cfg.Events.RetryInitialInterval
	ec.RetryMaxInterval = cfg.Events.RetryMaxInterval
	ec.PoisonQueueTopic = cfg.Events.PoisonQueueTopic
	ec.CloseTimeout = cfg.Events.CloseTimeout
	return ec
}

// newApprovalPipeline wires the post-approval side effects. In events mode
// the trigger publishes recipe.approved and a supervised router consumes it;
// the inline dispatcher stays as the fallback when publishing fails.
func newApprovalPipeline(ctx context.Context, cfg *config.Config, effects *approval.Effects) (*approvalPipeline, error) {
	inline := approval.NewSyncDispatcher(effects)
	if cfg.Approval.Dispatch != config.DispatchEvents {
		return &approvalPipeline{dispatcher: inline}, nil
	}

	ec := eventsConfig(cfg)
	if ec.Transport == events.TransportNATS && !ec.Covers(approval.TopicRecipeApproved) {
		return nil, fmt.Errorf("stream subjects %v do not capture %s", ec.StreamSubjects, approval.TopicRecipeApproved)
	}
	adapter := logging.NewWatermillAdapter()

	var embedded *events.EmbeddedServer
	if ec.Transport == events.TransportNATS && cfg.Events.Embedded {
		ecfg := events.DefaultEmbeddedConfig()
		ecfg.Host = cfg.Events.EmbeddedHost
		ecfg.Port = cfg.Events.EmbeddedPort
		ecfg.StoreDir = cfg.Events.EmbeddedStoreDir

		srv, err := events.StartEmbedded(ecfg)
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS: %w", err)
		}
		embedded = srv
		ec.NATSURL = srv.ClientURL()
		logging.Info().Str("url", ec.NATSURL).Msg("Embedded NATS server started")
	}

	transport, err := events.Open(ctx, ec, adapter)
	if err != nil {
		if embedded != nil {
			embedded.Shutdown()
		}
		return nil, fmt.Errorf("open %s transport: %w", ec.Transport, err)
	}

	consumer := approval.NewConsumer(effects)
	router := services.NewEventRouterService(func() (services.EventRouter, error) {
		sub, err := transport.NewSubscriber()
		if err != nil {
			return nil, err
		}
		r, err := events.NewRouter(ec, transport.Publisher, adapter)
		if err != nil {
			_ = sub.Close()
			return nil, err
		}
		consumer.Register(r, sub)
		return r, nil
	})

	return &approvalPipeline{
		dispatcher: approval.NewEventDispatcher(transport.Publisher, inline),
		transport:  transport,
		router:     router,
		embedded:   embedded,
	}, nil
}
