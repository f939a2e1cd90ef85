// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package events

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/nvtruongops/smart-cooking-sub003/internal/metrics"
)

// ErrUnprocessable marks a handler error that no retry can fix, such as an
// undecodable payload. Such messages skip the retries and go straight to the
// poison queue.
var ErrUnprocessable = errors.New("unprocessable message")

// Router runs consumer handlers with poison queue, retry and panic recovery.
type Router struct {
	router  *message.Router
	logger  watermill.LoggerAdapter
	running atomic.Bool
	name    string
}

// NewRouter creates a router. Failed messages are retried cfg.RetryCount
// times and then published to cfg.PoisonQueueTopic on poisonPub. With a nil
// poisonPub or empty topic, exhausted messages are nacked instead.
//
// Middleware order, outermost first: poison queue, retry, metrics, recoverer.
// The poison queue sits outside retry so that it only sees errors that
// survived every retry.
func NewRouter(cfg Config, poisonPub message.Publisher, logger watermill.LoggerAdapter) (*Router, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	wmRouter, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	if poisonPub != nil && cfg.PoisonQueueTopic != "" {
		poison, err := middleware.PoisonQueue(poisonPub, cfg.PoisonQueueTopic)
		if err != nil {
			return nil, fmt.Errorf("create poison queue middleware: %w", err)
		}
		wmRouter.AddMiddleware(poison)
	}

	if cfg.RetryCount > 0 {
		retry := middleware.Retry{
			MaxRetries:      cfg.RetryCount,
			InitialInterval: cfg.RetryInitialInterval,
			MaxInterval:     cfg.RetryMaxInterval,
			Multiplier:      2.0,
			Logger:          logger,
			ShouldRetry: func(p middleware.RetryParams) bool {
				return !errors.Is(p.Err, ErrUnprocessable)
			},
		}
		wmRouter.AddMiddleware(retry.Middleware)
	}

	wmRouter.AddMiddleware(consumeMetrics, middleware.Recoverer)

	return &Router{
		router: wmRouter,
		logger: logger,
		name:   "events-router",
	}, nil
}

// consumeMetrics counts each handler attempt per subscribed topic.
func consumeMetrics(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		out, err := h(msg)
		metrics.RecordEventConsumed(message.SubscribeTopicFromCtx(msg.Context()), err)
		return out, err
	}
}

// AddConsumerHandler registers a handler that produces no messages.
func (r *Router) AddConsumerHandler(name, topic string, sub message.Subscriber, handler message.NoPublishHandlerFunc) {
	r.router.AddConsumerHandler(name, topic, sub, handler)
}

// Run blocks until ctx is canceled or Close is called.
func (r *Router) Run(ctx context.Context) error {
	r.running.Store(true)
	defer r.running.Store(false)
	return r.router.Run(ctx)
}

// Running is closed once all handlers are subscribed.
func (r *Router) Running() chan struct{} {
	return r.router.Running()
}

// IsRunning reports whether Run is active.
func (r *Router) IsRunning() bool {
	return r.running.Load()
}

// Close stops the router, waiting up to CloseTimeout for in-flight messages.
func (r *Router) Close() error {
	return r.router.Close()
}

// String names the router for the supervisor.
func (r *Router) String() string {
	return r.name
}
