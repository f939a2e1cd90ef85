// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package approval

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/nvtruongops/smart-cooking-sub003/internal/logging"
)

// Metadata keys set on published approval messages.
const (
	metadataRecipeID      = "recipe_id"
	metadataRequestID     = "request_id"
	metadataCorrelationID = "correlation_id"
)

// Dispatcher hands an approval to its side effects. It never fails the
// caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev Approved)
}

// SyncDispatcher runs the side effects before returning.
type SyncDispatcher struct {
	effects *Effects
}

// NewSyncDispatcher creates a synchronous dispatcher.
func NewSyncDispatcher(effects *Effects) *SyncDispatcher {
	return &SyncDispatcher{effects: effects}
}

// Dispatch runs enrichment and notification. Failures were already logged
// by Effects and are dropped here. The work is detached from the caller's
// cancellation so a disconnecting client does not abort it.
func (d *SyncDispatcher) Dispatch(ctx context.Context, ev Approved) {
	_ = d.effects.Run(context.WithoutCancel(ctx), ev)
}

// EventDispatcher publishes approvals for asynchronous processing.
type EventDispatcher struct {
	publisher message.Publisher
	fallback  Dispatcher
}

// NewEventDispatcher creates a dispatcher that publishes to
// TopicRecipeApproved and uses fallback when publishing fails.
func NewEventDispatcher(publisher message.Publisher, fallback Dispatcher) *EventDispatcher {
	return &EventDispatcher{publisher: publisher, fallback: fallback}
}

// Dispatch publishes ev. If the event cannot be published the side effects
// run through the fallback instead of being lost.
func (d *EventDispatcher) Dispatch(ctx context.Context, ev Approved) {
	err := d.publish(ctx, ev)
	if err == nil {
		logging.Ctx(ctx).Debug().
			Str("recipe_id", ev.RecipeID).
			Str("topic", TopicRecipeApproved).
			Msg("Approval event published")
		return
	}

	logging.Ctx(ctx).Warn().Err(err).
		Str("recipe_id", ev.RecipeID).
		Str("topic", TopicRecipeApproved).
		Msg("Approval event publish failed, running side effects synchronously")
	if d.fallback != nil {
		d.fallback.Dispatch(ctx, ev)
	}
}

func (d *EventDispatcher) publish(ctx context.Context, ev Approved) error {
	payload, err := ev.marshal()
	if err != nil {
		return err
	}
	msg := message.NewMessage(ev.MessageID(), payload)
	msg.Metadata.Set(metadataRecipeID, ev.RecipeID)
	if id := logging.RequestIDFromContext(ctx); id != "" {
		msg.Metadata.Set(metadataRequestID, id)
	}
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set(metadataCorrelationID, id)
	}
	return d.publisher.Publish(TopicRecipeApproved, msg)
}
