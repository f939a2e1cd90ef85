// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package approval

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/nvtruongops/smart-cooking-sub003/internal/events"
	"github.com/nvtruongops/smart-cooking-sub003/internal/logging"
)

// ConsumerHandlerName identifies the approval handler on the router.
const ConsumerHandlerName = "recipe-approved-effects"

// Consumer runs approval side effects from recipe.approved messages.
type Consumer struct {
	effects *Effects
}

// NewConsumer creates the consumer.
func NewConsumer(effects *Effects) *Consumer {
	return &Consumer{effects: effects}
}

// Register subscribes the consumer on r.
func (c *Consumer) Register(r *events.Router, sub message.Subscriber) {
	r.AddConsumerHandler(ConsumerHandlerName, TopicRecipeApproved, sub, c.Handle)
}

// Handle processes one message. A returned error lets the router retry;
// enrichment is idempotent and the notification is written at most once,
// so redelivery is harmless.
func (c *Consumer) Handle(msg *message.Message) error {
	ctx := msg.Context()
	if id := msg.Metadata.Get(metadataRequestID); id != "" {
		ctx = logging.ContextWithRequestID(ctx, id)
	}
	if id := msg.Metadata.Get(metadataCorrelationID); id != "" {
		ctx = logging.ContextWithCorrelationID(ctx, id)
	}

	ev, err := unmarshalApproved(msg.Payload)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).
			Str("message_uuid", msg.UUID).
			Msg("Malformed approval event, sending to poison queue without retry")
		return fmt.Errorf("%w: %w", events.ErrUnprocessable, err)
	}
	return c.effects.Run(ctx, ev)
}
