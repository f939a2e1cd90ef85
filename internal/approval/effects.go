// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package approval

import (
	"context"
	"errors"
	"fmt"

	"github.com/nvtruongops/smart-cooking-sub003/internal/enrichment"
	"github.com/nvtruongops/smart-cooking-sub003/internal/logging"
	"github.com/nvtruongops/smart-cooking-sub003/internal/metrics"
	"github.com/nvtruongops/smart-cooking-sub003/internal/models"
)

// Side effect labels used in logs and metrics.
const (
	EffectEnrichment   = "enrichment"
	EffectNotification = "notification"
)

// NotificationWriter stores owner notifications. Create reports false when
// the notification already exists.
type NotificationWriter interface {
	Create(ctx context.Context, n *models.Notification) (bool, error)
}

// Effects performs the work that follows an approval.
type Effects struct {
	enricher      enrichment.Client
	notifications NotificationWriter
}

// NewEffects creates the side-effect runner. A nil enricher disables
// enrichment.
func NewEffects(enricher enrichment.Client, notifications NotificationWriter) *Effects {
	if enricher == nil {
		enricher = enrichment.NoopClient{}
	}
	return &Effects{enricher: enricher, notifications: notifications}
}

// Run enriches the catalog and notifies the owner. Both are attempted; the
// returned error joins whichever failed.
func (e *Effects) Run(ctx context.Context, ev Approved) error {
	return errors.Join(e.Enrich(ctx, ev), e.Notify(ctx, ev))
}

// Enrich adds the recipe's ingredients to the catalog.
func (e *Effects) Enrich(ctx context.Context, ev Approved) error {
	result, err := e.enricher.EnrichFromApprovedRecipe(ctx, ev.RecipeID)
	metrics.RecordApprovalSideEffect(EffectEnrichment, err)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).
			Str("effect", EffectEnrichment).
			Str("recipe_id", ev.RecipeID).
			Str("owner_id", ev.OwnerID).
			Float64("average_rating", ev.AverageRating).
			Int("rating_count", ev.RatingCount).
			Msg("Ingredient enrichment failed for approved recipe")
		return fmt.Errorf("enrich recipe %s: %w", ev.RecipeID, err)
	}

	logging.Ctx(ctx).Info().
		Str("recipe_id", ev.RecipeID).
		Int("total_ingredients", result.TotalIngredients).
		Int("new_ingredients", result.NewIngredients).
		Int("existing_ingredients", result.ExistingIngredients).
		Msg("Ingredient catalog enriched")
	return nil
}

// Notify writes the owner notification once per approval.
func (e *Effects) Notify(ctx context.Context, ev Approved) error {
	if e.notifications == nil {
		return nil
	}
	n := ev.Notification()
	created, err := e.notifications.Create(ctx, n)
	metrics.RecordApprovalSideEffect(EffectNotification, err)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).
			Str("effect", EffectNotification).
			Str("recipe_id", ev.RecipeID).
			Str("owner_id", ev.OwnerID).
			Str("notification_id", n.NotificationID).
			Msg("Owner notification failed for approved recipe")
		return fmt.Errorf("notify owner of recipe %s: %w", ev.RecipeID, err)
	}

	if !created {
		logging.Ctx(ctx).Debug().
			Str("recipe_id", ev.RecipeID).
			Str("notification_id", n.NotificationID).
			Msg("Approval notification already exists")
		return nil
	}
	logging.Ctx(ctx).Info().
		Str("recipe_id", ev.RecipeID).
		Str("owner_id", ev.OwnerID).
		Str("notification_id", n.NotificationID).
		Msg("Owner notified of approval")
	return nil
}
