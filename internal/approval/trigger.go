// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package approval

import (
	"context"

	"github.com/nvtruongops/smart-cooking-sub003/internal/logging"
	"github.com/nvtruongops/smart-cooking-sub003/internal/metrics"
	"github.com/nvtruongops/smart-cooking-sub003/internal/models"
)

// RecipeApprover flips a pending recipe to approved. It reports false when
// the recipe was already approved.
type RecipeApprover interface {
	MarkApproved(ctx context.Context, recipeID string) (*models.Recipe, bool, error)
}

// Trigger approves recipes that crossed the rating threshold.
type Trigger struct {
	recipes    RecipeApprover
	dispatcher Dispatcher
}

// NewTrigger creates a trigger. A nil dispatcher approves without side
// effects.
func NewTrigger(recipes RecipeApprover, dispatcher Dispatcher) *Trigger {
	return &Trigger{recipes: recipes, dispatcher: dispatcher}
}

// Fire approves the recipe and dispatches the follow-up work. It returns
// false without error when a concurrent submission approved it first. A
// failure to mark the recipe is returned; side-effect failures never are.
func (t *Trigger) Fire(ctx context.Context, recipe *models.Recipe, agg models.Aggregate) (bool, error) {
	approved, won, err := t.recipes.MarkApproved(ctx, recipe.RecipeID)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).
			Str("recipe_id", recipe.RecipeID).
			Msg("Failed to mark recipe approved")
		return false, err
	}
	metrics.RecordAutoApproval(won)
	if !won {
		logging.Ctx(ctx).Debug().
			Str("recipe_id", recipe.RecipeID).
			Msg("Recipe already approved by a concurrent submission")
		return false, nil
	}

	logging.Ctx(ctx).Info().
		Str("recipe_id", approved.RecipeID).
		Str("owner_id", approved.OwnerID).
		Float64("average_rating", agg.AverageRating).
		Int("rating_count", agg.RatingCount).
		Str("approval_type", approved.ApprovalType).
		Msg("Recipe auto-approved")

	if t.dispatcher != nil {
		t.dispatcher.Dispatch(ctx, NewApproved(approved, agg))
	}
	return true, nil
}
