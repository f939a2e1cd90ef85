// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/nvtruongops/smart-cooking-sub003/internal/apperror"
	"github.com/nvtruongops/smart-cooking-sub003/internal/models"
)

// Recipes reads and updates recipe records.
type Recipes struct {
	s *Store
}

// NewRecipes creates the recipe repository.
func NewRecipes(s *Store) *Recipes {
	return &Recipes{s: s}
}

// Get returns the recipe or a RECIPE_NOT_FOUND error.
func (r *Recipes) Get(ctx context.Context, recipeID string) (*models.Recipe, error) {
	item, err := r.s.Get(ctx, RecipeKey(recipeID))
	if err != nil {
		return nil, recipeErr(recipeID, err)
	}
	return decodeRecipe(item)
}

// Create stores a new recipe. It fails with a Conflict if the id is taken.
func (r *Recipes) Create(ctx context.Context, recipe *models.Recipe) error {
	now := r.s.now()
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = now
	}
	recipe.UpdatedAt = now

	item, err := NewItem(RecipeKey(recipe.RecipeID), recipe)
	if err != nil {
		return apperror.Internal("recipes.Create", err)
	}
	item.CreatedAt = recipe.CreatedAt
	return r.s.Put(ctx, item, IfNotExists())
}

// SetAggregate overwrites the recipe's average, count and sum. Concurrent
// writers race and the last one wins.
func (r *Recipes) SetAggregate(ctx context.Context, recipeID string, agg models.Aggregate) (*models.Recipe, error) {
	return r.update(ctx, recipeID, func(recipe *models.Recipe) error {
		recipe.AverageRating = agg.AverageRating
		recipe.RatingCount = agg.RatingCount
		recipe.RatingSum = agg.RatingSum
		return nil
	})
}

// ApplyRatingDelta adds one score to the recipe's running sum and count and
// derives the rounded average from them with round. The read-modify-write is
// a single transaction, so concurrent submissions never lose an increment.
func (r *Recipes) ApplyRatingDelta(ctx context.Context, recipeID string, score int, round func(sum, count int) float64) (*models.Recipe, error) {
	return r.update(ctx, recipeID, func(recipe *models.Recipe) error {
		if recipe.RatingSum == 0 && recipe.RatingCount > 0 {
			// Recipe aggregated before counters were kept; reconstruct the sum.
			recipe.RatingSum = int(recipe.AverageRating*float64(recipe.RatingCount) + 0.5)
		}
		recipe.RatingSum += score
		recipe.RatingCount++
		recipe.AverageRating = round(recipe.RatingSum, recipe.RatingCount)
		return nil
	})
}

// MarkApproved flips the recipe to approved and public. It reports false
// without error when the recipe was already approved.
func (r *Recipes) MarkApproved(ctx context.Context, recipeID string) (*models.Recipe, bool, error) {
	recipe, err := r.update(ctx, recipeID, func(recipe *models.Recipe) error {
		if recipe.IsApproved {
			return ErrConditionFailed
		}
		approvedAt := r.s.now()
		recipe.IsApproved = true
		recipe.IsPublic = true
		recipe.ApprovalType = models.ApprovalTypeAutoRating
		recipe.ApprovedAt = &approvedAt
		return nil
	})
	if errors.Is(err, ErrConditionFailed) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return recipe, true, nil
}

func (r *Recipes) update(ctx context.Context, recipeID string, mutate func(*models.Recipe) error) (*models.Recipe, error) {
	var updated models.Recipe
	_, err := r.s.ConditionalUpdate(ctx, RecipeKey(recipeID), func(item *Item) error {
		var recipe models.Recipe
		if err := item.Decode(&recipe); err != nil {
			return err
		}
		if err := mutate(&recipe); err != nil {
			return err
		}
		recipe.UpdatedAt = r.s.now()
		updated = recipe
		return item.Encode(&recipe)
	}, IfExists())
	if err != nil {
		return nil, recipeErr(recipeID, err)
	}
	return &updated, nil
}

func decodeRecipe(item *Item) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := item.Decode(&recipe); err != nil {
		return nil, apperror.Internal("recipes.decode", err)
	}
	return &recipe, nil
}

// recipeErr gives NotFound errors the recipe-specific code.
func recipeErr(recipeID string, err error) error {
	if errors.Is(err, ErrNotFound) {
		e := apperror.RecipeNotFound(recipeID)
		e.Err = err
		return e
	}
	if errors.Is(err, ErrConditionFailed) {
		return err
	}
	return fmt.Errorf("recipe %s: %w", recipeID, err)
}
