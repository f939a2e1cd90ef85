// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package rating

import (
	"context"

	"github.com/nvtruongops/smart-cooking-sub003/internal/apperror"
	"github.com/nvtruongops/smart-cooking-sub003/internal/models"
)

// RecipeRatings is one page of a recipe's ratings with its stored aggregate.
type RecipeRatings struct {
	RecipeID      string          `json:"recipe_id"`
	AverageRating float64         `json:"average_rating"`
	RatingCount   int             `json:"rating_count"`
	Ratings       []models.Rating `json:"ratings"`
	NextPageToken string          `json:"next_page_token,omitempty"`
}

// UserRatings is one page of a user's ratings.
type UserRatings struct {
	UserID        string          `json:"user_id"`
	Ratings       []models.Rating `json:"ratings"`
	NextPageToken string          `json:"next_page_token,omitempty"`
}

// GetRecipeRatings returns the recipe's aggregate and a page of its ratings,
// newest first. The aggregate is read from the recipe, not recomputed.
func (s *Service) GetRecipeRatings(ctx context.Context, recipeID string, limit int, pageToken string) (*RecipeRatings, error) {
	if recipeID == "" {
		return nil, apperror.Validation("recipe_id", "recipe_id is required")
	}
	recipe, err := s.recipes.Get(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	ratings, next, err := s.ratings.PageByRecipe(ctx, recipeID, s.PageSize(limit), pageToken)
	if err != nil {
		return nil, err
	}
	return &RecipeRatings{
		RecipeID:      recipeID,
		AverageRating: recipe.AverageRating,
		RatingCount:   recipe.RatingCount,
		Ratings:       ratings,
		NextPageToken: next,
	}, nil
}

// GetUserRatings returns a page of the user's ratings across all recipes,
// newest first.
func (s *Service) GetUserRatings(ctx context.Context, userID string, limit int, pageToken string) (*UserRatings, error) {
	if userID == "" {
		return nil, apperror.Validation("user_id", "user_id is required")
	}
	ratings, next, err := s.ratings.PageByUser(ctx, userID, s.PageSize(limit), pageToken)
	if err != nil {
		return nil, err
	}
	return &UserRatings{
		UserID:        userID,
		Ratings:       ratings,
		NextPageToken: next,
	}, nil
}

// PageSize applies the default to a missing limit and caps oversized ones.
func (s *Service) PageSize(limit int) int {
	switch {
	case limit <= 0:
		return s.cfg.DefaultPageSize
	case limit > s.cfg.MaxPageSize:
		return s.cfg.MaxPageSize
	default:
		return limit
	}
}
