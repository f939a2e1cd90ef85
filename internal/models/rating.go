// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package models

import "time"

// Rating bounds.
const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 2000
)

// Rating is one user's immutable score for a recipe.
type Rating struct {
	RatingID       string    `json:"rating_id"`
	RecipeID       string    `json:"recipe_id"`
	UserID         string    `json:"user_id"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment,omitempty"`
	IsVerifiedCook bool      `json:"is_verified_cook"`
	CreatedAt      time.Time `json:"created_at"`
}
