// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package models

import "time"

// ApprovalTypeAutoRating marks recipes made public by the community rating threshold.
const ApprovalTypeAutoRating = "auto_rating"

// Recipe is the subset of a recipe record this service reads and updates.
// Recipes are authored elsewhere; the rating flow only touches the aggregate
// and approval fields.
type Recipe struct {
	RecipeID     string     `json:"recipe_id"`
	Title        string     `json:"title"`
	OwnerID      string     `json:"owner_id"`
	Ingredients  []string   `json:"ingredients,omitempty"`
	IsApproved   bool       `json:"is_approved"`
	IsPublic     bool       `json:"is_public"`
	ApprovalType string     `json:"approval_type,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`

	// AverageRating is always stored rounded to two decimal places.
	AverageRating float64 `json:"average_rating"`
	RatingCount   int     `json:"rating_count"`

	// RatingSum is the total of all scores. Both aggregate modes keep it
	// current so that switching modes never starts from a stale sum.
	RatingSum int `json:"rating_sum,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Aggregate is the derived rating summary of a recipe.
type Aggregate struct {
	AverageRating float64 `json:"average_rating"`
	RatingCount   int     `json:"rating_count"`
	RatingSum     int     `json:"-"`
}
