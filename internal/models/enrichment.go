// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package models

// EnrichmentResult reports what the ingredient catalog learned from an approved recipe.
type EnrichmentResult struct {
	TotalIngredients    int      `json:"total_ingredients"`
	NewIngredients      int      `json:"new_ingredients"`
	ExistingIngredients int      `json:"existing_ingredients"`
	AddedIngredientIDs  []string `json:"added_ingredient_ids"`
}
