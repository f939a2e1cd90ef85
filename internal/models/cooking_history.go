// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package models

import "time"

// Cooking session statuses.
const (
	CookingStatusInProgress = "in_progress"
	CookingStatusCompleted  = "completed"
)

// CookingHistory records that a user cooked a recipe. It is written by the
// cooking-session feature and read here to mark verified cooks.
type CookingHistory struct {
	HistoryID   string     `json:"history_id"`
	UserID      string     `json:"user_id"`
	RecipeID    string     `json:"recipe_id"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// VerifiesCook reports whether this history proves userID cooked recipeID.
func (h *CookingHistory) VerifiesCook(userID, recipeID string) bool {
	return h != nil &&
		h.UserID == userID &&
		h.RecipeID == recipeID &&
		h.Status == CookingStatusCompleted
}
