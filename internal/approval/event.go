// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package approval

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/nvtruongops/smart-cooking-sub003/internal/models"
)

// TopicRecipeApproved carries Approved events.
const TopicRecipeApproved = "recipe.approved"

// notificationNamespace scopes the name-based notification ids.
var notificationNamespace = uuid.MustParse("6f1c2a8e-4b7d-5e3a-9c0f-2d8b1e7a4c63")

// Approved describes a recipe that just became approved.
type Approved struct {
	RecipeID      string    `json:"recipe_id"`
	OwnerID       string    `json:"owner_id"`
	Title         string    `json:"title"`
	AverageRating float64   `json:"average_rating"`
	RatingCount   int       `json:"rating_count"`
	ApprovedAt    time.Time `json:"approved_at"`
}

// NewApproved builds the event from the approved recipe and the aggregate
// that triggered it.
func NewApproved(recipe *models.Recipe, agg models.Aggregate) Approved {
	approvedAt := recipe.UpdatedAt
	if recipe.ApprovedAt != nil {
		approvedAt = *recipe.ApprovedAt
	}
	return Approved{
		RecipeID:      recipe.RecipeID,
		OwnerID:       recipe.OwnerID,
		Title:         recipe.Title,
		AverageRating: agg.AverageRating,
		RatingCount:   agg.RatingCount,
		ApprovedAt:    approvedAt.UTC(),
	}
}

// MessageID is stable per recipe, so brokers can drop duplicate publishes.
func (e Approved) MessageID() string {
	return uuid.NewSHA1(notificationNamespace, []byte("event:"+e.RecipeID)).String()
}

// NotificationID is the id of the owner notification for this approval.
func (e Approved) NotificationID() string {
	return uuid.NewSHA1(notificationNamespace, []byte("notification:"+e.RecipeID)).String()
}

// NotificationContent is the text shown to the recipe owner.
func NotificationContent(title string, average float64, count int) string {
	return fmt.Sprintf("Your recipe \"%s\" was approved by the community with an average rating of %.2f from %d ratings.",
		title, average, count)
}

// Notification builds the owner notification for this approval.
func (e Approved) Notification() *models.Notification {
	return &models.Notification{
		NotificationID: e.NotificationID(),
		UserID:         e.OwnerID,
		Type:           models.NotificationTypeRecipeApproved,
		TargetID:       e.RecipeID,
		Content:        NotificationContent(e.Title, e.AverageRating, e.RatingCount),
		CreatedAt:      e.ApprovedAt,
	}
}

func (e Approved) marshal() ([]byte, error) {
	return json.Marshal(e)
}

func unmarshalApproved(payload []byte) (Approved, error) {
	var e Approved
	if err := json.Unmarshal(payload, &e); err != nil {
		return e, fmt.Errorf("decode %s event: %w", TopicRecipeApproved, err)
	}
	if e.RecipeID == "" || e.OwnerID == "" {
		return e, fmt.Errorf("decode %s event: recipe_id and owner_id are required", TopicRecipeApproved)
	}
	return e, nil
}
