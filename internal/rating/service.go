// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package rating

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nvtruongops/smart-cooking-sub003/internal/apperror"
	"github.com/nvtruongops/smart-cooking-sub003/internal/logging"
	"github.com/nvtruongops/smart-cooking-sub003/internal/metrics"
	"github.com/nvtruongops/smart-cooking-sub003/internal/models"
	"github.com/nvtruongops/smart-cooking-sub003/internal/validation"
)

// Aggregation modes.
const (
	ModeRescan  = "rescan"
	ModeCounter = "counter"
)

// Submission messages returned to the caller.
const (
	MessageSubmitted    = "Rating submitted successfully."
	MessageAutoApproved = "Rating submitted successfully. This recipe has been auto-approved by the community!"
)

// RecipeRepository is the recipe storage the service needs.
type RecipeRepository interface {
	Get(ctx context.Context, recipeID string) (*models.Recipe, error)
	SetAggregate(ctx context.Context, recipeID string, agg models.Aggregate) (*models.Recipe, error)
	ApplyRatingDelta(ctx context.Context, recipeID string, score int, round func(sum, count int) float64) (*models.Recipe, error)
}

// RatingRepository is the rating storage the service needs.
type RatingRepository interface {
	Create(ctx context.Context, rating *models.Rating) error
	CreateUnique(ctx context.Context, rating *models.Rating) error
	FindByRecipeAndUser(ctx context.Context, recipeID, userID string) (*models.Rating, error)
	ListAllForRecipe(ctx context.Context, recipeID string) ([]models.Rating, error)
	PageByRecipe(ctx context.Context, recipeID string, limit int, pageToken string) ([]models.Rating, string, error)
	PageByUser(ctx context.Context, userID string, limit int, pageToken string) ([]models.Rating, string, error)
}

// HistoryRepository resolves cooking sessions for the verified-cook flag.
type HistoryRepository interface {
	Get(ctx context.Context, userID, historyID string) (*models.CookingHistory, error)
}

// Approver moves a recipe that passed the threshold to approved. It reports
// false when another submission approved the recipe first.
type Approver interface {
	Fire(ctx context.Context, recipe *models.Recipe, agg models.Aggregate) (bool, error)
}

// Config controls aggregation, duplicate protection and paging.
type Config struct {
	AggregateMode   string
	UniqueGuard     bool
	Thresholds      Thresholds
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultConfig returns the rescan configuration with the per-user guard on.
func DefaultConfig() Config {
	return Config{
		AggregateMode:   ModeRescan,
		UniqueGuard:     true,
		Thresholds:      DefaultThresholds(),
		DefaultPageSize: 20,
		MaxPageSize:     100,
	}
}

// SubmitInput is one rating submission. UserID comes from the authenticated
// caller, never from the request body.
type SubmitInput struct {
	RecipeID  string `json:"recipe_id" validate:"entityid"`
	UserID    string `json:"user_id" validate:"entityid"`
	Rating    int    `json:"rating" validate:"stars"`
	Comment   string `json:"comment" validate:"max=2000"`
	HistoryID string `json:"history_id" validate:"omitempty,entityid"`
}

// SubmitResult is returned for an accepted rating.
type SubmitResult struct {
	Rating        models.Rating `json:"rating"`
	AverageRating float64       `json:"average_rating"`
	RatingCount   int           `json:"rating_count"`
	AutoApproved  bool          `json:"auto_approved"`
	Message       string        `json:"message"`
}

// Service handles rating submissions and rating queries.
type Service struct {
	recipes  RecipeRepository
	ratings  RatingRepository
	history  HistoryRepository
	approver Approver
	cfg      Config

	now   func() time.Time
	newID func() string
}

// NewService creates a rating service. approver may be nil, in which case
// recipes are never auto-approved.
func NewService(recipes RecipeRepository, ratings RatingRepository, history HistoryRepository, approver Approver, cfg Config) *Service {
	if cfg.AggregateMode == "" {
		cfg.AggregateMode = ModeRescan
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 20
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 100
	}
	return &Service{
		recipes:  recipes,
		ratings:  ratings,
		history:  history,
		approver: approver,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// SubmitRating validates and stores a rating, refreshes the recipe aggregate
// and fires auto-approval when the recipe qualifies.
func (s *Service) SubmitRating(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	result, err := s.submit(ctx, in)
	metrics.RecordRatingSubmission(submissionOutcome(err), in.Rating)
	return result, err
}

func (s *Service) submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}

	log := logging.Ctx(ctx).With().
		Str("recipe_id", in.RecipeID).
		Str("user_id", in.UserID).
		Logger()

	if _, err := s.recipes.Get(ctx, in.RecipeID); err != nil {
		return nil, err
	}

	existing, err := s.ratings.FindByRecipeAndUser(ctx, in.RecipeID, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("check existing rating: %w", err)
	}
	if existing != nil {
		return nil, apperror.AlreadyRated(in.RecipeID, in.UserID).
			WithDetail("rating_id", existing.RatingID)
	}

	rating := models.Rating{
		RatingID:       s.newID(),
		RecipeID:       in.RecipeID,
		UserID:         in.UserID,
		Rating:         in.Rating,
		Comment:        in.Comment,
		IsVerifiedCook: s.verifiedCook(ctx, in),
		CreatedAt:      s.now(),
	}
	if err := s.persist(ctx, &rating); err != nil {
		return nil, err
	}

	recipe, agg, err := s.aggregate(ctx, in.RecipeID, rating.Rating)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("rating_id", rating.RatingID).
		Int("rating", rating.Rating).
		Bool("verified_cook", rating.IsVerifiedCook).
		Float64("average_rating", agg.AverageRating).
		Int("rating_count", agg.RatingCount).
		Msg("Rating stored")

	approved := false
	if s.approver != nil && ShouldAutoApprove(recipe, agg, s.cfg.Thresholds) {
		approved, err = s.approver.Fire(ctx, recipe, agg)
		if err != nil {
			return nil, err
		}
	}

	message := MessageSubmitted
	if approved {
		message = MessageAutoApproved
	}
	return &SubmitResult{
		Rating:        rating,
		AverageRating: agg.AverageRating,
		RatingCount:   agg.RatingCount,
		AutoApproved:  approved,
		Message:       message,
	}, nil
}

// verifiedCook never fails the submission; a lookup error only costs the flag.
func (s *Service) verifiedCook(ctx context.Context, in SubmitInput) bool {
	if in.HistoryID == "" || s.history == nil {
		return false
	}
	h, err := s.history.Get(ctx, in.UserID, in.HistoryID)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("recipe_id", in.RecipeID).
			Str("history_id", in.HistoryID).
			Msg("Cooking history lookup failed, rating stored as unverified")
		return false
	}
	return h.VerifiesCook(in.UserID, in.RecipeID)
}

func (s *Service) persist(ctx context.Context, rating *models.Rating) error {
	if s.cfg.UniqueGuard {
		return s.ratings.CreateUnique(ctx, rating)
	}
	return s.ratings.Create(ctx, rating)
}

func (s *Service) aggregate(ctx context.Context, recipeID string, score int) (*models.Recipe, models.Aggregate, error) {
	if s.cfg.AggregateMode == ModeCounter {
		recipe, err := s.recipes.ApplyRatingDelta(ctx, recipeID, score, RoundedAverage)
		if err != nil {
			return nil, models.Aggregate{}, err
		}
		return recipe, models.Aggregate{
			AverageRating: recipe.AverageRating,
			RatingCount:   recipe.RatingCount,
			RatingSum:     recipe.RatingSum,
		}, nil
	}

	ratings, err := s.ratings.ListAllForRecipe(ctx, recipeID)
	if err != nil {
		return nil, models.Aggregate{}, fmt.Errorf("list ratings: %w", err)
	}
	agg := ComputeAggregate(scoresOf(ratings))
	recipe, err := s.recipes.SetAggregate(ctx, recipeID, agg)
	if err != nil {
		return nil, models.Aggregate{}, err
	}
	return recipe, agg, nil
}

func submissionOutcome(err error) string {
	if err == nil {
		return "created"
	}
	switch {
	case errors.Is(err, apperror.ErrAlreadyRated):
		return "already_rated"
	case errors.Is(err, apperror.ErrValidation):
		return "validation_error"
	case errors.Is(err, apperror.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
