// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package store

import (
	"context"
	"errors"

	"github.com/nvtruongops/smart-cooking-sub003/internal/apperror"
	"github.com/nvtruongops/smart-cooking-sub003/internal/models"
)

// Ratings stores immutable ratings under their recipe and projects them into
// the user-ratings index.
type Ratings struct {
	s *Store
}

// NewRatings creates the rating repository.
func NewRatings(s *Store) *Ratings {
	return &Ratings{s: s}
}

type raterGuard struct {
	UserID   string `json:"user_id"`
	RatingID string `json:"rating_id"`
}

func ratingItem(rating *models.Rating) (*Item, error) {
	item, err := NewItem(RatingKey(rating.RecipeID, rating.CreatedAt, rating.RatingID), rating)
	if err != nil {
		return nil, apperror.Internal("ratings.encode", err)
	}
	item.CreatedAt = rating.CreatedAt
	item.WithIndex(IndexUserRatings, UserRatingIndexKey(rating.UserID, rating.CreatedAt, rating.RecipeID))
	return item, nil
}

// Create stores a rating without the per-user guard.
func (r *Ratings) Create(ctx context.Context, rating *models.Rating) error {
	item, err := ratingItem(rating)
	if err != nil {
		return err
	}
	return r.s.Put(ctx, item, IfNotExists())
}

// CreateUnique stores a rating together with the RATER# guard in one atomic
// batch. A second rating by the same user fails with ALREADY_RATED even when
// both submissions race past the read-side duplicate check.
func (r *Ratings) CreateUnique(ctx context.Context, rating *models.Rating) error {
	item, err := ratingItem(rating)
	if err != nil {
		return err
	}
	guard, err := NewItem(RaterGuardKey(rating.RecipeID, rating.UserID), raterGuard{
		UserID:   rating.UserID,
		RatingID: rating.RatingID,
	})
	if err != nil {
		return apperror.Internal("ratings.encode", err)
	}

	err = r.s.BatchWrite(ctx, []Write{
		{Item: item, Conditions: []Condition{IfNotExists()}},
		{Item: guard, Conditions: []Condition{IfNotExists()}},
	}, nil)
	if errors.Is(err, ErrConditionFailed) {
		e := apperror.AlreadyRated(rating.RecipeID, rating.UserID)
		e.Err = err
		return e
	}
	return err
}

// FindByRecipeAndUser returns the user's rating of the recipe, or nil when
// there is none. It walks the user's index partition.
func (r *Ratings) FindByRecipeAndUser(ctx context.Context, recipeID, userID string) (*models.Rating, error) {
	token := ""
	for {
		page, err := r.s.QueryByPrefix(ctx, userPrefix+userID, ratingPrefix, QueryOptions{
			IndexName: IndexUserRatings,
			Limit:     100,
			PageToken: token,
		})
		if err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			rating, err := decodeRating(item)
			if err != nil {
				return nil, err
			}
			if rating.RecipeID == recipeID {
				return rating, nil
			}
		}
		if page.NextToken == "" {
			return nil, nil
		}
		token = page.NextToken
	}
}

// ListAllForRecipe returns every rating of the recipe, oldest first.
func (r *Ratings) ListAllForRecipe(ctx context.Context, recipeID string) ([]models.Rating, error) {
	page, err := r.s.QueryByPrefix(ctx, recipePrefix+recipeID, ratingPrefix, QueryOptions{})
	if err != nil {
		return nil, err
	}
	return decodeRatings(page.Items)
}

// PageByRecipe returns one page of the recipe's ratings, newest first.
func (r *Ratings) PageByRecipe(ctx context.Context, recipeID string, limit int, pageToken string) ([]models.Rating, string, error) {
	page, err := r.s.QueryByPrefix(ctx, recipePrefix+recipeID, ratingPrefix, QueryOptions{
		Limit:     limit,
		Reverse:   true,
		PageToken: pageToken,
	})
	if err != nil {
		return nil, "", err
	}
	ratings, err := decodeRatings(page.Items)
	return ratings, page.NextToken, err
}

// PageByUser returns one page of the user's ratings across recipes, newest first.
func (r *Ratings) PageByUser(ctx context.Context, userID string, limit int, pageToken string) ([]models.Rating, string, error) {
	page, err := r.s.QueryByPrefix(ctx, userPrefix+userID, ratingPrefix, QueryOptions{
		IndexName: IndexUserRatings,
		Limit:     limit,
		Reverse:   true,
		PageToken: pageToken,
	})
	if err != nil {
		return nil, "", err
	}
	ratings, err := decodeRatings(page.Items)
	return ratings, page.NextToken, err
}

func decodeRating(item *Item) (*models.Rating, error) {
	var rating models.Rating
	if err := item.Decode(&rating); err != nil {
		return nil, apperror.Internal("ratings.decode", err)
	}
	return &rating, nil
}

func decodeRatings(items []*Item) ([]models.Rating, error) {
	ratings := make([]models.Rating, 0, len(items))
	for _, item := range items {
		rating, err := decodeRating(item)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, *rating)
	}
	return ratings, nil
}
