// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

// Package api exposes the rating service over HTTP.
//
// Routes are mounted on a chi router under /api/v1. Every response uses the
// Envelope type; domain errors are mapped from apperror kinds to HTTP
// statuses in one place (respondAppError).
package api

import (
	"context"
	"time"

	"github.com/nvtruongops/smart-cooking-sub003/internal/models"
	"github.com/nvtruongops/smart-cooking-sub003/internal/rating"
)

// RatingService is the part of rating.Service the handlers use.
type RatingService interface {
	SubmitRating(ctx context.Context, in rating.SubmitInput) (*rating.SubmitResult, error)
	GetRecipeRatings(ctx context.Context, recipeID string, limit int, pageToken string) (*rating.RecipeRatings, error)
	GetUserRatings(ctx context.Context, userID string, limit int, pageToken string) (*rating.UserRatings, error)
	PageSize(limit int) int
}

// NotificationReader lists a user's notifications.
type NotificationReader interface {
	PageByOwner(ctx context.Context, userID string, limit int, pageToken string) ([]models.Notification, string, error)
}

// ReadinessCheck is one dependency consulted by the readiness endpoint.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Handler holds the HTTP handlers and their dependencies.
type Handler struct {
	ratings       RatingService
	notifications NotificationReader
	checks        []ReadinessCheck
	startTime     time.Time
	readyTimeout  time.Duration
}

// NewHandler creates the API handler set.
func NewHandler(ratings RatingService, notifications NotificationReader, checks ...ReadinessCheck) *Handler {
	return &Handler{
		ratings:       ratings,
		notifications: notifications,
		checks:        checks,
		startTime:     time.Now(),
		readyTimeout:  2 * time.Second,
	}
}
