// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/nvtruongops/smart-cooking-sub003/internal/apperror"
	"github.com/nvtruongops/smart-cooking-sub003/internal/middleware"
	"github.com/nvtruongops/smart-cooking-sub003/internal/models"
	"github.com/nvtruongops/smart-cooking-sub003/internal/rating"
	"github.com/nvtruongops/smart-cooking-sub003/internal/validation"
)

// maxBodyBytes bounds rating submission bodies.
const maxBodyBytes = 16 << 10

// submitRatingRequest is the POST body. The rater is the authenticated
// caller; a user_id in the body is ignored.
type submitRatingRequest struct {
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	HistoryID string `json:"history_id"`
}

// listQuery holds the pagination query parameters shared by list endpoints.
type listQuery struct {
	Limit     int    `json:"limit" validate:"gte=0"`
	PageToken string `json:"page_token" validate:"max=1024"`
}

// NotificationList is one page of a user's notifications.
type NotificationList struct {
	UserID        string                `json:"user_id"`
	Notifications []models.Notification `json:"notifications"`
	NextPageToken string                `json:"next_page_token,omitempty"`
}

// SubmitRating handles POST /api/v1/recipes/{recipeId}/ratings.
func (h *Handler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	var req submitRatingRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondAppError(w, r, err)
		return
	}

	result, err := h.ratings.SubmitRating(r.Context(), rating.SubmitInput{
		RecipeID:  chi.URLParam(r, "recipeId"),
		UserID:    middleware.UserID(r.Context()),
		Rating:    req.Rating,
		Comment:   req.Comment,
		HistoryID: req.HistoryID,
	})
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, result)
}

// RecipeRatings handles GET /api/v1/recipes/{recipeId}/ratings.
func (h *Handler) RecipeRatings(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		respondAppError(w, r, err)
		return
	}

	page, err := h.ratings.GetRecipeRatings(r.Context(), chi.URLParam(r, "recipeId"), q.Limit, q.PageToken)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondPage(w, r, page, h.pagination(len(page.Ratings), q.Limit, page.NextPageToken))
}

// UserRatings handles GET /api/v1/users/{userId}/ratings.
func (h *Handler) UserRatings(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		respondAppError(w, r, err)
		return
	}

	page, err := h.ratings.GetUserRatings(r.Context(), chi.URLParam(r, "userId"), q.Limit, q.PageToken)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondPage(w, r, page, h.pagination(len(page.Ratings), q.Limit, page.NextPageToken))
}

// UserNotifications handles GET /api/v1/users/{userId}/notifications.
// Notifications are private: the caller must be the owner.
func (h *Handler) UserNotifications(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if caller := middleware.UserID(r.Context()); caller != userID {
		respondError(w, r, http.StatusForbidden, ErrCodeForbidden, "notifications are only visible to their owner", nil)
		return
	}

	q, err := parseListQuery(r)
	if err != nil {
		respondAppError(w, r, err)
		return
	}

	limit := h.ratings.PageSize(q.Limit)
	items, next, err := h.notifications.PageByOwner(r.Context(), userID, limit, q.PageToken)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondPage(w, r, &NotificationList{
		UserID:        userID,
		Notifications: items,
		NextPageToken: next,
	}, h.pagination(len(items), q.Limit, next))
}

func (h *Handler) pagination(count, requested int, next string) *Pagination {
	return &Pagination{
		Count:         count,
		Limit:         h.ratings.PageSize(requested),
		HasMore:       next != "",
		NextPageToken: next,
	}
}

func parseListQuery(r *http.Request) (listQuery, error) {
	values := r.URL.Query()
	q := listQuery{PageToken: values.Get("page_token")}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return q, apperror.Validation("limit", "limit must be an integer")
		}
		q.Limit = limit
	}

	return q, validation.Struct(&q)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperror.Validation("body", "request body is required")
		case errors.As(err, &maxErr):
			return apperror.Validation("body", "request body too large")
		default:
			return apperror.Validation("body", "request body must be valid JSON")
		}
	}
	return nil
}
