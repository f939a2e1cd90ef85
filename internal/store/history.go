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

// History reads cooking history records. Writes come from the cooking
// session feature; Put exists for seeding.
type History struct {
	s *Store
}

// NewHistory creates the cooking history repository.
func NewHistory(s *Store) *History {
	return &History{s: s}
}

// Get returns the user's history record, or nil when it does not exist.
func (h *History) Get(ctx context.Context, userID, historyID string) (*models.CookingHistory, error) {
	item, err := h.s.Get(ctx, HistoryKey(userID, historyID))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var history models.CookingHistory
	if err := item.Decode(&history); err != nil {
		return nil, apperror.Internal("history.decode", err)
	}
	return &history, nil
}

// Put stores a history record, replacing any previous version.
func (h *History) Put(ctx context.Context, history *models.CookingHistory) error {
	item, err := NewItem(HistoryKey(history.UserID, history.HistoryID), history)
	if err != nil {
		return apperror.Internal("history.encode", err)
	}
	return h.s.Put(ctx, item)
}
