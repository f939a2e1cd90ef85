// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package apperror

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestSentinelMatching(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		target   error
		expected bool
	}{
		{"already rated is a conflict", AlreadyRated("r1", "u1"), ErrConflict, true},
		{"already rated matches its code", AlreadyRated("r1", "u1"), ErrAlreadyRated, true},
		{"plain conflict is not already rated", Conflict("version mismatch"), ErrAlreadyRated, false},
		{"recipe not found is not found", RecipeNotFound("r1"), ErrNotFound, true},
		{"wrapped validation", fmt.Errorf("submit: %w", Validation("rating", "out of range")), ErrValidation, true},
		{"rate limited is not internal", RateLimited("store.Put", time.Second, nil), ErrInternal, false},
		{"database error is internal", Database("store.Get", 0, errors.New("conflict")), ErrInternal, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.expected {
				t.Errorf("errors.Is = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	if got := KindOf(errors.New("plain")); got != KindInternal {
		t.Errorf("expected internal for plain error, got %s", got)
	}
	if got := KindOf(NotFound("rating", "x")); got != KindNotFound {
		t.Errorf("expected not_found, got %s", got)
	}
}

func TestErrorCarriesTimestampAndDetails(t *testing.T) {
	t.Parallel()

	err := RateLimited("store.Put", 2*time.Second, errors.New("throttled"))
	if err.Timestamp.IsZero() {
		t.Error("expected generation timestamp")
	}
	if err.Details["retry_after_seconds"] != 2.0 {
		t.Errorf("expected retry_after_seconds=2, got %v", err.Details["retry_after_seconds"])
	}
	if !errors.Is(err, ErrRateLimited) {
		t.Error("expected rate limited kind")
	}
	if got := err.Error(); got != "store.Put: request rate exceeded, retry later: throttled" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestAs_WrapsUnclassified(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	appErr := As(cause)
	if appErr.Kind != KindInternal || appErr.Code != CodeInternal {
		t.Errorf("expected internal error, got %+v", appErr)
	}
	if !errors.Is(appErr, cause) {
		t.Error("expected cause to be preserved")
	}
}
