// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/nvtruongops/smart-cooking-sub003/internal/apperror"
	"github.com/nvtruongops/smart-cooking-sub003/internal/retry"
)

// Errors
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConditionFailed is returned when a write precondition does not hold.
	ErrConditionFailed = errors.New("condition check failed")

	// ErrInvalidKey is returned for empty keys or keys containing reserved bytes.
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidPageToken is returned when a continuation token cannot be decoded
	// or does not belong to the query.
	ErrInvalidPageToken = errors.New("invalid page token")

	// ErrAttemptTimeout is returned when a single attempt exceeds the operation timeout.
	ErrAttemptTimeout = errors.New("operation attempt timed out")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("store is closed")
)

// ThrottleError is returned when the throughput limiter rejects a request.
type ThrottleError struct {
	After time.Duration
}

func (e *ThrottleError) Error() string {
	return fmt.Sprintf("throughput exceeded, retry after %s", e.After)
}

// RetryAfter implements retry.RetryAfterer.
func (e *ThrottleError) RetryAfter() time.Duration {
	return e.After
}

// ErrThrottled matches any *ThrottleError via errors.Is.
var ErrThrottled = &ThrottleError{}

// Is makes every ThrottleError match ErrThrottled.
func (e *ThrottleError) Is(target error) bool {
	_, ok := target.(*ThrottleError)
	return ok
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	switch {
	case errors.Is(err, badger.ErrConflict),
		errors.Is(err, badger.ErrBlockedWrites),
		errors.Is(err, ErrThrottled),
		errors.Is(err, ErrAttemptTimeout):
		return true
	default:
		return false
	}
}

// translate maps a final failure onto the apperror taxonomy. It is the only
// place where storage errors are classified.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}

	var exhausted *retry.ExhaustedError
	if errors.As(err, &exhausted) {
		var throttled *ThrottleError
		if errors.As(exhausted.Err, &throttled) {
			after := exhausted.NextDelay
			if throttled.After > after {
				after = throttled.After
			}
			return apperror.RateLimited(op, after, err)
		}
		return apperror.Database(op, exhausted.NextDelay, err)
	}

	var e *apperror.Error
	switch {
	case errors.Is(err, ErrNotFound):
		e = apperror.NotFound("record", "")
	case errors.Is(err, ErrConditionFailed):
		e = apperror.Conflict("write precondition not met")
	case errors.Is(err, ErrInvalidKey):
		e = apperror.Validation("key", "invalid record key")
	case errors.Is(err, ErrInvalidPageToken):
		e = apperror.Validation("page_token", "invalid page token")
	case errors.Is(err, badger.ErrTxnTooBig):
		e = apperror.Validation("batch", "batch too large for a single transaction")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		e = apperror.Internal(op, err)
		e.Message = "operation canceled"
	default:
		e = apperror.Internal(op, err)
	}
	e.Op = op
	e.Err = err
	return e
}
