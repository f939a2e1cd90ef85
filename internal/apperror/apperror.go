// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

// Package apperror defines the error taxonomy that crosses service boundaries.
//
// Every error leaving the persistence layer or the rating service is an
// *Error with one of five kinds. Store-specific error types never escape:
// internal/store is the single translation point.
package apperror

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies an error for retry decisions and transport mapping.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindConflict    Kind = "conflict"
	KindRateLimited Kind = "rate_limited"
	KindInternal    Kind = "internal"
)

// Stable error codes. Kinds may carry a more specific code.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeRecipeNotFound = "RECIPE_NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeAlreadyRated   = "ALREADY_RATED"
	CodeRateLimited    = "RATE_LIMITED"
	CodeInternal       = "INTERNAL_ERROR"
	CodeDatabase       = "DATABASE_ERROR"
)

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]interface{}

	// Op is the operation that failed, e.g. "store.Get".
	Op string

	// RetryAfter is a hint for RateLimited and exhausted transient failures.
	RetryAfter time.Duration

	// Timestamp is when the error was generated.
	Timestamp time.Time

	Err error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind and code so that sentinel-style
// comparisons work: errors.Is(err, apperror.ErrAlreadyRated).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != "" && t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// WithDetail returns the error with one more details entry.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Sentinels for errors.Is checks. They carry only kind and code.
var (
	ErrValidation     = &Error{Kind: KindValidation}
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrRecipeNotFound = &Error{Kind: KindNotFound, Code: CodeRecipeNotFound}
	ErrConflict       = &Error{Kind: KindConflict}
	ErrAlreadyRated   = &Error{Kind: KindConflict, Code: CodeAlreadyRated}
	ErrRateLimited    = &Error{Kind: KindRateLimited}
	ErrInternal       = &Error{Kind: KindInternal}
)

func newError(kind Kind, code, message string) *Error {
	return &Error{
		Kind:      kind,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// Validation returns a ValidationError for a single field.
func Validation(field, message string) *Error {
	e := newError(KindValidation, CodeValidation, message)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// NotFound returns a NotFound error for the named entity.
func NotFound(entity, id string) *Error {
	return newError(KindNotFound, CodeNotFound, entity+" not found").
		WithDetail("entity", entity).
		WithDetail("id", id)
}

// RecipeNotFound returns the NotFound error used when a recipe id does not resolve.
func RecipeNotFound(recipeID string) *Error {
	e := NotFound("recipe", recipeID)
	e.Code = CodeRecipeNotFound
	return e
}

// Conflict returns a Conflict error.
func Conflict(message string) *Error {
	return newError(KindConflict, CodeConflict, message)
}

// AlreadyRated returns the Conflict raised for a second rating by the same user.
func AlreadyRated(recipeID, userID string) *Error {
	e := Conflict("user has already rated this recipe").
		WithDetail("recipe_id", recipeID).
		WithDetail("user_id", userID)
	e.Code = CodeAlreadyRated
	return e
}

// RateLimited returns a RateLimited error with a retry-after hint.
func RateLimited(op string, retryAfter time.Duration, cause error) *Error {
	e := newError(KindRateLimited, CodeRateLimited, "request rate exceeded, retry later")
	e.Op = op
	e.RetryAfter = retryAfter
	e.Err = cause
	e.WithDetail("retry_after_seconds", retryAfter.Seconds())
	return e
}

// Database wraps an exhausted transient store failure.
func Database(op string, retryAfter time.Duration, cause error) *Error {
	e := newError(KindInternal, CodeDatabase, "database operation failed")
	e.Op = op
	e.RetryAfter = retryAfter
	e.Err = cause
	e.WithDetail("operation", op)
	if retryAfter > 0 {
		e.WithDetail("retry_after_seconds", retryAfter.Seconds())
	}
	return e
}

// Internal wraps an unclassified failure.
func Internal(op string, cause error) *Error {
	e := newError(KindInternal, CodeInternal, "internal error")
	e.Op = op
	e.Err = cause
	return e
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// As extracts the *Error from err. Unclassified errors are wrapped as Internal.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("", err)
}
