// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// traceFields are the per-request identifiers carried on a context.
type traceFields struct {
	requestID     string
	correlationID string
	userID        string
}

type traceKey struct{}

func fieldsFrom(ctx context.Context) traceFields {
	f, _ := ctx.Value(traceKey{}).(traceFields)
	return f
}

func withFields(ctx context.Context, update func(*traceFields)) context.Context {
	f := fieldsFrom(ctx)
	update(&f)
	return context.WithValue(ctx, traceKey{}, f)
}

// GenerateCorrelationID returns the first 8 characters of a random UUID.
func GenerateCorrelationID() string {
	return uuid.NewString()[:8]
}

// ContextWithRequestID records the HTTP request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return withFields(ctx, func(f *traceFields) { f.requestID = id })
}

// ContextWithCorrelationID records an ID that follows work across the
// rating write and its approval side effects.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return withFields(ctx, func(f *traceFields) { f.correlationID = id })
}

// ContextWithNewCorrelationID is ContextWithCorrelationID with a fresh ID.
func ContextWithNewCorrelationID(ctx context.Context) context.Context {
	return ContextWithCorrelationID(ctx, GenerateCorrelationID())
}

// ContextWithUserID records the authenticated caller.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return withFields(ctx, func(f *traceFields) { f.userID = userID })
}

// RequestIDFromContext returns the request ID or "".
func RequestIDFromContext(ctx context.Context) string {
	return fieldsFrom(ctx).requestID
}

// CorrelationIDFromContext returns the correlation ID or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return fieldsFrom(ctx).correlationID
}

// UserIDFromContext returns the authenticated caller or "".
func UserIDFromContext(ctx context.Context) string {
	return fieldsFrom(ctx).userID
}

// Ctx returns the global logger with the context's request_id,
// correlation_id and user_id attached. Use it in handlers and services.
//
//	logging.Ctx(ctx).Info().Str("recipe_id", id).Msg("Rating stored")
func Ctx(ctx context.Context) *zerolog.Logger {
	l := withTrace(Logger(), fieldsFrom(ctx))
	return &l
}

//nolint:gocritic // zerolog.Logger is passed by value
func withTrace(l zerolog.Logger, f traceFields) zerolog.Logger {
	if f == (traceFields{}) {
		return l
	}
	lc := l.With()
	if f.requestID != "" {
		lc = lc.Str("request_id", f.requestID)
	}
	if f.correlationID != "" {
		lc = lc.Str("correlation_id", f.correlationID)
	}
	if f.userID != "" {
		lc = lc.Str("user_id", f.userID)
	}
	return lc.Logger()
}
