// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/nvtruongops/smart-cooking-sub003/internal/apperror"
	"github.com/nvtruongops/smart-cooking-sub003/internal/logging"
	"github.com/nvtruongops/smart-cooking-sub003/internal/middleware"
)

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// respondAppError writes err as a classified error response. Internal errors
// are logged with their cause; clients only see the code and a generic message.
func respondAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperror.As(err)
	status := StatusFor(appErr.Kind)

	if appErr.RetryAfter > 0 {
		w.Header().Set("Retry-After", retryAfterSeconds(appErr.RetryAfter))
	}

	log := logging.Ctx(r.Context())
	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).
		Str("code", appErr.Code).
		Str("op", appErr.Op).
		Int("status", status).
		Msg("Request failed")

	code := appErr.Code
	if code == "" {
		code = apperror.CodeInternal
	}
	respondError(w, r, status, code, appErr.Message, errorDetails(appErr))
}

func errorDetails(e *apperror.Error) map[string]interface{} {
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	details["timestamp"] = ts.UTC().Format(time.RFC3339)
	return details
}

// retryAfterSeconds rounds up so that clients never retry early.
func retryAfterSeconds(d time.Duration) string {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// writeUnauthorized is the middleware.UnauthorizedFunc for the router.
func writeUnauthorized(w http.ResponseWriter, r *http.Request, err error) {
	msg := "invalid credentials"
	switch {
	case errors.Is(err, middleware.ErrNoCredentials):
		msg = "authentication required"
	case errors.Is(err, middleware.ErrExpiredCredentials):
		msg = "credentials expired"
	}
	respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, msg, nil)
}
