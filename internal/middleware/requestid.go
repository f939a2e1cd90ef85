// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/nvtruongops/smart-cooking-sub003/internal/logging"
)

// Trace headers. Both are echoed on the response.
const (
	RequestIDHeader     = "X-Request-ID"
	CorrelationIDHeader = "X-Correlation-ID"
)

const maxTraceIDLength = 128

// RequestID puts a request ID and a correlation ID on the logging context.
// Well-formed IDs from an upstream proxy are kept; anything else is replaced.
// The correlation ID travels with approval events, so a rating submission
// and its asynchronous notification share it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := traceID(r.Header.Get(RequestIDHeader), uuid.NewString)
		correlationID := traceID(r.Header.Get(CorrelationIDHeader), logging.GenerateCorrelationID)

		w.Header().Set(RequestIDHeader, requestID)
		w.Header().Set(CorrelationIDHeader, correlationID)

		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		ctx = logging.ContextWithCorrelationID(ctx, correlationID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// traceID returns supplied when it is safe to log and echo, otherwise a fresh ID.
func traceID(supplied string, fresh func() string) string {
	if supplied == "" || len(supplied) > maxTraceIDLength {
		return fresh()
	}
	for i := 0; i < len(supplied); i++ {
		if c := supplied[i]; c < 0x21 || c > 0x7e {
			return fresh()
		}
	}
	return supplied
}
