// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/nvtruongops/smart-cooking-sub003/internal/logging"
)

// traceCapture records the logging context seen by the wrapped handler.
type traceCapture struct {
	requestID     string
	correlationID string
}

func (c *traceCapture) handler() http.Handler {
	return RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.requestID = logging.RequestIDFromContext(r.Context())
		c.correlationID = logging.CorrelationIDFromContext(r.Context())
	}))
}

func TestRequestID_Generated(t *testing.T) {
	t.Parallel()

	var seen traceCapture
	rec := httptest.NewRecorder()
	seen.handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	requestID := rec.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(requestID); err != nil {
		t.Fatalf("X-Request-ID %q is not a UUID: %v", requestID, err)
	}
	if seen.requestID != requestID {
		t.Errorf("context request ID %q, header %q", seen.requestID, requestID)
	}
	correlationID := rec.Header().Get(CorrelationIDHeader)
	if len(correlationID) != 8 || seen.correlationID != correlationID {
		t.Errorf("correlation ID header %q, context %q", correlationID, seen.correlationID)
	}
}

func TestRequestID_Upstream(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		supplied string
		keep     bool
	}{
		{"plain id", "edge-7f3a", true},
		{"uuid", uuid.NewString(), true},
		{"too long", strings.Repeat("x", maxTraceIDLength+1), false},
		{"contains space", "a b", false},
		{"control character", "abc\x01", false},
		{"non ascii", "phở", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var seen traceCapture
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(RequestIDHeader, tt.supplied)
			req.Header.Set(CorrelationIDHeader, tt.supplied)
			rec := httptest.NewRecorder()
			seen.handler().ServeHTTP(rec, req)

			for _, got := range []string{rec.Header().Get(RequestIDHeader), rec.Header().Get(CorrelationIDHeader)} {
				if tt.keep != (got == tt.supplied) {
					t.Errorf("supplied %q, echoed %q, keep=%v", tt.supplied, got, tt.keep)
				}
			}
			if seen.requestID != rec.Header().Get(RequestIDHeader) {
				t.Errorf("context request ID %q does not match header", seen.requestID)
			}
			if seen.correlationID != rec.Header().Get(CorrelationIDHeader) {
				t.Errorf("context correlation ID %q does not match header", seen.correlationID)
			}
		})
	}
}

func TestRequestID_Unique(t *testing.T) {
	t.Parallel()

	var seen traceCapture
	h := seen.handler()
	ids := make(map[string]bool)
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		id := rec.Header().Get(RequestIDHeader)
		if ids[id] {
			t.Errorf("duplicate request ID %s", id)
		}
		ids[id] = true
	}
}
