// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/nvtruongops/smart-cooking-sub003/internal/logging"
	"github.com/nvtruongops/smart-cooking-sub003/internal/metrics"
)

// EdgeConfig configures the browser and abuse guards in front of the API.
type EdgeConfig struct {
	// AllowedOrigins lists CORS origins. Empty allows none.
	AllowedOrigins []string

	// RateLimit is the number of requests a client may make per RateWindow.
	// Zero or less disables limiting.
	RateLimit  int
	RateWindow time.Duration

	// RateKey groups requests into clients. Defaults to the remote IP.
	RateKey httprate.KeyFunc
}

// DefaultEdgeConfig allows no cross-origin callers and 100 requests a minute.
func DefaultEdgeConfig() EdgeConfig {
	return EdgeConfig{
		RateLimit:  100,
		RateWindow: time.Minute,
	}
}

func (c EdgeConfig) cors() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: c.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Correlation-ID", "X-Request-ID", "X-User-ID"},
		ExposedHeaders: []string{"Retry-After", "X-Correlation-ID", "X-Request-ID"},
		MaxAge:         int((24 * time.Hour).Seconds()),
	})
}

func (c EdgeConfig) rateLimit() func(http.Handler) http.Handler {
	if c.RateLimit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	key := c.RateKey
	if key == nil {
		key = httprate.KeyByIP
	}
	window := c.RateWindow
	if window <= 0 {
		window = time.Minute
	}
	return httprate.Limit(c.RateLimit, window,
		httprate.WithKeyFuncs(key),
		httprate.WithLimitHandler(rejectRateLimited),
	)
}

// rejectRateLimited runs after httprate has set Retry-After.
func rejectRateLimited(w http.ResponseWriter, r *http.Request) {
	route := r.URL.Path
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			route = p
		}
	}
	metrics.APIRateLimitHits.WithLabelValues(route).Inc()
	logging.Ctx(r.Context()).Warn().Str("endpoint", route).Msg("Rate limit exceeded")

	respondError(w, r, http.StatusTooManyRequests, ErrCodeTooManyRequests, "too many requests, retry later", nil)
}
