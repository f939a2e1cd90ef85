// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

/*
Package middleware provides HTTP middleware components for the rating API.

All middleware follows chi's func(http.Handler) http.Handler shape so it can
be mounted with r.Use() or r.With().

Key Components:

  - RequestID: X-Request-ID and X-Correlation-ID propagation into the
    logging context
  - PrometheusMetrics: request count, latency and in-flight instrumentation
  - Authenticator: caller identity from an HS256 bearer token or a trusted
    gateway header

Middleware Stack:

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(authn.Identify)

	r.With(authn.RequireUser).Post("/recipes/{recipeId}/ratings", h.SubmitRating)

Endpoint labels use the chi route pattern ("/api/v1/recipes/{recipeId}/ratings")
rather than the raw path, so metric cardinality stays bounded by the number
of routes.
*/
package middleware
