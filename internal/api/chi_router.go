// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nvtruongops/smart-cooking-sub003/internal/middleware"
)

// Router wires handlers and middleware into a chi route tree.
type Router struct {
	handler *Handler
	edge    EdgeConfig
	auth    *middleware.Authenticator
}

// NewRouter creates a router. auth must be non-nil.
func NewRouter(handler *Handler, edge EdgeConfig, auth *middleware.Authenticator) *Router {
	return &Router{
		handler: handler,
		edge:    edge,
		auth:    auth,
	}
}

// NewAuthenticator builds the caller authenticator with envelope-formatted
// 401 responses.
func NewAuthenticator(cfg middleware.AuthConfig) (*middleware.Authenticator, error) {
	return middleware.NewAuthenticator(cfg, writeUnauthorized)
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.edge.cors())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed", nil)
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.edge.rateLimit())
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.auth.Identify)

		r.Route("/recipes/{recipeId}/ratings", func(r chi.Router) {
			r.Get("/", router.handler.RecipeRatings)
			r.With(router.auth.RequireUser).Post("/", router.handler.SubmitRating)
		})

		r.Get("/users/{userId}/ratings", router.handler.UserRatings)
		r.With(router.auth.RequireUser).Get("/users/{userId}/notifications", router.handler.UserNotifications)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
