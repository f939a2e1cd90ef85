// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/nvtruongops/smart-cooking-sub003/internal/logging"
)

// Envelope wraps every response body.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Meta    Meta        `json:"meta"`
}

// ErrorBody is the error half of an Envelope.
type ErrorBody struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// Meta is attached to every Envelope.
type Meta struct {
	RequestID  string      `json:"request_id,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes one page of a cursor-paginated list. Limit is the
// effective page size after defaults and caps.
type Pagination struct {
	Count         int    `json:"count"`
	Limit         int    `json:"limit"`
	HasMore       bool   `json:"has_more"`
	NextPageToken string `json:"next_page_token,omitempty"`
}

// Codes produced by the HTTP layer itself. Domain failures carry apperror codes.
const (
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeTooManyRequests  = "RATE_LIMITED"
)

func newMeta(r *http.Request) Meta {
	return Meta{
		RequestID: logging.RequestIDFromContext(r.Context()),
		Timestamp: time.Now().UTC(),
	}
}

// respond writes a successful envelope. A status of 400 or above is still
// written with success=false so the readiness endpoint can report a 503 body.
func respond(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	writeEnvelope(w, r, status, Envelope{
		Success: status < http.StatusBadRequest,
		Data:    data,
		Meta:    newMeta(r),
	})
}

func respondPage(w http.ResponseWriter, r *http.Request, data interface{}, page *Pagination) {
	meta := newMeta(r)
	meta.Pagination = page
	writeEnvelope(w, r, http.StatusOK, Envelope{Success: true, Data: data, Meta: meta})
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details interface{}) {
	meta := newMeta(r)
	writeEnvelope(w, r, status, Envelope{
		Error: &ErrorBody{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: meta.RequestID,
		},
		Meta: meta,
	})
}

func writeEnvelope(w http.ResponseWriter, r *http.Request, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Int("status", status).Msg("Failed to encode response")
	}
}
