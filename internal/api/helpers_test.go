// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/nvtruongops/smart-cooking-sub003/internal/approval"
	"github.com/nvtruongops/smart-cooking-sub003/internal/enrichment"
	"github.com/nvtruongops/smart-cooking-sub003/internal/middleware"
	"github.com/nvtruongops/smart-cooking-sub003/internal/models"
	"github.com/nvtruongops/smart-cooking-sub003/internal/rating"
	"github.com/nvtruongops/smart-cooking-sub003/internal/retry"
	"github.com/nvtruongops/smart-cooking-sub003/internal/store"
)

// envelope decodes an Envelope keeping Data raw.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorBody      `json:"error"`
	Meta    *Meta           `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	return env
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v (%s)", err, env.Data)
	}
}

// fakeRatings returns canned results or errors.
type fakeRatings struct {
	submitErr  error
	queryErr   error
	lastSubmit rating.SubmitInput
}

func (f *fakeRatings) SubmitRating(_ context.Context, in rating.SubmitInput) (*rating.SubmitResult, error) {
	f.lastSubmit = in
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &rating.SubmitResult{
		Rating:        models.Rating{RatingID: "r-1", RecipeID: in.RecipeID, UserID: in.UserID, Rating: in.Rating},
		AverageRating: float64(in.Rating),
		RatingCount:   1,
		Message:       rating.MessageSubmitted,
	}, nil
}

func (f *fakeRatings) GetRecipeRatings(_ context.Context, recipeID string, _ int, _ string) (*rating.RecipeRatings, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &rating.RecipeRatings{RecipeID: recipeID, Ratings: []models.Rating{}}, nil
}

func (f *fakeRatings) GetUserRatings(_ context.Context, userID string, _ int, _ string) (*rating.UserRatings, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &rating.UserRatings{UserID: userID, Ratings: []models.Rating{}}, nil
}

func (f *fakeRatings) PageSize(limit int) int {
	if limit <= 0 {
		return 20
	}
	return limit
}

func newTestRouter(t *testing.T, h *Handler, edge *EdgeConfig) http.Handler {
	t.Helper()
	auth, err := NewAuthenticator(middleware.AuthConfig{Mode: middleware.AuthModeHeader})
	if err != nil {
		t.Fatalf("NewAuthenticator: %v", err)
	}
	cfg := EdgeConfig{}
	if edge != nil {
		cfg = *edge
	}
	return NewRouter(h, cfg, auth).SetupChi()
}

// stack is the full service wired over an in-memory store with synchronous
// approval side effects.
type stack struct {
	store         *store.Store
	recipes       *store.Recipes
	notifications *store.Notifications
	handler       http.Handler
}

func newStack(t *testing.T) *stack {
	t.Helper()
	return newStackWithEnricher(t, enrichment.NoopClient{})
}

func newStackWithEnricher(t *testing.T, enricher enrichment.Client) *stack {
	t.Helper()

	storeCfg := store.DefaultConfig()
	storeCfg.InMemory = true
	storeCfg.Path = ""
	storeCfg.SyncWrites = false

	policy := retry.DefaultPolicy(nil)
	policy.BaseDelay = time.Millisecond
	policy.MaxDelay = 5 * time.Millisecond

	s, err := store.Open(storeCfg, policy)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	st := &stack{
		store:         s,
		recipes:       store.NewRecipes(s),
		notifications: store.NewNotifications(s),
	}

	effects := approval.NewEffects(enricher, st.notifications)
	trigger := approval.NewTrigger(st.recipes, approval.NewSyncDispatcher(effects))
	svc := rating.NewService(st.recipes, store.NewRatings(s), store.NewHistory(s), trigger, rating.DefaultConfig())

	h := NewHandler(svc, st.notifications, ReadinessCheck{Name: "store", Check: s.Ping})
	st.handler = newTestRouter(t, h, nil)
	return st
}

func (st *stack) seedRecipe(t *testing.T, id, owner string) {
	t.Helper()
	if err := st.recipes.Create(context.Background(), &models.Recipe{RecipeID: id, Title: "Pho bo", OwnerID: owner}); err != nil {
		t.Fatalf("seed recipe: %v", err)
	}
}

func (st *stack) do(t *testing.T, method, target, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	st.handler.ServeHTTP(rec, req)
	return rec
}
