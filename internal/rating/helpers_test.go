// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package rating

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nvtruongops/smart-cooking-sub003/internal/models"
	"github.com/nvtruongops/smart-cooking-sub003/internal/retry"
	"github.com/nvtruongops/smart-cooking-sub003/internal/store"
)

// markingApprover approves through the recipe repository and counts wins.
type markingApprover struct {
	recipes *store.Recipes
	mu      sync.Mutex
	fired   []string
	wins    atomic.Int32
}

func (a *markingApprover) Fire(ctx context.Context, recipe *models.Recipe, _ models.Aggregate) (bool, error) {
	a.mu.Lock()
	a.fired = append(a.fired, recipe.RecipeID)
	a.mu.Unlock()

	_, won, err := a.recipes.MarkApproved(ctx, recipe.RecipeID)
	if won {
		a.wins.Add(1)
	}
	return won, err
}

type fixture struct {
	store    *store.Store
	recipes  *store.Recipes
	ratings  *store.Ratings
	history  *store.History
	approver *markingApprover
	svc      *Service
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()

	storeCfg := store.DefaultConfig()
	storeCfg.InMemory = true
	storeCfg.Path = ""
	storeCfg.SyncWrites = false

	policy := retry.DefaultPolicy(nil)
	policy.MaxAttempts = 10
	policy.BaseDelay = time.Millisecond
	policy.MaxDelay = 5 * time.Millisecond

	s, err := store.Open(storeCfg, policy)
	if err != nil {
		t.Fatalf("store.Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	f := &fixture{
		store:   s,
		recipes: store.NewRecipes(s),
		ratings: store.NewRatings(s),
		history: store.NewHistory(s),
	}
	f.approver = &markingApprover{recipes: f.recipes}
	f.svc = NewService(f.recipes, f.ratings, f.history, f.approver, cfg)

	// Strictly increasing timestamps keep newest-first ordering deterministic.
	var mu sync.Mutex
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Second)
		return clock
	}
	return f
}

func (f *fixture) seedRecipe(t *testing.T, id string) {
	t.Helper()
	recipe := &models.Recipe{RecipeID: id, Title: "Bun cha", OwnerID: "owner-" + id}
	if err := f.recipes.Create(context.Background(), recipe); err != nil {
		t.Fatalf("seed recipe %s: %v", id, err)
	}
}

func (f *fixture) mustRecipe(t *testing.T, id string) *models.Recipe {
	t.Helper()
	recipe, err := f.recipes.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get recipe %s: %v", id, err)
	}
	return recipe
}

func submit(t *testing.T, svc *Service, recipeID, userID string, score int) *SubmitResult {
	t.Helper()
	res, err := svc.SubmitRating(context.Background(), SubmitInput{
		RecipeID: recipeID,
		UserID:   userID,
		Rating:   score,
	})
	if err != nil {
		t.Fatalf("SubmitRating(%s, %s, %d) failed: %v", recipeID, userID, score, err)
	}
	return res
}

func bothModes() []string {
	return []string{ModeRescan, ModeCounter}
}

func configFor(mode string) Config {
	cfg := DefaultConfig()
	cfg.AggregateMode = mode
	return cfg
}
