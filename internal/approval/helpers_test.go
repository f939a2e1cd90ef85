// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package approval

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/nvtruongops/smart-cooking-sub003/internal/models"
	"github.com/nvtruongops/smart-cooking-sub003/internal/retry"
	"github.com/nvtruongops/smart-cooking-sub003/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	cfg := store.DefaultConfig()
	cfg.InMemory = true
	cfg.Path = ""
	cfg.SyncWrites = false

	policy := retry.DefaultPolicy(nil)
	policy.BaseDelay = time.Millisecond
	policy.MaxDelay = 5 * time.Millisecond

	s, err := store.Open(cfg, policy)
	if err != nil {
		t.Fatalf("store.Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedRecipe(t *testing.T, recipes *store.Recipes, id string) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{RecipeID: id, Title: "Banh xeo", OwnerID: "owner-1"}
	if err := recipes.Create(context.Background(), recipe); err != nil {
		t.Fatalf("seed recipe: %v", err)
	}
	return recipe
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []Approved
}

func (d *recordingDispatcher) Dispatch(_ context.Context, ev Approved) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, ev)
}

func (d *recordingDispatcher) dispatched() []Approved {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Approved(nil), d.events...)
}

type fakeEnricher struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeEnricher) EnrichFromApprovedRecipe(_ context.Context, recipeID string) (models.EnrichmentResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recipeID)
	return models.EnrichmentResult{TotalIngredients: 4, NewIngredients: 1, ExistingIngredients: 3}, f.err
}

func (f *fakeEnricher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type failingNotifications struct{}

func (failingNotifications) Create(context.Context, *models.Notification) (bool, error) {
	return false, errors.New("table unavailable")
}

type capturePublisher struct {
	mu   sync.Mutex
	msgs map[string][]*message.Message
	err  error
}

func (p *capturePublisher) Publish(topic string, msgs ...*message.Message) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.msgs == nil {
		p.msgs = make(map[string][]*message.Message)
	}
	p.msgs[topic] = append(p.msgs[topic], msgs...)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func sampleEvent() Approved {
	return Approved{
		RecipeID:      "r1",
		OwnerID:       "owner-1",
		Title:         "Banh xeo",
		AverageRating: 4.33,
		RatingCount:   3,
		ApprovedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func sampleAggregate() models.Aggregate {
	return models.Aggregate{AverageRating: 4.33, RatingCount: 3}
}
