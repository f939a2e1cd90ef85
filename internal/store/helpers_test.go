// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package store

import (
	"testing"
	"time"

	"github.com/nvtruongops/smart-cooking-sub003/internal/retry"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.InMemory = true
	cfg.Path = ""
	cfg.SyncWrites = false
	return cfg
}

func testPolicy() retry.Policy {
	p := retry.DefaultPolicy(nil)
	p.BaseDelay = time.Millisecond
	p.MaxDelay = 5 * time.Millisecond
	return p
}

// newTestStore opens an in-memory store that is closed when the test ends.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	return newTestStoreWith(t, testConfig(), testPolicy())
}

func newTestStoreWith(t *testing.T, cfg Config, policy retry.Policy) *Store {
	t.Helper()
	s, err := Open(cfg, policy)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return s
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func mustItem(t *testing.T, key Key, v interface{}) *Item {
	t.Helper()
	item, err := NewItem(key, v)
	if err != nil {
		t.Fatalf("NewItem failed: %v", err)
	}
	return item
}
