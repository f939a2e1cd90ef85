// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package services

import (
	"context"
	"errors"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/nvtruongops/smart-cooking-sub003/internal/logging"
	"github.com/nvtruongops/smart-cooking-sub003/internal/store"
)

// GarbageCollector matches *store.Store.
type GarbageCollector interface {
	RunGC() (int, error)
}

// StoreGCService runs value log garbage collection periodically.
type StoreGCService struct {
	gc       GarbageCollector
	interval time.Duration
	name     string
}

// NewStoreGCService creates the GC loop. A non-positive interval defaults
// to five minutes.
func NewStoreGCService(gc GarbageCollector, interval time.Duration) *StoreGCService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &StoreGCService{
		gc:       gc,
		interval: interval,
		name:     "store-gc",
	}
}

// Serve implements suture.Service. A closed store ends the service for good.
func (s *StoreGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rewritten, err := s.gc.RunGC()
			if errors.Is(err, store.ErrClosed) {
				logging.Warn().Msg("Store closed, stopping value log GC")
				return suture.ErrDoNotRestart
			}
			if err != nil {
				logging.Error().Err(err).Msg("Value log GC failed")
				continue
			}
			if rewritten > 0 {
				logging.Info().Int("rewritten", rewritten).Msg("Value log GC reclaimed space")
			}
		}
	}
}

// String implements fmt.Stringer for logging.
func (s *StoreGCService) String() string {
	return s.name
}
