// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package store

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/nvtruongops/smart-cooking-sub003/internal/metrics"
)

// RunGC runs value log garbage collection until nothing more can be
// rewritten and returns the number of rewritten files. It is a no-op for
// in-memory stores.
func (s *Store) RunGC() (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	if s.cfg.InMemory {
		metrics.RecordStoreGC("noop")
		return 0, nil
	}

	rewritten := 0
	for {
		err := s.db.RunValueLogGC(s.cfg.GCRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) {
			break
		}
		if err != nil {
			metrics.RecordStoreGC("error")
			return rewritten, fmt.Errorf("run value log GC: %w", err)
		}
		rewritten++
	}

	if rewritten == 0 {
		metrics.RecordStoreGC("noop")
	} else {
		metrics.RecordStoreGC("rewritten")
	}
	return rewritten, nil
}
