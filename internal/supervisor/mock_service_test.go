// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

// mockService counts starts and fails a configured number of times before
// running until canceled.
type mockService struct {
	name     string
	starts   atomic.Int32
	failures atomic.Int32
	maxFails int32
}

func newMockService(name string, maxFails int32) *mockService {
	return &mockService{name: name, maxFails: maxFails}
}

func (m *mockService) Serve(ctx context.Context) error {
	m.starts.Add(1)
	if m.failures.Add(1) <= m.maxFails {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockService) String() string {
	return m.name
}

// stubbornService ignores cancellation until released.
type stubbornService struct {
	release chan struct{}
}

func (s *stubbornService) Serve(context.Context) error {
	<-s.release
	return nil
}

func (s *stubbornService) String() string {
	return "stubborn"
}
