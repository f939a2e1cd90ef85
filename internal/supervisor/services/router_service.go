// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrRouterNotRunning is reported by Ready while no router is consuming.
var ErrRouterNotRunning = errors.New("event router not running")

// EventRouter matches the *events.Router lifecycle.
type EventRouter interface {
	Run(ctx context.Context) error
	IsRunning() bool
	Close() error
}

// RouterFactory builds a router with its handlers registered.
type RouterFactory func() (EventRouter, error)

// EventRouterService supervises the event consumer router.
type EventRouterService struct {
	build RouterFactory
	name  string

	mu      sync.Mutex
	current EventRouter
}

// NewEventRouterService creates the service. build is called on every Serve.
func NewEventRouterService(build RouterFactory) *EventRouterService {
	return &EventRouterService{
		build: build,
		name:  "events-router",
	}
}

// Serve implements suture.Service.
func (s *EventRouterService) Serve(ctx context.Context) error {
	router, err := s.build()
	if err != nil {
		return fmt.Errorf("build event router: %w", err)
	}

	s.mu.Lock()
	s.current = router
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.current = nil
		s.mu.Unlock()
	}()

	err = router.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("event router stopped: %w", err)
	}
	return errors.New("event router stopped unexpectedly")
}

// Ready reports whether a router is currently consuming.
func (s *EventRouterService) Ready(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || !s.current.IsRunning() {
		return ErrRouterNotRunning
	}
	return nil
}

// String implements fmt.Stringer for logging.
func (s *EventRouterService) String() string {
	return s.name
}
