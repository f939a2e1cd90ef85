// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Layer selects the child supervisor a service runs under. Each layer
// restarts its own services without disturbing the others.
type Layer int

const (
	// LayerData holds store maintenance.
	LayerData Layer = iota
	// LayerMessaging holds the approval event consumer.
	LayerMessaging
	// LayerAPI holds the HTTP listener.
	LayerAPI

	layerCount
)

var layerNames = [layerCount]string{"data-layer", "messaging-layer", "api-layer"}

func (l Layer) String() string {
	if l < 0 || l >= layerCount {
		return fmt.Sprintf("layer(%d)", int(l))
	}
	return layerNames[l]
}

// TreeConfig tunes restart behaviour. Zero fields take DefaultTreeConfig values.
type TreeConfig struct {
	FailureThreshold float64       // failures before backoff
	FailureDecay     float64       // seconds for the failure count to decay
	FailureBackoff   time.Duration // pause once the threshold is hit
	ShutdownTimeout  time.Duration // per-supervisor stop budget
}

// DefaultTreeConfig mirrors suture's own defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func (c TreeConfig) withDefaults() TreeConfig {
	d := DefaultTreeConfig()
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.FailureDecay <= 0 {
		c.FailureDecay = d.FailureDecay
	}
	if c.FailureBackoff <= 0 {
		c.FailureBackoff = d.FailureBackoff
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	return c
}

// SupervisorTree is a root supervisor with one child per Layer.
type SupervisorTree struct {
	root   *suture.Supervisor
	layers [layerCount]*suture.Supervisor
	logger *slog.Logger
	config TreeConfig
}

// NewSupervisorTree builds the root and layer supervisors. Supervisor events
// go to logger through sutureslog.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	if logger == nil {
		return nil, errors.New("supervisor: logger is required")
	}
	config = config.withDefaults()

	spec := suture.Spec{
		EventHook:        (&sutureslog.Handler{Logger: logger}).MustHook(),
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}

	t := &SupervisorTree{
		root:   suture.New("smart-cooking", spec),
		logger: logger,
		config: config,
	}
	for i := range t.layers {
		t.layers[i] = suture.New(Layer(i).String(), spec)
		t.root.Add(t.layers[i])
	}
	return t, nil
}

// Add places svc under layer and returns its token. Services added after
// Run has started are started immediately.
func (t *SupervisorTree) Add(layer Layer, svc suture.Service) (suture.ServiceToken, error) {
	if layer < 0 || layer >= layerCount {
		return suture.ServiceToken{}, fmt.Errorf("supervisor: unknown %s", layer)
	}
	return t.layers[layer].Add(svc), nil
}

// Run blocks until ctx is cancelled or the root supervisor gives up.
// Cancellation is reported as a clean stop. Services that outlive the
// shutdown timeout are logged by name.
func (t *SupervisorTree) Run(ctx context.Context) error {
	err := t.root.Serve(ctx)
	t.logUnstopped()

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// logUnstopped walks every supervisor because suture only reports the
// direct children of the one asked.
func (t *SupervisorTree) logUnstopped() {
	sups := append([]*suture.Supervisor{t.root}, t.layers[:]...)
	for _, s := range sups {
		report, err := s.UnstoppedServiceReport()
		if err != nil {
			continue
		}
		for _, u := range report {
			t.logger.Warn("service did not stop within shutdown timeout",
				"service", u.Name,
				"supervisor", s.String(),
				"timeout", t.config.ShutdownTimeout)
		}
	}
}
