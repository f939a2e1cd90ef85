// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package store

import (
	"fmt"
	"time"
)

// Config holds persistence configuration.
type Config struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps all data in memory. Used by tests and local runs.
	InMemory bool

	// SyncWrites fsyncs every commit.
	// Default: true
	SyncWrites bool

	// OperationTimeout bounds a single attempt of an operation.
	// Default: 2s
	OperationTimeout time.Duration

	// MaxOpsPerSecond enables the throughput limiter when > 0.
	MaxOpsPerSecond float64

	// Burst is the limiter bucket size.
	// Default: 50
	Burst int

	// GCInterval is how often value log GC runs.
	// Default: 10m
	GCInterval time.Duration

	// GCRatio is the discard ratio passed to value log GC.
	// Default: 0.5
	GCRatio float64

	// NotificationTTL is how long notifications are kept.
	// Default: 720h (30 days)
	NotificationTTL time.Duration
}

// DefaultConfig returns the default persistence configuration.
func DefaultConfig() Config {
	return Config{
		Path:             "/data/badger",
		SyncWrites:       true,
		OperationTimeout: 2 * time.Second,
		Burst:            50,
		GCInterval:       10 * time.Minute,
		GCRatio:          0.5,
		NotificationTTL:  30 * 24 * time.Hour,
	}
}

// ConfigError describes an invalid configuration field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("store config error: %s %s", e.Field, e.Message)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if !c.InMemory && c.Path == "" {
		return &ConfigError{Field: "Path", Message: "is required unless InMemory is set"}
	}
	if c.OperationTimeout <= 0 {
		return &ConfigError{Field: "OperationTimeout", Message: "must be positive"}
	}
	if c.MaxOpsPerSecond < 0 {
		return &ConfigError{Field: "MaxOpsPerSecond", Message: "must not be negative"}
	}
	if c.MaxOpsPerSecond > 0 && c.Burst < 1 {
		return &ConfigError{Field: "Burst", Message: "must be at least 1 when throttling is enabled"}
	}
	if c.GCRatio <= 0 || c.GCRatio >= 1 {
		return &ConfigError{Field: "GCRatio", Message: "must be between 0 and 1 (exclusive)"}
	}
	if c.NotificationTTL <= 0 {
		return &ConfigError{Field: "NotificationTTL", Message: "must be positive"}
	}
	return nil
}
