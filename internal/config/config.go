// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package config

import "time"

// Aggregate maintenance modes.
const (
	AggregateModeRescan  = "rescan"
	AggregateModeCounter = "counter"
)

// Approval side-effect dispatch modes.
const (
	DispatchSync   = "sync"
	DispatchEvents = "events"
)

// Event transports.
const (
	TransportGoChannel = "gochannel"
	TransportNATS      = "nats"
)

// Caller authentication modes.
const (
	AuthModeJWT    = "jwt"
	AuthModeHeader = "header"
)

// Config holds all service configuration.
type Config struct {
	Server       ServerConfig       `koanf:"server"`
	Store        StoreConfig        `koanf:"store"`
	Retry        RetryConfig        `koanf:"retry"`
	Rating       RatingConfig       `koanf:"rating"`
	Approval     ApprovalConfig     `koanf:"approval"`
	Enrichment   EnrichmentConfig   `koanf:"enrichment"`
	Events       EventsConfig       `koanf:"events"`
	Notification NotificationConfig `koanf:"notification"`
	API          APIConfig          `koanf:"api"`
	Security     SecurityConfig     `koanf:"security"`
	Auth         AuthConfig         `koanf:"auth"`
	Logging      LoggingConfig      `koanf:"logging"`
	Supervisor   SupervisorConfig   `koanf:"supervisor"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// StoreConfig configures the BadgerDB persistence layer.
type StoreConfig struct {
	Path             string        `koanf:"path"`
	InMemory         bool          `koanf:"in_memory"`
	SyncWrites       bool          `koanf:"sync_writes"`
	OperationTimeout time.Duration `koanf:"operation_timeout"`

	// MaxOpsPerSecond emulates provisioned throughput; 0 disables throttling.
	MaxOpsPerSecond float64 `koanf:"max_ops_per_second"`
	Burst           int     `koanf:"burst"`

	GCInterval time.Duration `koanf:"gc_interval"`
	GCRatio    float64       `koanf:"gc_ratio"`
}

// RetryConfig configures the shared retry policy for persistence calls.
type RetryConfig struct {
	MaxAttempts int           `koanf:"max_attempts"`
	BaseDelay   time.Duration `koanf:"base_delay"`
	MaxDelay    time.Duration `koanf:"max_delay"`
	Multiplier  float64       `koanf:"multiplier"`
}

// RatingConfig configures rating aggregation and the auto-approval threshold.
type RatingConfig struct {
	AggregateMode string `koanf:"aggregate_mode"`

	// UniqueGuard writes a per-user marker atomically with each rating.
	UniqueGuard bool `koanf:"unique_guard"`

	MinCount   int     `koanf:"min_count"`
	MinAverage float64 `koanf:"min_average"`
}

// ApprovalConfig configures how post-approval side effects run.
type ApprovalConfig struct {
	Dispatch string `koanf:"dispatch"`
}

// EnrichmentConfig configures the ingredient catalog collaborator.
type EnrichmentConfig struct {
	// BaseURL of the catalog service; empty disables enrichment.
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`

	BreakerMaxRequests      uint32        `koanf:"breaker_max_requests"`
	BreakerInterval         time.Duration `koanf:"breaker_interval"`
	BreakerTimeout          time.Duration `koanf:"breaker_timeout"`
	BreakerFailureThreshold uint32        `koanf:"breaker_failure_threshold"`
}

// EventsConfig configures the recipe.approved event pipeline.
type EventsConfig struct {
	Transport string `koanf:"transport"`

	NATSURL     string `koanf:"nats_url"`
	StreamName  string `koanf:"stream_name"`
	DurableName string `koanf:"durable_name"`
	QueueGroup  string `koanf:"queue_group"`

	// StreamSubjects must capture the approval topic and PoisonQueueTopic.
	StreamSubjects []string `koanf:"stream_subjects"`

	RetryCount           int           `koanf:"retry_count"`
	RetryInitialInterval time.Duration `koanf:"retry_initial_interval"`
	RetryMaxInterval     time.Duration `koanf:"retry_max_interval"`
	PoisonQueueTopic     string        `koanf:"poison_queue_topic"`
	CloseTimeout         time.Duration `koanf:"close_timeout"`

	// Embedded runs an in-process NATS server and points NATSURL at it.
	Embedded         bool   `koanf:"embedded"`
	EmbeddedHost     string `koanf:"embedded_host"`
	EmbeddedPort     int    `koanf:"embedded_port"`
	EmbeddedStoreDir string `koanf:"embedded_store_dir"`
}

// NotificationConfig configures owner notifications.
type NotificationConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

// APIConfig configures list endpoints.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig configures rate limiting and CORS.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// AuthConfig configures caller identification.
type AuthConfig struct {
	Mode string `koanf:"mode"`

	JWTSecret string `koanf:"jwt_secret"`
	JWTIssuer string `koanf:"jwt_issuer"`

	// UserHeader carries the caller id when Mode is "header".
	UserHeader string `koanf:"user_header"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// SupervisorConfig configures the suture tree.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}
