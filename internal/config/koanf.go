// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/smart-cooking/config.yaml",
	"/etc/smart-cooking/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Store: StoreConfig{
			Path:             "/data/badger",
			InMemory:         false,
			SyncWrites:       true,
			OperationTimeout: 2 * time.Second,
			MaxOpsPerSecond:  0, // Unlimited
			Burst:            50,
			GCInterval:       10 * time.Minute,
			GCRatio:          0.5,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   100 * time.Millisecond,
			MaxDelay:    5 * time.Second,
			Multiplier:  2,
		},
		Rating: RatingConfig{
			AggregateMode: AggregateModeRescan,
			UniqueGuard:   true,
			MinCount:      3,
			MinAverage:    4.0,
		},
		Approval: ApprovalConfig{
			Dispatch: DispatchSync,
		},
		Enrichment: EnrichmentConfig{
			BaseURL:                 "",
			Timeout:                 5 * time.Second,
			BreakerMaxRequests:      3,
			BreakerInterval:         time.Minute,
			BreakerTimeout:          30 * time.Second,
			BreakerFailureThreshold: 5,
		},
		Events: EventsConfig{
			Transport:            TransportGoChannel,
			NATSURL:              "nats://127.0.0.1:4222",
			StreamName:           "RECIPES",
			StreamSubjects:       []string{"recipe.>"},
			DurableName:          "approval-consumer",
			QueueGroup:           "approval",
			RetryCount:           3,
			RetryInitialInterval: 100 * time.Millisecond,
			RetryMaxInterval:     5 * time.Second,
			PoisonQueueTopic:     "recipe.approved.poison",
			CloseTimeout:         30 * time.Second,
			Embedded:             false,
			EmbeddedHost:         "127.0.0.1",
			EmbeddedPort:         4222,
			EmbeddedStoreDir:     "/data/nats",
		},
		Notification: NotificationConfig{
			TTL: 30 * 24 * time.Hour,
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Auth: AuthConfig{
			Mode:       AuthModeHeader,
			UserHeader: "X-User-ID",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5,
			FailureDecay:     30,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration from defaults, an optional YAML file and
// environment variables, then validates it.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// RATING_MIN_AVERAGE -> rating.min_average
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" when none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"events.stream_subjects",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Store
	"store_path":               "store.path",
	"store_in_memory":          "store.in_memory",
	"store_sync_writes":        "store.sync_writes",
	"store_operation_timeout":  "store.operation_timeout",
	"store_max_ops_per_second": "store.max_ops_per_second",
	"store_burst":              "store.burst",
	"store_gc_interval":        "store.gc_interval",
	"store_gc_ratio":           "store.gc_ratio",

	// Retry
	"retry_max_attempts": "retry.max_attempts",
	"retry_base_delay":   "retry.base_delay",
	"retry_max_delay":    "retry.max_delay",
	"retry_multiplier":   "retry.multiplier",

	// Rating
	"rating_aggregate_mode": "rating.aggregate_mode",
	"rating_unique_guard":   "rating.unique_guard",
	"rating_min_count":      "rating.min_count",
	"rating_min_average":    "rating.min_average",

	// Approval
	"approval_dispatch": "approval.dispatch",

	// Enrichment
	"enrichment_base_url":                  "enrichment.base_url",
	"enrichment_timeout":                   "enrichment.timeout",
	"enrichment_breaker_max_requests":      "enrichment.breaker_max_requests",
	"enrichment_breaker_interval":          "enrichment.breaker_interval",
	"enrichment_breaker_timeout":           "enrichment.breaker_timeout",
	"enrichment_breaker_failure_threshold": "enrichment.breaker_failure_threshold",

	// Events
	"events_transport":              "events.transport",
	"nats_url":                      "events.nats_url",
	"nats_stream_name":              "events.stream_name",
	"nats_stream_subjects":          "events.stream_subjects",
	"nats_durable_name":             "events.durable_name",
	"nats_queue_group":              "events.queue_group",
	"events_retry_count":            "events.retry_count",
	"events_retry_initial_interval": "events.retry_initial_interval",
	"events_retry_max_interval":     "events.retry_max_interval",
	"events_poison_queue_topic":     "events.poison_queue_topic",
	"events_close_timeout":          "events.close_timeout",
	"nats_embedded":                 "events.embedded",
	"nats_embedded_host":            "events.embedded_host",
	"nats_embedded_port":            "events.embedded_port",
	"nats_embedded_store_dir":       "events.embedded_store_dir",

	// Notification
	"notification_ttl": "notification.ttl",

	// API
	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",

	// Security
	"rate_limit_reqs":    "security.rate_limit_reqs",
	"rate_limit_window":  "security.rate_limit_window",
	"disable_rate_limit": "security.rate_limit_disabled",
	"cors_origins":       "security.cors_origins",

	// Auth
	"auth_mode":        "auth.mode",
	"jwt_secret":       "auth.jwt_secret",
	"jwt_issuer":       "auth.jwt_issuer",
	"auth_user_header": "auth.user_header",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Supervisor
	"supervisor_failure_threshold": "supervisor.failure_threshold",
	"supervisor_failure_decay":     "supervisor.failure_decay",
	"supervisor_failure_backoff":   "supervisor.failure_backoff",
	"supervisor_shutdown_timeout":  "supervisor.shutdown_timeout",
}

// envTransformFunc maps an environment variable name to its koanf path, or
// "" to skip it. Unmapped variables never reach the config.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
