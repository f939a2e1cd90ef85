// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadWithKoanf_Defaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf failed: %v", err)
	}

	if cfg.Rating.MinCount != 3 || cfg.Rating.MinAverage != 4.0 {
		t.Errorf("unexpected approval thresholds %+v", cfg.Rating)
	}
	if cfg.Rating.AggregateMode != AggregateModeRescan || !cfg.Rating.UniqueGuard {
		t.Errorf("unexpected rating defaults %+v", cfg.Rating)
	}
	if cfg.Retry.MaxAttempts != 3 || cfg.Retry.BaseDelay != 100*time.Millisecond || cfg.Retry.MaxDelay != 5*time.Second {
		t.Errorf("unexpected retry defaults %+v", cfg.Retry)
	}
	if cfg.API.DefaultPageSize != 20 || cfg.API.MaxPageSize != 100 {
		t.Errorf("unexpected page sizes %+v", cfg.API)
	}
	if cfg.Notification.TTL != 30*24*time.Hour {
		t.Errorf("unexpected notification TTL %v", cfg.Notification.TTL)
	}
	if cfg.Approval.Dispatch != DispatchSync {
		t.Errorf("unexpected dispatch %q", cfg.Approval.Dispatch)
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("STORE_IN_MEMORY", "true")
	t.Setenv("RATING_MIN_AVERAGE", "4.5")
	t.Setenv("RATING_AGGREGATE_MODE", "counter")
	t.Setenv("RETRY_BASE_DELAY", "250ms")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("NATS_STREAM_SUBJECTS", "recipe.>,dlq.recipes")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf failed: %v", err)
	}

	if !cfg.Store.InMemory {
		t.Error("expected STORE_IN_MEMORY to apply")
	}
	if cfg.Rating.MinAverage != 4.5 || cfg.Rating.AggregateMode != AggregateModeCounter {
		t.Errorf("unexpected rating config %+v", cfg.Rating)
	}
	if cfg.Retry.BaseDelay != 250*time.Millisecond {
		t.Errorf("expected 250ms base delay, got %v", cfg.Retry.BaseDelay)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example" {
		t.Errorf("unexpected CORS origins %v", cfg.Security.CORSOrigins)
	}
	if got := cfg.Events.StreamSubjects; len(got) != 2 || got[1] != "dlq.recipes" {
		t.Errorf("unexpected stream subjects %v", got)
	}
}

func TestLoadWithKoanf_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
rating:
  min_count: 5
approval:
  dispatch: events
events:
  transport: gochannel
auth:
  mode: jwt
  jwt_secret: 0123456789abcdef0123456789abcdef
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("RATING_MIN_COUNT", "7")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf failed: %v", err)
	}

	if cfg.Rating.MinCount != 7 {
		t.Errorf("env must override file, got min_count %d", cfg.Rating.MinCount)
	}
	if cfg.Approval.Dispatch != DispatchEvents || cfg.Auth.Mode != AuthModeJWT {
		t.Errorf("file values not applied: %+v %+v", cfg.Approval, cfg.Auth)
	}
	if cfg.Rating.MinAverage != 4.0 {
		t.Errorf("defaults must survive a partial file, got %v", cfg.Rating.MinAverage)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"missing store path", func(c *Config) { c.Store.Path = "" }, "STORE_PATH"},
		{"gc ratio", func(c *Config) { c.Store.GCRatio = 1.5 }, "STORE_GC_RATIO"},
		{"zero attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }, "RETRY_MAX_ATTEMPTS"},
		{"max below base", func(c *Config) { c.Retry.MaxDelay = time.Millisecond }, "RETRY_BASE_DELAY"},
		{"aggregate mode", func(c *Config) { c.Rating.AggregateMode = "stream" }, "RATING_AGGREGATE_MODE"},
		{"min average", func(c *Config) { c.Rating.MinAverage = 6 }, "RATING_MIN_AVERAGE"},
		{"dispatch", func(c *Config) { c.Approval.Dispatch = "queue" }, "APPROVAL_DISPATCH"},
		{"enrichment url", func(c *Config) { c.Enrichment.BaseURL = "catalog:8080" }, "ENRICHMENT_BASE_URL"},
		{"nats url", func(c *Config) {
			c.Approval.Dispatch = DispatchEvents
			c.Events.Transport = TransportNATS
			c.Events.NATSURL = "http://nats"
		}, "NATS_URL"},
		{"embedded nats skips url", func(c *Config) {
			c.Approval.Dispatch = DispatchEvents
			c.Events.Transport = TransportNATS
			c.Events.NATSURL = ""
			c.Events.Embedded = true
		}, ""},
		{"embedded nats store dir", func(c *Config) {
			c.Approval.Dispatch = DispatchEvents
			c.Events.Transport = TransportNATS
			c.Events.Embedded = true
			c.Events.EmbeddedStoreDir = ""
		}, "NATS_EMBEDDED_STORE_DIR"},
		{"nats stream subjects", func(c *Config) {
			c.Approval.Dispatch = DispatchEvents
			c.Events.Transport = TransportNATS
			c.Events.StreamSubjects = nil
		}, "NATS_STREAM_SUBJECTS"},
		{"page size", func(c *Config) { c.API.DefaultPageSize = 200 }, "API_DEFAULT_PAGE_SIZE"},
		{"rate limit", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQS"},
		{"rate limit disabled", func(c *Config) { c.Security.RateLimitReqs = 0; c.Security.RateLimitDisabled = true }, ""},
		{"short jwt secret", func(c *Config) { c.Auth.Mode = AuthModeJWT; c.Auth.JWTSecret = "short" }, "JWT_SECRET"},
		{"auth mode", func(c *Config) { c.Auth.Mode = "basic" }, "AUTH_MODE"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %s, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"STORE_PATH":         "store.path",
		"rating_min_count":   "rating.min_count",
		"NATS_URL":           "events.nats_url",
		"HOME":               "",
		"RATING_UNKNOWN_KEY": "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}
