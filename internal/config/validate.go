// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateStore,
		c.validateRetry,
		c.validateRating,
		c.validateApproval,
		c.validateEnrichment,
		c.validateEvents,
		c.validateAPI,
		c.validateSecurity,
		c.validateAuth,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateStore() error {
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("STORE_PATH is required unless STORE_IN_MEMORY=true")
	}
	if c.Store.OperationTimeout <= 0 {
		return fmt.Errorf("STORE_OPERATION_TIMEOUT must be positive")
	}
	if c.Store.MaxOpsPerSecond < 0 {
		return fmt.Errorf("STORE_MAX_OPS_PER_SECOND must not be negative")
	}
	if c.Store.MaxOpsPerSecond > 0 && c.Store.Burst < 1 {
		return fmt.Errorf("STORE_BURST must be at least 1 when throttling is enabled")
	}
	if c.Store.GCRatio <= 0 || c.Store.GCRatio >= 1 {
		return fmt.Errorf("STORE_GC_RATIO must be between 0 and 1 (exclusive), got %v", c.Store.GCRatio)
	}
	return nil
}

func (c *Config) validateRetry() error {
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("RETRY_MAX_ATTEMPTS must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Retry.BaseDelay <= 0 || c.Retry.MaxDelay < c.Retry.BaseDelay {
		return fmt.Errorf("RETRY_BASE_DELAY must be positive and not exceed RETRY_MAX_DELAY")
	}
	if c.Retry.Multiplier < 1 {
		return fmt.Errorf("RETRY_MULTIPLIER must be at least 1, got %v", c.Retry.Multiplier)
	}
	return nil
}

func (c *Config) validateRating() error {
	switch c.Rating.AggregateMode {
	case AggregateModeRescan, AggregateModeCounter:
	default:
		return fmt.Errorf("RATING_AGGREGATE_MODE must be %q or %q, got %q",
			AggregateModeRescan, AggregateModeCounter, c.Rating.AggregateMode)
	}
	if c.Rating.MinCount < 1 {
		return fmt.Errorf("RATING_MIN_COUNT must be at least 1, got %d", c.Rating.MinCount)
	}
	if c.Rating.MinAverage < 1 || c.Rating.MinAverage > 5 {
		return fmt.Errorf("RATING_MIN_AVERAGE must be between 1 and 5, got %v", c.Rating.MinAverage)
	}
	return nil
}

func (c *Config) validateApproval() error {
	switch c.Approval.Dispatch {
	case DispatchSync, DispatchEvents:
		return nil
	default:
		return fmt.Errorf("APPROVAL_DISPATCH must be %q or %q, got %q", DispatchSync, DispatchEvents, c.Approval.Dispatch)
	}
}

func (c *Config) validateEnrichment() error {
	if c.Enrichment.BaseURL == "" {
		return nil
	}
	u, err := url.Parse(c.Enrichment.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("ENRICHMENT_BASE_URL must be an absolute http(s) URL, got %q", c.Enrichment.BaseURL)
	}
	if c.Enrichment.Timeout <= 0 {
		return fmt.Errorf("ENRICHMENT_TIMEOUT must be positive")
	}
	if c.Enrichment.BreakerFailureThreshold == 0 {
		return fmt.Errorf("ENRICHMENT_BREAKER_FAILURE_THRESHOLD must be at least 1")
	}
	return nil
}

func (c *Config) validateEvents() error {
	if c.Approval.Dispatch != DispatchEvents {
		return nil
	}
	switch c.Events.Transport {
	case TransportGoChannel:
	case TransportNATS:
		if c.Events.Embedded {
			if c.Events.EmbeddedStoreDir == "" {
				return fmt.Errorf("NATS_EMBEDDED_STORE_DIR is required when NATS_EMBEDDED is set")
			}
			if c.Events.EmbeddedPort < -1 || c.Events.EmbeddedPort > 65535 {
				return fmt.Errorf("NATS_EMBEDDED_PORT must be -1 or a valid port, got %d", c.Events.EmbeddedPort)
			}
		} else if !strings.HasPrefix(c.Events.NATSURL, "nats://") && !strings.HasPrefix(c.Events.NATSURL, "tls://") {
			return fmt.Errorf("NATS_URL must start with nats:// or tls://, got %q", c.Events.NATSURL)
		}
		if c.Events.StreamName == "" || c.Events.DurableName == "" {
			return fmt.Errorf("NATS_STREAM_NAME and NATS_DURABLE_NAME are required for the nats transport")
		}
		if len(c.Events.StreamSubjects) == 0 {
			return fmt.Errorf("NATS_STREAM_SUBJECTS is required for the nats transport")
		}
	default:
		return fmt.Errorf("EVENTS_TRANSPORT must be %q or %q, got %q", TransportGoChannel, TransportNATS, c.Events.Transport)
	}
	if c.Events.RetryCount < 0 {
		return fmt.Errorf("EVENTS_RETRY_COUNT must not be negative")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 || c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be at least 1 and not exceed API_MAX_PAGE_SIZE")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 || c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQS and RATE_LIMIT_WINDOW must be positive unless DISABLE_RATE_LIMIT=true")
	}
	return nil
}

func (c *Config) validateAuth() error {
	switch c.Auth.Mode {
	case AuthModeJWT:
		if len(c.Auth.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters when AUTH_MODE=jwt")
		}
	case AuthModeHeader:
		if c.Auth.UserHeader == "" {
			return fmt.Errorf("AUTH_USER_HEADER is required when AUTH_MODE=header")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be %q or %q, got %q", AuthModeJWT, AuthModeHeader, c.Auth.Mode)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}
