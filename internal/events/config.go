// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package events

import (
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

// Transports.
const (
	TransportGoChannel = "gochannel"
	TransportNATS      = "nats"
)

// Config selects and tunes the transport and the router.
type Config struct {
	Transport string

	// NATS settings, used when Transport is "nats".
	NATSURL         string
	StreamName      string
	StreamSubjects  []string
	StreamMaxAge    time.Duration
	DuplicateWindow time.Duration
	DurableName     string
	QueueGroup      string
	MaxReconnects   int
	ReconnectWait   time.Duration
	AckWait         time.Duration
	MaxDeliver      int

	// Router settings.
	RetryCount           int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	PoisonQueueTopic     string
	CloseTimeout         time.Duration

	// BufferSize is the gochannel output buffer per subscriber.
	BufferSize int64
}

// DefaultConfig returns an in-process configuration.
func DefaultConfig() Config {
	return Config{
		Transport:            TransportGoChannel,
		NATSURL:              "nats://127.0.0.1:4222",
		StreamName:           "RECIPES",
		StreamSubjects:       []string{"recipe.>"},
		StreamMaxAge:         7 * 24 * time.Hour,
		DuplicateWindow:      2 * time.Minute,
		DurableName:          "approval-consumer",
		QueueGroup:           "smart-cooking",
		MaxReconnects:        -1,
		ReconnectWait:        2 * time.Second,
		AckWait:              30 * time.Second,
		MaxDeliver:           10,
		RetryCount:           3,
		RetryInitialInterval: 500 * time.Millisecond,
		RetryMaxInterval:     10 * time.Second,
		PoisonQueueTopic:     "recipe.approved.poison",
		CloseTimeout:         10 * time.Second,
		BufferSize:           64,
	}
}

// Validate checks the fields the selected transport depends on.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportGoChannel:
	case TransportNATS:
		if c.NATSURL == "" {
			return fmt.Errorf("events: nats transport requires a URL")
		}
		if c.StreamName == "" || len(c.StreamSubjects) == 0 {
			return fmt.Errorf("events: nats transport requires a stream name and subjects")
		}
		if c.PoisonQueueTopic != "" && !c.Covers(c.PoisonQueueTopic) {
			return fmt.Errorf("events: poison queue topic %q is outside stream subjects %v", c.PoisonQueueTopic, c.StreamSubjects)
		}
	default:
		return fmt.Errorf("events: unknown transport %q", c.Transport)
	}
	if c.RetryCount < 0 {
		return fmt.Errorf("events: retry count must be >= 0, got %d", c.RetryCount)
	}
	return nil
}

// Covers reports whether the stream captures subject. JetStream rejects
// publishes to subjects no stream captures.
func (c *Config) Covers(subject string) bool {
	for _, filter := range c.StreamSubjects {
		if server.SubjectMatchesFilter(subject, filter) {
			return true
		}
	}
	return false
}
