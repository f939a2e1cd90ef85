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

// EmbeddedConfig configures an in-process NATS JetStream server for
// single-instance deployments that have no broker of their own.
type EmbeddedConfig struct {
	Host     string
	Port     int // -1 picks a random free port
	StoreDir string

	JetStreamMaxMemory int64
	JetStreamMaxStore  int64

	ReadyTimeout time.Duration
}

// DefaultEmbeddedConfig listens on loopback with a 1 GiB file store.
func DefaultEmbeddedConfig() EmbeddedConfig {
	return EmbeddedConfig{
		Host:               "127.0.0.1",
		Port:               4222,
		StoreDir:           "/data/nats",
		JetStreamMaxMemory: 64 << 20,
		JetStreamMaxStore:  1 << 30,
		ReadyTimeout:       30 * time.Second,
	}
}

// EmbeddedServer is a running in-process NATS server.
type EmbeddedServer struct {
	server    *server.Server
	clientURL string
}

// StartEmbedded starts the server and waits until it accepts connections.
func StartEmbedded(cfg EmbeddedConfig) (*EmbeddedServer, error) {
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = 30 * time.Second
	}

	ns, err := server.NewServer(&server.Options{
		ServerName:         "smart-cooking-events",
		Host:               cfg.Host,
		Port:               cfg.Port,
		JetStream:          true,
		StoreDir:           cfg.StoreDir,
		JetStreamMaxMemory: cfg.JetStreamMaxMemory,
		JetStreamMaxStore:  cfg.JetStreamMaxStore,
		NoSigs:             true,
		MaxPayload:         1 << 20,
	})
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(cfg.ReadyTimeout) {
		ns.Shutdown()
		return nil, fmt.Errorf("NATS server not ready within %s", cfg.ReadyTimeout)
	}

	return &EmbeddedServer{server: ns, clientURL: ns.ClientURL()}, nil
}

// ClientURL is the URL transports should connect to.
func (s *EmbeddedServer) ClientURL() string {
	return s.clientURL
}

// JetStreamEnabled reports whether JetStream came up.
func (s *EmbeddedServer) JetStreamEnabled() bool {
	return s.server.JetStreamEnabled()
}

// Shutdown stops the server and waits for it to exit.
func (s *EmbeddedServer) Shutdown() {
	s.server.Shutdown()
	s.server.WaitForShutdown()
}
