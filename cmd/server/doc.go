// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

/*
Package main is the entry point for the recipe rating and approval server.

The server accepts ratings for user-submitted recipes, keeps each recipe's
rating aggregate current and auto-approves recipes that reach the community
threshold. Approval side effects (ingredient enrichment and the owner
notification) run inline or through the recipe.approved event pipeline.

# Application Architecture

	RootSupervisor ("smart-cooking")
	├── DataSupervisor ("data-layer")
	│   └── store-gc (BadgerDB value log GC)
	├── MessagingSupervisor ("messaging-layer")
	│   └── events-router (approval consumer, approval.dispatch=events only)
	└── APISupervisor ("api-layer")
	    └── http-server

Component initialization order:

 1. Configuration: koanf v2 with defaults, an optional YAML file and environment variables (CONFIG_PATH selects the file)
 2. Logging: zerolog with JSON or console output
 3. Store: BadgerDB with retry and throughput limiting
 4. Enrichment: catalog HTTP client behind a circuit breaker
 5. Approval: inline dispatcher or watermill publisher plus consumer router
 6. Rating service
 7. HTTP: chi router with request ID, CORS, rate limit, metrics and auth middleware
 8. Supervisor tree: suture v4

# Configuration

	HTTP_PORT=8080
	STORE_PATH=/data/badger
	AUTH_MODE=jwt
	JWT_SECRET=...
	APPROVAL_DISPATCH=events
	EVENTS_TRANSPORT=nats
	NATS_URL=nats://nats:4222

Shutdown is triggered by SIGINT or SIGTERM. Any service that misses its
shutdown timeout is reported before the store is closed.
*/
package main
