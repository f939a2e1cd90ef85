// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

/*
Package services provides suture.Service wrappers for the rating service's
long-running components.

Each wrapper translates a component lifecycle (a listener, Run/Close, a
periodic task) into suture's context-aware Serve pattern:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTPServerService:
  - Binds the listen address inside Serve, so a port conflict is retried
    with the supervisor's backoff
  - Drains connections within a configurable shutdown timeout
  - Does not restart a server that was closed outside the supervisor

EventRouterService:
  - Runs the recipe.approved consumer router
  - Builds a fresh router on every Serve, since a watermill router cannot
    be restarted once it has stopped
  - Exposes Ready for the readiness endpoint

StoreGCService:
  - Runs BadgerDB value log garbage collection on an interval
  - Logs and continues on GC errors; stops permanently once the store is closed

# Usage

	tree.Add(supervisor.LayerAPI, services.NewHTTPServerService(server, server.Addr, 10*time.Second))
	tree.Add(supervisor.LayerMessaging, services.NewEventRouterService(buildRouter))
	tree.Add(supervisor.LayerData, services.NewStoreGCService(db, 5*time.Minute))
*/
package services
