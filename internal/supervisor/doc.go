// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

/*
Package supervisor runs the service's long-lived components under a suture v4
supervisor tree.

	RootSupervisor ("smart-cooking")
	├── DataSupervisor ("data-layer")
	│   └── StoreGCService
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventRouterService (approval.dispatch = events)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Layers restart independently: a consumer that loses its NATS subscription is
rebuilt without touching the HTTP listener, and rating submissions keep
working because the event dispatcher falls back to in-process side effects
when publishing fails.

Supervisor events are logged through sutureslog, backed by the zerolog
global logger via logging.NewSlogLogger.

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Supervisor.ShutdownTimeout,
	})
	_, err = tree.Add(supervisor.LayerAPI, services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout))
	err = tree.Run(ctx)
*/
package supervisor
