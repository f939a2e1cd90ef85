// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

// Package logging provides centralized zerolog-based structured logging.
//
// The package provides:
//   - A global zerolog logger configured once from main via Init
//   - JSON output for production, console output for development
//   - Context-aware logging with request, correlation and caller IDs
//   - An slog adapter for suture's event hook (sutureslog)
//   - A watermill.LoggerAdapter for the approval event router
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Msg("Server starting")
//	logging.Ctx(ctx).Warn().Err(err).Str("recipe_id", id).Msg("Enrichment failed")
//
// Always terminate log chains with .Msg() or .Send(); an unterminated
// event is never written.
package logging
