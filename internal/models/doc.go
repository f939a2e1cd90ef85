// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

/*
Package models defines the records shared by the store, rating, approval and
API packages.

Key types:

  - Recipe: approval flags and the rating aggregate of a recipe
  - Rating: one user's immutable score and optional comment
  - CookingHistory: evidence used to mark a rating as a verified cook
  - Notification: in-app message to a recipe owner
  - EnrichmentResult: response of the ingredient catalog collaborator

All timestamps are UTC and serialize as RFC3339.
*/
package models
