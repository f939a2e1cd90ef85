// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

/*
Package store is the persistence access layer of the service.

Records live in BadgerDB under a composite key made of a partition key and a
sort key, mirroring a wide-column key-value layout:

	RECIPE#<recipe_id>  METADATA                          recipe
	RECIPE#<recipe_id>  RATING#<created_at>#<rating_id>   rating
	RECIPE#<recipe_id>  RATER#<user_id>                   one-rating-per-user guard
	USER#<user_id>      HISTORY#<history_id>              cooking history
	USER#<user_id>      NOTIFICATION#<created_at>#<id>    notification

Ratings are additionally projected into the user-ratings secondary index
(USER#<user_id> / RATING#<created_at>#<recipe_id>) so that a user's ratings
can be listed newest first.

Every operation runs through the same pipeline:

  - optional token-bucket throttle emulating provisioned throughput
  - per-attempt timeout
  - retry of transient failures (transaction conflicts, blocked writes,
    throttling, attempt timeouts) with capped exponential backoff
  - translation of the final failure into the apperror taxonomy

Callers never see Badger errors. The typed repositories in this package
(Recipes, Ratings, History, Notifications) are the only API the rest of the
service uses.
*/
package store
