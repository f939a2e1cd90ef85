// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

/*
Package rating accepts community ratings for recipes and keeps each recipe's
aggregate score current.

A submission is validated, checked against the recipe and any earlier rating
by the same user, stored, and then folded into the recipe's average and
count. Two aggregation modes exist:

  - rescan: every stored rating is re-read and the aggregate recomputed.
    Concurrent writers race on the final overwrite, but each result covers
    at least the ratings visible when it read them.
  - counter: a single conditional update adds the new score to a running
    sum and count.

After aggregation the auto-approval predicate is evaluated against the
rounded average. When it holds, the Approver passed to NewService takes the
recipe from pending to approved.

The package also serves the read side: paged ratings for a recipe together
with its stored aggregate, and paged ratings for a user.
*/
package rating
