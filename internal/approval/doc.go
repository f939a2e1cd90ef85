// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

/*
Package approval moves a recipe from pending to approved once its community
rating crosses the threshold, and runs the follow-up work.

Approval is a one-way gate. Trigger.Fire flips the recipe with a conditional
update that only succeeds while the recipe is still pending, so concurrent
submissions approve it exactly once. Nothing in this package reverts it.

The winner hands an Approved event to a Dispatcher:

  - SyncDispatcher runs ingredient enrichment and the owner notification
    in the caller's goroutine. Failures are logged and counted, never
    returned.
  - EventDispatcher publishes the event on the recipe.approved topic. The
    Consumer registered on the events router does the same work and
    returns failures so the router can retry the message. When publishing
    fails, the dispatcher falls back to running the work synchronously.

The notification id is derived from the recipe id and its creation time is
the approval time carried in the event, so a redelivered event maps to the
same record and is written at most once.
*/
package approval
