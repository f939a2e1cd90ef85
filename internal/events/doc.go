// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

/*
Package events carries domain events between the rating path and their
asynchronous consumers using Watermill.

Two transports are supported:

  - gochannel: an in-process Pub/Sub. Publisher and Subscriber are the same
    instance, so delivery only reaches handlers in this process.
  - nats: NATS JetStream through watermill-nats. The stream is created or
    updated at startup, messages carry Nats-Msg-Id for broker-side
    deduplication and consumers are durable queue subscribers.

The Router wraps Watermill's router with a poison queue, exponential retry
and panic recovery, and counts every handler invocation per topic.
*/
package events
