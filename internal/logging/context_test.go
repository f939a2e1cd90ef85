// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package logging

import (
	"context"
	"strings"
	"testing"
)

func TestContextFields(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if RequestIDFromContext(ctx) != "" || UserIDFromContext(ctx) != "" || CorrelationIDFromContext(ctx) != "" {
		t.Fatal("empty context should carry no IDs")
	}

	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")
	child := ContextWithUserID(ctx, "user-1")

	if got := RequestIDFromContext(child); got != "req-1" {
		t.Errorf("RequestIDFromContext = %q, want req-1", got)
	}
	if got := CorrelationIDFromContext(child); got != "corr-1" {
		t.Errorf("CorrelationIDFromContext = %q, want corr-1", got)
	}
	if got := UserIDFromContext(child); got != "user-1" {
		t.Errorf("UserIDFromContext = %q, want user-1", got)
	}
	if got := UserIDFromContext(ctx); got != "" {
		t.Errorf("parent context changed: user %q", got)
	}
}

func TestContextWithNewCorrelationID(t *testing.T) {
	t.Parallel()

	a := CorrelationIDFromContext(ContextWithNewCorrelationID(context.Background()))
	b := CorrelationIDFromContext(ContextWithNewCorrelationID(context.Background()))
	if len(a) != 8 || len(b) != 8 {
		t.Errorf("expected 8 character IDs, got %q and %q", a, b)
	}
	if a == b {
		t.Error("expected distinct correlation IDs")
	}
}

func TestCtx(t *testing.T) {
	buf := captureGlobal(t)

	ctx := ContextWithRequestID(context.Background(), "req-42")
	ctx = ContextWithUserID(ctx, "u-7")
	Ctx(ctx).Info().Msg("hello")
	Ctx(context.Background()).Info().Msg("bare")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %s", len(lines), buf.String())
	}
	for _, want := range []string{`"request_id":"req-42"`, `"user_id":"u-7"`} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("expected %s in %s", want, lines[0])
		}
	}
	if strings.Contains(lines[0], "correlation_id") {
		t.Errorf("unset correlation ID should be omitted: %s", lines[0])
	}
	if strings.Contains(lines[1], "request_id") {
		t.Errorf("bare context should add no fields: %s", lines[1])
	}
}
