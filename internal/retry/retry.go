// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

// Package retry provides a reusable retry policy with capped exponential backoff.
//
// A Policy is built once (from configuration) and injected into the
// components that need it, so that max attempts, backoff shape and the
// retry predicate are not duplicated per call site.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// Outcome describes what happened on an attempt reported to OnAttempt.
type Outcome string

const (
	// OutcomeRetrying means the attempt failed transiently and another attempt follows.
	OutcomeRetrying Outcome = "retrying"
	// OutcomeRecovered means the attempt succeeded after at least one retry.
	OutcomeRecovered Outcome = "recovered"
	// OutcomeExhausted means the attempt failed transiently and no attempts remain.
	OutcomeExhausted Outcome = "exhausted"
)

// Attempt is the structured event passed to Policy.OnAttempt.
type Attempt struct {
	Op      string
	Number  int
	Outcome Outcome
	Delay   time.Duration
	Err     error
}

// RetryAfterer is implemented by errors that carry a server-side backoff hint.
type RetryAfterer interface {
	RetryAfter() time.Duration
}

// Policy controls how an operation is retried.
type Policy struct {
	// MaxAttempts is the total number of attempts including the first.
	// Default: 3
	MaxAttempts int

	// BaseDelay is the delay before the first retry.
	// Default: 100ms
	BaseDelay time.Duration

	// MaxDelay caps any single delay.
	// Default: 5s
	MaxDelay time.Duration

	// Multiplier is the exponential growth factor.
	// Default: 2
	Multiplier float64

	// Retryable decides whether an error is transient. Nil means nothing is retried.
	Retryable func(error) bool

	// OnAttempt is invoked for retried, recovered and exhausted attempts.
	OnAttempt func(Attempt)

	// sleep is replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy returns a policy with 3 attempts, 100ms base delay and a 5s cap.
func DefaultPolicy(retryable func(error) bool) Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Multiplier:  2,
		Retryable:   retryable,
	}
}

// ExhaustedError is returned when every attempt failed with a transient error.
type ExhaustedError struct {
	Op       string
	Attempts int

	// NextDelay is the delay the policy would have waited before another attempt.
	NextDelay time.Duration

	Err error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s: gave up after %d attempts: %v", e.Op, e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 3
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = 100 * time.Millisecond
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = 5 * time.Second
	}
	if p.Multiplier < 1 {
		p.Multiplier = 2
	}
	if p.sleep == nil {
		p.sleep = sleepContext
	}
	return p
}

// Backoff returns the delay before retry number n (1-based): base * multiplier^(n-1), capped.
func (p Policy) Backoff(n int) time.Duration {
	p = p.normalized()
	if n < 1 {
		n = 1
	}
	// Past ~60 doublings the float overflows the Duration range anyway.
	if n > 60 {
		return p.MaxDelay
	}
	d := time.Duration(float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(n-1)))
	if d <= 0 || d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Do runs fn until it succeeds, fails permanently, the context ends, or
// MaxAttempts is reached. Permanent errors are returned unchanged; exhausted
// transient errors are returned as *ExhaustedError.
func (p Policy) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	p = p.normalized()

	var err error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			if attempt > 1 {
				p.notify(Attempt{Op: op, Number: attempt, Outcome: OutcomeRecovered})
			}
			return nil
		}

		if p.Retryable == nil || !p.Retryable(err) {
			return err
		}

		delay := p.delayFor(attempt, err)
		if attempt == p.MaxAttempts {
			p.notify(Attempt{Op: op, Number: attempt, Outcome: OutcomeExhausted, Err: err})
			return &ExhaustedError{Op: op, Attempts: attempt, NextDelay: delay, Err: err}
		}

		p.notify(Attempt{Op: op, Number: attempt, Outcome: OutcomeRetrying, Delay: delay, Err: err})
		if sleepErr := p.sleep(ctx, delay); sleepErr != nil {
			return errors.Join(err, sleepErr)
		}
	}

	return err
}

// delayFor honors a RetryAfter hint from the error when it is longer than the backoff.
func (p Policy) delayFor(attempt int, err error) time.Duration {
	delay := p.Backoff(attempt)
	var hinted RetryAfterer
	if errors.As(err, &hinted) {
		if hint := hinted.RetryAfter(); hint > delay {
			delay = hint
		}
	}
	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return delay
}

func (p Policy) notify(a Attempt) {
	if p.OnAttempt != nil {
		p.OnAttempt(a)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
