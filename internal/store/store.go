// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package store

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/nvtruongops/smart-cooking-sub003/internal/apperror"
	"github.com/nvtruongops/smart-cooking-sub003/internal/logging"
	"github.com/nvtruongops/smart-cooking-sub003/internal/metrics"
	"github.com/nvtruongops/smart-cooking-sub003/internal/retry"
)

// Store is the BadgerDB-backed persistence layer.
type Store struct {
	db      *badger.DB
	cfg     Config
	policy  retry.Policy
	limiter *rate.Limiter
	logger  zerolog.Logger
	closed  atomic.Bool

	// now is replaced in tests.
	now func() time.Time
}

// Open opens (or creates) the database described by cfg. The retry policy is
// shared by every operation; when its predicate is nil IsTransient is used.
func Open(cfg Config, policy retry.Policy) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid store config: %w", err)
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = newBadgerLogger()

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	s := newStore(db, cfg, policy)

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Float64("max_ops_per_second", cfg.MaxOpsPerSecond).
		Msg("Store opened")
	return s, nil
}

func newStore(db *badger.DB, cfg Config, policy retry.Policy) *Store {
	s := &Store{
		db:     db,
		cfg:    cfg,
		logger: logging.WithComponent("store"),
		now:    func() time.Time { return time.Now().UTC() },
	}

	if cfg.MaxOpsPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.MaxOpsPerSecond), cfg.Burst)
	}

	if policy.Retryable == nil {
		policy.Retryable = IsTransient
	}
	hook := policy.OnAttempt
	policy.OnAttempt = func(a retry.Attempt) {
		metrics.RecordStoreRetry(a.Op, a.Number, string(a.Outcome))
		s.logger.Debug().
			Str("operation", a.Op).
			Int("attempt", a.Number).
			Str("outcome", string(a.Outcome)).
			Dur("delay", a.Delay).
			AnErr("cause", a.Err).
			Msg("Store retry")
		if hook != nil {
			hook(a)
		}
	}
	s.policy = policy

	return s
}

// Close closes the database. Further operations return ErrClosed.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	logging.Info().Msg("Store closed")
	return nil
}

// Config returns the store configuration.
func (s *Store) Config() Config {
	return s.cfg
}

// Ping checks that the database answers a read transaction.
func (s *Store) Ping(ctx context.Context) error {
	return s.run(ctx, "store.Ping", func(ctx context.Context) error {
		return s.db.View(func(txn *badger.Txn) error {
			return ctx.Err()
		})
	})
}

// run executes fn through throttling, per-attempt timeout, retry and error
// translation, and records operation metrics.
func (s *Store) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := time.Now()

	err := s.policy.Do(ctx, op, func(ctx context.Context) error {
		return s.attempt(ctx, op, fn)
	})
	err = translate(op, err)

	kind := ""
	if err != nil {
		kind = string(apperror.KindOf(err))
	}
	metrics.RecordStoreOperation(op, time.Since(start), kind)
	return err
}

func (s *Store) attempt(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.limiter != nil {
		r := s.limiter.Reserve()
		if delay := r.Delay(); delay > 0 {
			r.Cancel()
			metrics.RecordStoreThrottled(op)
			return &ThrottleError{After: delay}
		}
	}

	attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.OperationTimeout)
	defer cancel()

	err := fn(attemptCtx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%s: %w", op, ErrAttemptTimeout)
	}
	if errors.Is(err, badger.ErrDBClosed) {
		return ErrClosed
	}
	return err
}

// update runs fn in a read-write transaction and commits unless the attempt
// context ended first.
func (s *Store) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	txn := s.db.NewTransaction(true)
	defer txn.Discard()

	if err := fn(txn); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return txn.Commit()
}

func (s *Store) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	txn := s.db.NewTransaction(false)
	defer txn.Discard()

	if err := fn(txn); err != nil {
		return err
	}
	return ctx.Err()
}
