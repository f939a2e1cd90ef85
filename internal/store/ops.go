// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Write is one put in a BatchWrite.
type Write struct {
	Item       *Item
	Conditions []Condition
}

// Get returns the record stored under key.
func (s *Store) Get(ctx context.Context, key Key) (*Item, error) {
	var item *Item
	err := s.run(ctx, "store.Get", func(ctx context.Context) error {
		if err := key.validate(); err != nil {
			return err
		}
		return s.view(ctx, func(txn *badger.Txn) error {
			got, err := readItem(txn, key)
			if err != nil {
				return err
			}
			if got == nil {
				return ErrNotFound
			}
			item = got
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Put writes item. Without conditions an existing record is overwritten;
// on success item carries the stored version and timestamps.
func (s *Store) Put(ctx context.Context, item *Item, conds ...Condition) error {
	var stored *Item
	err := s.run(ctx, "store.Put", func(ctx context.Context) error {
		if err := item.validate(); err != nil {
			return err
		}
		return s.update(ctx, func(txn *badger.Txn) error {
			existing, err := readItem(txn, item.Key)
			if err != nil {
				return err
			}
			if err := check(existing, conds); err != nil {
				return err
			}
			stored = item.clone()
			return s.writeItem(txn, stored, existing)
		})
	})
	if err != nil {
		return err
	}
	item.Version = stored.Version
	item.CreatedAt = stored.CreatedAt
	item.UpdatedAt = stored.UpdatedAt
	return nil
}

// ConditionalUpdate reads the record under key, applies mutate and writes the
// result in one transaction. A missing record fails with NotFound unless
// Upsert is given, in which case mutate receives an empty item. Returning
// ErrConditionFailed from mutate aborts the update with a Conflict.
// mutate may run more than once when the transaction is retried.
func (s *Store) ConditionalUpdate(ctx context.Context, key Key, mutate func(*Item) error, conds ...Condition) (*Item, error) {
	var result *Item
	err := s.run(ctx, "store.ConditionalUpdate", func(ctx context.Context) error {
		if err := key.validate(); err != nil {
			return err
		}
		return s.update(ctx, func(txn *badger.Txn) error {
			existing, err := readItem(txn, key)
			if err != nil {
				return err
			}
			if existing == nil && !hasUpsert(conds) {
				return ErrNotFound
			}
			if err := check(existing, conds); err != nil {
				return err
			}

			working := &Item{Key: key}
			if existing != nil {
				working = existing.clone()
			}
			if err := mutate(working); err != nil {
				return err
			}
			working.Key = key
			if err := working.validate(); err != nil {
				return err
			}

			if err := s.writeItem(txn, working, existing); err != nil {
				return err
			}
			result = working
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes the record under key and its index entries. Deleting a
// missing record succeeds unless a condition requires it to exist.
func (s *Store) Delete(ctx context.Context, key Key, conds ...Condition) error {
	return s.run(ctx, "store.Delete", func(ctx context.Context) error {
		if err := key.validate(); err != nil {
			return err
		}
		return s.update(ctx, func(txn *badger.Txn) error {
			existing, err := readItem(txn, key)
			if err != nil {
				return err
			}
			if err := check(existing, conds); err != nil {
				return err
			}
			if existing == nil {
				return nil
			}
			return deleteItem(txn, existing)
		})
	})
}

// BatchRead returns the records stored under keys in the same order.
// Missing keys are omitted.
func (s *Store) BatchRead(ctx context.Context, keys []Key) ([]*Item, error) {
	var items []*Item
	err := s.run(ctx, "store.BatchRead", func(ctx context.Context) error {
		items = items[:0]
		for _, k := range keys {
			if err := k.validate(); err != nil {
				return err
			}
		}
		return s.view(ctx, func(txn *badger.Txn) error {
			for _, k := range keys {
				item, err := readItem(txn, k)
				if err != nil {
					return err
				}
				if item != nil {
					items = append(items, item)
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// BatchWrite applies puts and deletes atomically. If any put condition fails
// nothing is written.
func (s *Store) BatchWrite(ctx context.Context, puts []Write, deletes []Key) error {
	return s.run(ctx, "store.BatchWrite", func(ctx context.Context) error {
		for _, w := range puts {
			if w.Item == nil {
				return ErrInvalidKey
			}
			if err := w.Item.validate(); err != nil {
				return err
			}
		}
		for _, k := range deletes {
			if err := k.validate(); err != nil {
				return err
			}
		}

		return s.update(ctx, func(txn *badger.Txn) error {
			for _, w := range puts {
				existing, err := readItem(txn, w.Item.Key)
				if err != nil {
					return err
				}
				if err := check(existing, w.Conditions); err != nil {
					return fmt.Errorf("put %s: %w", w.Item.Key, err)
				}
				if err := s.writeItem(txn, w.Item.clone(), existing); err != nil {
					return err
				}
			}
			for _, k := range deletes {
				existing, err := readItem(txn, k)
				if err != nil {
					return err
				}
				if existing == nil {
					continue
				}
				if err := deleteItem(txn, existing); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// readItem returns nil without error when the key does not exist.
func readItem(txn *badger.Txn, key Key) (*Item, error) {
	got, err := txn.Get(dataKey(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	var item Item
	err = got.Value(func(val []byte) error {
		return json.Unmarshal(val, &item)
	})
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &item, nil
}

// writeItem stores item (and its index entries) over existing, which may be nil.
func (s *Store) writeItem(txn *badger.Txn, item, existing *Item) error {
	now := s.now()

	item.Version = 1
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	if existing != nil {
		item.Version = existing.Version + 1
		item.CreatedAt = existing.CreatedAt
		for name, old := range existing.Indexes {
			if current, ok := item.Indexes[name]; ok && current == old {
				continue
			}
			if err := txn.Delete(indexKey(name, old)); err != nil {
				return fmt.Errorf("delete index %s %s: %w", name, old, err)
			}
		}
	}
	item.UpdatedAt = now

	val, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode %s: %w", item.Key, err)
	}

	var ttl time.Duration
	if item.ExpiresAt != nil {
		ttl = item.ExpiresAt.Sub(now)
		if ttl < time.Second {
			ttl = time.Second
		}
	}

	if err := txn.SetEntry(entry(dataKey(item.Key), val, ttl)); err != nil {
		return fmt.Errorf("set %s: %w", item.Key, err)
	}

	if len(item.Indexes) > 0 {
		ref, err := json.Marshal(item.Key)
		if err != nil {
			return fmt.Errorf("encode index ref %s: %w", item.Key, err)
		}
		for name, k := range item.Indexes {
			if err := txn.SetEntry(entry(indexKey(name, k), ref, ttl)); err != nil {
				return fmt.Errorf("set index %s %s: %w", name, k, err)
			}
		}
	}
	return nil
}

func deleteItem(txn *badger.Txn, item *Item) error {
	if err := txn.Delete(dataKey(item.Key)); err != nil {
		return fmt.Errorf("delete %s: %w", item.Key, err)
	}
	for name, k := range item.Indexes {
		if err := txn.Delete(indexKey(name, k)); err != nil {
			return fmt.Errorf("delete index %s %s: %w", name, k, err)
		}
	}
	return nil
}

func entry(key, val []byte, ttl time.Duration) *badger.Entry {
	e := badger.NewEntry(key, val)
	if ttl > 0 {
		e = e.WithTTL(ttl)
	}
	return e
}
