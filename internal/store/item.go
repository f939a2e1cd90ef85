// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package store

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Item is the stored envelope of a record.
type Item struct {
	Key

	// Version starts at 1 and is incremented by every write.
	Version int64 `json:"version"`

	// Indexes maps an index name to this record's key in that index.
	Indexes map[string]Key `json:"indexes,omitempty"`

	Data json.RawMessage `json:"data"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// ExpiresAt, when set, makes the record and its index entries expire.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// NewItem builds an item holding v as its data.
func NewItem(key Key, v interface{}) (*Item, error) {
	item := &Item{Key: key}
	if err := item.Encode(v); err != nil {
		return nil, err
	}
	return item, nil
}

// Encode replaces the item data with v.
func (i *Item) Encode(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", i.Key, err)
	}
	i.Data = data
	return nil
}

// Decode unmarshals the item data into v.
func (i *Item) Decode(v interface{}) error {
	if err := json.Unmarshal(i.Data, v); err != nil {
		return fmt.Errorf("decode %s: %w", i.Key, err)
	}
	return nil
}

// WithIndex adds an index entry and returns the item.
func (i *Item) WithIndex(index string, key Key) *Item {
	if i.Indexes == nil {
		i.Indexes = make(map[string]Key)
	}
	i.Indexes[index] = key
	return i
}

// ExpireAt sets an expiry and returns the item.
func (i *Item) ExpireAt(t time.Time) *Item {
	t = t.UTC()
	i.ExpiresAt = &t
	return i
}

func (i *Item) validate() error {
	if err := i.Key.validate(); err != nil {
		return err
	}
	for _, k := range i.Indexes {
		if err := k.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (i *Item) clone() *Item {
	c := *i
	c.Data = append(json.RawMessage(nil), i.Data...)
	if i.Indexes != nil {
		c.Indexes = make(map[string]Key, len(i.Indexes))
		for name, k := range i.Indexes {
			c.Indexes[name] = k
		}
	}
	if i.ExpiresAt != nil {
		t := *i.ExpiresAt
		c.ExpiresAt = &t
	}
	return &c
}
