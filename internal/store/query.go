// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package store

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// QueryOptions controls QueryByPrefix.
type QueryOptions struct {
	// Limit caps the number of returned items. Zero means no limit.
	Limit int

	// Reverse returns items in descending sort key order.
	Reverse bool

	// PageToken resumes after the last item of a previous page.
	PageToken string

	// IndexName queries a secondary index instead of the primary records.
	IndexName string
}

// ScanOptions controls Scan.
type ScanOptions struct {
	Limit     int
	PageToken string
}

// Page is one page of query results. NextToken is empty on the last page.
type Page struct {
	Items     []*Item
	NextToken string
}

type pageToken struct {
	Index string `json:"i,omitempty"`
	PK    string `json:"pk"`
	SK    string `json:"sk"`
}

func encodePageToken(t pageToken) (string, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("encode page token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func decodePageToken(s string) (*pageToken, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidPageToken
	}
	var t pageToken
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, ErrInvalidPageToken
	}
	if (Key{PK: t.PK, SK: t.SK}).validate() != nil {
		return nil, ErrInvalidPageToken
	}
	return &t, nil
}

// QueryByPrefix returns the records of partition whose sort key starts with
// sortPrefix, in sort key order. With IndexName set, partition and sortPrefix
// address the index and the referenced primary records are returned.
func (s *Store) QueryByPrefix(ctx context.Context, partition, sortPrefix string, opts QueryOptions) (*Page, error) {
	var page *Page
	err := s.run(ctx, "store.QueryByPrefix", func(ctx context.Context) error {
		if partition == "" || strings.ContainsRune(partition, sep) || strings.ContainsRune(sortPrefix, sep) {
			return ErrInvalidKey
		}
		if opts.Limit < 0 {
			return ErrInvalidKey
		}

		token, err := decodePageToken(opts.PageToken)
		if err != nil {
			return err
		}
		if token != nil && (token.Index != opts.IndexName || token.PK != partition || !strings.HasPrefix(token.SK, sortPrefix)) {
			return ErrInvalidPageToken
		}

		prefix := dataPrefix(partition, sortPrefix)
		if opts.IndexName != "" {
			prefix = indexPrefix(opts.IndexName, partition, sortPrefix)
		}

		var after []byte
		if token != nil {
			after = encodeTokenKey(opts.IndexName, Key{PK: token.PK, SK: token.SK})
		}

		return s.view(ctx, func(txn *badger.Txn) error {
			p, err := s.iterate(ctx, txn, iterSpec{
				prefix:  prefix,
				after:   after,
				reverse: opts.Reverse,
				limit:   opts.Limit,
				index:   opts.IndexName,
			})
			if err != nil {
				return err
			}
			page = p
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Scan walks every primary record in key order and returns those accepted by
// filter. It is intended for administrative use.
func (s *Store) Scan(ctx context.Context, filter func(*Item) bool, opts ScanOptions) (*Page, error) {
	var page *Page
	err := s.run(ctx, "store.Scan", func(ctx context.Context) error {
		if opts.Limit < 0 {
			return ErrInvalidKey
		}
		token, err := decodePageToken(opts.PageToken)
		if err != nil {
			return err
		}
		if token != nil && token.Index != "" {
			return ErrInvalidPageToken
		}

		var after []byte
		if token != nil {
			after = dataKey(Key{PK: token.PK, SK: token.SK})
		}

		return s.view(ctx, func(txn *badger.Txn) error {
			p, err := s.iterate(ctx, txn, iterSpec{
				prefix: []byte(dataSpace + string(sep)),
				after:  after,
				limit:  opts.Limit,
				filter: filter,
			})
			if err != nil {
				return err
			}
			page = p
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

type iterSpec struct {
	prefix  []byte
	after   []byte
	reverse bool
	limit   int
	index   string
	filter  func(*Item) bool
}

func encodeTokenKey(index string, k Key) []byte {
	if index != "" {
		return indexKey(index, k)
	}
	return dataKey(k)
}

// iterate collects up to q.limit items and reports a next token only when
// at least one further item exists.
func (s *Store) iterate(ctx context.Context, txn *badger.Txn, q iterSpec) (*Page, error) {
	itOpts := badger.DefaultIteratorOptions
	itOpts.Reverse = q.reverse
	itOpts.Prefix = q.prefix
	if q.limit > 0 && q.limit < itOpts.PrefetchSize {
		itOpts.PrefetchSize = q.limit + 1
	}

	it := txn.NewIterator(itOpts)
	defer it.Close()

	seek := q.after
	if seek == nil {
		seek = q.prefix
		if q.reverse {
			seek = append(append([]byte(nil), q.prefix...), 0xFF)
		}
	}

	page := &Page{}
	var last []byte
	for it.Seek(seek); it.ValidForPrefix(q.prefix); it.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		k := it.Item().KeyCopy(nil)
		if q.after != nil && bytes.Equal(k, q.after) {
			continue
		}

		item, err := s.resolve(txn, it.Item(), q.index)
		if err != nil {
			return nil, err
		}
		if item == nil || (q.filter != nil && !q.filter(item)) {
			continue
		}

		if q.limit > 0 && len(page.Items) == q.limit {
			token, err := tokenFor(q.index, last)
			if err != nil {
				return nil, err
			}
			page.NextToken = token
			break
		}

		page.Items = append(page.Items, item)
		last = k
	}

	return page, nil
}

// resolve decodes a primary record, or follows an index entry to it. A
// dangling index entry yields nil.
func (s *Store) resolve(txn *badger.Txn, bi *badger.Item, index string) (*Item, error) {
	var raw []byte
	err := bi.Value(func(val []byte) error {
		raw = append([]byte(nil), val...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read value: %w", err)
	}

	if index == "" {
		var item Item
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		return &item, nil
	}

	var ref Key
	if err := json.Unmarshal(raw, &ref); err != nil {
		return nil, fmt.Errorf("decode index ref: %w", err)
	}
	return readItem(txn, ref)
}

func tokenFor(index string, raw []byte) (string, error) {
	if index != "" {
		name, k, ok := parseIndexKey(raw)
		if !ok {
			return "", fmt.Errorf("malformed index key")
		}
		return encodePageToken(pageToken{Index: name, PK: k.PK, SK: k.SK})
	}
	k, ok := parseDataKey(raw)
	if !ok {
		return "", fmt.Errorf("malformed record key")
	}
	return encodePageToken(pageToken{PK: k.PK, SK: k.SK})
}
