// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package store

type conditionKind int

const (
	condNotExists conditionKind = iota + 1
	condExists
	condVersion
	condUpsert
)

// Condition is a precondition evaluated against the stored record inside the
// write transaction.
type Condition struct {
	kind    conditionKind
	version int64
}

// IfNotExists requires that no record exists under the key.
func IfNotExists() Condition {
	return Condition{kind: condNotExists}
}

// IfExists requires that a record exists under the key.
func IfExists() Condition {
	return Condition{kind: condExists}
}

// IfVersion requires the stored record to be at version v.
func IfVersion(v int64) Condition {
	return Condition{kind: condVersion, version: v}
}

// Upsert lets ConditionalUpdate create the record when it is missing.
func Upsert() Condition {
	return Condition{kind: condUpsert}
}

// check evaluates conds against existing, which is nil when no record exists.
func check(existing *Item, conds []Condition) error {
	for _, c := range conds {
		switch c.kind {
		case condNotExists:
			if existing != nil {
				return ErrConditionFailed
			}
		case condExists:
			if existing == nil {
				return ErrConditionFailed
			}
		case condVersion:
			if existing == nil || existing.Version != c.version {
				return ErrConditionFailed
			}
		}
	}
	return nil
}

func hasUpsert(conds []Condition) bool {
	for _, c := range conds {
		if c.kind == condUpsert {
			return true
		}
	}
	return false
}
