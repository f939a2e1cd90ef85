// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package store

import (
	"strings"
	"time"
)

// Key identifies a record by partition key and sort key.
type Key struct {
	PK string `json:"pk"`
	SK string `json:"sk"`
}

func (k Key) String() string {
	return k.PK + "/" + k.SK
}

func (k Key) validate() error {
	if k.PK == "" || k.SK == "" {
		return ErrInvalidKey
	}
	if strings.ContainsRune(k.PK, sep) || strings.ContainsRune(k.SK, sep) {
		return ErrInvalidKey
	}
	return nil
}

// IndexUserRatings lists a user's ratings newest first.
const IndexUserRatings = "user-ratings"

// Partition and sort key prefixes.
const (
	recipePrefix       = "RECIPE#"
	userPrefix         = "USER#"
	metadataSortKey    = "METADATA"
	ratingPrefix       = "RATING#"
	raterPrefix        = "RATER#"
	historyPrefix      = "HISTORY#"
	notificationPrefix = "NOTIFICATION#"
)

// Badger key layout. The separator cannot appear in partition or sort keys.
const (
	sep        = '\x00'
	dataSpace  = "d"
	indexSpace = "x"
)

// sortTime renders timestamps so that lexical order equals time order.
const sortTime = "2006-01-02T15:04:05.000000000Z"

func formatSortTime(t time.Time) string {
	return t.UTC().Format(sortTime)
}

// RecipeKey is the key of a recipe record.
func RecipeKey(recipeID string) Key {
	return Key{PK: recipePrefix + recipeID, SK: metadataSortKey}
}

// RatingKey is the primary key of a rating.
func RatingKey(recipeID string, createdAt time.Time, ratingID string) Key {
	return Key{PK: recipePrefix + recipeID, SK: ratingPrefix + formatSortTime(createdAt) + "#" + ratingID}
}

// RaterGuardKey is the marker that enforces one rating per user per recipe.
func RaterGuardKey(recipeID, userID string) Key {
	return Key{PK: recipePrefix + recipeID, SK: raterPrefix + userID}
}

// UserRatingIndexKey is the user-ratings index entry of a rating.
func UserRatingIndexKey(userID string, createdAt time.Time, recipeID string) Key {
	return Key{PK: userPrefix + userID, SK: ratingPrefix + formatSortTime(createdAt) + "#" + recipeID}
}

// HistoryKey is the key of a cooking history record.
func HistoryKey(userID, historyID string) Key {
	return Key{PK: userPrefix + userID, SK: historyPrefix + historyID}
}

// NotificationKey is the key of a notification.
func NotificationKey(userID string, createdAt time.Time, notificationID string) Key {
	return Key{PK: userPrefix + userID, SK: notificationPrefix + formatSortTime(createdAt) + "#" + notificationID}
}

func dataKey(k Key) []byte {
	return []byte(dataSpace + string(sep) + k.PK + string(sep) + k.SK)
}

func dataPrefix(pk, skPrefix string) []byte {
	return []byte(dataSpace + string(sep) + pk + string(sep) + skPrefix)
}

func indexKey(index string, k Key) []byte {
	return []byte(indexSpace + string(sep) + index + string(sep) + k.PK + string(sep) + k.SK)
}

func indexPrefix(index, pk, skPrefix string) []byte {
	return []byte(indexSpace + string(sep) + index + string(sep) + pk + string(sep) + skPrefix)
}

// parseDataKey reverses dataKey.
func parseDataKey(b []byte) (Key, bool) {
	parts := strings.SplitN(string(b), string(sep), 3)
	if len(parts) != 3 || parts[0] != dataSpace {
		return Key{}, false
	}
	return Key{PK: parts[1], SK: parts[2]}, true
}

// parseIndexKey reverses indexKey.
func parseIndexKey(b []byte) (string, Key, bool) {
	parts := strings.SplitN(string(b), string(sep), 4)
	if len(parts) != 4 || parts[0] != indexSpace {
		return "", Key{}, false
	}
	return parts[1], Key{PK: parts[2], SK: parts[3]}, true
}
