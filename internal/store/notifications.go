// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package store

import (
	"context"
	"errors"

	"github.com/nvtruongops/smart-cooking-sub003/internal/apperror"
	"github.com/nvtruongops/smart-cooking-sub003/internal/models"
)

// Notifications stores in-app notifications in the owner's partition. Records
// carry a storage TTL so expired notifications disappear on their own.
type Notifications struct {
	s *Store
}

// NewNotifications creates the notification repository.
func NewNotifications(s *Store) *Notifications {
	return &Notifications{s: s}
}

// Create stores n, filling ExpiresAt from the configured TTL when unset. It
// reports false without error when a notification with the same id and
// timestamp already exists, so redelivered events do not notify twice.
func (n *Notifications) Create(ctx context.Context, notification *models.Notification) (bool, error) {
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = n.s.now()
	}
	if notification.ExpiresAt.IsZero() {
		notification.ExpiresAt = notification.CreatedAt.Add(n.s.cfg.NotificationTTL)
	}

	key := NotificationKey(notification.UserID, notification.CreatedAt, notification.NotificationID)
	item, err := NewItem(key, notification)
	if err != nil {
		return false, apperror.Internal("notifications.encode", err)
	}
	item.CreatedAt = notification.CreatedAt
	item.ExpireAt(notification.ExpiresAt)

	err = n.s.Put(ctx, item, IfNotExists())
	if errors.Is(err, ErrConditionFailed) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PageByOwner returns one page of the user's notifications, newest first.
func (n *Notifications) PageByOwner(ctx context.Context, userID string, limit int, pageToken string) ([]models.Notification, string, error) {
	page, err := n.s.QueryByPrefix(ctx, userPrefix+userID, notificationPrefix, QueryOptions{
		Limit:     limit,
		Reverse:   true,
		PageToken: pageToken,
	})
	if err != nil {
		return nil, "", err
	}

	out := make([]models.Notification, 0, len(page.Items))
	for _, item := range page.Items {
		var notification models.Notification
		if err := item.Decode(&notification); err != nil {
			return nil, "", apperror.Internal("notifications.decode", err)
		}
		out = append(out, notification)
	}
	return out, page.NextToken, nil
}
