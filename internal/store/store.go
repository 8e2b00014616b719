package store

import (
	"context"
	"errors"
	"time"

	"github.com/nhle/taskventure/internal/model"
)

// ErrNotFound is returned by KV.Get when the key has no value.
var ErrNotFound = errors.New("key not found")

// KV is the durable key-value substrate the gateway writes blobs into.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// NotificationStore persists pending reminder requests.
type NotificationStore interface {
	// UpsertNotification adds n, replacing any pending request with the same ID.
	UpsertNotification(ctx context.Context, n model.Notification) error

	// DeleteNotifications removes the pending requests with the given IDs.
	// Unknown IDs are ignored.
	DeleteNotifications(ctx context.Context, ids []string) error

	// DeleteFiredNotifications removes each of fired unless its pending
	// request was rescheduled to another fire time.
	DeleteFiredNotifications(ctx context.Context, fired []model.Notification) error

	DeleteAllNotifications(ctx context.Context) error

	// PendingNotifications lists every pending request ordered by fire time.
	PendingNotifications(ctx context.Context) ([]model.Notification, error)

	// DueNotifications lists pending requests whose fire time is at or
	// before the given instant, ordered by fire time.
	DueNotifications(ctx context.Context, now time.Time) ([]model.Notification, error)
}
