package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/nhle/taskventure/internal/model"
	"github.com/nhle/taskventure/internal/store"
)

// Center is the platform notification facility reminders are handed to.
type Center interface {
	// Authorize asks for permission to deliver reminders and returns the
	// resulting authorization.
	Authorize(ctx context.Context) (bool, error)

	// Authorized reports the current authorization without prompting.
	Authorized(ctx context.Context) bool

	// Add schedules n, replacing any pending request with the same ID.
	Add(ctx context.Context, n model.Notification) error

	// Remove cancels the pending requests with the given IDs.
	Remove(ctx context.Context, ids []string) error

	RemoveAll(ctx context.Context) error

	Pending(ctx context.Context) ([]model.Notification, error)
}

// LocalCenter keeps pending requests in the local database. Authorization
// is a configuration switch rather than a user prompt.
type LocalCenter struct {
	store store.NotificationStore

	mu      sync.RWMutex
	allowed bool
}

// NewLocalCenter returns a center backed by s. allowed is the configured
// authorization.
func NewLocalCenter(s store.NotificationStore, allowed bool) *LocalCenter {
	return &LocalCenter{store: s, allowed: allowed}
}

// SetAllowed changes the authorization, e.g. after a config reload.
func (c *LocalCenter) SetAllowed(allowed bool) {
	c.mu.Lock()
	c.allowed = allowed
	c.mu.Unlock()
}

func (c *LocalCenter) Authorize(ctx context.Context) (bool, error) {
	return c.Authorized(ctx), nil
}

func (c *LocalCenter) Authorized(_ context.Context) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.allowed
}

func (c *LocalCenter) Add(ctx context.Context, n model.Notification) error {
	if n.ID == "" {
		return fmt.Errorf("notification has no identifier")
	}
	return c.store.UpsertNotification(ctx, n)
}

func (c *LocalCenter) Remove(ctx context.Context, ids []string) error {
	return c.store.DeleteNotifications(ctx, ids)
}

func (c *LocalCenter) RemoveAll(ctx context.Context) error {
	return c.store.DeleteAllNotifications(ctx)
}

func (c *LocalCenter) Pending(ctx context.Context) ([]model.Notification, error) {
	return c.store.PendingNotifications(ctx)
}
