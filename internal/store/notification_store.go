package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/taskventure/internal/model"
)

// notificationRow mirrors the notifications table. Times are Unix seconds.
type notificationRow struct {
	ID        string `db:"id"`
	Title     string `db:"title"`
	Subtitle  string `db:"subtitle"`
	Body      string `db:"body"`
	FireAt    int64  `db:"fire_at"`
	Badge     int    `db:"badge"`
	CreatedAt int64  `db:"created_at"`
}

func (r notificationRow) toModel() model.Notification {
	return model.Notification{
		ID:        r.ID,
		Title:     r.Title,
		Subtitle:  r.Subtitle,
		Body:      r.Body,
		FireAt:    time.Unix(r.FireAt, 0),
		Badge:     r.Badge,
		CreatedAt: time.Unix(r.CreatedAt, 0),
	}
}

// UpsertNotification inserts or replaces a pending reminder request.
func (s *SQLiteStore) UpsertNotification(ctx context.Context, n model.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT OR REPLACE INTO notifications (id, title, subtitle, body, fire_at, badge, created_at)
		VALUES (:id, :title, :subtitle, :body, :fire_at, :badge, :created_at)`,
		notificationRow{
			ID:        n.ID,
			Title:     n.Title,
			Subtitle:  n.Subtitle,
			Body:      n.Body,
			FireAt:    n.FireAt.Unix(),
			Badge:     n.Badge,
			CreatedAt: n.CreatedAt.Unix(),
		},
	)
	if err != nil {
		return fmt.Errorf("upserting notification %s: %w", n.ID, err)
	}
	return nil
}

// DeleteNotifications removes the pending requests with the given IDs.
func (s *SQLiteStore) DeleteNotifications(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In("DELETE FROM notifications WHERE id IN (?)", ids)
	if err != nil {
		return fmt.Errorf("building notification delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("deleting notifications: %w", err)
	}
	return nil
}

// DeleteFiredNotifications removes each of fired only while its row still
// has the fire time it was read with. A request rescheduled in the meantime
// is kept.
func (s *SQLiteStore) DeleteFiredNotifications(ctx context.Context, fired []model.Notification) error {
	if len(fired) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting fired notification delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, n := range fired {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM notifications WHERE id = ? AND fire_at = ?", n.ID, n.FireAt.Unix(),
		); err != nil {
			return fmt.Errorf("deleting fired notification %s: %w", n.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing fired notification delete: %w", err)
	}
	return nil
}

// DeleteAllNotifications clears every pending request.
func (s *SQLiteStore) DeleteAllNotifications(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM notifications"); err != nil {
		return fmt.Errorf("deleting all notifications: %w", err)
	}
	return nil
}

// PendingNotifications lists every pending request ordered by fire time.
func (s *SQLiteStore) PendingNotifications(ctx context.Context) ([]model.Notification, error) {
	var rows []notificationRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM notifications ORDER BY fire_at, id",
	)
	if err != nil {
		return nil, fmt.Errorf("querying pending notifications: %w", err)
	}
	return toNotifications(rows), nil
}

// DueNotifications lists requests whose fire time is at or before now.
func (s *SQLiteStore) DueNotifications(ctx context.Context, now time.Time) ([]model.Notification, error) {
	var rows []notificationRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM notifications WHERE fire_at <= ? ORDER BY fire_at, id", now.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("querying due notifications: %w", err)
	}
	return toNotifications(rows), nil
}

func toNotifications(rows []notificationRow) []model.Notification {
	out := make([]model.Notification, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out
}
