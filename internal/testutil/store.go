package testutil

import (
	"testing"
	"time"

	"github.com/nhle/taskventure/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// Clock is a settable time source for tests.
type Clock struct {
	T time.Time
}

// NewClock returns a clock fixed at t.
func NewClock(t time.Time) *Clock {
	return &Clock{T: t}
}

// Now returns the current fixed time.
func (c *Clock) Now() time.Time {
	return c.T
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.T = c.T.Add(d)
}
