package viewmodel

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/nhle/taskventure/internal/model"
	"github.com/nhle/taskventure/internal/store"
)

var now = time.Date(2025, 9, 6, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return now }

// reminderLog records scheduler calls made by the managers.
type reminderLog struct {
	mu        sync.Mutex
	scheduled []string
	cancelled []string
}

func (r *reminderLog) add(list *[]string, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*list = append(*list, id)
}

func (r *reminderLog) ScheduleTaskReminder(_ context.Context, t model.Task) {
	r.add(&r.scheduled, "task_"+t.ID)
}

func (r *reminderLog) CancelTaskReminder(_ context.Context, t model.Task) {
	r.add(&r.cancelled, "task_"+t.ID)
}

func (r *reminderLog) ScheduleTravelReminders(_ context.Context, t model.Travel) {
	r.add(&r.scheduled, "travel_departure_"+t.ID)
	for _, it := range t.ItineraryItems {
		r.add(&r.scheduled, "itinerary_"+it.ID)
	}
}

func (r *reminderLog) ScheduleTimeZoneReminder(_ context.Context, t model.Travel) {
	r.add(&r.scheduled, "timezone_"+t.ID)
}

func (r *reminderLog) ScheduleItineraryReminder(_ context.Context, item model.ItineraryItem) {
	r.add(&r.scheduled, "itinerary_"+item.ID)
}

func (r *reminderLog) CancelTravelReminders(_ context.Context, t model.Travel) {
	r.add(&r.cancelled, "travel_departure_"+t.ID)
}

func (r *reminderLog) CancelItineraryReminder(_ context.Context, item model.ItineraryItem) {
	r.add(&r.cancelled, "itinerary_"+item.ID)
}

func (r *reminderLog) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scheduled, r.cancelled = nil, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func newGateway(t *testing.T) (*store.Gateway, *store.MemoryStore) {
	t.Helper()
	kv := store.NewMemoryStore()
	return store.NewGateway(kv, zaptest.NewLogger(t)).WithClock(fixedClock), kv
}

func titles(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func destinations(travels []model.Travel) []string {
	out := make([]string, len(travels))
	for i, t := range travels {
		out[i] = t.Destination
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
