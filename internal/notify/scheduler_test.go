package notify_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/nhle/taskventure/internal/model"
	"github.com/nhle/taskventure/internal/notify"
	"github.com/nhle/taskventure/internal/testutil"
)

var now = time.Date(2025, 9, 6, 10, 0, 0, 0, time.UTC)

func newScheduler(t *testing.T, allowed bool) (*notify.Scheduler, *notify.LocalCenter) {
	t.Helper()
	center := notify.NewLocalCenter(testutil.NewTestStore(t), allowed)
	s := notify.NewScheduler(center, zaptest.NewLogger(t)).WithClock(func() time.Time { return now })
	s.RefreshAuthorization(context.Background())
	return s, center
}

func pendingByID(t *testing.T, c notify.Center) map[string]model.Notification {
	t.Helper()
	pending, err := c.Pending(context.Background())
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	out := make(map[string]model.Notification, len(pending))
	for _, n := range pending {
		out[n.ID] = n
	}
	return out
}

func TestScheduler_UnauthorizedIsNoop(t *testing.T) {
	ctx := context.Background()
	s, center := newScheduler(t, false)

	if s.IsAuthorized() {
		t.Fatal("expected unauthorized scheduler")
	}

	task := model.NewTask("Pay rent", now, model.WithDueDate(now.Add(24*time.Hour)))
	travel := model.NewTravel("Tokyo", now.Add(7*24*time.Hour), nil, model.LocalZone())
	s.ScheduleTaskReminder(ctx, task)
	s.ScheduleTravelReminders(ctx, travel)
	s.ScheduleTimeZoneReminder(ctx, travel)

	if got := pendingByID(t, center); len(got) != 0 {
		t.Fatalf("expected no pending requests, got %d", len(got))
	}

	// Granting later takes effect after a new authorization request.
	center.SetAllowed(true)
	if !s.RequestAuthorization(ctx) {
		t.Fatal("expected authorization to be granted")
	}
	s.ScheduleTaskReminder(ctx, task)
	if got := pendingByID(t, center); len(got) != 1 {
		t.Fatalf("expected 1 pending request, got %d", len(got))
	}
}

func TestScheduler_IdentifiersAndFireTimes(t *testing.T) {
	ctx := context.Background()
	s, center := newScheduler(t, true)

	due := now.Add(26*time.Hour + 30*time.Second)
	task := model.NewTask("Finish quarterly report", now,
		model.WithDueDate(due), model.WithPriority(model.PriorityUrgent))

	departure := now.Add(7 * 24 * time.Hour)
	travel := model.NewTravel("Tokyo", departure, nil, model.LocalZone())
	hotel := model.NewItineraryItem("Hotel Check-in", "", departure.Add(3*time.Hour), model.StringPtr("Shibuya"), model.ItineraryAccommodation)
	temple := model.NewItineraryItem("Visit Senso-ji", "", departure.Add(24*time.Hour), nil, "")
	travel.ItineraryItems = []model.ItineraryItem{hotel, temple}

	s.ScheduleTaskReminder(ctx, task)
	s.ScheduleTravelReminders(ctx, travel)
	s.ScheduleTimeZoneReminder(ctx, travel)

	pending := pendingByID(t, center)

	tests := []struct {
		id       string
		fireAt   time.Time
		title    string
		subtitle string
		body     string
	}{
		{
			id:       "task_" + task.ID,
			fireAt:   due.Truncate(time.Minute),
			title:    "Task Reminder",
			subtitle: "Priority: Urgent",
			body:     "Finish quarterly report",
		},
		{
			id:     "travel_departure_" + travel.ID,
			fireAt: departure.Add(-24 * time.Hour),
			title:  "Travel Reminder",
			body:   "Don't forget your trip to Tokyo tomorrow!",
		},
		{
			id:       "itinerary_" + hotel.ID,
			fireAt:   departure.Add(2 * time.Hour),
			title:    "Itinerary Reminder",
			subtitle: "Location: Shibuya",
			body:     "Hotel Check-in in 1 hour",
		},
		{
			id:     "itinerary_" + temple.ID,
			fireAt: departure.Add(23 * time.Hour),
			title:  "Itinerary Reminder",
			body:   "Visit Senso-ji in 1 hour",
		},
		{
			id:     "timezone_" + travel.ID,
			fireAt: departure.Add(2 * time.Hour),
			title:  "Time Zone Adjustment",
			body:   "Remember to adjust your schedule for Tokyo time zone",
		},
	}

	if len(pending) != len(tests) {
		t.Fatalf("expected %d pending requests, got %d", len(tests), len(pending))
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			n, ok := pending[tt.id]
			if !ok {
				t.Fatalf("missing request %s", tt.id)
			}
			if !n.FireAt.Equal(tt.fireAt) {
				t.Errorf("fire at: expected %v, got %v", tt.fireAt, n.FireAt)
			}
			if n.Title != tt.title {
				t.Errorf("title: expected %q, got %q", tt.title, n.Title)
			}
			if n.Subtitle != tt.subtitle {
				t.Errorf("subtitle: expected %q, got %q", tt.subtitle, n.Subtitle)
			}
			if n.Body != tt.body {
				t.Errorf("body: expected %q, got %q", tt.body, n.Body)
			}
		})
	}
}

func TestScheduler_SkipsPastAndMissingReminders(t *testing.T) {
	ctx := context.Background()
	s, center := newScheduler(t, true)

	s.ScheduleTaskReminder(ctx, model.NewTask("Read book", now))
	s.ScheduleTaskReminder(ctx, model.NewTask("Pay rent", now, model.WithDueDate(now.Add(-24*time.Hour))))

	if got := pendingByID(t, center); len(got) != 0 {
		t.Fatalf("expected no pending requests, got %d", len(got))
	}
}

func TestScheduler_CancelTravelReminders(t *testing.T) {
	ctx := context.Background()
	s, center := newScheduler(t, true)

	departure := now.Add(72 * time.Hour)
	travel := model.NewTravel("Paris", departure, nil, model.LocalZone())
	travel.ItineraryItems = []model.ItineraryItem{
		model.NewItineraryItem("Louvre", "", departure.Add(5*time.Hour), nil, model.ItineraryActivity),
	}
	task := model.NewTask("Buy adapter", now, model.WithDueDate(now.Add(time.Hour)))

	s.ScheduleTravelReminders(ctx, travel)
	s.ScheduleTimeZoneReminder(ctx, travel)
	s.ScheduleTaskReminder(ctx, task)

	s.CancelTravelReminders(ctx, travel)

	pending := pendingByID(t, center)
	if len(pending) != 1 {
		t.Fatalf("expected only the task reminder to remain, got %d", len(pending))
	}
	if _, ok := pending[notify.TaskReminderID(task.ID)]; !ok {
		t.Fatal("task reminder should survive travel cancellation")
	}

	s.CancelAll(ctx)
	if got := pendingByID(t, center); len(got) != 0 {
		t.Fatalf("expected no pending requests after cancel all, got %d", len(got))
	}
}
