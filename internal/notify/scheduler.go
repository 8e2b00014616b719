package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/taskventure/internal/model"
)

// Reminder lead times.
const (
	DepartureLead     = 24 * time.Hour
	ItineraryLead     = time.Hour
	TimeZoneAdjustLag = 2 * time.Hour
)

// TaskReminderID returns the identifier of a task's reminder.
func TaskReminderID(taskID string) string { return "task_" + taskID }

// DepartureReminderID returns the identifier of a trip's departure reminder.
func DepartureReminderID(travelID string) string { return "travel_departure_" + travelID }

// ItineraryReminderID returns the identifier of an itinerary item's reminder.
func ItineraryReminderID(itemID string) string { return "itinerary_" + itemID }

// TimeZoneReminderID returns the identifier of a trip's time zone reminder.
func TimeZoneReminderID(travelID string) string { return "timezone_" + travelID }

// TravelReminderIDs returns every reminder identifier a trip may own.
func TravelReminderIDs(t model.Travel) []string {
	ids := []string{DepartureReminderID(t.ID), TimeZoneReminderID(t.ID)}
	for _, item := range t.ItineraryItems {
		ids = append(ids, ItineraryReminderID(item.ID))
	}
	return ids
}

// Scheduler turns tasks and trips into reminder requests. It keeps only the
// authorization flag; pending requests live in the Center. While
// unauthorized every Schedule call is a no-op.
type Scheduler struct {
	center Center
	logger *zap.Logger
	now    func() time.Time

	mu         sync.RWMutex
	authorized bool
}

// NewScheduler returns an unauthorized scheduler. Call RefreshAuthorization
// or RequestAuthorization before scheduling.
func NewScheduler(center Center, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{center: center, logger: logger, now: time.Now}
}

// WithClock overrides the clock used to drop reminders already in the past.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// RequestAuthorization asks the center for permission and records the answer.
func (s *Scheduler) RequestAuthorization(ctx context.Context) bool {
	granted, err := s.center.Authorize(ctx)
	if err != nil {
		s.logger.Warn("notification authorization failed", zap.Error(err))
		granted = false
	}
	s.setAuthorized(granted)
	return granted
}

// RefreshAuthorization re-reads the center's current authorization.
func (s *Scheduler) RefreshAuthorization(ctx context.Context) bool {
	granted := s.center.Authorized(ctx)
	s.setAuthorized(granted)
	return granted
}

// IsAuthorized reports the last known authorization.
func (s *Scheduler) IsAuthorized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authorized
}

func (s *Scheduler) setAuthorized(v bool) {
	s.mu.Lock()
	s.authorized = v
	s.mu.Unlock()
}

// ScheduleTaskReminder schedules a reminder at the task's reminder time.
// Tasks without a reminder time are skipped.
func (s *Scheduler) ScheduleTaskReminder(ctx context.Context, t model.Task) {
	if t.ReminderTime == nil {
		return
	}
	s.schedule(ctx, model.Notification{
		ID:       TaskReminderID(t.ID),
		Title:    "Task Reminder",
		Subtitle: "Priority: " + model.PriorityMeta(t.Priority).Label,
		Body:     t.Title,
		FireAt:   *t.ReminderTime,
		Badge:    1,
	})
}

// ScheduleTravelReminders schedules the departure reminder and one reminder
// per itinerary item.
func (s *Scheduler) ScheduleTravelReminders(ctx context.Context, t model.Travel) {
	s.ScheduleDepartureReminder(ctx, t)
	for _, item := range t.ItineraryItems {
		s.ScheduleItineraryReminder(ctx, item)
	}
}

// ScheduleDepartureReminder schedules a reminder one day before departure.
func (s *Scheduler) ScheduleDepartureReminder(ctx context.Context, t model.Travel) {
	s.schedule(ctx, model.Notification{
		ID:     DepartureReminderID(t.ID),
		Title:  "Travel Reminder",
		Body:   fmt.Sprintf("Don't forget your trip to %s tomorrow!", t.Destination),
		FireAt: t.DepartureDate.Add(-DepartureLead),
		Badge:  1,
	})
}

// ScheduleItineraryReminder schedules a reminder one hour before the item.
func (s *Scheduler) ScheduleItineraryReminder(ctx context.Context, item model.ItineraryItem) {
	n := model.Notification{
		ID:     ItineraryReminderID(item.ID),
		Title:  "Itinerary Reminder",
		Body:   item.Title + " in 1 hour",
		FireAt: item.Date.Add(-ItineraryLead),
	}
	if item.Location != nil {
		n.Subtitle = "Location: " + *item.Location
	}
	s.schedule(ctx, n)
}

// ScheduleTimeZoneReminder schedules a prompt to adjust to the destination's
// time zone two hours after departure.
func (s *Scheduler) ScheduleTimeZoneReminder(ctx context.Context, t model.Travel) {
	s.schedule(ctx, model.Notification{
		ID:     TimeZoneReminderID(t.ID),
		Title:  "Time Zone Adjustment",
		Body:   fmt.Sprintf("Remember to adjust your schedule for %s time zone", t.Destination),
		FireAt: t.DepartureDate.Add(TimeZoneAdjustLag),
	})
}

// Cancel removes the pending reminders with the given identifiers.
// Cancelling is allowed while unauthorized.
func (s *Scheduler) Cancel(ctx context.Context, ids ...string) {
	if len(ids) == 0 {
		return
	}
	if err := s.center.Remove(ctx, ids); err != nil {
		s.logger.Warn("failed to cancel reminders", zap.Strings("ids", ids), zap.Error(err))
	}
}

// CancelTaskReminder removes the task's pending reminder.
func (s *Scheduler) CancelTaskReminder(ctx context.Context, t model.Task) {
	s.Cancel(ctx, TaskReminderID(t.ID))
}

// CancelTravelReminders removes every pending reminder owned by the trip.
func (s *Scheduler) CancelTravelReminders(ctx context.Context, t model.Travel) {
	s.Cancel(ctx, TravelReminderIDs(t)...)
}

// CancelItineraryReminder removes the item's pending reminder.
func (s *Scheduler) CancelItineraryReminder(ctx context.Context, item model.ItineraryItem) {
	s.Cancel(ctx, ItineraryReminderID(item.ID))
}

// CancelAll removes every pending reminder.
func (s *Scheduler) CancelAll(ctx context.Context) {
	if err := s.center.RemoveAll(ctx); err != nil {
		s.logger.Warn("failed to cancel all reminders", zap.Error(err))
	}
}

// Pending lists the center's pending reminders.
func (s *Scheduler) Pending(ctx context.Context) ([]model.Notification, error) {
	return s.center.Pending(ctx)
}

// schedule hands n to the center. Fire times have minute resolution and
// reminders whose minute has already passed are dropped.
func (s *Scheduler) schedule(ctx context.Context, n model.Notification) {
	if !s.IsAuthorized() {
		return
	}

	n.FireAt = n.FireAt.Truncate(time.Minute)
	now := s.now()
	if n.FireAt.Before(now.Truncate(time.Minute)) {
		s.logger.Debug("skipping reminder in the past",
			zap.String("id", n.ID), zap.Time("fire_at", n.FireAt))
		return
	}
	n.CreatedAt = now

	if err := s.center.Add(ctx, n); err != nil {
		s.logger.Warn("failed to schedule reminder", zap.String("id", n.ID), zap.Error(err))
		return
	}
	s.logger.Debug("reminder scheduled", zap.String("id", n.ID), zap.Time("fire_at", n.FireAt))
}
