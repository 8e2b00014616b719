package viewmodel

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/taskventure/internal/model"
)

// EventKind identifies which collection changed.
type EventKind int

const (
	TasksChanged EventKind = iota
	TravelsChanged
)

// Event is published to observers after every state change.
type Event struct {
	Kind EventKind
}

// Observer receives change events. Observers run on the goroutine that
// performed the mutation, after the manager's lock is released.
type Observer func(Event)

// observers is a subscriber list shared by both managers.
type observers struct {
	mu   sync.Mutex
	next int
	subs map[int]Observer
}

// Subscribe registers fn and returns a function that removes it.
func (o *observers) Subscribe(fn Observer) (unsubscribe func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.subs == nil {
		o.subs = make(map[int]Observer)
	}
	id := o.next
	o.next++
	o.subs[id] = fn

	return func() {
		o.mu.Lock()
		delete(o.subs, id)
		o.mu.Unlock()
	}
}

func (o *observers) publish(e Event) {
	o.mu.Lock()
	fns := make([]Observer, 0, len(o.subs))
	for _, fn := range o.subs {
		fns = append(fns, fn)
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

// TaskStore loads and saves the task collection.
type TaskStore interface {
	LoadTasks(ctx context.Context) []model.Task
	SaveTasks(ctx context.Context, tasks []model.Task) error
}

// TravelStore loads and saves the travel collection.
type TravelStore interface {
	LoadTravels(ctx context.Context) []model.Travel
	SaveTravels(ctx context.Context, travels []model.Travel) error
}

// TaskReminders schedules and cancels task reminders.
type TaskReminders interface {
	ScheduleTaskReminder(ctx context.Context, t model.Task)
	CancelTaskReminder(ctx context.Context, t model.Task)
}

// TravelReminders schedules and cancels trip reminders.
type TravelReminders interface {
	ScheduleTravelReminders(ctx context.Context, t model.Travel)
	ScheduleTimeZoneReminder(ctx context.Context, t model.Travel)
	ScheduleItineraryReminder(ctx context.Context, item model.ItineraryItem)
	CancelTravelReminders(ctx context.Context, t model.Travel)
	CancelItineraryReminder(ctx context.Context, item model.ItineraryItem)
}

type options struct {
	logger          *zap.Logger
	now             func() time.Time
	taskReminders   TaskReminders
	travelReminders TravelReminders
}

// Option configures a manager.
type Option func(*options)

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock sets the source of "now" for derived views.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithTaskReminders enables reminder side effects on task mutations.
func WithTaskReminders(r TaskReminders) Option {
	return func(o *options) { o.taskReminders = r }
}

// WithTravelReminders enables reminder side effects on travel mutations.
func WithTravelReminders(r TravelReminders) Option {
	return func(o *options) { o.travelReminders = r }
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}
