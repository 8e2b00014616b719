package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/taskventure/internal/model"
	"github.com/nhle/taskventure/internal/store"
)

// DefaultInterval is used when the configured poll interval is not positive.
const DefaultInterval = 30 * time.Second

// deliverTimeout bounds a single delivery to one sink.
const deliverTimeout = 30 * time.Second

// Dispatcher fires due reminders held in the local notification table.
type Dispatcher struct {
	store    store.NotificationStore
	sinks    []Sink
	logger   *zap.Logger
	interval time.Duration
	now      func() time.Time
}

// NewDispatcher returns a dispatcher polling s every interval.
func NewDispatcher(s store.NotificationStore, interval time.Duration, logger *zap.Logger, sinks ...Sink) *Dispatcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		store:    s,
		sinks:    sinks,
		logger:   logger,
		interval: interval,
		now:      time.Now,
	}
}

// WithClock overrides the clock used to decide which reminders are due.
func (d *Dispatcher) WithClock(now func() time.Time) *Dispatcher {
	d.now = now
	return d
}

// Run checks for due reminders immediately and then on every tick.
// It blocks until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Info("dispatcher started", zap.Duration("interval", d.interval), zap.Int("sinks", len(d.sinks)))

	if _, err := d.Tick(ctx); err != nil {
		d.logger.Error("dispatch failed", zap.Error(err))
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("dispatcher shutting down")
			return nil
		case <-ticker.C:
			if _, err := d.Tick(ctx); err != nil {
				d.logger.Error("dispatch failed", zap.Error(err))
			}
		}
	}
}

// Tick delivers every due reminder to all sinks and removes it from the
// pending table. A reminder stays pending when every sink fails, so it is
// retried on the next tick, and one rescheduled during delivery keeps its
// new fire time. It returns the reminders that were fired.
func (d *Dispatcher) Tick(ctx context.Context) ([]model.Notification, error) {
	due, err := d.store.DueNotifications(ctx, d.now())
	if err != nil {
		return nil, err
	}

	var fired []model.Notification
	for _, n := range due {
		if d.deliver(ctx, n) {
			fired = append(fired, n)
		}
	}

	if err := d.store.DeleteFiredNotifications(ctx, fired); err != nil {
		return fired, err
	}
	return fired, nil
}

// deliver reports whether at least one sink accepted n.
func (d *Dispatcher) deliver(ctx context.Context, n model.Notification) bool {
	if len(d.sinks) == 0 {
		return true
	}

	ok := false
	for _, sink := range d.sinks {
		sctx, cancel := context.WithTimeout(ctx, deliverTimeout)
		err := sink.Deliver(sctx, n)
		cancel()
		if err != nil {
			d.logger.Warn("reminder delivery failed",
				zap.String("sink", sink.Name()), zap.String("id", n.ID), zap.Error(err))
			continue
		}
		ok = true
	}
	return ok
}
