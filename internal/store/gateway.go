package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/taskventure/internal/model"
)

// Storage keys.
const (
	TasksKey      = "TaskVenture_Tasks"
	TravelsKey    = "TaskVenture_Travels"
	OnboardingKey = "TaskVenture_OnboardingCompleted"
)

// Bundle is the portable export of all persisted state. Tasks and Travels
// hold the raw stored blobs and are nil when nothing was stored.
type Bundle struct {
	Tasks               []byte  `json:"tasks,omitempty"`
	Travels             []byte  `json:"travels,omitempty"`
	OnboardingCompleted bool    `json:"onboarding_completed"`
	ExportDate          float64 `json:"export_date"`
}

// ExportedAt returns ExportDate as a time.
func (b Bundle) ExportedAt() time.Time {
	sec := int64(b.ExportDate)
	nsec := int64((b.ExportDate - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}

// Gateway reads and writes the task and travel collections as JSON blobs
// in a KV store.
type Gateway struct {
	kv     KV
	logger *zap.Logger
	now    func() time.Time
}

// NewGateway returns a gateway over kv.
func NewGateway(kv KV, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{kv: kv, logger: logger, now: time.Now}
}

// WithClock overrides the clock used for export dates and statistics.
func (g *Gateway) WithClock(now func() time.Time) *Gateway {
	g.now = now
	return g
}

// SaveTasks encodes and stores the task collection.
func (g *Gateway) SaveTasks(ctx context.Context, tasks []model.Task) error {
	return g.save(ctx, TasksKey, tasks)
}

// LoadTasks returns the stored tasks. A missing or malformed blob yields
// an empty collection.
func (g *Gateway) LoadTasks(ctx context.Context) []model.Task {
	var tasks []model.Task
	if !g.load(ctx, TasksKey, &tasks) || tasks == nil {
		return []model.Task{}
	}
	return tasks
}

// SaveTravels encodes and stores the travel collection.
func (g *Gateway) SaveTravels(ctx context.Context, travels []model.Travel) error {
	return g.save(ctx, TravelsKey, travels)
}

// LoadTravels returns the stored travels. A missing or malformed blob
// yields an empty collection.
func (g *Gateway) LoadTravels(ctx context.Context) []model.Travel {
	var travels []model.Travel
	if !g.load(ctx, TravelsKey, &travels) || travels == nil {
		return []model.Travel{}
	}
	return travels
}

// OnboardingCompleted reports the stored onboarding flag (false when unset).
func (g *Gateway) OnboardingCompleted(ctx context.Context) bool {
	var done bool
	g.load(ctx, OnboardingKey, &done)
	return done
}

// SetOnboardingCompleted stores the onboarding flag.
func (g *Gateway) SetOnboardingCompleted(ctx context.Context, done bool) error {
	return g.save(ctx, OnboardingKey, done)
}

// Export gathers every stored blob into a bundle.
func (g *Gateway) Export(ctx context.Context) (Bundle, error) {
	b := Bundle{
		OnboardingCompleted: g.OnboardingCompleted(ctx),
		ExportDate:          float64(g.now().UnixNano()) / float64(time.Second),
	}

	var err error
	if b.Tasks, err = g.raw(ctx, TasksKey); err != nil {
		return Bundle{}, err
	}
	if b.Travels, err = g.raw(ctx, TravelsKey); err != nil {
		return Bundle{}, err
	}
	return b, nil
}

// Import writes the blobs present in b, leaving absent ones untouched, and
// always writes the onboarding flag.
func (g *Gateway) Import(ctx context.Context, b Bundle) error {
	if b.Tasks != nil {
		if err := g.kv.Set(ctx, TasksKey, b.Tasks); err != nil {
			return fmt.Errorf("importing tasks: %w", err)
		}
	}
	if b.Travels != nil {
		if err := g.kv.Set(ctx, TravelsKey, b.Travels); err != nil {
			return fmt.Errorf("importing travels: %w", err)
		}
	}
	if err := g.SetOnboardingCompleted(ctx, b.OnboardingCompleted); err != nil {
		return fmt.Errorf("importing onboarding flag: %w", err)
	}
	return nil
}

// Reset removes every stored key.
func (g *Gateway) Reset(ctx context.Context) error {
	for _, key := range []string{TasksKey, TravelsKey, OnboardingKey} {
		if err := g.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("resetting %s: %w", key, err)
		}
	}
	return nil
}

// TaskStatistics summarizes the stored tasks.
func (g *Gateway) TaskStatistics(ctx context.Context) model.TaskStatistics {
	now := g.now()
	tasks := g.LoadTasks(ctx)

	stats := model.TaskStatistics{Total: len(tasks)}
	for _, t := range tasks {
		if t.IsCompleted {
			stats.Completed++
		}
		if t.IsOverdue(now) {
			stats.Overdue++
		}
		if t.IsUpcoming(now) {
			stats.Upcoming++
		}
	}
	return stats
}

// TravelStatistics summarizes the stored travels. Active counts the
// active flag only.
func (g *Gateway) TravelStatistics(ctx context.Context) model.TravelStatistics {
	now := g.now()
	travels := g.LoadTravels(ctx)

	stats := model.TravelStatistics{Total: len(travels)}
	for _, t := range travels {
		if t.IsActive {
			stats.Active++
		}
		if t.IsUpcoming(now) {
			stats.Upcoming++
		}
		if t.IsPast(now) {
			stats.Past++
		}
	}
	return stats
}

func (g *Gateway) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := g.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// load decodes key into v and reports whether a value was decoded.
func (g *Gateway) load(ctx context.Context, key string, v any) bool {
	data, err := g.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false
	}
	if err != nil {
		g.logger.Warn("reading stored blob", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		g.logger.Warn("decoding stored blob", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (g *Gateway) raw(ctx context.Context, key string) ([]byte, error) {
	data, err := g.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("exporting %s: %w", key, err)
	}
	return data, nil
}
