package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/nhle/taskventure/internal/model"
)

// Sink delivers a fired reminder somewhere the user will see it.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, n model.Notification) error
}

// LogSink writes fired reminders to the structured log.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink returns a sink writing to logger.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Deliver(_ context.Context, n model.Notification) error {
	s.logger.Info("reminder",
		zap.String("id", n.ID),
		zap.String("title", n.Title),
		zap.String("subtitle", n.Subtitle),
		zap.String("body", n.Body),
		zap.Time("fire_at", n.FireAt),
	)
	return nil
}
