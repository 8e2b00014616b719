package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/taskventure/internal/app"
	"github.com/nhle/taskventure/internal/notify"
)

// NewTUICmd creates the tui command.
func NewTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the terminal UI (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), flags)
		},
	}
}

func runTUI(ctx context.Context, flags *globalFlags) error {
	e, err := openEnv(ctx, flags, openOptions{logToFile: true})
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Reminders fire into the log while the UI is open.
	dispatcher := notify.NewDispatcher(e.db, e.pollInterval(), e.logger.Named("dispatcher"),
		notify.NewLogSink(e.logger.Named("reminder")))
	stop := startDispatcher(ctx, dispatcher, e.logger)
	defer stop()

	m := app.New(ctx, app.Deps{
		Tasks:         e.tasks,
		Travels:       e.travels,
		Reminders:     e.scheduler,
		Onboarding:    e.gateway,
		Logger:        e.logger.Named("ui"),
		UpcomingLimit: e.cfg.Display.UpcomingLimit,
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// startDispatcher runs d in the background. The returned stop cancels it
// and waits for Run to return, so the database can be closed afterwards.
func startDispatcher(ctx context.Context, d *notify.Dispatcher, logger *zap.Logger) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := d.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("dispatcher stopped", zap.Error(err))
		}
	}()
	return func() {
		cancel()
		<-done
	}
}
