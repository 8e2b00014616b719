package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nhle/taskventure/internal/logging"
	"github.com/nhle/taskventure/internal/model"
	"github.com/nhle/taskventure/internal/notify"
	"github.com/nhle/taskventure/internal/store"
	"github.com/nhle/taskventure/internal/viewmodel"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	dbPath     string
	debug      bool
}

// env is the wired application: configuration, logger, database and the
// two managers with reminder scheduling attached.
type env struct {
	cfg       *model.AppConfig
	logger    *zap.Logger
	db        *store.SQLiteStore
	gateway   *store.Gateway
	center    *notify.LocalCenter
	scheduler *notify.Scheduler
	tasks     *viewmodel.TaskManager
	travels   *viewmodel.TravelManager
}

// openOptions tune how the environment is built for a subcommand.
type openOptions struct {
	// logToFile sends the log to a file unless one is configured, so it
	// does not draw over the TUI.
	logToFile bool
}

// openEnv loads .env and the config file, then opens the database and
// builds the managers.
func openEnv(ctx context.Context, flags *globalFlags, opts openOptions) (*env, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	cfg, err := model.LoadConfig(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flags.dbPath != "" {
		cfg.Storage.DBPath = flags.dbPath
	}
	if flags.debug {
		cfg.Log.Debug = true
	}
	if opts.logToFile && cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(filepath.Dir(flags.configPath), "taskventure.log")
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	db, err := store.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	e := &env{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		gateway: store.NewGateway(db, logger.Named("store")),
		center:  notify.NewLocalCenter(db, cfg.Notifications.Authorized),
	}
	e.scheduler = notify.NewScheduler(e.center, logger.Named("reminders"))
	e.scheduler.RefreshAuthorization(ctx)

	e.tasks = viewmodel.NewTaskManager(ctx, e.gateway,
		viewmodel.WithLogger(logger.Named("tasks")),
		viewmodel.WithTaskReminders(e.scheduler))
	e.travels = viewmodel.NewTravelManager(ctx, e.gateway,
		viewmodel.WithLogger(logger.Named("travels")),
		viewmodel.WithTravelReminders(e.scheduler))

	logger.Debug("environment ready",
		zap.String("db", cfg.Storage.DBPath),
		zap.Int("tasks", len(e.tasks.Tasks())),
		zap.Int("travels", len(e.travels.Travels())))
	return e, nil
}

// pollInterval returns the configured dispatcher interval.
func (e *env) pollInterval() time.Duration {
	return time.Duration(e.cfg.Notifications.PollIntervalSec) * time.Second
}

// Close releases the database and flushes the log.
func (e *env) Close() {
	if err := e.db.Close(); err != nil {
		e.logger.Warn("failed to close database", zap.Error(err))
	}
	_ = logging.Sync(e.logger)
}
