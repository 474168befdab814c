package bootstrap

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	insightinadapter "fivepillars/internal/modules/insight/adapter/in"
	insightoutadapter "fivepillars/internal/modules/insight/adapter/out"
	insightservice "fivepillars/internal/modules/insight/service"
	insightusecase "fivepillars/internal/modules/insight/usecase"
	trackerinadapter "fivepillars/internal/modules/tracker/adapter/in"
	trackeroutadapter "fivepillars/internal/modules/tracker/adapter/out"
	"fivepillars/internal/modules/tracker/domain"
	trackerout "fivepillars/internal/modules/tracker/port/out"
	trackerservice "fivepillars/internal/modules/tracker/service"
	trackerusecase "fivepillars/internal/modules/tracker/usecase"
	"fivepillars/internal/platform/clock"
	"fivepillars/internal/platform/config"
	"fivepillars/internal/platform/id"
	"fivepillars/internal/platform/logger"
	"fivepillars/internal/platform/metrics"
	"fivepillars/internal/platform/scheduler"
	uiapp "fivepillars/internal/ui/app"
)

const (
	module = "bootstrap"

	JobStreakRollover  = "streak-rollover"
	JobProviderRefresh = "provider-refresh"
	streakRolloverSpec = "0 0 * * *"
)

// Options override what New would otherwise derive from the config. Clock and
// IDs exist for deterministic tests.
type Options struct {
	Ephemeral bool
	Clock     clock.Clock
	IDs       id.Generator
}

type App struct {
	Config     config.Config
	TrackerCLI trackerinadapter.CLIHandler
	InsightCLI insightinadapter.CLIHandler
	Metrics    *metrics.Collector
	Log        logger.Logger

	persister *trackerservice.Persister
	closers   []func() error
}

func New(cfg config.Config, opts Options) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.SystemClock{Location: loc}
	}
	ids := opts.IDs
	if ids == nil {
		ids = id.UUIDv7{}
	}

	logOpts := logger.Options{File: cfg.Log.File, Level: cfg.Log.Level, Console: cfg.Log.Console}
	if opts.Ephemeral {
		logOpts.File = ""
	}
	log, err := logger.NewZapLogger(logOpts)
	if err != nil {
		return nil, fmt.Errorf("new logger: %w", err)
	}
	app := &App{Config: cfg, Metrics: metrics.NewCollector(""), Log: log}

	backend := cfg.Storage.Backend
	if opts.Ephemeral {
		backend = config.BackendMemory
	}
	blobs, err := app.openBlobStore(backend)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	app.persister = trackerservice.NewPersister(blobs, log, app.Metrics)
	goals := domain.DailyGoals{
		DailySessions:  cfg.Goals.DailySessions,
		DailyMinutes:   cfg.Goals.DailyMinutes,
		WeeklySessions: cfg.Goals.WeeklySessions,
	}
	store := trackerservice.NewStore(domain.DefaultState(goals), app.persister, app.Metrics)
	recorder := trackerservice.NewRecorder(store, clk, ids, log, app.Metrics)
	journal := trackeroutadapter.NewJournalStore(cfg.JournalDir())
	trackerUC := trackerusecase.NewInteractor(store, app.persister, recorder, journal, clk, ids, log)

	insightUC := insightusecase.NewInteractor(
		insightservice.NewProviderService(
			insightoutadapter.NewFileManifestStore(cfg.Providers.ManifestPath),
			insightoutadapter.NewGRPCHost(),
			log,
			app.Metrics,
		),
		trackerUC,
		log,
	)

	app.TrackerCLI = trackerinadapter.NewCLIHandler(trackerUC)
	app.InsightCLI = insightinadapter.NewCLIHandler(insightUC)
	log.Debug(module, "wired", map[string]any{"backend": backend, "data_dir": cfg.DataDir})
	return app, nil
}

func (a *App) openBlobStore(backend string) (trackerout.BlobStore, error) {
	switch backend {
	case config.BackendMemory:
		return trackeroutadapter.NewMemoryBlobStore(), nil
	case config.BackendSQLite:
		store, err := trackeroutadapter.NewSQLiteBlobStore(a.Config.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	case config.BackendFile:
		store, err := trackeroutadapter.NewFileBlobStore(a.Config.StorageDir())
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", backend)
	}
}

// Start loads persisted state. Every command runs it before touching the
// tracker.
func (a *App) Start(ctx context.Context) error {
	_, err := a.TrackerCLI.Init(ctx)
	return err
}

// Close drains pending writes before releasing storage.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.persister.Flush(ctx); err != nil {
		errs = append(errs, fmt.Errorf("flush: %w", err))
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	// Sync on stderr-backed cores fails on some terminals; it carries no data loss.
	_ = a.Log.Sync()
	return errors.Join(errs...)
}

// Scheduler registers the background jobs of a long-running session: the
// streak is recomputed after midnight so a missed day shows without a new
// session, and enabled providers refresh their insights.
func (a *App) Scheduler() (*scheduler.Scheduler, error) {
	loc, err := a.Config.Location()
	if err != nil {
		return nil, err
	}
	s := scheduler.New(a.Log, loc)
	if err := s.Add(JobStreakRollover, streakRolloverSpec, func(ctx context.Context) error {
		_, err := a.TrackerCLI.Streak(ctx)
		return err
	}); err != nil {
		return nil, err
	}
	if err := s.Add(JobProviderRefresh, a.Config.Providers.Refresh, func(ctx context.Context) error {
		_, err := a.InsightCLI.RunAll(ctx)
		return err
	}); err != nil {
		return nil, err
	}
	return s, nil
}

func RunTUI(ctx context.Context, app *App) error {
	sched, err := app.Scheduler()
	if err != nil {
		return err
	}
	sched.Start(ctx)
	defer sched.Stop()

	model := uiapp.NewModel(app.TrackerCLI, app.InsightCLI)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	return err
}
