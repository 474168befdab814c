package bootstrap_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fivepillars/internal/bootstrap"
	"fivepillars/internal/platform/clock"
	"fivepillars/internal/platform/config"
)

var at = time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)

func newApp(t *testing.T, cfg config.Config, ephemeral bool) *bootstrap.App {
	t.Helper()
	app, err := bootstrap.New(cfg, bootstrap.Options{Ephemeral: ephemeral, Clock: clock.Fixed{At: at}})
	require.NoError(t, err)
	require.NoError(t, app.Start(context.Background()))
	return app
}

func testConfig(t *testing.T, backend string) config.Config {
	t.Helper()
	cfg, err := config.New(t.TempDir())
	require.NoError(t, err)
	cfg.Timezone = "UTC"
	cfg.Storage.Backend = backend
	cfg.Log.File = ""
	return cfg
}

func TestStatePersistsAcrossRestarts(t *testing.T) {
	t.Parallel()
	for _, backend := range []string{config.BackendFile, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			cfg := testConfig(t, backend)

			first := newApp(t, cfg, false)
			out, err := first.TrackerCLI.AddSession(ctx, "mind", "meditation", 20, 80, "", "")
			require.NoError(t, err)
			require.True(t, out.Recorded)
			require.NoError(t, first.Close(ctx))

			second := newApp(t, cfg, false)
			defer func() { require.NoError(t, second.Close(ctx)) }()
			overview, err := second.TrackerCLI.Status(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, overview.Profile.TotalSessions)
			assert.Equal(t, 1, overview.CurrentStreak)
			achievements, err := second.TrackerCLI.ListAchievements(ctx)
			require.NoError(t, err)
			require.Len(t, achievements, 1)
			assert.Equal(t, "First Steps", achievements[0].Title)
		})
	}
}

func TestEphemeralLeavesNoState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cfg := testConfig(t, config.BackendFile)

	first := newApp(t, cfg, true)
	_, err := first.TrackerCLI.AddSession(ctx, "body", "workout", 30, 90, "", "")
	require.NoError(t, err)
	require.NoError(t, first.Close(ctx))
	assert.NoDirExists(t, filepath.Join(cfg.DataDir, "store"))

	second := newApp(t, cfg, false)
	defer func() { require.NoError(t, second.Close(ctx)) }()
	overview, err := second.TrackerCLI.Status(ctx)
	require.NoError(t, err)
	assert.Zero(t, overview.Profile.TotalSessions)
}

func TestSchedulerRegistersJobs(t *testing.T) {
	t.Parallel()
	app := newApp(t, testConfig(t, config.BackendMemory), false)
	defer func() { require.NoError(t, app.Close(context.Background())) }()

	sched, err := app.Scheduler()
	require.NoError(t, err)
	sched.Start(context.Background())
	defer sched.Stop()

	next, ok := sched.Next(bootstrap.JobStreakRollover)
	require.True(t, ok)
	assert.Equal(t, 0, next.Hour())
	assert.Equal(t, 0, next.Minute())
	_, ok = sched.Next(bootstrap.JobProviderRefresh)
	assert.True(t, ok)
}

func TestSchedulerRejectsBadRefreshSpec(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, config.BackendMemory)
	cfg.Providers.Refresh = "whenever"
	app := newApp(t, cfg, false)
	defer func() { require.NoError(t, app.Close(context.Background())) }()

	_, err := app.Scheduler()
	assert.Error(t, err)
}
