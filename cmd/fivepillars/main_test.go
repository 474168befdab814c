package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fivepillars/internal/bootstrap"
	"fivepillars/internal/platform/clock"
)

var fixedNow = time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)

func run(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(bootstrap.Options{Clock: clock.Fixed{At: fixedNow}})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--data-dir", dataDir}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSessionAddThenStatusGolden(t *testing.T) {
	t.Setenv("FIVEPILLARS_TIMEZONE", "UTC")
	dir := t.TempDir()
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))

	out, err := run(t, dir, "session", "add", "mind", "--minutes", "20", "--quality", "80")
	require.NoError(t, err)
	g.Assert(t, "session_add", []byte(out))

	out, err = run(t, dir, "status")
	require.NoError(t, err)
	g.Assert(t, "status", []byte(out))
}

func TestSessionAddRejectsUnknownPillar(t *testing.T) {
	t.Setenv("FIVEPILLARS_TIMEZONE", "UTC")
	_, err := run(t, t.TempDir(), "session", "add", "soul", "--minutes", "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "soul")
}

func TestClearRequiresConfirmation(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "clear")
	require.Error(t, err)

	_, err = os.Stat(filepath.Join(dir, "store"))
	assert.True(t, os.IsNotExist(err), "clear without --yes must not touch the data dir")
}

func TestEphemeralLeavesNoState(t *testing.T) {
	t.Setenv("FIVEPILLARS_TIMEZONE", "UTC")
	dir := t.TempDir()
	out, err := run(t, dir, "--ephemeral", "session", "add", "body", "--minutes", "15")
	require.NoError(t, err)
	assert.Contains(t, out, "recorded body")

	out, err = run(t, dir, "--ephemeral", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "level 1  0 sessions")
	_, err = os.Stat(filepath.Join(dir, "store"))
	assert.True(t, os.IsNotExist(err))
}

func TestInsightLifecycle(t *testing.T) {
	t.Setenv("FIVEPILLARS_TIMEZONE", "UTC")
	dir := t.TempDir()

	out, err := run(t, dir, "insight", "add", "Walk after lunch", "--id", "walk", "--pillar", "body", "--priority", "high")
	require.NoError(t, err)
	assert.Equal(t, "stored insight walk\n", out)

	out, err = run(t, dir, "insight", "list", "--unread")
	require.NoError(t, err)
	assert.Contains(t, out, "walk\tbody\thigh\tunread")

	out, err = run(t, dir, "insight", "read", "walk")
	require.NoError(t, err)
	assert.Equal(t, "marked walk read\n", out)

	out, err = run(t, dir, "insight", "list", "--unread")
	require.NoError(t, err)
	assert.Equal(t, "no insights\n", out)

	_, err = run(t, dir, "insight", "read", "missing")
	require.Error(t, err)
}

func TestProviderRunArgs(t *testing.T) {
	_, err := run(t, t.TempDir(), "provider", "run")
	require.Error(t, err)
	_, err = run(t, t.TempDir(), "provider", "run", "coach", "--all")
	require.Error(t, err)
}

func TestProviderListWithoutManifest(t *testing.T) {
	t.Setenv("FIVEPILLARS_TIMEZONE", "UTC")
	out, err := run(t, t.TempDir(), "provider", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "no providers configured")
}
