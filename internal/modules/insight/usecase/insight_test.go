package usecase_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fivepillars/internal/modules/insight/domain"
	"fivepillars/internal/modules/insight/service"
	"fivepillars/internal/modules/insight/usecase"
	trackerout "fivepillars/internal/modules/tracker/adapter/out"
	trackerdomain "fivepillars/internal/modules/tracker/domain"
	trackerdto "fivepillars/internal/modules/tracker/dto"
	trackerin "fivepillars/internal/modules/tracker/port/in"
	trackerservice "fivepillars/internal/modules/tracker/service"
	trackerusecase "fivepillars/internal/modules/tracker/usecase"
	"fivepillars/internal/platform/clock"
	apperrors "fivepillars/internal/platform/errors"
	"fivepillars/internal/platform/id"
	"fivepillars/internal/platform/logger"
)

type fakeStore struct {
	manifests []domain.Manifest
}

func (s fakeStore) Load(context.Context) ([]domain.Manifest, error) {
	return s.manifests, nil
}

type fakeHost struct {
	results   map[string][]domain.Suggestion
	failures  map[string]error
	snapshots []domain.Snapshot
}

func (*fakeHost) CheckLifecycle(context.Context, domain.Manifest) error { return nil }
func (*fakeHost) GetMetadata(_ context.Context, m domain.Manifest) (domain.Metadata, error) {
	return domain.Metadata{Name: m.Name, Version: m.Version}, nil
}
func (h *fakeHost) Generate(_ context.Context, m domain.Manifest, snapshot domain.Snapshot) ([]domain.Suggestion, error) {
	h.snapshots = append(h.snapshots, snapshot)
	if err := h.failures[m.Name]; err != nil {
		return nil, err
	}
	return h.results[m.Name], nil
}

var now = time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)

func newTracker(t *testing.T) trackerin.Usecase {
	t.Helper()
	log := logger.NewNop()
	persister := trackerservice.NewPersister(trackerout.NewMemoryBlobStore(), log, nil)
	store := trackerservice.NewStore(trackerdomain.DefaultState(trackerdomain.DefaultGoals()), persister, nil)
	clk := clock.Fixed{At: now}
	ids := id.UUIDv7{}
	recorder := trackerservice.NewRecorder(store, clk, ids, log, nil)
	journal := trackerout.NewJournalStore(filepath.Join(t.TempDir(), "journal"))
	return trackerusecase.NewInteractor(store, persister, recorder, journal, clk, ids, log)
}

func manifest(t *testing.T, name string) domain.Manifest {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(binPath, []byte(name), 0o755))
	hash := sha256.Sum256([]byte(name))
	return domain.Manifest{Name: name, Version: "1", Binary: binPath, SHA256: hex.EncodeToString(hash[:]), Enabled: true}
}

func TestRunStoresValidSuggestionsAndRejectsInvalid(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tracker := newTracker(t)
	_, err := tracker.Initialize(ctx)
	require.NoError(t, err)
	_, err = tracker.AddSession(ctx, trackerSession("mind"))
	require.NoError(t, err)

	host := &fakeHost{results: map[string][]domain.Suggestion{
		"coach": {
			{Title: "Rest your mind", Pillar: "mind", Confidence: 0.7, Priority: "medium"},
			{Title: "Too loud", Pillar: "mind", Confidence: 0.7, Priority: "urgent"},
			{ID: "custom", Title: "Eat greens", Pillar: "diet", Confidence: 0.5, Priority: "low"},
		},
	}}
	svc := service.NewProviderService(fakeStore{manifests: []domain.Manifest{manifest(t, "coach")}}, host, logger.NewNop(), nil)
	uc := usecase.NewInteractor(svc, tracker, logger.NewNop())

	out, err := uc.Run(ctx, "coach")
	require.NoError(t, err)
	assert.Equal(t, "coach", out.Provider)
	assert.Equal(t, 3, out.Received)
	assert.Equal(t, 2, out.Stored)
	assert.Equal(t, 1, out.Rejected)
	assert.Equal(t, []string{"coach-rest-your-mind", "custom"}, out.IDs)

	require.Len(t, host.snapshots, 1)
	snap := host.snapshots[0]
	assert.Len(t, snap.Pillars, len(trackerdomain.Pillars))
	assert.Equal(t, 1, snap.TotalSessions)
	assert.Equal(t, 1, snap.TodaySessions)

	_, err = uc.Run(ctx, "coach")
	require.NoError(t, err)
	insights, err := tracker.ListInsights(ctx, false)
	require.NoError(t, err)
	assert.Len(t, insights, 2, "rerunning a provider replaces its insights")
}

func TestRunFailsBeforeTrackerInitialize(t *testing.T) {
	t.Parallel()
	svc := service.NewProviderService(fakeStore{manifests: []domain.Manifest{manifest(t, "coach")}}, &fakeHost{}, logger.NewNop(), nil)
	uc := usecase.NewInteractor(svc, newTracker(t), logger.NewNop())
	_, err := uc.Run(context.Background(), "coach")
	assert.ErrorIs(t, err, apperrors.ErrNotInitialized)
}

func TestRunAllContinuesPastFailingProvider(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tracker := newTracker(t)
	_, err := tracker.Initialize(ctx)
	require.NoError(t, err)

	host := &fakeHost{
		results:  map[string][]domain.Suggestion{"good": {{Title: "Stretch", Pillar: "body", Confidence: 0.9, Priority: "high"}}},
		failures: map[string]error{"bad": errors.New("crashed")},
	}
	svc := service.NewProviderService(fakeStore{manifests: []domain.Manifest{manifest(t, "bad"), manifest(t, "good")}}, host, logger.NewNop(), nil)
	uc := usecase.NewInteractor(svc, tracker, logger.NewNop())

	outputs, err := uc.RunAll(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
	require.Len(t, outputs, 1)
	assert.Equal(t, "good", outputs[0].Provider)
	assert.Equal(t, 1, outputs[0].Stored)
}

func TestRunDerivesBoundedIDs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tracker := newTracker(t)
	_, err := tracker.Initialize(ctx)
	require.NoError(t, err)

	long := "An unusually long insight title that keeps going well past the identifier limit"
	host := &fakeHost{results: map[string][]domain.Suggestion{"coach": {{Title: long, Pillar: "heart", Confidence: 0.4, Priority: "low"}}}}
	svc := service.NewProviderService(fakeStore{manifests: []domain.Manifest{manifest(t, "coach")}}, host, logger.NewNop(), nil)
	out, err := usecase.NewInteractor(svc, tracker, logger.NewNop()).Run(ctx, "coach")
	require.NoError(t, err)
	require.Len(t, out.IDs, 1)
	assert.LessOrEqual(t, len(out.IDs[0]), 64)
	assert.NotEqual(t, '-', rune(out.IDs[0][len(out.IDs[0])-1]))
}

func trackerSession(pillar string) trackerdto.SessionInput {
	return trackerdto.SessionInput{Pillar: pillar, Type: "meditation", DurationMinutes: 20, QualityScore: 80}
}
