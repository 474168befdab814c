package service_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	insightout "fivepillars/internal/modules/insight/adapter/out"
	"fivepillars/internal/modules/insight/domain"
	"fivepillars/internal/modules/insight/service"
	apperrors "fivepillars/internal/platform/errors"
	"fivepillars/internal/platform/logger"
	"fivepillars/internal/platform/metrics"
)

type fakeStore struct {
	manifests []domain.Manifest
}

func (s fakeStore) Load(context.Context) ([]domain.Manifest, error) {
	return s.manifests, nil
}

type fakeHost struct {
	suggestions []domain.Suggestion
	err         error
	snapshots   *[]domain.Snapshot
}

func (fakeHost) CheckLifecycle(context.Context, domain.Manifest) error { return nil }
func (fakeHost) GetMetadata(context.Context, domain.Manifest) (domain.Metadata, error) {
	return domain.Metadata{Name: "fake", Version: "1"}, nil
}
func (h fakeHost) Generate(_ context.Context, _ domain.Manifest, snapshot domain.Snapshot) ([]domain.Suggestion, error) {
	if h.snapshots != nil {
		*h.snapshots = append(*h.snapshots, snapshot)
	}
	return h.suggestions, h.err
}

func manifestWithBinary(t *testing.T, name string, enabled bool) domain.Manifest {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "provider-bin")
	require.NoError(t, os.WriteFile(binPath, []byte("binary"), 0o755))
	hash := sha256.Sum256([]byte("binary"))
	return domain.Manifest{Name: name, Version: "1.0.0", Binary: binPath, SHA256: hex.EncodeToString(hash[:]), Enabled: enabled}
}

func TestDoctorDetectsChecksumMismatch(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	binPath := filepath.Join(tmp, "dummy-provider")
	require.NoError(t, os.WriteFile(binPath, []byte("not-a-real-provider"), 0o755))
	manifests := []domain.Manifest{{Name: "demo", Version: "1.0.0", Binary: binPath, SHA256: strings.Repeat("0", 64), Enabled: true}}
	raw, err := json.Marshal(manifests)
	require.NoError(t, err)
	manifestPath := filepath.Join(tmp, "providers.json")
	require.NoError(t, os.WriteFile(manifestPath, raw, 0o644))

	svc := service.NewProviderService(insightout.NewFileManifestStore(manifestPath), nil, logger.NewNop(), nil)
	results, err := svc.Doctor(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].BinaryReachable)
	assert.False(t, results[0].ChecksumValid)
	assert.Equal(t, "checksum mismatch", results[0].Error)
}

func TestDoctorReportsInvalidManifestAndMissingBinary(t *testing.T) {
	t.Parallel()
	good := manifestWithBinary(t, "ok", true)
	missing := good
	missing.Name = "gone"
	missing.Binary = filepath.Join(t.TempDir(), "nope")
	svc := service.NewProviderService(fakeStore{manifests: []domain.Manifest{good, missing, {Name: "broken"}}}, fakeHost{}, logger.NewNop(), nil)

	results, err := svc.Doctor(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.True(t, results[0].LifecycleOK)
	assert.Empty(t, results[0].Error)
	assert.False(t, results[1].BinaryReachable)
	assert.Contains(t, results[1].Error, "binary does not exist")
	assert.NotEmpty(t, results[2].Error)
}

func TestGenerateRejectsDisabledProvider(t *testing.T) {
	t.Parallel()
	svc := service.NewProviderService(fakeStore{manifests: []domain.Manifest{manifestWithBinary(t, "p", false)}}, fakeHost{}, logger.NewNop(), nil)
	_, err := svc.Generate(context.Background(), "p", domain.Snapshot{})
	assert.ErrorIs(t, err, apperrors.ErrProviderDisabled)
}

func TestGenerateRejectsUnknownProvider(t *testing.T) {
	t.Parallel()
	svc := service.NewProviderService(fakeStore{}, fakeHost{}, logger.NewNop(), nil)
	_, err := svc.Generate(context.Background(), "ghost", domain.Snapshot{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGenerateRejectsTamperedBinary(t *testing.T) {
	t.Parallel()
	manifest := manifestWithBinary(t, "p", true)
	require.NoError(t, os.WriteFile(manifest.Binary, []byte("swapped"), 0o755))
	svc := service.NewProviderService(fakeStore{manifests: []domain.Manifest{manifest}}, fakeHost{}, logger.NewNop(), nil)
	_, err := svc.Generate(context.Background(), "p", domain.Snapshot{})
	assert.ErrorIs(t, err, apperrors.ErrChecksumMismatch)
}

func TestGenerateRejectsDuplicateNames(t *testing.T) {
	t.Parallel()
	m := manifestWithBinary(t, "p", true)
	svc := service.NewProviderService(fakeStore{manifests: []domain.Manifest{m, m}}, fakeHost{}, logger.NewNop(), nil)
	_, err := svc.List(context.Background())
	assert.Error(t, err)
}

func TestGenerateRecordsProviderCalls(t *testing.T) {
	t.Parallel()
	m := metrics.NewCollector("test")
	var seen []domain.Snapshot
	host := fakeHost{suggestions: []domain.Suggestion{{Title: "Rest"}}, snapshots: &seen}
	svc := service.NewProviderService(fakeStore{manifests: []domain.Manifest{manifestWithBinary(t, "p", true)}}, host, logger.NewNop(), m)

	out, err := svc.Generate(context.Background(), "p", domain.Snapshot{CurrentStreak: 4})
	require.NoError(t, err)
	assert.Len(t, out, 1)
	require.Len(t, seen, 1)
	assert.Equal(t, 4, seen[0].CurrentStreak)

	failing := service.NewProviderService(fakeStore{manifests: []domain.Manifest{manifestWithBinary(t, "p", true)}}, fakeHost{err: errors.New("boom")}, logger.NewNop(), m)
	_, err = failing.Generate(context.Background(), "p", domain.Snapshot{})
	require.Error(t, err)

	expected := `
# HELP test_insight_provider_calls_total Insight provider invocations by result
# TYPE test_insight_provider_calls_total counter
test_insight_provider_calls_total{provider="p",result="error"} 1
test_insight_provider_calls_total{provider="p",result="ok"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "test_insight_provider_calls_total"))
}

func TestEnabledKeepsManifestOrder(t *testing.T) {
	t.Parallel()
	manifests := []domain.Manifest{manifestWithBinary(t, "b", true), manifestWithBinary(t, "off", false), manifestWithBinary(t, "a", true)}
	svc := service.NewProviderService(fakeStore{manifests: manifests}, fakeHost{}, logger.NewNop(), nil)
	names, err := svc.Enabled(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, names)
}
