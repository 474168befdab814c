package out_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	insightout "fivepillars/internal/modules/insight/adapter/out"
	"fivepillars/internal/modules/insight/domain"
)

func TestGRPCHostIntegrationReferenceProvider(t *testing.T) {
	if testing.Short() {
		t.Skip("builds and launches the reference provider")
	}
	binPath, checksum := buildReferenceProvider(t)
	manifest := domain.Manifest{Name: "reference", Version: "1.0.0", Binary: binPath, SHA256: checksum, Enabled: true}

	host := insightout.NewGRPCHost()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, host.CheckLifecycle(ctx, manifest))
	metadata, err := host.GetMetadata(ctx, manifest)
	require.NoError(t, err)
	assert.Equal(t, "reference", metadata.Name)

	suggestions, err := host.Generate(ctx, manifest, domain.Snapshot{
		Pillars: []domain.PillarStatus{
			{Pillar: "body", Score: 12, Trend: "declining"},
			{Pillar: "mind", Score: 80, Trend: "improving", Sessions: 9},
		},
		CurrentStreak:    0,
		DailySessionGoal: 3,
		WeeklyGoal:       7,
		GeneratedAt:      time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "body", suggestions[0].Pillar)
}

func buildReferenceProvider(t *testing.T) (string, string) {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "reference-provider")
	cmd := exec.Command("go", "build", "-o", binPath, "./plugins/reference")
	cmd.Dir = repositoryRoot(t)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "build reference provider:\n%s", string(out))
	payload, err := os.ReadFile(binPath)
	require.NoError(t, err)
	hash := sha256.Sum256(payload)
	return binPath, hex.EncodeToString(hash[:])
}

func repositoryRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime caller failed")
	return filepath.Clean(filepath.Join(filepath.Dir(file), "../../../../../"))
}
