package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fivepillars/internal/modules/tracker/domain"
	"fivepillars/internal/platform/logger"
)

var storeNow = time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *Persister, *fakeBlobs) {
	t.Helper()
	blobs := newFakeBlobs()
	persister := NewPersister(blobs, logger.NewNop(), nil)
	store := NewStore(domain.DefaultState(domain.DefaultGoals()), persister, nil)
	store.Reset(domain.Reduce(store.State(), domain.Initialize{Profile: domain.DefaultProfile("u", storeNow)}))
	return store, persister, blobs
}

func TestStorePersistsOnlyChangedSlices(t *testing.T) {
	t.Parallel()
	store, persister, blobs := newTestStore(t)

	name := "Ada"
	store.Dispatch(domain.UpdateProfile{Patch: domain.ProfilePatch{DisplayName: &name}})
	require.NoError(t, persister.Flush(context.Background()))

	assert.Equal(t, 1, blobs.putCount(domain.KeyUserProfile))
	assert.Equal(t, 0, blobs.putCount(domain.KeySessions))
	assert.Equal(t, 0, blobs.putCount(domain.KeyPillarScores))

	store.Dispatch(domain.AddSession{Session: domain.SessionRecord{ID: "s", Pillar: domain.Heart, DurationMinutes: 10, QualityScore: 80, Timestamp: storeNow}})
	require.NoError(t, persister.Flush(context.Background()))

	assert.Equal(t, 1, blobs.putCount(domain.KeySessions))
	assert.Equal(t, 1, blobs.putCount(domain.KeyPillarScores))
	assert.Equal(t, 0, blobs.putCount(domain.KeyAchievements))
	assert.Equal(t, 0, blobs.putCount(domain.KeyAIInsights))
}

func TestStoreSkipsPersistenceForNoOps(t *testing.T) {
	t.Parallel()
	store, persister, blobs := newTestStore(t)

	store.Dispatch(domain.MarkInsightRead{ID: "missing"})
	store.Dispatch(domain.SetLoading{Loading: true})
	store.Dispatch(domain.SyncComplete{At: storeNow})
	require.NoError(t, persister.Flush(context.Background()))

	blobs.mu.Lock()
	defer blobs.mu.Unlock()
	assert.Empty(t, blobs.putOrder)
}

func TestStorePersistAllWritesEveryKey(t *testing.T) {
	t.Parallel()
	store, persister, blobs := newTestStore(t)
	store.PersistAll()
	require.NoError(t, persister.Flush(context.Background()))

	for _, key := range domain.StorageKeys {
		_, ok := blobs.raw(key)
		assert.True(t, ok, key)
	}
}

func TestSameBacking(t *testing.T) {
	t.Parallel()
	a := []int{1, 2, 3}
	assert.True(t, sameBacking(a, a))
	assert.False(t, sameBacking(a, append([]int(nil), a...)))
	assert.False(t, sameBacking(a, a[:2]))
	assert.True(t, sameBacking([]int{}, []int{}))
	assert.False(t, sameBacking(nil, []int{}))
}
