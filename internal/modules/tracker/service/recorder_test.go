package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fivepillars/internal/modules/tracker/domain"
	"fivepillars/internal/platform/logger"
	"fivepillars/internal/platform/metrics"
)

func newTestRecorder(t *testing.T) (*Recorder, *Store, *Persister, *fakeBlobs, *fakeClock) {
	t.Helper()
	store, persister, blobs := newTestStore(t)
	clk := &fakeClock{now: storeNow}
	rec := NewRecorder(store, clk, &fakeID{}, logger.NewNop(), metrics.NewCollector("test"))
	return rec, store, persister, blobs, clk
}

func TestRecorderEndToEndMindSession(t *testing.T) {
	t.Parallel()
	rec, store, persister, blobs, _ := newTestRecorder(t)

	result, ok := rec.Record(domain.SessionDraft{Pillar: domain.Mind, DurationMinutes: 20, QualityScore: 90, Type: "meditation", Mood: "calm"})
	require.True(t, ok)

	state := store.State()
	assert.Equal(t, 9, state.Scores.Mind)
	assert.Equal(t, 9, result.Session.ScoreDelta)
	assert.Len(t, state.Sessions, 1)
	assert.Equal(t, 1, state.Streak.Current)
	assert.True(t, state.HasAchievement(domain.TitleFirstSteps))
	require.Len(t, result.Unlocked, 1)
	assert.Equal(t, "id-1", result.Session.ID)
	assert.Equal(t, "meditation", result.Session.Type)

	require.NoError(t, persister.Flush(context.Background()))
	raw, ok := blobs.raw(domain.KeyAchievements)
	require.True(t, ok)
	var stored []domain.Achievement
	require.NoError(t, json.Unmarshal(raw, &stored))
	require.Len(t, stored, 1)
	assert.True(t, stored[0].IsNew)
}

func TestRecorderRejectsUnknownPillarWithoutSideEffects(t *testing.T) {
	t.Parallel()
	rec, store, persister, blobs, _ := newTestRecorder(t)
	before := store.State()

	_, ok := rec.Record(domain.SessionDraft{Pillar: "soul", DurationMinutes: 30, QualityScore: 100})
	assert.False(t, ok)
	assert.Equal(t, before, store.State())

	require.NoError(t, persister.Flush(context.Background()))
	blobs.mu.Lock()
	defer blobs.mu.Unlock()
	assert.Empty(t, blobs.putOrder)
}

func TestRecorderClampsInput(t *testing.T) {
	t.Parallel()
	rec, _, _, _, _ := newTestRecorder(t)

	result, ok := rec.Record(domain.SessionDraft{Pillar: domain.Body, DurationMinutes: -15, QualityScore: 300})
	require.True(t, ok)
	assert.Equal(t, 0, result.Session.DurationMinutes)
	assert.Equal(t, 100, result.Session.QualityScore)
	assert.Equal(t, domain.TypePractice, result.Session.Type)
	assert.Equal(t, 0, result.Session.ScoreDelta)
}

func TestRecorderStreakAcrossDays(t *testing.T) {
	t.Parallel()
	rec, store, _, _, clk := newTestRecorder(t)

	for day := 0; day < 3; day++ {
		_, ok := rec.Record(domain.SessionDraft{Pillar: domain.Spirit, DurationMinutes: 10, QualityScore: 60})
		require.True(t, ok)
		clk.Advance(24 * time.Hour)
	}
	assert.Equal(t, 3, store.State().Streak.Current)

	// Nothing recorded today yet: still 3.
	state, _ := rec.RecalculateStreak()
	assert.Equal(t, 3, state.Streak.Current)

	clk.Advance(24 * time.Hour)
	state, _ = rec.RecalculateStreak()
	assert.Equal(t, 0, state.Streak.Current)
	assert.Equal(t, 3, state.Streak.Longest)
	assert.Equal(t, 3, state.Profile.LongestStreak)
}

func TestRecorderApplyEvaluatesMastery(t *testing.T) {
	t.Parallel()
	rec, store, _, _, _ := newTestRecorder(t)

	_, unlocked := rec.Apply(domain.UpdatePillarScores{Scores: map[domain.Pillar]int{domain.Diet: 95}})
	require.Len(t, unlocked, 1)
	assert.Equal(t, "Diet Mastery", unlocked[0].Title)
	assert.True(t, store.State().HasAchievement("Diet Mastery"))

	_, unlocked = rec.Apply(domain.UpdatePillarScores{Scores: map[domain.Pillar]int{domain.Diet: 99}})
	assert.Empty(t, unlocked)
}
