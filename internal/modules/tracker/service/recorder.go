package service

import (
	"time"

	"fivepillars/internal/modules/tracker/domain"
	"fivepillars/internal/platform/clock"
	"fivepillars/internal/platform/id"
	"fivepillars/internal/platform/logger"
	"fivepillars/internal/platform/metrics"
)

const recorderModule = "recorder"

type RecordResult struct {
	Session  domain.SessionRecord
	Unlocked []domain.Achievement
	State    domain.AppState
}

// Recorder turns caller input into store transitions and runs the streak and
// achievement follow-ups each transition calls for.
type Recorder struct {
	store   *Store
	clock   clock.Clock
	ids     id.Generator
	log     logger.Logger
	metrics *metrics.Collector
}

func NewRecorder(store *Store, clock clock.Clock, ids id.Generator, log logger.Logger, m *metrics.Collector) *Recorder {
	return &Recorder{store: store, clock: clock, ids: ids, log: log, metrics: m}
}

// Record appends a session. An unknown pillar is rejected with ok=false and
// leaves the state, the streak and the achievements untouched.
func (r *Recorder) Record(draft domain.SessionDraft) (RecordResult, bool) {
	if !draft.Pillar.Valid() {
		r.log.Warn(recorderModule, "session rejected", map[string]any{"pillar": string(draft.Pillar)})
		return RecordResult{State: r.store.State()}, false
	}
	now := r.clock.Now()
	session := domain.NewSession(r.ids.New(), draft, now)

	var result RecordResult
	result.State = r.store.Batch(func(prev domain.AppState, dispatch Dispatcher) {
		next := dispatch(domain.AddSession{Session: session})
		stored := next.Sessions[len(next.Sessions)-1]
		next = dispatch(domain.UpdateStreak{Current: domain.ComputeStreak(next.Sessions, now), AsOf: now})
		result.Session = stored
		result.Unlocked = r.unlock(prev, next, &stored, now, dispatch)
	})

	r.metrics.RecordSession(string(session.Pillar))
	r.log.Info(recorderModule, "session recorded", map[string]any{
		"pillar":   string(result.Session.Pillar),
		"minutes":  result.Session.DurationMinutes,
		"delta":    result.Session.ScoreDelta,
		"unlocked": len(result.Unlocked),
	})
	return result, true
}

// Apply dispatches action and evaluates achievements on the transition.
func (r *Recorder) Apply(action domain.Action) (domain.AppState, []domain.Achievement) {
	now := r.clock.Now()
	var unlocked []domain.Achievement
	state := r.store.Batch(func(prev domain.AppState, dispatch Dispatcher) {
		next := dispatch(action)
		unlocked = r.unlock(prev, next, nil, now, dispatch)
	})
	return state, unlocked
}

// RecalculateStreak recomputes the streak as of now.
func (r *Recorder) RecalculateStreak() (domain.AppState, []domain.Achievement) {
	now := r.clock.Now()
	var unlocked []domain.Achievement
	state := r.store.Batch(func(prev domain.AppState, dispatch Dispatcher) {
		next := dispatch(domain.UpdateStreak{Current: domain.ComputeStreak(prev.Sessions, now), AsOf: now})
		unlocked = r.unlock(prev, next, nil, now, dispatch)
	})
	return state, unlocked
}

func (r *Recorder) unlock(prev, next domain.AppState, trigger *domain.SessionRecord, now time.Time, dispatch Dispatcher) []domain.Achievement {
	unlocked := domain.EvaluateAchievements(prev, next, trigger, now)
	for _, a := range unlocked {
		dispatch(domain.AddAchievement{Achievement: a})
		r.metrics.RecordAchievement(string(a.Rarity))
		r.log.Info(recorderModule, "achievement unlocked", map[string]any{"title": a.Title, "rarity": string(a.Rarity)})
	}
	return unlocked
}
