package service

import (
	"sync"

	"fivepillars/internal/modules/tracker/domain"
	"fivepillars/internal/platform/metrics"
)

// Dispatcher applies one action inside a Batch.
type Dispatcher func(domain.Action) domain.AppState

// Store owns the current AppState. Transitions are serialised; after each
// one, every branch whose identity changed is handed to the persister.
type Store struct {
	persister *Persister
	metrics   *metrics.Collector

	mu    sync.Mutex
	state domain.AppState
}

func NewStore(initial domain.AppState, persister *Persister, m *metrics.Collector) *Store {
	return &Store{state: initial, persister: persister, metrics: m}
}

func (s *Store) State() domain.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) Dispatch(action domain.Action) domain.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatchLocked(action)
}

// DispatchHolding is Dispatch without saving the keys in held. Initialize
// uses it so a slice that could not be read is not overwritten by its default.
func (s *Store) DispatchHolding(action domain.Action, held map[string]bool) domain.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state
	next := domain.Reduce(prev, action)
	s.state = next
	s.metrics.RecordAction(string(action.Kind()))
	s.persistChanged(prev, next, held)
	return next
}

// Batch runs fn with exclusive access, so a multi-step transition is never
// interleaved with another goroutine's dispatch.
func (s *Store) Batch(fn func(state domain.AppState, dispatch Dispatcher)) domain.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state, s.dispatchLocked)
	return s.state
}

// Reset replaces the state without persisting anything.
func (s *Store) Reset(state domain.AppState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// PersistAll saves every slice regardless of change.
func (s *Store) PersistAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.Profile != nil {
		s.persister.Save(domain.KeyUserProfile, st.Profile)
	}
	s.persister.Save(domain.KeyPillarScores, st.Scores)
	s.persister.Save(domain.KeySessions, st.Sessions)
	s.persister.Save(domain.KeyAchievements, st.Achievements)
	s.persister.Save(domain.KeyAIInsights, st.Insights)
}

func (s *Store) dispatchLocked(action domain.Action) domain.AppState {
	prev := s.state
	next := domain.Reduce(prev, action)
	s.state = next
	s.metrics.RecordAction(string(action.Kind()))
	s.persistChanged(prev, next, nil)
	return next
}

func (s *Store) persistChanged(prev, next domain.AppState, held map[string]bool) {
	if s.persister == nil {
		return
	}
	save := func(key string, value any) {
		if !held[key] {
			s.persister.Save(key, value)
		}
	}
	if prev.Profile != next.Profile && next.Profile != nil {
		save(domain.KeyUserProfile, next.Profile)
	}
	if prev.Scores != next.Scores && next.Scores != nil {
		save(domain.KeyPillarScores, next.Scores)
	}
	if !sameBacking(prev.Sessions, next.Sessions) {
		save(domain.KeySessions, next.Sessions)
	}
	if !sameBacking(prev.Achievements, next.Achievements) {
		save(domain.KeyAchievements, next.Achievements)
	}
	if !sameBacking(prev.Insights, next.Insights) {
		save(domain.KeyAIInsights, next.Insights)
	}
}

// sameBacking reports whether two slices are the same view of the same array.
func sameBacking[T any](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return (a == nil) == (b == nil)
	}
	return &a[0] == &b[0]
}
