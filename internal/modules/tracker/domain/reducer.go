package domain

import "sort"

// Reduce applies action to state and returns the next state. It never
// mutates state: every changed branch is rebuilt, untouched branches are
// shared. Unknown actions and no-op payloads return state as is.
func Reduce(state AppState, action Action) AppState {
	switch a := action.(type) {
	case Initialize:
		return reduceInitialize(state, a)
	case UpdateProfile:
		return reduceUpdateProfile(state, a)
	case AddSession:
		return reduceAddSession(state, a)
	case UpdatePillarScores:
		return reduceUpdatePillarScores(state, a)
	case AddAchievement:
		return reduceAddAchievement(state, a)
	case AddInsight:
		return reduceAddInsight(state, a)
	case MarkInsightRead:
		return reduceMarkInsightRead(state, a)
	case UpdateStreak:
		return reduceUpdateStreak(state, a)
	case SetLoading:
		if state.Loading == a.Loading {
			return state
		}
		state.Loading = a.Loading
		return state
	case SyncComplete:
		state.LastSyncAt = a.At
		return state
	default:
		return state
	}
}

func reduceInitialize(state AppState, a Initialize) AppState {
	next := state
	next.Profile = cloneProfile(a.Profile)
	if a.Scores != nil {
		next.Scores = a.Scores.Clamped()
	} else {
		next.Scores = &PillarScores{}
	}
	sessions := append([]SessionRecord{}, a.Sessions...)
	sort.SliceStable(sessions, func(i, j int) bool { return sessions[i].Timestamp.Before(sessions[j].Timestamp) })
	next.Sessions = tail(sessions, MaxSessions)
	next.Achievements = append([]Achievement{}, a.Achievements...)
	next.Insights = head(append([]AIInsight{}, a.Insights...), MaxInsights)
	next.Streak = StreakData{}
	if next.Profile != nil {
		next.Streak.Current = next.Profile.CurrentStreak
		next.Streak.Longest = next.Profile.LongestStreak
	}
	next.Loading = false
	return next
}

func reduceUpdateProfile(state AppState, a UpdateProfile) AppState {
	if state.Profile == nil || a.Patch.Empty() {
		return state
	}
	p := cloneProfile(state.Profile)
	if a.Patch.DisplayName != nil {
		p.DisplayName = *a.Patch.DisplayName
	}
	if a.Patch.Difficulty != nil {
		p.Preferences.Difficulty = *a.Patch.Difficulty
	}
	if a.Patch.ReminderTime != nil {
		p.Preferences.ReminderTime = *a.Patch.ReminderTime
	}
	if a.Patch.NotificationsEnabled != nil {
		p.Preferences.NotificationsEnabled = *a.Patch.NotificationsEnabled
	}
	state.Profile = p
	return state
}

func reduceAddSession(state AppState, a AddSession) AppState {
	rec := a.Session
	if !rec.Pillar.Valid() {
		return state
	}
	rec.DurationMinutes = ClampDuration(rec.DurationMinutes)
	rec.QualityScore = ClampQuality(rec.QualityScore)

	current := state.Scores.Get(rec.Pillar)
	rec.ScoreDelta = ScoreDelta(rec.DurationMinutes, rec.QualityScore, current)
	state.Scores = state.Scores.With(rec.Pillar, current+rec.ScoreDelta)

	sessions := make([]SessionRecord, 0, len(state.Sessions)+1)
	sessions = append(sessions, state.Sessions...)
	sessions = append(sessions, rec)
	state.Sessions = tail(sessions, MaxSessions)

	if state.Profile != nil {
		p := cloneProfile(state.Profile)
		p.TotalSessions++
		p.SessionsByPillar[rec.Pillar]++
		p.Level = LevelFor(p.TotalSessions)
		p.LastActiveAt = rec.Timestamp
		state.Profile = p
	}
	return state
}

func reduceUpdatePillarScores(state AppState, a UpdatePillarScores) AppState {
	scores := state.Scores
	changed := false
	for _, p := range Pillars {
		v, ok := a.Scores[p]
		if !ok || scores.Get(p) == ClampScore(v) {
			continue
		}
		scores = scores.With(p, v)
		changed = true
	}
	if !changed {
		return state
	}
	state.Scores = scores
	return state
}

func reduceAddAchievement(state AppState, a AddAchievement) AppState {
	if a.Achievement.Title == "" || state.HasAchievement(a.Achievement.Title) {
		return state
	}
	achievements := make([]Achievement, 0, len(state.Achievements)+1)
	achievements = append(achievements, state.Achievements...)
	state.Achievements = append(achievements, a.Achievement)
	return state
}

// reduceAddInsight keeps insights newest first. An insight with a known id
// replaces the old one.
func reduceAddInsight(state AppState, a AddInsight) AppState {
	insights := make([]AIInsight, 0, len(state.Insights)+1)
	insights = append(insights, a.Insight)
	for _, existing := range state.Insights {
		if existing.ID == a.Insight.ID {
			continue
		}
		insights = append(insights, existing)
	}
	state.Insights = head(insights, MaxInsights)
	return state
}

func reduceMarkInsightRead(state AppState, a MarkInsightRead) AppState {
	idx := -1
	for i, insight := range state.Insights {
		if insight.ID == a.ID {
			idx = i
			break
		}
	}
	if idx < 0 || state.Insights[idx].Read {
		return state
	}
	insights := append([]AIInsight{}, state.Insights...)
	insights[idx].Read = true
	state.Insights = insights
	return state
}

func reduceUpdateStreak(state AppState, a UpdateStreak) AppState {
	current := a.Current
	if current < 0 {
		current = 0
	}
	longest := max(state.Streak.Longest, current)
	if state.Profile != nil {
		longest = max(longest, state.Profile.LongestStreak)
	}
	state.Streak = StreakData{Current: current, Longest: longest, AsOf: a.AsOf}

	if state.Profile != nil && (state.Profile.CurrentStreak != current || state.Profile.LongestStreak != longest) {
		p := cloneProfile(state.Profile)
		p.CurrentStreak = current
		p.LongestStreak = longest
		state.Profile = p
	}
	return state
}

func cloneProfile(p *UserProfile) *UserProfile {
	if p == nil {
		return nil
	}
	next := *p
	next.SessionsByPillar = make(map[Pillar]int, len(p.SessionsByPillar))
	for k, v := range p.SessionsByPillar {
		next.SessionsByPillar[k] = v
	}
	return &next
}

// tail keeps the last n items, copying so the result never aliases the
// evicted prefix.
func tail[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return append([]T(nil), items[len(items)-n:]...)
}

func head[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n:n]
}
