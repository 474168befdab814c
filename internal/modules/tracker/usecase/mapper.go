package usecase

import (
	"sort"
	"time"

	"fivepillars/internal/modules/tracker/domain"
	"fivepillars/internal/modules/tracker/dto"
)

func toSessionView(s domain.SessionRecord) dto.SessionView {
	return dto.SessionView{
		ID:              s.ID,
		Pillar:          string(s.Pillar),
		Type:            s.Type,
		DurationMinutes: s.DurationMinutes,
		Timestamp:       s.Timestamp,
		QualityScore:    s.QualityScore,
		Mood:            s.Mood,
		Notes:           s.Notes,
		ScoreDelta:      s.ScoreDelta,
	}
}

func toAchievementView(a domain.Achievement) dto.AchievementView {
	return dto.AchievementView{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Pillar:      a.Pillar,
		Rarity:      string(a.Rarity),
		UnlockedAt:  a.UnlockedAt,
		IsNew:       a.IsNew,
	}
}

func toAchievementViews(items []domain.Achievement) []dto.AchievementView {
	out := make([]dto.AchievementView, 0, len(items))
	for _, a := range items {
		out = append(out, toAchievementView(a))
	}
	return out
}

func toInsightView(i domain.AIInsight) dto.InsightView {
	return dto.InsightView{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		Pillar:      i.Pillar,
		Confidence:  i.Confidence,
		Priority:    i.Priority,
		Read:        i.Read,
		CreatedAt:   i.CreatedAt,
	}
}

func toProfileView(p *domain.UserProfile) dto.ProfileView {
	if p == nil {
		return dto.ProfileView{SessionsByPillar: map[string]int{}}
	}
	byPillar := make(map[string]int, len(domain.Pillars))
	for _, pillar := range domain.Pillars {
		byPillar[string(pillar)] = p.SessionsByPillar[pillar]
	}
	return dto.ProfileView{
		ID:                   p.ID,
		DisplayName:          p.DisplayName,
		Level:                p.Level,
		TotalSessions:        p.TotalSessions,
		SessionsByPillar:     byPillar,
		CurrentStreak:        p.CurrentStreak,
		LongestStreak:        p.LongestStreak,
		JoinedAt:             p.JoinedAt,
		LastActiveAt:         p.LastActiveAt,
		Difficulty:           p.Preferences.Difficulty,
		ReminderTime:         p.Preferences.ReminderTime,
		NotificationsEnabled: p.Preferences.NotificationsEnabled,
	}
}

func toPillarViews(state domain.AppState) []dto.PillarView {
	out := make([]dto.PillarView, 0, len(domain.Pillars))
	for _, p := range domain.Pillars {
		out = append(out, dto.PillarView{
			Pillar:   string(p),
			Score:    state.Scores.Get(p),
			Trend:    string(domain.PillarTrend(state.Sessions, p)),
			Sessions: state.Profile.PillarCount(p),
		})
	}
	return out
}

func toOverview(state domain.AppState, now time.Time) dto.Overview {
	daily := domain.DailyGoalProgress(state.Sessions, state.Goals, now)
	return dto.Overview{
		Profile:              toProfileView(state.Profile),
		Pillars:              toPillarViews(state),
		OverallScore:         domain.OverallScore(state.Scores),
		CurrentStreak:        state.Streak.Current,
		LongestStreak:        state.Streak.Longest,
		TodaySessions:        daily.Sessions,
		TodayMinutes:         daily.Minutes,
		DailySessionGoal:     daily.SessionTarget,
		DailyMinuteGoal:      daily.MinuteTarget,
		DailySessionsPercent: daily.SessionsPercent,
		DailyMinutesPercent:  daily.MinutesPercent,
		WeekSessions:         domain.WeekSessions(state.Sessions, now),
		WeeklyGoal:           state.Goals.WeeklySessions,
		WeeklyProgress:       domain.WeeklyProgress(state.Sessions, state.Goals, now),
		UnreadInsights:       len(domain.UnreadInsights(state.Insights)),
		NewAchievements:      len(domain.NewAchievements(state.Achievements)),
		LastSyncAt:           state.LastSyncAt,
		GeneratedAt:          now,
	}
}

// newestFirst returns a sorted copy; stored order is oldest first.
func newestFirst(sessions []domain.SessionRecord) []domain.SessionRecord {
	out := append([]domain.SessionRecord(nil), sessions...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out
}
