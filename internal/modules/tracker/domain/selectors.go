package domain

import (
	"math"
	"sort"
	"time"
)

type Trend string

const (
	Improving Trend = "improving"
	Stable    Trend = "stable"
	Declining Trend = "declining"
)

// OverallScore is the mean of the five pillar scores.
func OverallScore(scores *PillarScores) float64 {
	total := 0
	for _, p := range Pillars {
		total += scores.Get(p)
	}
	return float64(total) / float64(len(Pillars))
}

// TodaySessions returns sessions on now's calendar day, in now's location.
func TodaySessions(sessions []SessionRecord, now time.Time) []SessionRecord {
	out := []SessionRecord{}
	for _, s := range sessions {
		if SameDay(now, s.Timestamp) {
			out = append(out, s)
		}
	}
	return out
}

func TodayMinutes(sessions []SessionRecord, now time.Time) int {
	total := 0
	for _, s := range TodaySessions(sessions, now) {
		total += s.DurationMinutes
	}
	return total
}

type DailyProgress struct {
	Sessions        int
	SessionTarget   int
	Minutes         int
	MinuteTarget    int
	SessionsPercent float64
	MinutesPercent  float64
}

func DailyGoalProgress(sessions []SessionRecord, goals DailyGoals, now time.Time) DailyProgress {
	today := TodaySessions(sessions, now)
	minutes := 0
	for _, s := range today {
		minutes += s.DurationMinutes
	}
	return DailyProgress{
		Sessions:        len(today),
		SessionTarget:   goals.DailySessions,
		Minutes:         minutes,
		MinuteTarget:    goals.DailyMinutes,
		SessionsPercent: percentOf(len(today), goals.DailySessions),
		MinutesPercent:  percentOf(minutes, goals.DailyMinutes),
	}
}

// StartOfWeek is Monday 00:00 of t's week in t's location.
func StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return StartOfDay(t).AddDate(0, 0, -offset)
}

func WeekSessions(sessions []SessionRecord, now time.Time) int {
	start := StartOfWeek(now)
	end := start.AddDate(0, 0, 7)
	count := 0
	for _, s := range sessions {
		ts := s.Timestamp.In(now.Location())
		if !ts.Before(start) && ts.Before(end) {
			count++
		}
	}
	return count
}

// WeeklyProgress is min(100, week sessions / weekly goal * 100).
func WeeklyProgress(sessions []SessionRecord, goals DailyGoals, now time.Time) float64 {
	return percentOf(WeekSessions(sessions, now), goals.WeeklySessions)
}

// PillarTrend compares the summed score deltas of the k most recent sessions
// of pillar against the k before them, k = min(3, n/2). Below six sessions
// both windows shrink to the same size, so four sessions compare the newest
// two with the two before them rather than three against one.
func PillarTrend(sessions []SessionRecord, pillar Pillar) Trend {
	own := make([]SessionRecord, 0, len(sessions))
	for _, s := range sessions {
		if s.Pillar == pillar {
			own = append(own, s)
		}
	}
	if len(own) < 2 {
		return Stable
	}
	sort.SliceStable(own, func(i, j int) bool { return own[i].Timestamp.After(own[j].Timestamp) })

	k := min(3, len(own)/2)
	recent, older := 0, 0
	for i := 0; i < k; i++ {
		recent += own[i].ScoreDelta
		older += own[k+i].ScoreDelta
	}
	switch {
	case float64(recent) > 1.2*float64(older):
		return Improving
	case float64(recent) < 0.8*float64(older):
		return Declining
	default:
		return Stable
	}
}

func UnreadInsights(insights []AIInsight) []AIInsight {
	out := []AIInsight{}
	for _, i := range insights {
		if !i.Read {
			out = append(out, i)
		}
	}
	return out
}

func NewAchievements(achievements []Achievement) []Achievement {
	out := []Achievement{}
	for _, a := range achievements {
		if a.IsNew {
			out = append(out, a)
		}
	}
	return out
}

func percentOf(count, target int) float64 {
	if target <= 0 {
		return 0
	}
	return math.Min(100, float64(count)/float64(target)*100)
}
