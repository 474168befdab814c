package domain

import "time"

const StreakLookbackDays = 30

// ComputeStreak counts consecutive calendar days with at least one session,
// walking back from asOf for at most StreakLookbackDays. Days are taken in
// asOf's location. An empty asOf day does not break the streak; any earlier
// empty day ends it.
func ComputeStreak(sessions []SessionRecord, asOf time.Time) int {
	if len(sessions) == 0 {
		return 0
	}
	loc := asOf.Location()
	days := make(map[calendarDay]struct{}, len(sessions))
	for _, s := range sessions {
		days[dayOf(s.Timestamp.In(loc))] = struct{}{}
	}

	today := StartOfDay(asOf)
	streak := 0
	for i := 0; i < StreakLookbackDays; i++ {
		if _, ok := days[dayOf(today.AddDate(0, 0, -i))]; ok {
			streak++
			continue
		}
		if i == 0 {
			continue
		}
		break
	}
	return streak
}

type calendarDay struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time) calendarDay {
	y, m, d := t.Date()
	return calendarDay{year: y, month: m, day: d}
}

// StartOfDay is local midnight of t in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}
