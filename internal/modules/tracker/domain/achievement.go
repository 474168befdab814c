package domain

import (
	"fmt"
	"time"

	"fivepillars/internal/platform/slug"
)

type Rarity string

const (
	Common    Rarity = "common"
	Rare      Rarity = "rare"
	Epic      Rarity = "epic"
	Legendary Rarity = "legendary"
)

// Rank orders rarities for display; unknown values rank below common.
func (r Rarity) Rank() int {
	switch r {
	case Common:
		return 1
	case Rare:
		return 2
	case Epic:
		return 3
	case Legendary:
		return 4
	default:
		return 0
	}
}

func ParseRarity(raw string) (Rarity, bool) {
	r := Rarity(raw)
	return r, r.Rank() > 0
}

const (
	TitleFirstSteps    = "First Steps"
	TitleWeekWarrior   = "Week Warrior"
	TitleMonthlyMaster = "Monthly Master"
	TitleMarathon      = "Marathon"

	MarathonMinutes = 30
	MasteryScore    = 90
)

type devotionTier struct {
	count  int
	suffix string
	rarity Rarity
}

var devotionTiers = []devotionTier{
	{count: 5, suffix: "Explorer", rarity: Common},
	{count: 10, suffix: "Devotee", rarity: Rare},
	{count: 25, suffix: "Champion", rarity: Epic},
}

type candidate struct {
	title       string
	description string
	pillar      string
	rarity      Rarity
}

// rule reports what a single transition from prev to next unlocked.
type rule func(prev, next AppState, trigger *SessionRecord) []candidate

var rules = []rule{
	firstStepsRule,
	streakRule(7, TitleWeekWarrior, "Practiced seven days in a row", Rare),
	streakRule(30, TitleMonthlyMaster, "Practiced thirty days in a row", Legendary),
	devotionRule,
	marathonRule,
	masteryRule,
}

// EvaluateAchievements runs every rule against the prev -> next transition.
// Thresholds fire when crossed, so a level that was already reached never
// fires again. Results are deduplicated by title against next and against
// each other.
func EvaluateAchievements(prev, next AppState, trigger *SessionRecord, now time.Time) []Achievement {
	seen := make(map[string]struct{}, len(next.Achievements))
	for _, a := range next.Achievements {
		seen[a.Title] = struct{}{}
	}
	var out []Achievement
	for _, r := range rules {
		for _, c := range r(prev, next, trigger) {
			if _, dup := seen[c.title]; dup {
				continue
			}
			seen[c.title] = struct{}{}
			out = append(out, Achievement{
				ID:          AchievementID(c.title),
				Title:       c.title,
				Description: c.description,
				Pillar:      c.pillar,
				Rarity:      c.rarity,
				UnlockedAt:  now,
				IsNew:       true,
			})
		}
	}
	return out
}

func AchievementID(title string) string {
	return slug.Make(title, "achievement")
}

func crossed(before, after, threshold int) bool {
	return before < threshold && after >= threshold
}

func firstStepsRule(prev, next AppState, _ *SessionRecord) []candidate {
	if !crossed(prev.Profile.Total(), next.Profile.Total(), 1) {
		return nil
	}
	return []candidate{{
		title:       TitleFirstSteps,
		description: "Recorded your first session",
		pillar:      Overall,
		rarity:      Common,
	}}
}

func streakRule(days int, title, description string, rarity Rarity) rule {
	return func(prev, next AppState, _ *SessionRecord) []candidate {
		if !crossed(prev.Streak.Current, next.Streak.Current, days) {
			return nil
		}
		return []candidate{{title: title, description: description, pillar: Overall, rarity: rarity}}
	}
}

func devotionRule(prev, next AppState, _ *SessionRecord) []candidate {
	var out []candidate
	for _, p := range Pillars {
		before, after := prev.Profile.PillarCount(p), next.Profile.PillarCount(p)
		for _, tier := range devotionTiers {
			if !crossed(before, after, tier.count) {
				continue
			}
			out = append(out, candidate{
				title:       p.Title() + " " + tier.suffix,
				description: fmt.Sprintf("Completed %d %s sessions", tier.count, p),
				pillar:      string(p),
				rarity:      tier.rarity,
			})
		}
	}
	return out
}

func marathonRule(_, _ AppState, trigger *SessionRecord) []candidate {
	if trigger == nil || trigger.DurationMinutes < MarathonMinutes {
		return nil
	}
	return []candidate{{
		title:       TitleMarathon,
		description: fmt.Sprintf("Completed a session of %d minutes or more", MarathonMinutes),
		pillar:      Overall,
		rarity:      Rare,
	}}
}

func masteryRule(prev, next AppState, _ *SessionRecord) []candidate {
	var out []candidate
	for _, p := range Pillars {
		if !crossed(prev.Scores.Get(p), next.Scores.Get(p), MasteryScore) {
			continue
		}
		out = append(out, candidate{
			title:       p.Title() + " Mastery",
			description: fmt.Sprintf("Reached a %s score of %d", p, MasteryScore),
			pillar:      string(p),
			rarity:      Epic,
		})
	}
	return out
}
