package domain

import "time"

// Storage keys, one JSON document each.
const (
	KeyUserProfile  = "user_profile"
	KeySessions     = "sessions"
	KeyPillarScores = "pillar_scores"
	KeyAchievements = "achievements"
	KeyAIInsights   = "ai_insights"
)

var StorageKeys = []string{KeyUserProfile, KeySessions, KeyPillarScores, KeyAchievements, KeyAIInsights}

const (
	MaxSessions      = 100
	MaxInsights      = 10
	DefaultName      = "Wellness Seeker"
	DefaultReminder  = "08:00"
	SessionsPerLevel = 10
)

const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

type Preferences struct {
	Difficulty           string `json:"difficulty"`
	ReminderTime         string `json:"reminder_time"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
}

type UserProfile struct {
	ID               string         `json:"id"`
	DisplayName      string         `json:"display_name"`
	Level            int            `json:"level"`
	TotalSessions    int            `json:"total_sessions"`
	SessionsByPillar map[Pillar]int `json:"sessions_by_pillar"`
	CurrentStreak    int            `json:"current_streak"`
	LongestStreak    int            `json:"longest_streak"`
	JoinedAt         time.Time      `json:"joined_at"`
	LastActiveAt     time.Time      `json:"last_active_at"`
	Preferences      Preferences    `json:"preferences"`
}

// PillarCount is nil-safe.
func (p *UserProfile) PillarCount(pillar Pillar) int {
	if p == nil {
		return 0
	}
	return p.SessionsByPillar[pillar]
}

func (p *UserProfile) Total() int {
	if p == nil {
		return 0
	}
	return p.TotalSessions
}

func LevelFor(totalSessions int) int {
	if totalSessions < 0 {
		totalSessions = 0
	}
	return totalSessions/SessionsPerLevel + 1
}

func DefaultProfile(id string, now time.Time) *UserProfile {
	return &UserProfile{
		ID:               id,
		DisplayName:      DefaultName,
		Level:            1,
		SessionsByPillar: map[Pillar]int{},
		JoinedAt:         now,
		LastActiveAt:     now,
		Preferences: Preferences{
			Difficulty:           DifficultyBeginner,
			ReminderTime:         DefaultReminder,
			NotificationsEnabled: true,
		},
	}
}

// PillarScores holds exactly the five pillars; absent JSON keys decode to 0.
type PillarScores struct {
	Body   int `json:"body"`
	Mind   int `json:"mind"`
	Heart  int `json:"heart"`
	Spirit int `json:"spirit"`
	Diet   int `json:"diet"`
}

func (s *PillarScores) Get(p Pillar) int {
	if s == nil {
		return 0
	}
	switch p {
	case Body:
		return s.Body
	case Mind:
		return s.Mind
	case Heart:
		return s.Heart
	case Spirit:
		return s.Spirit
	case Diet:
		return s.Diet
	default:
		return 0
	}
}

// With returns a copy with p set to the clamped value.
func (s *PillarScores) With(p Pillar, value int) *PillarScores {
	next := PillarScores{}
	if s != nil {
		next = *s
	}
	value = ClampScore(value)
	switch p {
	case Body:
		next.Body = value
	case Mind:
		next.Mind = value
	case Heart:
		next.Heart = value
	case Spirit:
		next.Spirit = value
	case Diet:
		next.Diet = value
	}
	return &next
}

// Clamped repairs out-of-range values read from storage.
func (s *PillarScores) Clamped() *PillarScores {
	next := &PillarScores{}
	for _, p := range Pillars {
		next = next.With(p, s.Get(p))
	}
	return next
}

type SessionRecord struct {
	ID              string    `json:"id"`
	Pillar          Pillar    `json:"pillar"`
	Type            string    `json:"type"`
	DurationMinutes int       `json:"duration_minutes"`
	Timestamp       time.Time `json:"timestamp"`
	QualityScore    int       `json:"quality_score"`
	Mood            string    `json:"mood,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	ScoreDelta      int       `json:"score_delta"`
}

type Achievement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Pillar      string    `json:"pillar"`
	Rarity      Rarity    `json:"rarity"`
	UnlockedAt  time.Time `json:"unlocked_at"`
	IsNew       bool      `json:"is_new"`
}

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type AIInsight struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Pillar      string    `json:"pillar"`
	Confidence  float64   `json:"confidence"`
	Priority    string    `json:"priority"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

type DailyGoals struct {
	DailySessions  int `json:"daily_sessions"`
	DailyMinutes   int `json:"daily_minutes"`
	WeeklySessions int `json:"weekly_sessions"`
}

func DefaultGoals() DailyGoals {
	return DailyGoals{DailySessions: 3, DailyMinutes: 30, WeeklySessions: 7}
}

type StreakData struct {
	Current int       `json:"current"`
	Longest int       `json:"longest"`
	AsOf    time.Time `json:"as_of"`
}

// AppState is replaced branch by branch, never mutated. A changed branch
// always carries a new pointer or a new backing array.
type AppState struct {
	Profile      *UserProfile
	Scores       *PillarScores
	Sessions     []SessionRecord
	Achievements []Achievement
	Insights     []AIInsight
	Goals        DailyGoals
	Streak       StreakData
	Loading      bool
	LastSyncAt   time.Time
}

// DefaultState is the state before anything has been loaded.
func DefaultState(goals DailyGoals) AppState {
	return AppState{
		Scores:       &PillarScores{},
		Sessions:     []SessionRecord{},
		Achievements: []Achievement{},
		Insights:     []AIInsight{},
		Goals:        goals,
	}
}

func (s AppState) HasAchievement(title string) bool {
	for _, a := range s.Achievements {
		if a.Title == title {
			return true
		}
	}
	return false
}
