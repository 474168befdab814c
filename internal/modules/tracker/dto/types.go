package dto

import "time"

type SessionInput struct {
	Pillar          string
	Type            string
	DurationMinutes int
	QualityScore    int
	Mood            string
	Notes           string
}

type SessionView struct {
	ID              string    `json:"id"`
	Pillar          string    `json:"pillar"`
	Type            string    `json:"type"`
	DurationMinutes int       `json:"duration_minutes"`
	Timestamp       time.Time `json:"timestamp"`
	QualityScore    int       `json:"quality_score"`
	Mood            string    `json:"mood,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	ScoreDelta      int       `json:"score_delta"`
}

type AddSessionOutput struct {
	Recorded    bool
	Session     SessionView
	PillarScore int
	Streak      int
	Unlocked    []AchievementView
}

type SessionFilter struct {
	Pillar string
	Limit  int
}

type ProfileInput struct {
	DisplayName          *string
	Difficulty           *string
	ReminderTime         *string
	NotificationsEnabled *bool
}

type ProfileView struct {
	ID                   string         `json:"id"`
	DisplayName          string         `json:"display_name"`
	Level                int            `json:"level"`
	TotalSessions        int            `json:"total_sessions"`
	SessionsByPillar     map[string]int `json:"sessions_by_pillar"`
	CurrentStreak        int            `json:"current_streak"`
	LongestStreak        int            `json:"longest_streak"`
	JoinedAt             time.Time      `json:"joined_at"`
	LastActiveAt         time.Time      `json:"last_active_at"`
	Difficulty           string         `json:"difficulty"`
	ReminderTime         string         `json:"reminder_time"`
	NotificationsEnabled bool           `json:"notifications_enabled"`
}

type ProfileOutput struct {
	Applied  bool
	Profile  ProfileView
	Unlocked []AchievementView
}

type ScoresOutput struct {
	Applied  bool
	Pillars  []PillarView
	Unlocked []AchievementView
}

type AchievementInput struct {
	Title       string `validate:"required,max=80"`
	Description string `validate:"max=280"`
	Pillar      string `validate:"required,oneof=body mind heart spirit diet overall"`
	Rarity      string `validate:"required,oneof=common rare epic legendary"`
}

type AchievementView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Pillar      string    `json:"pillar"`
	Rarity      string    `json:"rarity"`
	UnlockedAt  time.Time `json:"unlocked_at"`
	IsNew       bool      `json:"is_new"`
}

type InsightInput struct {
	ID          string  `json:"id" validate:"omitempty,max=64"`
	Title       string  `json:"title" validate:"required,max=120"`
	Description string  `json:"description" validate:"max=1000"`
	Pillar      string  `json:"pillar" validate:"required,oneof=body mind heart spirit diet overall"`
	Confidence  float64 `json:"confidence" validate:"gte=0,lte=1"`
	Priority    string  `json:"priority" validate:"required,oneof=low medium high"`
}

type InsightView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Pillar      string    `json:"pillar"`
	Confidence  float64   `json:"confidence"`
	Priority    string    `json:"priority"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

type PillarView struct {
	Pillar   string `json:"pillar"`
	Score    int    `json:"score"`
	Trend    string `json:"trend"`
	Sessions int    `json:"sessions"`
}

type StreakOutput struct {
	Current  int
	Longest  int
	Unlocked []AchievementView
}

type Overview struct {
	Profile              ProfileView  `json:"profile"`
	Pillars              []PillarView `json:"pillars"`
	OverallScore         float64      `json:"overall_score"`
	CurrentStreak        int          `json:"current_streak"`
	LongestStreak        int          `json:"longest_streak"`
	TodaySessions        int          `json:"today_sessions"`
	TodayMinutes         int          `json:"today_minutes"`
	DailySessionGoal     int          `json:"daily_session_goal"`
	DailyMinuteGoal      int          `json:"daily_minute_goal"`
	DailySessionsPercent float64      `json:"daily_sessions_percent"`
	DailyMinutesPercent  float64      `json:"daily_minutes_percent"`
	WeekSessions         int          `json:"week_sessions"`
	WeeklyGoal           int          `json:"weekly_goal"`
	WeeklyProgress       float64      `json:"weekly_progress"`
	UnreadInsights       int          `json:"unread_insights"`
	NewAchievements      int          `json:"new_achievements"`
	LastSyncAt           time.Time    `json:"last_sync_at"`
	GeneratedAt          time.Time    `json:"generated_at"`
}

type ExportOutput struct {
	Dir     string
	Written int
	Paths   []string
}
