package domain

import (
	"fmt"
	"regexp"
	"time"
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Manifest pins a provider binary by checksum. A provider whose binary no
// longer matches is never started.
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Binary  string `json:"binary"`
	SHA256  string `json:"sha256"`
	Enabled bool   `json:"enabled"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("provider name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("provider version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("provider binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("provider sha256 must be lowercase 64-char hex")
	}
	return nil
}

type Metadata struct {
	Name        string
	Version     string
	Description string
}

type PillarStatus struct {
	Pillar   string
	Score    int
	Trend    string
	Sessions int
}

// Snapshot is the read-only view of the tracker a provider reasons over.
type Snapshot struct {
	Pillars          []PillarStatus
	OverallScore     float64
	CurrentStreak    int
	LongestStreak    int
	TodaySessions    int
	TodayMinutes     int
	DailySessionGoal int
	DailyMinuteGoal  int
	WeekSessions     int
	WeeklyGoal       int
	TotalSessions    int
	UnreadInsights   int
	GeneratedAt      time.Time
}

// Suggestion is one insight as returned by a provider, before validation.
type Suggestion struct {
	ID          string
	Title       string
	Description string
	Pillar      string
	Confidence  float64
	Priority    string
}
