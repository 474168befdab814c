package in

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	trackerdto "fivepillars/internal/modules/tracker/dto"
	trackerin "fivepillars/internal/modules/tracker/port/in"
)

type CLIHandler struct {
	usecase trackerin.Usecase
}

func NewCLIHandler(usecase trackerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Init(ctx context.Context) (trackerdto.Overview, error) {
	return h.usecase.Initialize(ctx)
}

func (h CLIHandler) Status(ctx context.Context) (trackerdto.Overview, error) {
	return h.usecase.Overview(ctx)
}

func (h CLIHandler) AddSession(ctx context.Context, pillar, kind string, minutes, quality int, mood, notes string) (trackerdto.AddSessionOutput, error) {
	return h.usecase.AddSession(ctx, trackerdto.SessionInput{
		Pillar:          pillar,
		Type:            kind,
		DurationMinutes: minutes,
		QualityScore:    quality,
		Mood:            mood,
		Notes:           notes,
	})
}

func (h CLIHandler) ListSessions(ctx context.Context, pillar string, limit int) ([]trackerdto.SessionView, error) {
	return h.usecase.ListSessions(ctx, trackerdto.SessionFilter{Pillar: pillar, Limit: limit})
}

func (h CLIHandler) Profile(ctx context.Context) (trackerdto.ProfileView, error) {
	return h.usecase.Profile(ctx)
}

func (h CLIHandler) UpdateProfile(ctx context.Context, input trackerdto.ProfileInput) (trackerdto.ProfileOutput, error) {
	return h.usecase.UpdateUserProfile(ctx, input)
}

// SetScores accepts assignments such as "body=40" or "mind=55,heart=60".
func (h CLIHandler) SetScores(ctx context.Context, assignments []string) (trackerdto.ScoresOutput, error) {
	scores, err := ParseScores(assignments)
	if err != nil {
		return trackerdto.ScoresOutput{}, err
	}
	return h.usecase.UpdatePillarScores(ctx, scores)
}

func (h CLIHandler) AddAchievement(ctx context.Context, title, description, pillar, rarity string) (trackerdto.AchievementView, bool, error) {
	return h.usecase.AddAchievement(ctx, trackerdto.AchievementInput{
		Title:       title,
		Description: description,
		Pillar:      pillar,
		Rarity:      rarity,
	})
}

func (h CLIHandler) ListAchievements(ctx context.Context) ([]trackerdto.AchievementView, error) {
	return h.usecase.ListAchievements(ctx)
}

func (h CLIHandler) AddInsight(ctx context.Context, input trackerdto.InsightInput) (trackerdto.InsightView, bool, error) {
	return h.usecase.AddAIInsight(ctx, input)
}

func (h CLIHandler) ListInsights(ctx context.Context, unreadOnly bool) ([]trackerdto.InsightView, error) {
	return h.usecase.ListInsights(ctx, unreadOnly)
}

func (h CLIHandler) MarkInsightRead(ctx context.Context, id string) (bool, error) {
	return h.usecase.MarkInsightRead(ctx, id)
}

func (h CLIHandler) Streak(ctx context.Context) (trackerdto.StreakOutput, error) {
	return h.usecase.CalculateStreak(ctx)
}

func (h CLIHandler) Sync(ctx context.Context) (time.Time, error) {
	return h.usecase.SyncData(ctx)
}

func (h CLIHandler) Clear(ctx context.Context) error {
	return h.usecase.ClearAllData(ctx)
}

func (h CLIHandler) Export(ctx context.Context) (trackerdto.ExportOutput, error) {
	return h.usecase.ExportJournal(ctx)
}

func ParseScores(assignments []string) (map[string]int, error) {
	scores := map[string]int{}
	for _, arg := range assignments {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			name, raw, ok := strings.Cut(part, "=")
			if !ok {
				return nil, fmt.Errorf("expected pillar=score, got %q", part)
			}
			value, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return nil, fmt.Errorf("score for %s: %w", name, err)
			}
			scores[strings.ToLower(strings.TrimSpace(name))] = value
		}
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("no scores given")
	}
	return scores, nil
}
