package in

import (
	"context"
	"time"

	"fivepillars/internal/modules/tracker/dto"
)

// Usecase is the tracker's exposed API. Every method fails with
// apperrors.ErrNotInitialized until Initialize has run. Storage failures are
// logged by the implementation and never returned.
type Usecase interface {
	Initialize(ctx context.Context) (dto.Overview, error)
	AddSession(ctx context.Context, input dto.SessionInput) (dto.AddSessionOutput, error)
	UpdateUserProfile(ctx context.Context, input dto.ProfileInput) (dto.ProfileOutput, error)
	UpdatePillarScores(ctx context.Context, scores map[string]int) (dto.ScoresOutput, error)
	AddAchievement(ctx context.Context, input dto.AchievementInput) (dto.AchievementView, bool, error)
	AddAIInsight(ctx context.Context, input dto.InsightInput) (dto.InsightView, bool, error)
	MarkInsightRead(ctx context.Context, id string) (bool, error)
	CalculateStreak(ctx context.Context) (dto.StreakOutput, error)
	SyncData(ctx context.Context) (time.Time, error)
	ClearAllData(ctx context.Context) error
	Overview(ctx context.Context) (dto.Overview, error)
	ListSessions(ctx context.Context, filter dto.SessionFilter) ([]dto.SessionView, error)
	ListAchievements(ctx context.Context) ([]dto.AchievementView, error)
	ListInsights(ctx context.Context, unreadOnly bool) ([]dto.InsightView, error)
	Profile(ctx context.Context) (dto.ProfileView, error)
	ExportJournal(ctx context.Context) (dto.ExportOutput, error)
}
