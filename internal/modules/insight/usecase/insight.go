package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fivepillars/internal/modules/insight/domain"
	"fivepillars/internal/modules/insight/dto"
	insightin "fivepillars/internal/modules/insight/port/in"
	"fivepillars/internal/modules/insight/service"
	trackerdto "fivepillars/internal/modules/tracker/dto"
	trackerin "fivepillars/internal/modules/tracker/port/in"
	"fivepillars/internal/platform/logger"
	"fivepillars/internal/platform/slug"
)

const (
	module      = "insight"
	maxIDLength = 64
)

type Interactor struct {
	svc     *service.ProviderService
	tracker trackerin.Usecase
	log     logger.Logger
}

func NewInteractor(svc *service.ProviderService, tracker trackerin.Usecase, log logger.Logger) insightin.Usecase {
	return &Interactor{svc: svc, tracker: tracker, log: log}
}

func (i *Interactor) List(ctx context.Context) ([]dto.ProviderInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

// Run sends the current overview to one provider and stores what it returns.
// Suggestions without an ID get a stable one derived from provider and title,
// so running a provider twice replaces its insights instead of piling up.
func (i *Interactor) Run(ctx context.Context, name string) (dto.RunOutput, error) {
	overview, err := i.tracker.Overview(ctx)
	if err != nil {
		return dto.RunOutput{}, err
	}
	suggestions, err := i.svc.Generate(ctx, name, toSnapshot(overview))
	if err != nil {
		return dto.RunOutput{}, err
	}
	out := dto.RunOutput{Provider: name, Received: len(suggestions), IDs: []string{}}
	for _, s := range suggestions {
		input := trackerdto.InsightInput{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			Pillar:      s.Pillar,
			Confidence:  s.Confidence,
			Priority:    s.Priority,
		}
		if input.ID == "" {
			input.ID = insightID(name, s.Title)
		}
		view, stored, err := i.tracker.AddAIInsight(ctx, input)
		if err != nil {
			return out, err
		}
		if !stored {
			out.Rejected++
			continue
		}
		out.Stored++
		out.IDs = append(out.IDs, view.ID)
	}
	return out, nil
}

// RunAll runs every enabled provider. A failing provider does not stop the
// others; failures are joined into the returned error.
func (i *Interactor) RunAll(ctx context.Context) ([]dto.RunOutput, error) {
	names, err := i.svc.Enabled(ctx)
	if err != nil {
		return nil, err
	}
	outputs := make([]dto.RunOutput, 0, len(names))
	var errs []error
	for _, name := range names {
		out, err := i.Run(ctx, name)
		if err != nil {
			i.log.Warn(module, "provider run failed", map[string]any{"provider": name, "error": err.Error()})
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		outputs = append(outputs, out)
	}
	return outputs, errors.Join(errs...)
}

func insightID(provider, title string) string {
	id := slug.Make(provider+" "+title, provider)
	if len(id) > maxIDLength {
		id = strings.TrimRight(id[:maxIDLength], "-")
	}
	return id
}

func toSnapshot(o trackerdto.Overview) domain.Snapshot {
	pillars := make([]domain.PillarStatus, 0, len(o.Pillars))
	for _, p := range o.Pillars {
		pillars = append(pillars, domain.PillarStatus{Pillar: p.Pillar, Score: p.Score, Trend: p.Trend, Sessions: p.Sessions})
	}
	return domain.Snapshot{
		Pillars:          pillars,
		OverallScore:     o.OverallScore,
		CurrentStreak:    o.CurrentStreak,
		LongestStreak:    o.LongestStreak,
		TodaySessions:    o.TodaySessions,
		TodayMinutes:     o.TodayMinutes,
		DailySessionGoal: o.DailySessionGoal,
		DailyMinuteGoal:  o.DailyMinuteGoal,
		WeekSessions:     o.WeekSessions,
		WeeklyGoal:       o.WeeklyGoal,
		TotalSessions:    o.Profile.TotalSessions,
		UnreadInsights:   o.UnreadInsights,
		GeneratedAt:      o.GeneratedAt,
	}
}
