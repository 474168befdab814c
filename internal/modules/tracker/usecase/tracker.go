package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"

	"fivepillars/internal/modules/tracker/domain"
	"fivepillars/internal/modules/tracker/dto"
	trackerin "fivepillars/internal/modules/tracker/port/in"
	trackerout "fivepillars/internal/modules/tracker/port/out"
	"fivepillars/internal/modules/tracker/service"
	"fivepillars/internal/platform/clock"
	apperrors "fivepillars/internal/platform/errors"
	"fivepillars/internal/platform/id"
	"fivepillars/internal/platform/logger"
)

const module = "tracker"

type Interactor struct {
	store     *service.Store
	persister *service.Persister
	recorder  *service.Recorder
	journal   trackerout.JournalStore
	clock     clock.Clock
	ids       id.Generator
	log       logger.Logger
	validate  *validator.Validate

	initialized atomic.Bool
}

func NewInteractor(
	store *service.Store,
	persister *service.Persister,
	recorder *service.Recorder,
	journal trackerout.JournalStore,
	clock clock.Clock,
	ids id.Generator,
	log logger.Logger,
) trackerin.Usecase {
	return &Interactor{
		store:     store,
		persister: persister,
		recorder:  recorder,
		journal:   journal,
		clock:     clock,
		ids:       ids,
		log:       log,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Initialize loads every slice independently; a slice that is missing or
// malformed falls back to its default without affecting the others. A slice
// whose read failed for another reason is not written back during Initialize.
// Calling it again reloads from storage.
func (i *Interactor) Initialize(ctx context.Context) (dto.Overview, error) {
	i.store.Dispatch(domain.SetLoading{Loading: true})
	if err := i.persister.Flush(ctx); err != nil {
		return dto.Overview{}, fmt.Errorf("flush before load: %w", err)
	}
	now := i.clock.Now()

	init := domain.Initialize{}
	loaded := map[string]bool{}
	held := map[string]bool{}
	load := func(key string, dest any) bool {
		err := i.persister.Read(ctx, key, dest)
		switch {
		case err == nil:
			loaded[key] = true
		case !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrInvalidInput):
			held[key] = true
		}
		return err == nil
	}

	var profile domain.UserProfile
	profileLoaded := load(domain.KeyUserProfile, &profile) && profile.ID != ""
	if profileLoaded {
		init.Profile = &profile
	} else {
		delete(loaded, domain.KeyUserProfile)
		init.Profile = domain.DefaultProfile(i.ids.New(), now)
	}

	var scores domain.PillarScores
	if load(domain.KeyPillarScores, &scores) {
		init.Scores = &scores
	}

	var sessions []domain.SessionRecord
	if load(domain.KeySessions, &sessions) {
		init.Sessions = validSessions(sessions)
	}

	var achievements []domain.Achievement
	if load(domain.KeyAchievements, &achievements) {
		init.Achievements = achievements
	}

	var insights []domain.AIInsight
	if load(domain.KeyAIInsights, &insights) {
		init.Insights = insights
	}

	switch {
	case !profileLoaded:
		// A fresh profile would otherwise restart counters the stored
		// sessions already account for.
		init.Profile.SessionsByPillar = countByPillar(init.Sessions)
		init.Profile.TotalSessions = len(init.Sessions)
		init.Profile.Level = domain.LevelFor(init.Profile.TotalSessions)
	case init.Profile.SessionsByPillar == nil:
		init.Profile.SessionsByPillar = countByPillar(init.Sessions)
	}

	if len(held) > 0 {
		i.log.Warn(module, "unreadable slices left untouched", map[string]any{"keys": held})
	}
	i.store.DispatchHolding(init, held)
	state, unlocked := i.recorder.RecalculateStreak()
	i.initialized.Store(true)

	i.log.Info(module, "initialized", map[string]any{
		"loaded":   loaded,
		"sessions": len(state.Sessions),
		"streak":   state.Streak.Current,
		"unlocked": len(unlocked),
	})
	return toOverview(state, now), nil
}

func (i *Interactor) AddSession(_ context.Context, input dto.SessionInput) (dto.AddSessionOutput, error) {
	if err := i.ready(); err != nil {
		return dto.AddSessionOutput{}, err
	}
	pillar, _ := domain.ParsePillar(input.Pillar)
	result, ok := i.recorder.Record(domain.SessionDraft{
		Pillar:          pillar,
		Type:            input.Type,
		DurationMinutes: input.DurationMinutes,
		QualityScore:    input.QualityScore,
		Mood:            input.Mood,
		Notes:           input.Notes,
	})
	if !ok {
		return dto.AddSessionOutput{Recorded: false}, nil
	}
	return dto.AddSessionOutput{
		Recorded:    true,
		Session:     toSessionView(result.Session),
		PillarScore: result.State.Scores.Get(result.Session.Pillar),
		Streak:      result.State.Streak.Current,
		Unlocked:    toAchievementViews(result.Unlocked),
	}, nil
}

// UpdateUserProfile ignores (and logs) a patch that fails validation.
func (i *Interactor) UpdateUserProfile(_ context.Context, input dto.ProfileInput) (dto.ProfileOutput, error) {
	if err := i.ready(); err != nil {
		return dto.ProfileOutput{}, err
	}
	patch := domain.ProfilePatch{
		DisplayName:          trimmed(input.DisplayName),
		Difficulty:           trimmed(input.Difficulty),
		ReminderTime:         trimmed(input.ReminderTime),
		NotificationsEnabled: input.NotificationsEnabled,
	}
	if err := i.validate.Struct(patch); err != nil {
		i.log.Warn(module, "profile patch ignored", map[string]any{"error": err.Error()})
		return dto.ProfileOutput{Applied: false, Profile: toProfileView(i.store.State().Profile)}, nil
	}
	state, unlocked := i.recorder.Apply(domain.UpdateProfile{Patch: patch})
	return dto.ProfileOutput{
		Applied:  !patch.Empty(),
		Profile:  toProfileView(state.Profile),
		Unlocked: toAchievementViews(unlocked),
	}, nil
}

// UpdatePillarScores sets absolute values; unknown pillar names are skipped.
func (i *Interactor) UpdatePillarScores(_ context.Context, scores map[string]int) (dto.ScoresOutput, error) {
	if err := i.ready(); err != nil {
		return dto.ScoresOutput{}, err
	}
	parsed := make(map[domain.Pillar]int, len(scores))
	for raw, value := range scores {
		pillar, ok := domain.ParsePillar(raw)
		if !ok {
			i.log.Warn(module, "unknown pillar ignored", map[string]any{"pillar": raw})
			continue
		}
		parsed[pillar] = value
	}
	if len(parsed) == 0 {
		return dto.ScoresOutput{Applied: false, Pillars: toPillarViews(i.store.State())}, nil
	}
	state, unlocked := i.recorder.Apply(domain.UpdatePillarScores{Scores: parsed})
	return dto.ScoresOutput{
		Applied:  true,
		Pillars:  toPillarViews(state),
		Unlocked: toAchievementViews(unlocked),
	}, nil
}

// AddAchievement reports false when the title is taken or the input is invalid.
func (i *Interactor) AddAchievement(_ context.Context, input dto.AchievementInput) (dto.AchievementView, bool, error) {
	if err := i.ready(); err != nil {
		return dto.AchievementView{}, false, err
	}
	input.Title = strings.TrimSpace(input.Title)
	if err := i.validate.Struct(input); err != nil {
		i.log.Warn(module, "achievement ignored", map[string]any{"error": err.Error()})
		return dto.AchievementView{}, false, nil
	}
	if i.store.State().HasAchievement(input.Title) {
		return dto.AchievementView{}, false, nil
	}
	achievement := domain.Achievement{
		ID:          domain.AchievementID(input.Title),
		Title:       input.Title,
		Description: input.Description,
		Pillar:      input.Pillar,
		Rarity:      domain.Rarity(input.Rarity),
		UnlockedAt:  i.clock.Now(),
		IsNew:       true,
	}
	state := i.store.Dispatch(domain.AddAchievement{Achievement: achievement})
	return toAchievementView(achievement), state.HasAchievement(input.Title), nil
}

// AddAIInsight stores an insight produced by an external collaborator.
func (i *Interactor) AddAIInsight(_ context.Context, input dto.InsightInput) (dto.InsightView, bool, error) {
	if err := i.ready(); err != nil {
		return dto.InsightView{}, false, err
	}
	if err := i.validate.Struct(input); err != nil {
		i.log.Warn(module, "insight ignored", map[string]any{"title": input.Title, "error": err.Error()})
		return dto.InsightView{}, false, nil
	}
	insight := domain.AIInsight{
		ID:          input.ID,
		Title:       input.Title,
		Description: input.Description,
		Pillar:      input.Pillar,
		Confidence:  input.Confidence,
		Priority:    input.Priority,
		CreatedAt:   i.clock.Now(),
	}
	if insight.ID == "" {
		insight.ID = i.ids.New()
	}
	i.store.Dispatch(domain.AddInsight{Insight: insight})
	return toInsightView(insight), true, nil
}

// MarkInsightRead reports whether an insight with id exists.
func (i *Interactor) MarkInsightRead(_ context.Context, id string) (bool, error) {
	if err := i.ready(); err != nil {
		return false, err
	}
	state := i.store.Dispatch(domain.MarkInsightRead{ID: id})
	for _, insight := range state.Insights {
		if insight.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (i *Interactor) CalculateStreak(_ context.Context) (dto.StreakOutput, error) {
	if err := i.ready(); err != nil {
		return dto.StreakOutput{}, err
	}
	state, unlocked := i.recorder.RecalculateStreak()
	return dto.StreakOutput{
		Current:  state.Streak.Current,
		Longest:  state.Streak.Longest,
		Unlocked: toAchievementViews(unlocked),
	}, nil
}

// SyncData rewrites every slice and waits for the writes to land.
func (i *Interactor) SyncData(ctx context.Context) (time.Time, error) {
	if err := i.ready(); err != nil {
		return time.Time{}, err
	}
	i.store.PersistAll()
	if err := i.persister.Flush(ctx); err != nil {
		return time.Time{}, fmt.Errorf("flush: %w", err)
	}
	now := i.clock.Now()
	i.store.Dispatch(domain.SyncComplete{At: now})
	return now, nil
}

// ClearAllData deletes every stored slice and resets memory to a fresh
// profile. The fresh state is not written until the next mutation.
func (i *Interactor) ClearAllData(ctx context.Context) error {
	if err := i.ready(); err != nil {
		return err
	}
	if err := i.persister.Flush(ctx); err != nil {
		return fmt.Errorf("flush before clear: %w", err)
	}
	for _, key := range domain.StorageKeys {
		i.persister.Delete(key)
	}
	now := i.clock.Now()
	goals := i.store.State().Goals
	fresh := domain.Reduce(domain.DefaultState(goals), domain.Initialize{Profile: domain.DefaultProfile(i.ids.New(), now)})
	i.store.Reset(fresh)
	i.log.Info(module, "all data cleared", nil)
	return nil
}

func (i *Interactor) Overview(_ context.Context) (dto.Overview, error) {
	if err := i.ready(); err != nil {
		return dto.Overview{}, err
	}
	return toOverview(i.store.State(), i.clock.Now()), nil
}

// ListSessions returns sessions newest first.
func (i *Interactor) ListSessions(_ context.Context, filter dto.SessionFilter) ([]dto.SessionView, error) {
	if err := i.ready(); err != nil {
		return nil, err
	}
	var pillar domain.Pillar
	if filter.Pillar != "" {
		parsed, ok := domain.ParsePillar(filter.Pillar)
		if !ok {
			return nil, fmt.Errorf("%w: unknown pillar %q", apperrors.ErrInvalidInput, filter.Pillar)
		}
		pillar = parsed
	}
	out := []dto.SessionView{}
	for _, s := range newestFirst(i.store.State().Sessions) {
		if pillar != "" && s.Pillar != pillar {
			continue
		}
		out = append(out, toSessionView(s))
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (i *Interactor) ListAchievements(_ context.Context) ([]dto.AchievementView, error) {
	if err := i.ready(); err != nil {
		return nil, err
	}
	return toAchievementViews(i.store.State().Achievements), nil
}

func (i *Interactor) ListInsights(_ context.Context, unreadOnly bool) ([]dto.InsightView, error) {
	if err := i.ready(); err != nil {
		return nil, err
	}
	insights := i.store.State().Insights
	if unreadOnly {
		insights = domain.UnreadInsights(insights)
	}
	out := make([]dto.InsightView, 0, len(insights))
	for _, insight := range insights {
		out = append(out, toInsightView(insight))
	}
	return out, nil
}

func (i *Interactor) Profile(_ context.Context) (dto.ProfileView, error) {
	if err := i.ready(); err != nil {
		return dto.ProfileView{}, err
	}
	return toProfileView(i.store.State().Profile), nil
}

// ExportJournal writes one note per stored session.
func (i *Interactor) ExportJournal(ctx context.Context) (dto.ExportOutput, error) {
	if err := i.ready(); err != nil {
		return dto.ExportOutput{}, err
	}
	if i.journal == nil {
		return dto.ExportOutput{}, fmt.Errorf("journal export is not configured")
	}
	out := dto.ExportOutput{Dir: i.journal.Root(), Paths: []string{}}
	for _, s := range newestFirst(i.store.State().Sessions) {
		path, err := i.journal.WriteSession(ctx, s)
		if err != nil {
			return out, fmt.Errorf("export session %s: %w", s.ID, err)
		}
		out.Paths = append(out.Paths, path)
		out.Written++
	}
	i.log.Info(module, "journal exported", map[string]any{"notes": out.Written, "dir": out.Dir})
	return out, nil
}

func (i *Interactor) ready() error {
	if !i.initialized.Load() {
		return apperrors.ErrNotInitialized
	}
	return nil
}

func validSessions(sessions []domain.SessionRecord) []domain.SessionRecord {
	out := make([]domain.SessionRecord, 0, len(sessions))
	for _, s := range sessions {
		if s.Pillar.Valid() {
			out = append(out, s)
		}
	}
	return out
}

func countByPillar(sessions []domain.SessionRecord) map[domain.Pillar]int {
	counts := map[domain.Pillar]int{}
	for _, s := range sessions {
		counts[s.Pillar]++
	}
	return counts
}

// trimmed treats blank input as "leave unchanged".
func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}
