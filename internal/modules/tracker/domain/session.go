package domain

import (
	"strings"
	"time"
)

const (
	TypePractice   = "practice"
	TypeCheckin    = "checkin"
	TypeMeditation = "meditation"
	TypeWorkout    = "workout"
	TypeReflection = "reflection"
	TypeMeal       = "meal"
)

// SessionDraft is caller input before normalisation.
type SessionDraft struct {
	Pillar          Pillar
	Type            string
	DurationMinutes int
	QualityScore    int
	Mood            string
	Notes           string
}

// NewSession builds a record from a draft. Duration is floored at zero,
// quality is clamped to [0,100] and an empty type becomes "practice".
// ScoreDelta is filled in by the reducer when the record is applied.
func NewSession(id string, draft SessionDraft, at time.Time) SessionRecord {
	typ := strings.ToLower(strings.TrimSpace(draft.Type))
	if typ == "" {
		typ = TypePractice
	}
	return SessionRecord{
		ID:              id,
		Pillar:          draft.Pillar,
		Type:            typ,
		DurationMinutes: ClampDuration(draft.DurationMinutes),
		Timestamp:       at,
		QualityScore:    ClampQuality(draft.QualityScore),
		Mood:            strings.TrimSpace(draft.Mood),
		Notes:           strings.TrimSpace(draft.Notes),
	}
}
