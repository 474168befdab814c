package domain

import "time"

type ActionKind string

const (
	KindInitialize         ActionKind = "INITIALIZE"
	KindUpdateProfile      ActionKind = "UPDATE_PROFILE"
	KindAddSession         ActionKind = "ADD_SESSION"
	KindUpdatePillarScores ActionKind = "UPDATE_PILLAR_SCORES"
	KindAddAchievement     ActionKind = "ADD_ACHIEVEMENT"
	KindAddInsight         ActionKind = "ADD_INSIGHT"
	KindMarkInsightRead    ActionKind = "MARK_INSIGHT_READ"
	KindUpdateStreak       ActionKind = "UPDATE_STREAK"
	KindSetLoading         ActionKind = "SET_LOADING"
	KindSyncComplete       ActionKind = "SYNC_COMPLETE"
)

// Action is a state transition request. Timestamps travel in the payload so
// Reduce never reads a clock.
type Action interface {
	Kind() ActionKind
}

// Initialize replaces every persisted branch with loaded or default data.
type Initialize struct {
	Profile      *UserProfile
	Scores       *PillarScores
	Sessions     []SessionRecord
	Achievements []Achievement
	Insights     []AIInsight
}

// ProfilePatch carries only the fields being changed.
type ProfilePatch struct {
	DisplayName          *string `validate:"omitempty,min=1,max=64"`
	Difficulty           *string `validate:"omitempty,oneof=beginner intermediate advanced"`
	ReminderTime         *string `validate:"omitempty,datetime=15:04"`
	NotificationsEnabled *bool
}

func (p ProfilePatch) Empty() bool {
	return p.DisplayName == nil && p.Difficulty == nil && p.ReminderTime == nil && p.NotificationsEnabled == nil
}

type UpdateProfile struct {
	Patch ProfilePatch
}

type AddSession struct {
	Session SessionRecord
}

// UpdatePillarScores sets absolute values for the listed pillars.
type UpdatePillarScores struct {
	Scores map[Pillar]int
}

type AddAchievement struct {
	Achievement Achievement
}

type AddInsight struct {
	Insight AIInsight
}

type MarkInsightRead struct {
	ID string
}

type UpdateStreak struct {
	Current int
	AsOf    time.Time
}

type SetLoading struct {
	Loading bool
}

type SyncComplete struct {
	At time.Time
}

func (Initialize) Kind() ActionKind         { return KindInitialize }
func (UpdateProfile) Kind() ActionKind      { return KindUpdateProfile }
func (AddSession) Kind() ActionKind         { return KindAddSession }
func (UpdatePillarScores) Kind() ActionKind { return KindUpdatePillarScores }
func (AddAchievement) Kind() ActionKind     { return KindAddAchievement }
func (AddInsight) Kind() ActionKind         { return KindAddInsight }
func (MarkInsightRead) Kind() ActionKind    { return KindMarkInsightRead }
func (UpdateStreak) Kind() ActionKind       { return KindUpdateStreak }
func (SetLoading) Kind() ActionKind         { return KindSetLoading }
func (SyncComplete) Kind() ActionKind       { return KindSyncComplete }
