package out

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fivepillars/internal/modules/tracker/domain"
	trackerout "fivepillars/internal/modules/tracker/port/out"
	"fivepillars/internal/platform/markdown"
	"fivepillars/internal/platform/slug"
)

const journalSchemaVersion = 1

var sessionBlock = markdown.NewBlock("fivepillars:session")

type journalMeta struct {
	SchemaVersion   int    `yaml:"schema_version"`
	ID              string `yaml:"id"`
	Pillar          string `yaml:"pillar"`
	Type            string `yaml:"type"`
	Timestamp       string `yaml:"timestamp"`
	DurationMinutes int    `yaml:"duration_minutes"`
	QualityScore    int    `yaml:"quality_score"`
	ScoreDelta      int    `yaml:"score_delta"`
	Mood            string `yaml:"mood,omitempty"`
}

// JournalStore writes one markdown note per session under
// <root>/YYYY/MM/DD. Re-exporting refreshes the header and the generated
// block while keeping anything the user wrote around it.
type JournalStore struct {
	root string
}

func NewJournalStore(root string) trackerout.JournalStore {
	return &JournalStore{root: root}
}

func (s *JournalStore) Root() string {
	return s.root
}

func (s *JournalStore) WriteSession(_ context.Context, session domain.SessionRecord) (string, error) {
	at := session.Timestamp
	dir := filepath.Join(s.root, at.Format("2006"), at.Format("01"), at.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.md", at.Format("150405"), slug.Make(string(session.Pillar)+" "+session.Type+" "+shortID(session.ID), "session"))
	path := filepath.Join(dir, name)

	body := ""
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		note, parseErr := markdown.Parse(string(existing))
		if parseErr != nil {
			return "", fmt.Errorf("parse %s: %w", path, parseErr)
		}
		body = note.Body
	case errors.Is(err, fs.ErrNotExist):
		body = fmt.Sprintf("# %s %s\n\n", session.Pillar.Title(), session.Type)
	default:
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	meta := journalMeta{
		SchemaVersion:   journalSchemaVersion,
		ID:              session.ID,
		Pillar:          string(session.Pillar),
		Type:            session.Type,
		Timestamp:       at.Format(time.RFC3339),
		DurationMinutes: session.DurationMinutes,
		QualityScore:    session.QualityScore,
		ScoreDelta:      session.ScoreDelta,
		Mood:            session.Mood,
	}
	rendered, err := markdown.Render(meta, sessionBlock.Replace(body, summary(session)))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write journal note: %w", err)
	}
	return path, nil
}

func summary(session domain.SessionRecord) string {
	lines := []string{
		fmt.Sprintf("- Duration: %d minutes", session.DurationMinutes),
		fmt.Sprintf("- Quality: %d/100", session.QualityScore),
		fmt.Sprintf("- %s score: +%d", session.Pillar.Title(), session.ScoreDelta),
	}
	if session.Mood != "" {
		lines = append(lines, "- Mood: "+session.Mood)
	}
	if session.Notes != "" {
		lines = append(lines, "", session.Notes)
	}
	return strings.Join(lines, "\n")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}
