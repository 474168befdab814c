package out

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fivepillars/internal/modules/tracker/domain"
)

func TestJournalStoreWritesDatedNote(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	store := NewJournalStore(root)
	session := domain.SessionRecord{
		ID:              "0192f7c2-aaaa-bbbb-cccc-1234deadbeef",
		Pillar:          domain.Mind,
		Type:            domain.TypeMeditation,
		DurationMinutes: 20,
		QualityScore:    90,
		ScoreDelta:      9,
		Mood:            "calm",
		Timestamp:       time.Date(2026, 3, 11, 7, 45, 0, 0, time.UTC),
	}

	path, err := store.WriteSession(context.Background(), session)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	wantDir := filepath.Join(root, "2026", "03", "11")
	if filepath.Dir(path) != wantDir {
		t.Fatalf("unexpected dir %s", filepath.Dir(path))
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	content := string(raw)
	for _, want := range []string{"id: 0192f7c2-aaaa-bbbb-cccc-1234deadbeef", "pillar: mind", "score_delta: 9", "- Mood: calm", "# Mind meditation"} {
		if !strings.Contains(content, want) {
			t.Fatalf("note missing %q:\n%s", want, content)
		}
	}
}

func TestJournalStoreKeepsUserTextOnReexport(t *testing.T) {
	t.Parallel()
	store := NewJournalStore(t.TempDir())
	session := domain.SessionRecord{ID: "s1", Pillar: domain.Body, Type: domain.TypeWorkout, DurationMinutes: 30, Timestamp: time.Date(2026, 3, 11, 18, 0, 0, 0, time.UTC)}

	path, err := store.WriteSession(context.Background(), session)
	if err != nil {
		t.Fatalf("first write: %v", err)
	}
	raw, _ := os.ReadFile(path)
	edited := strings.Replace(string(raw), "# Body workout", "# Body workout\n\nLegs were sore.", 1)
	if err := os.WriteFile(path, []byte(edited), 0o644); err != nil {
		t.Fatalf("edit: %v", err)
	}

	session.DurationMinutes = 35
	if _, err := store.WriteSession(context.Background(), session); err != nil {
		t.Fatalf("second write: %v", err)
	}
	raw, _ = os.ReadFile(path)
	content := string(raw)
	if !strings.Contains(content, "Legs were sore.") {
		t.Fatalf("user text lost:\n%s", content)
	}
	if !strings.Contains(content, "- Duration: 35 minutes") || strings.Contains(content, "- Duration: 30 minutes") {
		t.Fatalf("generated block not refreshed:\n%s", content)
	}
	if strings.Count(content, "fivepillars:session:start") != 1 {
		t.Fatalf("block duplicated:\n%s", content)
	}
}
