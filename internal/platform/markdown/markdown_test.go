package markdown

import (
	"strings"
	"testing"
)

type testMeta struct {
	ID     string `yaml:"id"`
	Pillar string `yaml:"pillar"`
	Minute int    `yaml:"minutes"`
}

func TestRenderKeepsFieldOrderAndParsesBack(t *testing.T) {
	t.Parallel()
	out, err := Render(testMeta{ID: "s1", Pillar: "mind", Minute: 20}, "# Mind\n")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out, "---\nid: s1\npillar: mind\nminutes: 20\n---\n") {
		t.Fatalf("unexpected header order:\n%s", out)
	}

	note, err := Parse(out)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var meta testMeta
	if err := note.DecodeMeta(&meta); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if meta.Pillar != "mind" || meta.Minute != 20 {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	if !strings.Contains(note.Body, "# Mind") {
		t.Fatalf("body lost: %q", note.Body)
	}
}

func TestParseWithoutHeader(t *testing.T) {
	t.Parallel()
	note, err := Parse("plain text\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if note.Meta != nil || note.Body != "plain text\n" {
		t.Fatalf("unexpected note: %+v", note)
	}
}

func TestParseRejectsUnclosedHeader(t *testing.T) {
	t.Parallel()
	if _, err := Parse("---\nid: x\n"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestBlockReplacePreservesUserText(t *testing.T) {
	t.Parallel()
	b := NewBlock("session")
	body := b.Replace("", "first")
	body = "my own notes\n\n" + body
	body = b.Replace(body, "second")

	if !strings.HasPrefix(body, "my own notes") {
		t.Fatalf("user text lost: %q", body)
	}
	got, ok := b.Contents(body)
	if !ok || got != "second" {
		t.Fatalf("unexpected contents %q (ok=%v)", got, ok)
	}
	if strings.Count(body, b.Start) != 1 {
		t.Fatalf("block duplicated: %q", body)
	}
}
