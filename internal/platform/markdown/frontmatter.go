package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---\n"

// Note is a markdown document with a YAML header.
type Note struct {
	Meta *yaml.Node
	Body string
}

// Parse splits a note into its header node and body. A document without a
// header yields a nil Meta and the whole content as Body.
func Parse(content string) (Note, error) {
	if !strings.HasPrefix(content, fence) {
		return Note{Body: content}, nil
	}
	rest := strings.TrimPrefix(content, fence)
	idx := strings.Index(rest, "\n"+fence)
	if idx < 0 {
		return Note{}, fmt.Errorf("frontmatter: missing closing fence")
	}
	var meta yaml.Node
	if err := yaml.Unmarshal([]byte(rest[:idx]), &meta); err != nil {
		return Note{}, fmt.Errorf("frontmatter: %w", err)
	}
	return Note{Meta: &meta, Body: rest[idx+len("\n"+fence):]}, nil
}

// DecodeMeta decodes the header into dest; a note without a header leaves
// dest untouched.
func (n Note) DecodeMeta(dest any) error {
	if n.Meta == nil {
		return nil
	}
	if err := n.Meta.Decode(dest); err != nil {
		return fmt.Errorf("decode frontmatter: %w", err)
	}
	return nil
}

// Render writes meta as the header. Struct field order is kept, so callers
// control key order through their types.
func Render(meta any, body string) (string, error) {
	buf := bytes.Buffer{}
	buf.WriteString(fence)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(meta); err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	buf.WriteString(fence)
	if !strings.HasPrefix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString(body)
	return buf.String(), nil
}
