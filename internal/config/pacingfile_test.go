package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPacingFileEmptyPathUsesDefaults(t *testing.T) {
	connectors, patterns, words, err := LoadPacingFile("")
	if err != nil {
		t.Fatalf("LoadPacingFile() error = %v", err)
	}
	if connectors.QuestionStart != "А" {
		t.Fatalf("QuestionStart = %q, want default", connectors.QuestionStart)
	}
	if len(patterns) != 0 {
		t.Fatalf("patterns = %d, want none", len(patterns))
	}
	if len(words.Question) == 0 {
		t.Fatalf("default question words missing")
	}
}

func TestLoadPacingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pacing.toml")
	data := `
[connectors]
question_start = "Слушай,"
and = "И еще"

[[patterns]]
pattern1 = "привет"
pattern2 = "дела"
connector = "и"

[[patterns]]
pattern1 = "(["
pattern2 = "дела"
connector = "сломан"

[words]
question = ["как", "что"]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	connectors, patterns, words, err := LoadPacingFile(path)
	if err != nil {
		t.Fatalf("LoadPacingFile() error = %v", err)
	}
	if connectors.QuestionStart != "Слушай," {
		t.Fatalf("QuestionStart = %q", connectors.QuestionStart)
	}
	if connectors.And != "И еще" {
		t.Fatalf("And = %q", connectors.And)
	}
	// Untouched fields keep their defaults.
	if connectors.LastMessage != "Кроме того" {
		t.Fatalf("LastMessage = %q, want default", connectors.LastMessage)
	}

	// The malformed regex entry is skipped, not fatal.
	if len(patterns) != 1 {
		t.Fatalf("patterns = %d, want 1", len(patterns))
	}
	if patterns[0].Connector != "и" {
		t.Fatalf("Connector = %q", patterns[0].Connector)
	}
	if !patterns[0].First.MatchString("привет всем") {
		t.Fatalf("pattern1 does not match")
	}

	if len(words.Question) != 2 {
		t.Fatalf("question words = %v", words.Question)
	}
	if len(words.Emotion) == 0 {
		t.Fatalf("emotion words lost their defaults")
	}
}

func TestLoadPacingFileMissing(t *testing.T) {
	if _, _, _, err := LoadPacingFile(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("err = nil, want read failure")
	}
}
