package config

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/dkhromov/patter/internal/coalesce"
)

// PacingFile is the optional TOML file carrying connector strings, explicit
// combination patterns, and the lead-word tables. Missing sections keep the
// compiled-in defaults.
type PacingFile struct {
	Connectors connectorsSection `toml:"connectors"`
	Patterns   []patternSection  `toml:"patterns"`
	Words      wordsSection      `toml:"words"`
}

type connectorsSection struct {
	QuestionStart string `toml:"question_start"`
	EmotionStart  string `toml:"emotion_start"`
	ShortMessage  string `toml:"short_message"`
	LastMessage   string `toml:"last_message"`
	Default       string `toml:"default"`
	And           string `toml:"and"`
	AlsoTopic     string `toml:"also_topic"`
}

type patternSection struct {
	Pattern1  string `toml:"pattern1"`
	Pattern2  string `toml:"pattern2"`
	Connector string `toml:"connector"`
}

type wordsSection struct {
	Question      []string `toml:"question"`
	Emotion       []string `toml:"emotion"`
	ShortResponse []string `toml:"short_response"`
}

// LoadPacingFile reads the TOML pacing tables. An empty path returns the
// defaults. Individual malformed pattern regexes are skipped with a log line
// rather than failing the whole load.
func LoadPacingFile(path string) (coalesce.Connectors, []coalesce.PatternRule, coalesce.WordLists, error) {
	connectors := coalesce.DefaultConnectors()
	words := coalesce.DefaultWordLists()

	if strings.TrimSpace(path) == "" {
		return connectors, nil, words, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return connectors, nil, words, fmt.Errorf("read pacing config: %w", err)
	}

	var file PacingFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return connectors, nil, words, fmt.Errorf("parse pacing config: %w", err)
	}

	applyIfSet(&connectors.QuestionStart, file.Connectors.QuestionStart)
	applyIfSet(&connectors.EmotionStart, file.Connectors.EmotionStart)
	applyIfSet(&connectors.ShortMessage, file.Connectors.ShortMessage)
	applyIfSet(&connectors.LastMessage, file.Connectors.LastMessage)
	applyIfSet(&connectors.Default, file.Connectors.Default)
	applyIfSet(&connectors.And, file.Connectors.And)
	applyIfSet(&connectors.AlsoTopic, file.Connectors.AlsoTopic)

	if len(file.Words.Question) > 0 {
		words.Question = file.Words.Question
	}
	if len(file.Words.Emotion) > 0 {
		words.Emotion = file.Words.Emotion
	}
	if len(file.Words.ShortResponse) > 0 {
		words.ShortResponse = file.Words.ShortResponse
	}

	var rules []coalesce.PatternRule
	for _, p := range file.Patterns {
		if p.Pattern1 == "" || p.Pattern2 == "" {
			continue
		}
		first, err := regexp.Compile(p.Pattern1)
		if err != nil {
			log.Printf("config: skipping pattern %q: %v", p.Pattern1, err)
			continue
		}
		second, err := regexp.Compile(p.Pattern2)
		if err != nil {
			log.Printf("config: skipping pattern %q: %v", p.Pattern2, err)
			continue
		}
		rules = append(rules, coalesce.PatternRule{First: first, Second: second, Connector: p.Connector})
	}

	return connectors, rules, words, nil
}

func applyIfSet(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = v
	}
}
