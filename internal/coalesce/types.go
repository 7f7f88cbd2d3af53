package coalesce

import (
	"regexp"
	"time"
	"unicode/utf8"
)

// Fragment is one buffered inbound message awaiting coalescing.
type Fragment struct {
	Text string
	At   time.Time
}

// Result is the coalesced view of a user's recent burst.
type Result struct {
	CombinedText     string   `json:"combined_text"`
	MessageCount     int      `json:"message_count"`
	IsShortSequence  bool     `json:"is_short_sequence"`
	OriginalMessages []string `json:"original_messages"`
	// Strategy names the join strategy that fired, for logs and metrics.
	Strategy string `json:"-"`
}

// Connectors holds the configured linking words used when merging fragments.
type Connectors struct {
	QuestionStart string
	EmotionStart  string
	ShortMessage  string
	LastMessage   string
	Default       string
	And           string
	AlsoTopic     string
}

// DefaultConnectors mirrors the stock Russian connector table.
func DefaultConnectors() Connectors {
	return Connectors{
		QuestionStart: "А",
		EmotionStart:  "Кстати",
		ShortMessage:  "и",
		LastMessage:   "Кроме того",
		Default:       "А",
		And:           "И",
		AlsoTopic:     "А еще",
	}
}

// PatternRule joins the first two fragments with a fixed connector when both
// regexes match. Explicit patterns win over heuristic classification.
type PatternRule struct {
	First     *regexp.Regexp
	Second    *regexp.Regexp
	Connector string
}

// WordLists drive the deterministic connector fallback table.
type WordLists struct {
	Question      []string
	Emotion       []string
	ShortResponse []string
}

// DefaultWordLists mirrors the stock lead-word tables.
func DefaultWordLists() WordLists {
	return WordLists{
		Question:      []string{"как", "что", "где", "когда", "почему", "зачем", "кто"},
		Emotion:       []string{"ого", "вау", "ух", "класс", "супер", "круто", "wow"},
		ShortResponse: []string{"да", "нет", "ок", "ага", "угу", "ok", "yes", "no"},
	}
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
