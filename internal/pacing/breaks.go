package pacing

import (
	"regexp"
	"unicode/utf8"
)

// BreakKind labels why a position is a reasonable place to cut text.
type BreakKind string

const (
	BreakSentence    BreakKind = "sentence"
	BreakQuestion    BreakKind = "question"
	BreakExclamation BreakKind = "exclamation"
	BreakConnector   BreakKind = "connector"
	BreakConjunction BreakKind = "conjunction"
)

// Break is a candidate cut position. Pos is a byte offset into the scanned
// text and always points at the first byte of the right-hand fragment.
type Break struct {
	Pos  int
	Kind BreakKind
}

var (
	// Sentence-final punctuation followed by whitespace and a capitalized
	// word of at least three letters.
	sentenceBreakPattern = regexp.MustCompile(`([.?!…])\s+(\p{Lu}\p{L}{2,})`)

	discourseMarkerPattern = regexp.MustCompile(`(?i)\s(однако|кстати|кроме того|также|впрочем|however|by the way|also|anyway)\s`)

	conjunctionPattern = regexp.MustCompile(`(?i)\s(и|но|а|или|and|but|or)\s`)
)

// Conjunction cuts need some material on both sides to be worth taking.
const conjunctionContext = 10

// FindBreaks scans text for natural cut candidates in priority order:
// sentence boundaries first, then discourse markers, then coordinating
// conjunctions. An empty result is a valid outcome.
func FindBreaks(text string) []Break {
	if text == "" {
		return nil
	}

	var breaks []Break

	for _, m := range sentenceBreakPattern.FindAllStringSubmatchIndex(text, -1) {
		kind := BreakSentence
		switch text[m[2]:m[3]] {
		case "?":
			kind = BreakQuestion
		case "!":
			kind = BreakExclamation
		}
		breaks = append(breaks, Break{Pos: m[4], Kind: kind})
	}

	for _, m := range discourseMarkerPattern.FindAllStringSubmatchIndex(text, -1) {
		breaks = append(breaks, Break{Pos: m[2], Kind: BreakConnector})
	}

	for _, m := range conjunctionPattern.FindAllStringSubmatchIndex(text, -1) {
		pos := m[2]
		if runeLen(text[:pos]) < conjunctionContext || runeLen(text[pos:]) < conjunctionContext {
			continue
		}
		breaks = append(breaks, Break{Pos: pos, Kind: BreakConjunction})
	}

	return breaks
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
