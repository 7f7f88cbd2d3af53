package coalesce

import (
	"strings"
)

// Label classifies a buffered burst of short messages.
type Label string

const (
	LabelSplitSentence       Label = "split_sentence"
	LabelSequentialQuestions Label = "sequential_questions"
	LabelDifferentTopics     Label = "different_topics"
	LabelDefault             Label = "default"
)

// A burst whose naive concatenation stays under this many characters looks
// like one sentence typed in pieces.
const splitSentenceMaxLen = 120

// Words shorter than this carry too little topical signal to count.
const topicWordMinLen = 3

// Ratio of unique long words above which a burst reads as unrelated topics.
const differentTopicsRatio = 0.7

// Classify labels a set of buffered texts. Check order matters:
// split_sentence short-circuits the rest.
func Classify(texts []string) Label {
	if isSplitSentence(texts) {
		return LabelSplitSentence
	}

	questions := 0
	for _, t := range texts {
		if strings.HasSuffix(strings.TrimSpace(t), "?") {
			questions++
		}
	}
	if questions > 1 {
		return LabelSequentialQuestions
	}

	if len(texts) > 2 && areDifferentTopics(texts) {
		return LabelDifferentTopics
	}

	return LabelDefault
}

func isSplitSentence(texts []string) bool {
	if len(texts) < 2 {
		return false
	}
	first := strings.TrimSpace(texts[0])
	for _, suffix := range []string{".", "!", "?", ","} {
		if strings.HasSuffix(first, suffix) {
			return false
		}
	}
	return runeLen(strings.Join(texts, " ")) < splitSentenceMaxLen
}

func areDifferentTopics(texts []string) bool {
	seen := make(map[string]bool)
	total := 0
	for _, t := range texts {
		for _, w := range strings.Fields(strings.ToLower(t)) {
			if runeLen(w) <= topicWordMinLen {
				continue
			}
			total++
			seen[w] = true
		}
	}
	if total == 0 {
		return false
	}
	return float64(len(seen)) > float64(total)*differentTopicsRatio
}
