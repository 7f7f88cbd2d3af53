package pacing

import (
	"regexp"
	"strings"
)

// DefaultMinPartLen is the smallest half we accept from a balanced split.
// Chosen experimentally: shorter halves read as accidental fragments.
const DefaultMinPartLen = 120

// SelectSplit picks the break whose left half lands closest to
// len(text)*targetRatio, rejecting candidates that would leave either half
// shorter than minPartLen. ok is false when no candidate survives.
func SelectSplit(breaks []Break, text string, targetRatio float64, minPartLen int) (left, right string, ok bool) {
	if len(breaks) == 0 || text == "" {
		return "", "", false
	}
	if minPartLen <= 0 {
		minPartLen = DefaultMinPartLen
	}
	if targetRatio <= 0 || targetRatio >= 1 {
		targetRatio = 0.5
	}

	total := runeLen(text)
	target := float64(total) * targetRatio

	bestPos := -1
	bestDist := 0.0
	for _, br := range breaks {
		if br.Pos <= 0 || br.Pos >= len(text) {
			continue
		}
		leftLen := runeLen(text[:br.Pos])
		rightLen := total - leftLen
		if leftLen < minPartLen || rightLen < minPartLen {
			continue
		}
		dist := float64(leftLen) - target
		if dist < 0 {
			dist = -dist
		}
		if bestPos < 0 || dist < bestDist {
			bestPos = br.Pos
			bestDist = dist
		}
	}
	if bestPos < 0 {
		return "", "", false
	}

	left = strings.TrimSpace(text[:bestPos])
	right = strings.TrimSpace(text[bestPos:])
	if left == "" || right == "" {
		return "", "", false
	}
	return left, right, true
}

// MergeShortFragments greedily groups consecutive fragments so a group's
// joined length stays within maxLength. Once maxParts-1 groups exist the
// remainder accumulates into the final group. A short tail is folded into
// the previous group when the pair stays within maxLength*1.5.
func MergeShortFragments(fragments []string, maxParts, maxLength int) []string {
	if maxParts < 1 {
		maxParts = 1
	}
	if len(fragments) <= maxParts {
		return fragments
	}

	merged := make([]string, 0, maxParts)
	var group []string
	groupLen := 0

	for _, f := range fragments {
		fl := runeLen(f)
		if len(group) > 0 && groupLen+fl > maxLength && len(merged) < maxParts-1 {
			merged = append(merged, strings.Join(group, " "))
			group = []string{f}
			groupLen = fl
			continue
		}
		group = append(group, f)
		groupLen += fl
	}

	if len(group) > 0 {
		tail := strings.Join(group, " ")
		if len(merged) > 0 && runeLen(merged[len(merged)-1])+runeLen(tail) <= maxLength*3/2 {
			merged[len(merged)-1] += " " + tail
		} else {
			merged = append(merged, tail)
		}
	}

	if len(merged) > maxParts {
		merged = merged[:maxParts]
	}
	return merged
}

var forceBreakPatterns = []*regexp.Regexp{
	regexp.MustCompile(`,\s+`),
	regexp.MustCompile(`\s+(?:и|and)\s+`),
	regexp.MustCompile(`\s+(?:но|but)\s+`),
	regexp.MustCompile(`\s+(?:а|или|or)\s+`),
	regexp.MustCompile(`:\s+`),
	regexp.MustCompile(`;\s+`),
}

// Leading interjections that would leave a dangling first part when a split
// lands right after them.
var leadingInterjections = map[string]bool{
	"ой":   true,
	"ну":   true,
	"ох":   true,
	"эх":   true,
	"и":    true,
	"oh":   true,
	"well": true,
	"and":  true,
	"hmm":  true,
}

// ForceSplitLong splits a fragment exceeding maxLength at the interior break
// point (comma, conjunction, colon, semicolon) nearest its midpoint, falling
// back to a word-count split when no such point exists.
func ForceSplitLong(fragment string, maxLength int) []string {
	if runeLen(fragment) <= maxLength {
		return []string{fragment}
	}

	var points []int
	for _, pat := range forceBreakPatterns {
		for _, m := range pat.FindAllStringIndex(fragment, -1) {
			points = append(points, m[1])
		}
	}

	if len(points) == 0 {
		return splitAtWordMidpoint(fragment)
	}

	total := runeLen(fragment)
	best := points[0]
	bestDist := -1
	for _, p := range points {
		if p <= 0 || p >= len(fragment) {
			continue
		}
		dist := runeLen(fragment[:p])*2 - total
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			best = p
			bestDist = dist
		}
	}
	if bestDist < 0 {
		return splitAtWordMidpoint(fragment)
	}

	left := strings.TrimSpace(fragment[:best])
	right := strings.TrimSpace(fragment[best:])

	if beginsWithInterjection(left) {
		words := strings.Fields(fragment)
		if len(words) > 2 {
			left = strings.Join(words[:2], " ")
			right = strings.Join(words[2:], " ")
		}
	}

	return nonEmpty(left, right)
}

func splitAtWordMidpoint(fragment string) []string {
	words := strings.Fields(fragment)
	if len(words) < 2 {
		return []string{fragment}
	}
	mid := len(words) / 2
	return nonEmpty(strings.Join(words[:mid], " "), strings.Join(words[mid:], " "))
}

func beginsWithInterjection(s string) bool {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimRight(fields[0], ",!."))
	return leadingInterjections[first]
}

func nonEmpty(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
