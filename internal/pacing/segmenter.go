package pacing

import (
	"log"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Options bounds how an outgoing reply is cut into parts.
type Options struct {
	// MaxLength is the preferred upper bound for one part, in characters.
	MaxLength int
	// ForceSplitThreshold is the length above which the liveliness pass
	// re-cuts a part even when it already fits MaxLength.
	ForceSplitThreshold int
	// MaxParts caps the number of delivered parts.
	MaxParts int
	// MinPartLen is the smallest half accepted by the balanced midpoint
	// pass. Zero means DefaultMinPartLen.
	MinPartLen int
	MinDelayMs int
	MaxDelayMs int
}

// Normalize applies documented defaults and clamps invalid values.
func (o Options) Normalize() Options {
	if o.MaxLength <= 0 {
		o.MaxLength = 150
	}
	if o.ForceSplitThreshold <= 0 {
		o.ForceSplitThreshold = 100
	}
	if o.MaxParts < 1 {
		o.MaxParts = 3
	}
	if o.MinPartLen <= 0 {
		o.MinPartLen = DefaultMinPartLen
	}
	if o.MinDelayMs <= 0 {
		o.MinDelayMs = 500
	}
	if o.MaxDelayMs < o.MinDelayMs {
		o.MaxDelayMs = o.MinDelayMs
	}
	return o
}

// Result is one segmented outgoing reply.
type Result struct {
	Parts       []string `json:"parts"`
	HasQuestion bool     `json:"has_question"`
	DelaysMs    []int    `json:"delays_ms"`
	// Truncated reports that trailing content was dropped because even the
	// merged fragments exceeded MaxParts. Lossy by design; watch the logs.
	Truncated bool `json:"truncated"`
}

// Texts longer than this still get the balanced midpoint cut after the
// sentence pass; anything shorter keeps fewer, longer parts.
const balancedSplitFloor = 250

// Segmenter turns one reply string into an ordered list of naturally sized
// parts with one randomized delay per part.
type Segmenter struct {
	opts  Options
	sched *Scheduler
}

func NewSegmenter(opts Options, sched *Scheduler) *Segmenter {
	if sched == nil {
		sched = NewScheduler(0)
	}
	return &Segmenter{opts: opts.Normalize(), sched: sched}
}

// Segment splits text into parts. It never fails: malformed or empty input
// degrades to a trivial single-part result.
func (s *Segmenter) Segment(text string, force bool) Result {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{Parts: []string{""}, DelaysMs: []int{0}}
	}

	hasQuestion := HasQuestion(text)
	length := runeLen(text)

	if !force && length <= s.opts.MaxLength && length <= s.opts.ForceSplitThreshold {
		return Result{
			Parts:       []string{text},
			HasQuestion: hasQuestion,
			DelaysMs:    s.sched.Delays(1, s.opts.MinDelayMs, s.opts.MaxDelayMs),
		}
	}

	parts, truncated := s.splitIntoParts(text)
	if truncated {
		log.Printf("pacing: reply truncated to %d parts, trailing content dropped (len=%d)", len(parts), length)
	}

	return Result{
		Parts:       parts,
		HasQuestion: hasQuestion,
		DelaysMs:    s.sched.Delays(len(parts), s.opts.MinDelayMs, s.opts.MaxDelayMs),
		Truncated:   truncated,
	}
}

func (s *Segmenter) splitIntoParts(text string) ([]string, bool) {
	fragments := splitBySentences(text, s.opts.MaxLength)
	if len(fragments) == 0 {
		fragments = []string{text}
	}

	// One balanced cut near the midpoint, but only when the sentence pass
	// left a single long run. Moderately short replies stay whole.
	if len(fragments) == 1 && runeLen(fragments[0]) > balancedSplitFloor {
		if left, right, ok := SelectSplit(FindBreaks(fragments[0]), fragments[0], 0.5, s.opts.MinPartLen); ok {
			fragments = []string{left, right}
		}
	}

	fragments = MergeShortFragments(fragments, s.opts.MaxParts, s.opts.MaxLength)

	expanded := make([]string, 0, len(fragments)+1)
	for _, f := range fragments {
		if runeLen(f) > s.opts.MaxLength {
			expanded = append(expanded, ForceSplitLong(f, s.opts.MaxLength)...)
		} else {
			expanded = append(expanded, f)
		}
	}

	truncated := false
	if len(expanded) > s.opts.MaxParts {
		expanded = expanded[:s.opts.MaxParts]
		truncated = true
	}

	expanded = s.enlivenParts(expanded)
	return expanded, truncated
}

// enlivenParts opportunistically re-cuts parts that are still longer than the
// force-split threshold, as long as the part budget allows it.
func (s *Segmenter) enlivenParts(parts []string) []string {
	out := make([]string, 0, len(parts))
	budget := s.opts.MaxParts - len(parts)
	for _, p := range parts {
		if budget <= 0 || runeLen(p) <= s.opts.ForceSplitThreshold {
			out = append(out, p)
			continue
		}
		left, right, ok := enlivenCut(p)
		if !ok {
			out = append(out, p)
			continue
		}
		out = append(out, left, right)
		budget--
	}
	return out
}

var (
	livelinessCommaPattern       = regexp.MustCompile(`,\s+`)
	livelinessConjunctionPattern = regexp.MustCompile(`\s+(и|но|and|but)\s+`)
)

// Halves shorter than this are not worth a liveliness cut.
const minLivelinessLen = 12

func enlivenCut(p string) (string, string, bool) {
	if m := livelinessCommaPattern.FindStringIndex(p); m != nil {
		left := strings.TrimSpace(p[:m[0]+1])
		right := capitalizeFirst(strings.TrimSpace(p[m[1]:]))
		if runeLen(left) >= minLivelinessLen && runeLen(right) >= minLivelinessLen {
			return left, right, true
		}
	}
	if m := livelinessConjunctionPattern.FindStringSubmatchIndex(p); m != nil {
		left := strings.TrimSpace(p[:m[0]])
		right := capitalizeFirst(strings.TrimSpace(p[m[2]:]))
		if runeLen(left) >= minLivelinessLen && runeLen(right) >= minLivelinessLen {
			return left, right, true
		}
	}
	return "", "", false
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	upper := unicode.ToUpper(r)
	if upper == r {
		return s
	}
	return string(upper) + s[size:]
}

var (
	blankLinePattern   = regexp.MustCompile(`\n\s*\n+`)
	sentenceEndPattern = regexp.MustCompile(`([.!?…]+)\s+`)
)

// splitBySentences cuts text on blank-line boundaries, then on sentence
// terminators within each block, greedily regrouping sentences so each group
// stays within maxLength. Terminators stay attached to their sentence.
func splitBySentences(text string, maxLength int) []string {
	var parts []string
	for _, block := range blankLinePattern.Split(text, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		sentences := splitSentences(block)
		if len(sentences) == 1 {
			parts = append(parts, sentences[0])
			continue
		}

		var group []string
		groupLen := 0
		for _, sent := range sentences {
			sl := runeLen(sent)
			if len(group) > 0 && groupLen+sl > maxLength {
				parts = append(parts, strings.Join(group, " "))
				group = []string{sent}
				groupLen = sl
			} else {
				group = append(group, sent)
				groupLen += sl
			}
		}
		if len(group) > 0 {
			parts = append(parts, strings.Join(group, " "))
		}
	}
	return parts
}

func splitSentences(block string) []string {
	matches := sentenceEndPattern.FindAllStringSubmatchIndex(block, -1)
	var out []string
	prev := 0
	for _, m := range matches {
		s := strings.TrimSpace(block[prev:m[3]])
		if s != "" {
			out = append(out, s)
		}
		prev = m[1]
	}
	if tail := strings.TrimSpace(block[prev:]); tail != "" {
		out = append(out, tail)
	}
	if len(out) == 0 {
		out = []string{block}
	}
	return out
}

var questionLeads = []string{
	"как", "что", "где", "когда", "почему", "зачем", "кто",
	"what", "how", "where", "when", "why", "who",
}

// HasQuestion reports whether text contains a question mark or opens with an
// interrogative lead word.
func HasQuestion(text string) bool {
	if strings.Contains(text, "?") {
		return true
	}
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, w := range questionLeads {
		if strings.HasPrefix(lower, w+" ") {
			return true
		}
	}
	return false
}
