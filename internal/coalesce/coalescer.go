package coalesce

import (
	"context"
	"log"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Suggester asks an external collaborator for a connector between two
// fragments. Implementations must respect the context deadline.
type Suggester interface {
	SuggestConnector(ctx context.Context, previous, current string) (string, error)
}

// Options configures the coalescer.
type Options struct {
	Connectors             Connectors
	Patterns               []PatternRule
	Words                  WordLists
	ShortMessageThreshold  int
	QuickSequenceThreshold time.Duration
	SuggestTimeout         time.Duration
	// OnFallback is invoked with a reason whenever the external suggester
	// is skipped or fails and the deterministic table is used instead.
	OnFallback func(reason string)
}

func (o Options) normalize() Options {
	if o.Connectors == (Connectors{}) {
		o.Connectors = DefaultConnectors()
	}
	if len(o.Words.Question) == 0 && len(o.Words.Emotion) == 0 && len(o.Words.ShortResponse) == 0 {
		o.Words = DefaultWordLists()
	}
	if o.ShortMessageThreshold <= 0 {
		o.ShortMessageThreshold = 50
	}
	if o.QuickSequenceThreshold <= 0 {
		o.QuickSequenceThreshold = 5 * time.Second
	}
	if o.SuggestTimeout <= 0 {
		o.SuggestTimeout = 2 * time.Second
	}
	return o
}

// Coalescer merges a burst of buffered fragments into one logical utterance.
// It never fails: every internal miss degrades to the next strategy.
type Coalescer struct {
	opts    Options
	suggest Suggester
}

// New builds a coalescer. suggest may be nil; the deterministic connector
// table then handles every gap.
func New(opts Options, suggest Suggester) *Coalescer {
	return &Coalescer{opts: opts.normalize(), suggest: suggest}
}

// Combine coalesces fragments in insertion order.
func (c *Coalescer) Combine(ctx context.Context, fragments []Fragment) Result {
	res := Result{
		MessageCount:     len(fragments),
		OriginalMessages: make([]string, 0, len(fragments)),
		IsShortSequence:  c.isShortSequence(fragments),
	}
	for _, f := range fragments {
		res.OriginalMessages = append(res.OriginalMessages, f.Text)
	}

	switch len(fragments) {
	case 0:
		res.Strategy = "empty"
		return res
	case 1:
		res.CombinedText = fragments[0].Text
		res.Strategy = "single"
		return res
	}

	texts := res.OriginalMessages

	if combined, ok := c.tryPatterns(texts); ok {
		res.CombinedText = combined
		res.Strategy = "pattern"
		return res
	}

	label := Classify(texts)
	res.Strategy = string(label)

	switch label {
	case LabelSplitSentence:
		res.CombinedText = strings.Join(texts, " ")
	case LabelSequentialQuestions:
		res.CombinedText = c.joinQuestions(texts)
	case LabelDifferentTopics:
		res.CombinedText = c.joinTopics(texts)
	default:
		res.CombinedText = c.joinDefault(ctx, texts)
	}
	return res
}

// tryPatterns checks the configured (pattern1, pattern2, connector) triples
// against the first two fragments. A match bypasses the classifier.
func (c *Coalescer) tryPatterns(texts []string) (string, bool) {
	first := strings.ToLower(texts[0])
	second := strings.ToLower(texts[1])
	for _, rule := range c.opts.Patterns {
		if rule.First == nil || rule.Second == nil {
			continue
		}
		if !rule.First.MatchString(first) || !rule.Second.MatchString(second) {
			continue
		}
		var b strings.Builder
		b.WriteString(texts[0])
		b.WriteString(" ")
		b.WriteString(rule.Connector)
		b.WriteString(" ")
		b.WriteString(lowerFirst(texts[1]))
		if len(texts) > 2 {
			b.WriteString(". ")
			b.WriteString(strings.Join(texts[2:], " "))
		}
		return b.String(), true
	}
	return "", false
}

func (c *Coalescer) joinQuestions(texts []string) string {
	var b strings.Builder
	b.WriteString(texts[0])
	for _, t := range texts[1:] {
		if strings.HasSuffix(strings.TrimSpace(t), "?") {
			b.WriteString(" ")
			b.WriteString(c.opts.Connectors.And)
			b.WriteString(" ")
			b.WriteString(lowerFirst(t))
		} else {
			b.WriteString(" ")
			b.WriteString(t)
		}
	}
	return b.String()
}

func (c *Coalescer) joinTopics(texts []string) string {
	var b strings.Builder
	b.WriteString(texts[0])
	for i, t := range texts[1:] {
		conn := c.opts.Connectors.And
		if i == 0 {
			conn = c.opts.Connectors.AlsoTopic
		}
		b.WriteString(" ")
		b.WriteString(conn)
		b.WriteString(" ")
		b.WriteString(lowerFirst(t))
	}
	return b.String()
}

func (c *Coalescer) joinDefault(ctx context.Context, texts []string) string {
	var b strings.Builder
	b.WriteString(texts[0])
	for i := 1; i < len(texts); i++ {
		conn := c.connectorFor(ctx, texts[i-1], texts[i], i == len(texts)-1)
		b.WriteString(" ")
		if conn != "" {
			b.WriteString(conn)
			b.WriteString(" ")
		}
		b.WriteString(lowerFirst(texts[i]))
	}
	return b.String()
}

// connectorFor prefers the external suggester and degrades to the
// deterministic table on any failure. No retries here; retry policy belongs
// to the collaborator's client.
func (c *Coalescer) connectorFor(ctx context.Context, previous, current string, isLast bool) string {
	if c.suggest != nil {
		callCtx, cancel := context.WithTimeout(ctx, c.opts.SuggestTimeout)
		conn, err := c.suggest.SuggestConnector(callCtx, previous, current)
		cancel()
		if err == nil && strings.TrimSpace(conn) != "" {
			return strings.TrimSpace(conn)
		}
		if err != nil {
			log.Printf("coalesce: connector suggestion failed, using fallback table: %v", err)
			c.fallback("suggester_error")
		} else {
			c.fallback("suggester_empty")
		}
	}

	return TableConnector(c.opts.Words, c.opts.Connectors, current, isLast)
}

// TableConnector is the deterministic connector rule table: keyed on whether
// the text opens with an interrogative word, an emotional exclamation, is at
// most two words, or is the final item.
func TableConnector(words WordLists, conns Connectors, current string, isLast bool) string {
	lower := strings.ToLower(strings.TrimSpace(current))
	if startsWithAny(lower, words.Question) {
		return conns.QuestionStart
	}
	if startsWithAny(lower, words.Emotion) {
		return conns.EmotionStart
	}
	if len(strings.Fields(current)) <= 2 || startsWithAny(lower, words.ShortResponse) {
		return conns.ShortMessage
	}
	if isLast {
		return conns.LastMessage
	}
	return conns.Default
}

func (c *Coalescer) fallback(reason string) {
	if c.opts.OnFallback != nil {
		c.opts.OnFallback(reason)
	}
}

func (c *Coalescer) isShortSequence(fragments []Fragment) bool {
	if len(fragments) < 2 {
		return false
	}
	for _, f := range fragments {
		if runeLen(f.Text) >= c.opts.ShortMessageThreshold {
			return false
		}
	}
	for i := 1; i < len(fragments); i++ {
		if fragments[i].At.Sub(fragments[i-1].At) >= c.opts.QuickSequenceThreshold {
			return false
		}
	}
	return true
}

func startsWithAny(lower string, words []string) bool {
	for _, w := range words {
		if w == "" {
			continue
		}
		if lower == w || strings.HasPrefix(lower, w+" ") || strings.HasPrefix(lower, w+",") {
			return true
		}
	}
	return false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	lower := unicode.ToLower(r)
	if lower == r {
		return s
	}
	return string(lower) + s[size:]
}
