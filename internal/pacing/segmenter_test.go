package pacing

import (
	"reflect"
	"strings"
	"testing"
)

func newTestSegmenter(opts Options) *Segmenter {
	return NewSegmenter(opts, NewScheduler(42))
}

func TestSegmentEmptyText(t *testing.T) {
	s := newTestSegmenter(Options{})
	res := s.Segment("   ", false)
	if len(res.Parts) != 1 || res.Parts[0] != "" {
		t.Fatalf("Parts = %q, want one empty part", res.Parts)
	}
	if len(res.DelaysMs) != 1 || res.DelaysMs[0] != 0 {
		t.Fatalf("DelaysMs = %v, want [0]", res.DelaysMs)
	}
	if res.HasQuestion || res.Truncated {
		t.Fatalf("HasQuestion = %v, Truncated = %v, want false", res.HasQuestion, res.Truncated)
	}
}

func TestSegmentShortTextStaysWhole(t *testing.T) {
	s := newTestSegmenter(Options{})
	res := s.Segment("Привет, рад тебя видеть", false)
	if len(res.Parts) != 1 {
		t.Fatalf("len(Parts) = %d, want 1", len(res.Parts))
	}
	if res.Parts[0] != "Привет, рад тебя видеть" {
		t.Fatalf("Parts[0] = %q", res.Parts[0])
	}
	if len(res.DelaysMs) != 1 {
		t.Fatalf("len(DelaysMs) = %d, want 1", len(res.DelaysMs))
	}
	if res.DelaysMs[0] < 500 || res.DelaysMs[0] > 2000 {
		t.Fatalf("DelaysMs[0] = %d, want within [500, 2000]", res.DelaysMs[0])
	}
}

func TestSegmentLongTextProperties(t *testing.T) {
	sentences := []string{
		"Сегодня с самого утра над городом висел плотный серый туман.",
		"Мы долго шли по набережной вдоль старых каменных домов.",
		"Где-то вдалеке играла музыка уличного оркестра.",
		"Потом мы зашли в маленькую кофейню возле моста.",
		"Там пахло свежей выпечкой теплым хлебом.",
	}
	text := strings.Join(sentences, " ")

	s := newTestSegmenter(Options{MaxParts: 10})
	res := s.Segment(text, false)

	if len(res.Parts) < 2 {
		t.Fatalf("len(Parts) = %d, want at least 2", len(res.Parts))
	}
	if len(res.DelaysMs) != len(res.Parts) {
		t.Fatalf("len(DelaysMs) = %d, len(Parts) = %d, want equal", len(res.DelaysMs), len(res.Parts))
	}
	for i, d := range res.DelaysMs {
		if d < 500 || d > 2000 {
			t.Fatalf("DelaysMs[%d] = %d, want within [500, 2000]", i, d)
		}
	}
	for i, p := range res.Parts {
		if strings.TrimSpace(p) == "" {
			t.Fatalf("Parts[%d] is empty", i)
		}
	}
	if res.Truncated {
		t.Fatalf("Truncated = true, want false")
	}

	// Splitting must not lose or invent words. Case may change at cut points.
	got := strings.ToLower(strings.Join(strings.Fields(strings.Join(res.Parts, " ")), " "))
	want := strings.ToLower(strings.Join(strings.Fields(text), " "))
	if got != want {
		t.Fatalf("reassembled text mismatch:\ngot  %q\nwant %q", got, want)
	}
}

func TestSegmentRespectsMaxParts(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 12; i++ {
		b.WriteString("Эта длинная история продолжалась весь вечер без остановки. ")
	}

	s := newTestSegmenter(Options{MaxParts: 2})
	res := s.Segment(b.String(), false)

	if len(res.Parts) != 2 {
		t.Fatalf("len(Parts) = %d, want 2", len(res.Parts))
	}
	if !res.Truncated {
		t.Fatalf("Truncated = false, want true")
	}
}

func TestSegmentDeterministicWithSeed(t *testing.T) {
	text := strings.Repeat("Мы говорили о планах на лето. ", 8)
	a := NewSegmenter(Options{}, NewScheduler(7)).Segment(text, false)
	b := NewSegmenter(Options{}, NewScheduler(7)).Segment(text, false)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed produced different results:\n%+v\n%+v", a, b)
	}
}

func TestHasQuestion(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Как дела?", true},
		{"как дела", true},
		{"Что ты думаешь об этом", true},
		{"What happened yesterday", true},
		{"привет", false},
		{"Сегодня хорошая погода", false},
		{"Я спросил, как дела? Вот так.", true},
		{"", false},
	}
	for _, tt := range tests {
		if got := HasQuestion(tt.text); got != tt.want {
			t.Fatalf("HasQuestion(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestSplitSentencesKeepsTerminators(t *testing.T) {
	got := splitSentences("Привет! Как дела? Все хорошо.")
	want := []string{"Привет!", "Как дела?", "Все хорошо."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitSentences = %q, want %q", got, want)
	}
}

func TestSplitBySentencesBlankLines(t *testing.T) {
	got := splitBySentences("Первый абзац без точки\n\nВторой абзац тоже", 150)
	want := []string{"Первый абзац без точки", "Второй абзац тоже"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitBySentences = %q, want %q", got, want)
	}
}

func TestQuestionCadence(t *testing.T) {
	c := NewQuestionCadence(3)
	fired := []bool{c.Due(), c.Due(), c.Due(), c.Due(), c.Due(), c.Due()}
	want := []bool{false, false, true, false, false, true}
	if !reflect.DeepEqual(fired, want) {
		t.Fatalf("cadence = %v, want %v", fired, want)
	}

	var disabled *QuestionCadence
	if disabled.Due() {
		t.Fatalf("nil cadence fired")
	}
	if NewQuestionCadence(0).Due() {
		t.Fatalf("zero cadence fired")
	}
}
