package coalesce

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  Label
	}{
		{
			name:  "sentence typed in pieces",
			texts: []string{"Привет как", "дела?"},
			want:  LabelSplitSentence,
		},
		{
			name:  "burst of questions",
			texts: []string{"Как дела?", "Что делаешь?", "Где ты?"},
			want:  LabelSequentialQuestions,
		},
		{
			name:  "unrelated topics",
			texts: []string{"Сегодня отличная погода.", "Купил новую машину", "Завтра лечу отдыхать"},
			want:  LabelDifferentTopics,
		},
		{
			name:  "repetition stays default",
			texts: []string{"Я очень устал.", "Я очень устал.", "Я очень устал."},
			want:  LabelDefault,
		},
		{
			name:  "single message",
			texts: []string{"привет"},
			want:  LabelDefault,
		},
		{
			name:  "terminated first message blocks split",
			texts: []string{"Все понял.", "спасибо"},
			want:  LabelDefault,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.texts); got != tt.want {
				t.Fatalf("Classify(%q) = %q, want %q", tt.texts, got, tt.want)
			}
		})
	}
}

func TestSplitSentenceShortCircuitsQuestions(t *testing.T) {
	// Two question-terminated pieces still read as one split sentence when the
	// first piece has no terminator of its own.
	texts := []string{"а ты помнишь", "как мы ездили?"}
	if got := Classify(texts); got != LabelSplitSentence {
		t.Fatalf("Classify = %q, want %q", got, LabelSplitSentence)
	}
}
