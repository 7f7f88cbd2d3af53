package connector

import (
	"context"
	"errors"
	"strings"
)

// FallbackSuggester tries a primary suggester and falls back on error or an
// empty answer. Context cancellation is passed through untouched so the
// caller's deadline still wins.
type FallbackSuggester struct {
	primary  Suggester
	fallback Suggester
}

func NewFallbackSuggester(primary, fallback Suggester) *FallbackSuggester {
	return &FallbackSuggester{primary: primary, fallback: fallback}
}

func (f *FallbackSuggester) SuggestConnector(ctx context.Context, previous, current string) (string, error) {
	if f.primary != nil {
		conn, err := f.primary.SuggestConnector(ctx, previous, current)
		if err == nil && strings.TrimSpace(conn) != "" {
			return conn, nil
		}
		if errors.Is(err, context.Canceled) {
			return "", err
		}
	}
	if f.fallback == nil {
		return "", errors.New("no fallback suggester configured")
	}
	return f.fallback.SuggestConnector(ctx, previous, current)
}

// FallbackQuestions mirrors FallbackSuggester for question suggestions.
type FallbackQuestions struct {
	primary  QuestionSuggester
	fallback QuestionSuggester
}

func NewFallbackQuestions(primary, fallback QuestionSuggester) *FallbackQuestions {
	return &FallbackQuestions{primary: primary, fallback: fallback}
}

func (f *FallbackQuestions) SuggestQuestion(ctx context.Context, stage int) (string, error) {
	if f.primary != nil {
		q, err := f.primary.SuggestQuestion(ctx, stage)
		if err == nil && strings.TrimSpace(q) != "" {
			return q, nil
		}
		if errors.Is(err, context.Canceled) {
			return "", err
		}
	}
	if f.fallback == nil {
		return "", errors.New("no fallback question suggester configured")
	}
	return f.fallback.SuggestQuestion(ctx, stage)
}
