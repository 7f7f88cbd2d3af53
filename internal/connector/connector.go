// Package connector bridges the pacing engine to the external LLM service
// that suggests linking words and follow-up questions. Every implementation
// degrades deterministically; the engine never depends on the bridge being
// reachable.
package connector

import "context"

// Suggester proposes a connector between two merged fragments.
type Suggester interface {
	SuggestConnector(ctx context.Context, previous, current string) (string, error)
}

// QuestionSuggester proposes a follow-up question for a conversation stage.
type QuestionSuggester interface {
	SuggestQuestion(ctx context.Context, stage int) (string, error)
}
