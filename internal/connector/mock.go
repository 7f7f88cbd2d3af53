package connector

import "context"

// Mock returns fixed answers; tests use it to pin coalescer output.
type Mock struct {
	Connector string
	Question  string
	Err       error
}

func (m *Mock) SuggestConnector(_ context.Context, _, _ string) (string, error) {
	return m.Connector, m.Err
}

func (m *Mock) SuggestQuestion(_ context.Context, _ int) (string, error) {
	return m.Question, m.Err
}
