package pacing

import "sync"

// QuestionCadence rations appended questions to every Nth reply so the
// companion does not interrogate the user on every turn.
type QuestionCadence struct {
	mu      sync.Mutex
	every   int
	counter int
}

// NewQuestionCadence returns a cadence firing every `every` replies.
// A non-positive value disables it.
func NewQuestionCadence(every int) *QuestionCadence {
	return &QuestionCadence{every: every}
}

// Due advances the counter and reports whether this reply should carry a
// question. The counter resets when it fires.
func (c *QuestionCadence) Due() bool {
	if c == nil || c.every <= 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counter++
	if c.counter >= c.every {
		c.counter = 0
		return true
	}
	return false
}
