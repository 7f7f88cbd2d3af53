package pacing

import (
	"math/rand"
	"sync"
	"time"
)

// Scheduler draws per-part send delays from an injected RNG so tests can pin
// the seed and get reproducible schedules.
type Scheduler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewScheduler seeds the delay RNG. A zero seed falls back to wall-clock
// seeding for production use.
func NewScheduler(seed int64) *Scheduler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Scheduler{rng: rand.New(rand.NewSource(seed))}
}

// Delays returns one independent uniform draw in [minMs, maxMs] per part.
func (s *Scheduler) Delays(parts, minMs, maxMs int) []int {
	if parts <= 0 {
		return nil
	}
	if maxMs < minMs {
		minMs, maxMs = maxMs, minMs
	}
	if minMs < 0 {
		minMs = 0
	}
	span := maxMs - minMs + 1
	if span < 1 {
		span = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, parts)
	for i := range out {
		out[i] = minMs + s.rng.Intn(span)
	}
	return out
}
