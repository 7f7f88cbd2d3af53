package buffer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is the default single-process buffer backend. One lock
// guards the whole map; buffer slices are only touched inside it.
type InMemoryStore struct {
	mu       sync.RWMutex
	buffers  map[string][]Message
	lastSeen map[string]time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		buffers:  make(map[string][]Message),
		lastSeen: make(map[string]time.Time),
	}
}

func (s *InMemoryStore) Append(_ context.Context, msg Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffers[msg.UserID] = append(s.buffers[msg.UserID], msg)
	if msg.ReceivedAt.After(s.lastSeen[msg.UserID]) {
		s.lastSeen[msg.UserID] = msg.ReceivedAt
	}
	return nil
}

func (s *InMemoryStore) Messages(_ context.Context, userID string, now time.Time, ttl time.Duration) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	live := evict(s.buffers[userID], now, ttl)
	s.buffers[userID] = live
	out := make([]Message, len(live))
	copy(out, live)
	return out, nil
}

func (s *InMemoryStore) EvictStale(_ context.Context, userID string, now time.Time, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffers[userID] = evict(s.buffers[userID], now, ttl)
	return nil
}

func (s *InMemoryStore) Sweep(_ context.Context, now time.Time, ttl time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for userID, msgs := range s.buffers {
		live := evict(msgs, now, ttl)
		removed += len(msgs) - len(live)
		s.buffers[userID] = live
	}
	return removed, nil
}

func (s *InMemoryStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buffers, userID)
	delete(s.lastSeen, userID)
	return nil
}

func (s *InMemoryStore) Stats(_ context.Context, userID string) (Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Info{
		MessageCount: len(s.buffers[userID]),
		LastActivity: s.lastSeen[userID],
	}, nil
}

func (s *InMemoryStore) Mode() string { return "in-memory" }

func (s *InMemoryStore) Close() error { return nil }

func evict(msgs []Message, now time.Time, ttl time.Duration) []Message {
	if len(msgs) == 0 {
		return msgs
	}
	live := msgs[:0]
	for _, m := range msgs {
		if now.Sub(m.ReceivedAt) < ttl {
			live = append(live, m)
		}
	}
	return live
}
