package buffer

import (
	"context"
	"time"
)

// Message is one buffered inbound fragment. It lives only inside its owner's
// session buffer and dies on TTL eviction or an explicit clear.
type Message struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Content    string    `json:"content"`
	ReceivedAt time.Time `json:"received_at"`
}

// Info summarizes one user's buffer for the session endpoint.
type Info struct {
	MessageCount int       `json:"message_count"`
	LastActivity time.Time `json:"last_activity"`
}

// Store keeps per-user ordered message buffers. Eviction is lazy: stale
// entries are dropped on the read path (Messages) or via explicit
// EvictStale/Sweep calls; there is no internal timer. Access to one user's
// buffer is serialized by the caller; access across users must be safe.
type Store interface {
	Append(ctx context.Context, msg Message) error
	// Messages drops entries with now-receivedAt >= ttl, then returns the
	// survivors in insertion order.
	Messages(ctx context.Context, userID string, now time.Time, ttl time.Duration) ([]Message, error)
	EvictStale(ctx context.Context, userID string, now time.Time, ttl time.Duration) error
	// Sweep evicts stale entries across all users; the host calls this on a
	// maintenance interval to bound memory for idle sessions.
	Sweep(ctx context.Context, now time.Time, ttl time.Duration) (int, error)
	Clear(ctx context.Context, userID string) error
	Stats(ctx context.Context, userID string) (Info, error)
	Mode() string
	Close() error
}
