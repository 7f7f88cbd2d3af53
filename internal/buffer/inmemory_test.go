package buffer

import (
	"context"
	"testing"
	"time"
)

func TestInMemoryAppendAndRead(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if err := s.Append(ctx, Message{UserID: "u1", Content: "привет", ReceivedAt: base}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Append(ctx, Message{UserID: "u1", Content: "как дела", ReceivedAt: base.Add(2 * time.Second)}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	msgs, err := s.Messages(ctx, "u1", base.Add(3*time.Second), 30*time.Second)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("len = %d, want 2", len(msgs))
	}
	if msgs[0].Content != "привет" || msgs[1].Content != "как дела" {
		t.Fatalf("order lost: %+v", msgs)
	}
	for i, m := range msgs {
		if m.ID == "" {
			t.Fatalf("msgs[%d].ID is empty", i)
		}
	}
}

func TestInMemoryEviction(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	_ = s.Append(ctx, Message{UserID: "u1", Content: "старое", ReceivedAt: base})
	_ = s.Append(ctx, Message{UserID: "u1", Content: "свежее", ReceivedAt: base.Add(20 * time.Second)})

	msgs, err := s.Messages(ctx, "u1", base.Add(31*time.Second), 30*time.Second)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Content != "свежее" {
		t.Fatalf("msgs = %+v, want only the fresh one", msgs)
	}
}

func TestInMemoryEvictionBoundary(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	_ = s.Append(ctx, Message{UserID: "u1", Content: "ровно на границе", ReceivedAt: base})

	// A message exactly at the TTL boundary is stale.
	msgs, err := s.Messages(ctx, "u1", base.Add(30*time.Second), 30*time.Second)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("len = %d, want 0 at exact TTL", len(msgs))
	}
}

func TestInMemoryUserIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	now := time.Now().UTC()

	_ = s.Append(ctx, Message{UserID: "u1", Content: "от первого", ReceivedAt: now})
	_ = s.Append(ctx, Message{UserID: "u2", Content: "от второго", ReceivedAt: now})

	msgs, _ := s.Messages(ctx, "u1", now, 30*time.Second)
	if len(msgs) != 1 || msgs[0].Content != "от первого" {
		t.Fatalf("u1 sees %+v", msgs)
	}

	if err := s.Clear(ctx, "u1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	info, err := s.Stats(ctx, "u1")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if info.MessageCount != 0 {
		t.Fatalf("u1 MessageCount = %d after clear, want 0", info.MessageCount)
	}

	other, _ := s.Messages(ctx, "u2", now, 30*time.Second)
	if len(other) != 1 {
		t.Fatalf("u2 lost messages after clearing u1: %+v", other)
	}
}

func TestInMemorySweep(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	_ = s.Append(ctx, Message{UserID: "u1", Content: "a", ReceivedAt: base})
	_ = s.Append(ctx, Message{UserID: "u2", Content: "b", ReceivedAt: base})
	_ = s.Append(ctx, Message{UserID: "u2", Content: "c", ReceivedAt: base.Add(40 * time.Second)})

	removed, err := s.Sweep(ctx, base.Add(45*time.Second), 30*time.Second)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}

	left, _ := s.Messages(ctx, "u2", base.Add(45*time.Second), 30*time.Second)
	if len(left) != 1 || left[0].Content != "c" {
		t.Fatalf("u2 msgs = %+v, want only c", left)
	}
}

func TestInMemoryStats(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	_ = s.Append(ctx, Message{UserID: "u1", Content: "a", ReceivedAt: base})
	_ = s.Append(ctx, Message{UserID: "u1", Content: "b", ReceivedAt: base.Add(5 * time.Second)})

	info, err := s.Stats(ctx, "u1")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if info.MessageCount != 2 {
		t.Fatalf("MessageCount = %d, want 2", info.MessageCount)
	}
	if !info.LastActivity.Equal(base.Add(5 * time.Second)) {
		t.Fatalf("LastActivity = %v", info.LastActivity)
	}
}
