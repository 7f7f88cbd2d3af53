package buffer

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps session buffers in a local SQLite file so a single-node
// deployment survives restarts without a Postgres dependency.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS buffered_messages (
		seq         INTEGER PRIMARY KEY AUTOINCREMENT,
		id          TEXT NOT NULL,
		user_id     TEXT NOT NULL,
		content     TEXT NOT NULL,
		received_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_buffered_messages_user_received ON buffered_messages(user_id, received_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Timestamps are stored as UTC RFC3339Nano strings so lexicographic
// comparison matches chronological order.
func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func (s *SQLiteStore) Append(ctx context.Context, msg Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO buffered_messages (id, user_id, content, received_at) VALUES (?, ?, ?, ?)`,
		msg.ID, msg.UserID, msg.Content, encodeTime(msg.ReceivedAt),
	)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Messages(ctx context.Context, userID string, now time.Time, ttl time.Duration) ([]Message, error) {
	if err := s.EvictStale(ctx, userID, now, ttl); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, content, received_at FROM buffered_messages WHERE user_id=? ORDER BY seq`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		var receivedAt string
		if err := rows.Scan(&m.ID, &m.UserID, &m.Content, &receivedAt); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		m.ReceivedAt, err = time.Parse(time.RFC3339Nano, receivedAt)
		if err != nil {
			return nil, fmt.Errorf("parse received_at %q: %w", receivedAt, err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate message rows: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) EvictStale(ctx context.Context, userID string, now time.Time, ttl time.Duration) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM buffered_messages WHERE user_id=? AND received_at <= ?`,
		userID, encodeTime(now.Add(-ttl)),
	)
	if err != nil {
		return fmt.Errorf("evict stale: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Sweep(ctx context.Context, now time.Time, ttl time.Duration) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM buffered_messages WHERE received_at <= ?`,
		encodeTime(now.Add(-ttl)),
	)
	if err != nil {
		return 0, fmt.Errorf("sweep stale: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sweep rows affected: %w", err)
	}
	return int(n), nil
}

func (s *SQLiteStore) Clear(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM buffered_messages WHERE user_id=?`, userID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Stats(ctx context.Context, userID string) (Info, error) {
	var info Info
	var last sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*), max(received_at) FROM buffered_messages WHERE user_id=?`,
		userID,
	).Scan(&info.MessageCount, &last)
	if err != nil {
		return Info{}, fmt.Errorf("stats: %w", err)
	}
	if last.Valid && last.String != "" {
		if t, err := time.Parse(time.RFC3339Nano, last.String); err == nil {
			info.LastActivity = t
		}
	}
	return info, nil
}

func (s *SQLiteStore) Mode() string { return "sqlite" }

func (s *SQLiteStore) Close() error { return s.db.Close() }
