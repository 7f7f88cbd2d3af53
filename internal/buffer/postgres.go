package buffer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore backs session buffers with a shared PostgreSQL instance so
// multiple service replicas see the same short-TTL state.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS buffered_messages (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			content TEXT NOT NULL,
			received_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_buffered_messages_user_received ON buffered_messages (user_id, received_at);`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, msg Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO buffered_messages (id, user_id, content, received_at) VALUES ($1, $2, $3, $4)`,
		msg.ID, msg.UserID, msg.Content, msg.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

func (s *PostgresStore) Messages(ctx context.Context, userID string, now time.Time, ttl time.Duration) ([]Message, error) {
	if err := s.EvictStale(ctx, userID, now, ttl); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, content, received_at FROM buffered_messages WHERE user_id=$1 ORDER BY seq`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.Content, &m.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate message rows: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) EvictStale(ctx context.Context, userID string, now time.Time, ttl time.Duration) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM buffered_messages WHERE user_id=$1 AND received_at <= $2`,
		userID, now.Add(-ttl),
	)
	if err != nil {
		return fmt.Errorf("evict stale: %w", err)
	}
	return nil
}

func (s *PostgresStore) Sweep(ctx context.Context, now time.Time, ttl time.Duration) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM buffered_messages WHERE received_at <= $1`,
		now.Add(-ttl),
	)
	if err != nil {
		return 0, fmt.Errorf("sweep stale: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) Clear(ctx context.Context, userID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM buffered_messages WHERE user_id=$1`, userID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Stats(ctx context.Context, userID string) (Info, error) {
	var info Info
	var last *time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT count(*), max(received_at) FROM buffered_messages WHERE user_id=$1`,
		userID,
	).Scan(&info.MessageCount, &last)
	if err != nil {
		return Info{}, fmt.Errorf("stats: %w", err)
	}
	if last != nil {
		info.LastActivity = *last
	}
	return info, nil
}

func (s *PostgresStore) Mode() string { return "postgres" }

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
