package buffer

import (
	"context"
	"strings"
)

// NewStore picks a backend: shared Postgres when a database URL is set,
// local SQLite when a file path is set, otherwise in-process memory.
func NewStore(ctx context.Context, databaseURL, sqlitePath string) (Store, error) {
	if strings.TrimSpace(databaseURL) != "" {
		return NewPostgresStore(ctx, databaseURL)
	}
	if strings.TrimSpace(sqlitePath) != "" {
		return NewSQLiteStore(sqlitePath)
	}
	return NewInMemoryStore(), nil
}
