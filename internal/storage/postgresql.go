// Package storage implements the PostgreSQL-backed store for users and
// recording metadata.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Register the pgx driver for database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Sentinel errors returned by the store. Services and handlers match them
// with errors.Is to pick the HTTP status.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrRecordingNotFound = errors.New("recording not found")
	ErrDuplicate         = errors.New("duplicate record")
)

// Storage wraps the PostgreSQL connection and implements the user and
// recording repositories.
type Storage struct {
	DB *sql.DB
}

// New opens a connection to PostgreSQL and verifies it with a ping.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady verifies that the schema has been migrated.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'recordings'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table recordings missing or query error: %w", err)
	}
	return nil
}
