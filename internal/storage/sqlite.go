package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/breakfast/internal/shared"
)

// SQLStore is the structured backend: one row per key in the app_data table.
// Wrap it in a [Queue] to make its writes asynchronous.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore applies pending migrations and returns a store over db.
func NewSQLStore(ctx context.Context, db *sql.DB) (*SQLStore, error) {
	if err := shared.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to prepare structured store: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Name() string { return "sqlite" }

func (s *SQLStore) Get(ctx context.Context, key Key) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM app_data WHERE key = ?", string(key)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *SQLStore) Set(ctx context.Context, key Key, value []byte) error {
	query := `
		INSERT INTO app_data (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, string(key), string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to upsert %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM app_data"); err != nil {
		return fmt.Errorf("failed to clear app_data: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
