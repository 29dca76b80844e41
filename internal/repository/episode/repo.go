// Package episode reads episode-level metadata from the Postgres row store.
package episode

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq" // postgres driver

	"github.com/askcast/askcast/internal/domain"
)

// Open creates and verifies a Postgres connection pool.
func Open(databaseURL string) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	pool, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := pool.Ping(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	pool.SetMaxOpenConns(25)
	pool.SetMaxIdleConns(5)
	return pool, nil
}

// querier is the consumer interface over *sql.DB for testability.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository looks up episode attributes by video id.
type Repository struct {
	db querier
}

// New creates an episode repository.
func New(db querier) *Repository {
	return &Repository{db: db}
}

// Description returns the episode description for a video id.
// A missing row maps to domain.ErrEpisodeNotFound.
func (r *Repository) Description(ctx context.Context, videoID string) (string, error) {
	var description string
	err := r.db.QueryRowContext(ctx,
		`SELECT description FROM episodes WHERE id = $1`, videoID,
	).Scan(&description)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", domain.ErrEpisodeNotFound, videoID)
	}
	if err != nil {
		return "", fmt.Errorf("select description: %w", err)
	}
	return description, nil
}

// Tags returns the episode keyword list for a video id. Keywords are stored
// as a JSON-encoded array in the keywords column.
func (r *Repository) Tags(ctx context.Context, videoID string) ([]string, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT keywords FROM episodes WHERE id = $1`, videoID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrEpisodeNotFound, videoID)
	}
	if err != nil {
		return nil, fmt.Errorf("select keywords: %w", err)
	}

	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("parse keywords for %s: %w", videoID, err)
	}
	return tags, nil
}
