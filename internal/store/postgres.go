package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"menupix/migrations"
)

// PostgresStore is the cache backend for deployments that already run
// Postgres and don't want a local database file.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to the database, verifies the connection and runs
// the embedded migrations.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runPostgresMigrations(connString); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func runPostgresMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Get returns the cached image URL for a keyword, or ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, keyword string) (string, error) {
	var imageURL string
	err := s.pool.QueryRow(ctx,
		`SELECT image_url FROM image_cache WHERE keyword = $1`, keyword,
	).Scan(&imageURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read cache entry: %w", err)
	}
	return imageURL, nil
}

// Put upserts the image URL for a keyword.
func (s *PostgresStore) Put(ctx context.Context, keyword, imageURL string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO image_cache (keyword, image_url)
		VALUES ($1, $2)
		ON CONFLICT (keyword) DO UPDATE
		SET image_url = EXCLUDED.image_url, updated_at = NOW()
	`, keyword, imageURL)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Count returns the number of cached entries.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM image_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return n, nil
}

// Ping verifies the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
