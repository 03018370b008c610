package store

import (
	"context"
	"errors"
	"os"
	"testing"
)

// newTestPostgres connects to the database named by TEST_DATABASE_URL and
// returns a cleanup function. Skipped when the variable is unset so the
// suite runs without a live Postgres.
func newTestPostgres(t *testing.T) (*PostgresStore, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping postgres store tests")
	}

	ctx := context.Background()
	s, err := NewPostgres(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	cleanup := func() {
		s.pool.Exec(ctx, "DELETE FROM image_cache")
		s.Close()
	}
	return s, cleanup
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, cleanup := newTestPostgres(t)
	defer cleanup()

	if _, err := s.Get(ctx, "pizza"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty store = %v, want ErrNotFound", err)
	}

	if err := s.Put(ctx, "pizza", "https://img.example.com/pizza.jpg"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get(ctx, "pizza")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "https://img.example.com/pizza.jpg" {
		t.Errorf("Get = %q, want cached URL", got)
	}
}

func TestPostgresStoreUpsert(t *testing.T) {
	ctx := context.Background()
	s, cleanup := newTestPostgres(t)
	defer cleanup()

	if err := s.Put(ctx, "sushi", "https://img.example.com/old.jpg"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Put(ctx, "sushi", "https://img.example.com/new.jpg"); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	got, err := s.Get(ctx, "sushi")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "https://img.example.com/new.jpg" {
		t.Errorf("Get = %q, want the overwritten URL", got)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1 (unique keyword constraint)", n)
	}
}

func TestPostgresStorePing(t *testing.T) {
	s, cleanup := newTestPostgres(t)
	defer cleanup()

	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}
