package db_test

import (
	"context"
	"os"
	"testing"

	"order-portal/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database; the table is truncated.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	schema, err := os.ReadFile("../../migrations/001_store_documents.sql")
	if err != nil {
		t.Fatalf("Failed to read migration: %v", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		t.Fatalf("Failed to apply migration: %v", err)
	}
	if _, err := pool.Exec(ctx, "TRUNCATE TABLE store_documents"); err != nil {
		t.Fatalf("Failed to clean test database: %v", err)
	}
	return pool
}

func TestPGDocumentStore_SaveAndLoad(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	store := db.NewPGDocumentStore(pool)

	raw, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if raw != nil {
		t.Fatalf("Expected nil before the first save, got %s", raw)
	}

	body := "{\n  \"users\": [],\n  \"inventory\": []\n}\n"
	for i := 0; i < 2; i++ {
		if err := store.Save(ctx, []byte(body)); err != nil {
			t.Fatalf("Save %d failed: %v", i+1, err)
		}
	}

	raw, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(raw) != body {
		t.Errorf("Expected the stored text to be returned unchanged, got %q", raw)
	}

	var rows int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM store_documents").Scan(&rows); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if rows != 1 {
		t.Errorf("Expected a single document row, got %d", rows)
	}
}
