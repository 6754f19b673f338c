// migrate manages the Postgres document backend.
//
// Usage:
//
//	go run ./cmd/migrate [up]               apply pending migrations/*.sql
//	go run ./cmd/migrate status             list applied and pending migrations
//	go run ./cmd/migrate import data.json   apply, then copy a file document into Postgres
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"order-portal/internal/core"
	"order-portal/internal/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

const (
	migrationsDir = "migrations"
	// lockKey is the advisory lock held for the whole run.
	lockKey = 7462839
)

type migration struct {
	version  string
	filename string
	sql      []byte
	checksum string
}

type migrator struct {
	pool *pgxpool.Pool
}

func main() {
	_ = godotenv.Load()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("[CONNECT] %v", err)
	}
	defer pool.Close()
	m := &migrator{pool: pool}

	migrations, err := loadMigrations(migrationsDir)
	if err != nil {
		log.Fatalf("[DISCOVER] %v", err)
	}

	switch cmd {
	case "status":
		if err := m.status(ctx, migrations); err != nil {
			log.Fatalf("[STATUS] %v", err)
		}
	case "up", "import":
		if err := m.up(ctx, migrations); err != nil {
			log.Fatalf("[MIGRATE] %v", err)
		}
		if cmd == "import" {
			if len(os.Args) < 3 {
				log.Fatal("usage: migrate import <file>")
			}
			if err := importDocument(ctx, pool, os.Args[2]); err != nil {
				log.Fatalf("[IMPORT] %v", err)
			}
		}
	default:
		log.Fatalf("unknown command %q (want up, status or import)", cmd)
	}
}

// loadMigrations reads NNN_description.sql files in version order.
func loadMigrations(dir string) ([]migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	var out []migration
	seen := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		version, _, ok := strings.Cut(e.Name(), "_")
		if !ok {
			return nil, fmt.Errorf("%s: expected NNN_description.sql", e.Name())
		}
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("version %s used by both %s and %s", version, prev, e.Name())
		}
		seen[version] = e.Name()

		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		sum := sha256.Sum256(raw)
		out = append(out, migration{version: version, filename: e.Name(), sql: raw, checksum: hex.EncodeToString(sum[:])})
	}
	slices.SortFunc(out, func(a, b migration) int { return strings.Compare(a.version, b.version) })
	return out, nil
}

// applied returns version -> checksum for every recorded migration.
func (m *migrator) applied(ctx context.Context) (map[string]string, error) {
	if _, err := m.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version    TEXT PRIMARY KEY,
	filename   TEXT NOT NULL,
	checksum   TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`); err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations: %w", err)
	}
	rows, err := m.pool.Query(ctx, "SELECT version, checksum FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var version, checksum string
		if err := rows.Scan(&version, &checksum); err != nil {
			return nil, err
		}
		out[version] = checksum
	}
	return out, rows.Err()
}

func (m *migrator) up(ctx context.Context, migrations []migration) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	var locked bool
	if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", lockKey).Scan(&locked); err != nil {
		return fmt.Errorf("failed to take advisory lock: %w", err)
	}
	if !locked {
		return errors.New("another migrator is running")
	}
	defer conn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", lockKey)

	done, err := m.applied(ctx)
	if err != nil {
		return err
	}
	for _, mg := range migrations {
		if sum, ok := done[mg.version]; ok {
			if sum != mg.checksum {
				return fmt.Errorf("checksum mismatch for %s: recorded %s, file %s", mg.filename, sum, mg.checksum)
			}
			log.Printf("[SKIP] %s", mg.filename)
			continue
		}
		if err := pgx.BeginFunc(ctx, m.pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, string(mg.sql)); err != nil {
				return err
			}
			_, err := tx.Exec(ctx,
				"INSERT INTO schema_migrations (version, filename, checksum) VALUES ($1, $2, $3)",
				mg.version, mg.filename, mg.checksum)
			return err
		}); err != nil {
			return fmt.Errorf("failed to apply %s: %w", mg.filename, err)
		}
		log.Printf("[APPLY] %s", mg.filename)
	}
	log.Println("[DONE] all migrations processed")
	return nil
}

func (m *migrator) status(ctx context.Context, migrations []migration) error {
	done, err := m.applied(ctx)
	if err != nil {
		return err
	}
	for _, mg := range migrations {
		state := "pending"
		if sum, ok := done[mg.version]; ok {
			state = "applied"
			if sum != mg.checksum {
				state = "CHANGED"
			}
		}
		fmt.Printf("  %-8s %s\n", state, mg.filename)
	}
	return nil
}

// importDocument decodes a file document, normalizes it and writes it as the Postgres row.
func importDocument(ctx context.Context, pool *pgxpool.Pool, path string) error {
	raw, err := db.NewFileStore(path).Load(ctx)
	if err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("%s does not exist", path)
	}
	doc, err := core.DecodeDocument(raw)
	if err != nil {
		return err
	}
	doc.Normalize()
	encoded, err := doc.Encode()
	if err != nil {
		return err
	}
	if err := db.NewPGDocumentStore(pool).Save(ctx, encoded); err != nil {
		return err
	}
	log.Printf("[IMPORT] %s: %d users, %d items, %d purchases", path, len(doc.Users), len(doc.Inventory), len(doc.Purchases))
	return nil
}
