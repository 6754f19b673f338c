package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// documentID is the single row that holds the portal document.
const documentID = 1

// PGDocumentStore keeps the store document in the store_documents table as
// one json row. See migrations/001_store_documents.sql.
type PGDocumentStore struct {
	pool *pgxpool.Pool
}

// NewPGDocumentStore wraps an open pool.
func NewPGDocumentStore(pool *pgxpool.Pool) *PGDocumentStore {
	return &PGDocumentStore{pool: pool}
}

// Load returns the stored document, or nil when the row does not exist yet.
func (s *PGDocumentStore) Load(ctx context.Context) ([]byte, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		"SELECT body::text FROM store_documents WHERE id = $1", documentID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load store document: %w", err)
	}
	return raw, nil
}

// Save upserts the document row.
func (s *PGDocumentStore) Save(ctx context.Context, raw []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO store_documents (id, body, updated_at)
		VALUES ($1, $2::json, now())
		ON CONFLICT (id) DO UPDATE
		  SET body = EXCLUDED.body,
		      updated_at = EXCLUDED.updated_at`,
		documentID, string(raw),
	)
	if err != nil {
		return fmt.Errorf("failed to save store document: %w", err)
	}
	return nil
}
