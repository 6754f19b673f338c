package core

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// DocumentBackend persists the encoded document as a whole.
// Load returns nil bytes when nothing has been saved yet.
type DocumentBackend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, raw []byte) error
}

// Store holds the live document in memory and serializes all writes.
// A published document is never mutated: Update works on a copy and swaps
// it in after the backend accepted it, so readers never see partial state.
type Store struct {
	mu      sync.Mutex
	doc     *Document
	backend DocumentBackend
}

// OpenStore loads the document from backend.
func OpenStore(ctx context.Context, backend DocumentBackend) (*Store, error) {
	raw, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}
	doc, err := DecodeDocument(raw)
	if err != nil {
		return nil, err
	}
	return &Store{doc: doc, backend: backend}, nil
}

// NewMemoryStore wraps doc without persistence. Used by tools and tests.
func NewMemoryStore(doc *Document) *Store {
	if doc == nil {
		doc = &Document{}
	}
	doc.Normalize()
	return &Store{doc: doc}
}

// View runs fn against the current document. fn must not modify it.
func (s *Store) View(fn func(d *Document) error) error {
	s.mu.Lock()
	doc := s.doc
	s.mu.Unlock()
	return fn(doc)
}

// Update applies fn to a copy of the document and commits the copy with a
// single write. If fn or the write fails nothing changes.
func (s *Store) Update(ctx context.Context, fn func(d *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.doc.Clone()
	if err != nil {
		return err
	}
	if err := fn(next); err != nil {
		return err
	}
	next.Normalize()
	if s.backend != nil {
		raw, err := next.Encode()
		if err != nil {
			return err
		}
		if err := s.backend.Save(ctx, raw); err != nil {
			return fmt.Errorf("failed to commit store: %w", err)
		}
	}
	s.doc = next
	return nil
}

// Snapshot returns the current document encoded.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Encode()
}

// Flush writes the current document to the backend.
func (s *Store) Flush(ctx context.Context) error {
	if s.backend == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := s.doc.Encode()
	if err != nil {
		return err
	}
	if err := s.backend.Save(ctx, raw); err != nil {
		return fmt.Errorf("failed to flush store: %w", err)
	}
	return nil
}

// RunAutosave flushes the document every interval, whether or not anything
// changed, until ctx is cancelled, then flushes once more.
func (s *Store) RunAutosave(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if err := s.Flush(context.Background()); err != nil {
				log.Printf("autosave: final flush: %v", err)
			}
			return
		case <-ticker.C:
			if err := s.Flush(ctx); err != nil {
				log.Printf("autosave: %v", err)
			}
		}
	}
}
