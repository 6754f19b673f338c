package db

import (
	"context"
	"log"
	"os"

	"order-portal/internal/core"
)

// OpenBackend picks the document backend from the environment: Postgres
// when DATABASE_URL is set, otherwise the JSON file named by DATA_FILE
// (default data.json). The returned close func releases the pool, if any.
func OpenBackend(ctx context.Context) (core.DocumentBackend, func(), error) {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		pool, err := NewPool(ctx, url)
		if err != nil {
			return nil, nil, err
		}
		log.Println("store: using postgres document backend")
		return NewPGDocumentStore(pool), pool.Close, nil
	}
	path := os.Getenv("DATA_FILE")
	if path == "" {
		path = "data.json"
	}
	log.Printf("store: using file %s", path)
	return NewFileStore(path), func() {}, nil
}
