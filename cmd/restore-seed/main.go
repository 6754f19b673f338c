// restore-seed is a one-shot tool that writes a fresh seed document: the
// admin account and the default category order. Run it on a new install or
// after the data file has been lost. It refuses to replace a document that
// already has users unless --force is given.
//
// Usage: go run ./cmd/restore-seed [--force]
package main

import (
	"context"
	"log"
	"os"

	"order-portal/internal/core"
	"order-portal/internal/db"

	"github.com/joho/godotenv"
)

// defaultCategories is the initial display order of the catalog.
var defaultCategories = []core.CategoryRank{
	{Category: "Cigarettes", Rank: 1},
	{Category: "Cigars", Rank: 2},
	{Category: "Vapes", Rank: 3},
	{Category: "Accessories", Rank: 4},
	{Category: "Snacks", Rank: 5},
	{Category: "Beverages", Rank: 6},
	{Category: core.CategoryOther, Rank: 99},
}

func main() {
	_ = godotenv.Load()

	force := len(os.Args) > 1 && os.Args[1] == "--force"

	ctx := context.Background()
	backend, closeBackend, err := db.OpenBackend(ctx)
	if err != nil {
		log.Fatalf("Failed to open backend: %v", err)
	}
	defer closeBackend()

	raw, err := backend.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to read current document: %v", err)
	}
	if current, err := core.DecodeDocument(raw); err == nil && len(current.Users) > 0 && !force {
		log.Fatalf("Document already has %d users; rerun with --force to replace it", len(current.Users))
	}

	log.Println("Building seed document...")
	store := core.NewMemoryStore(&core.Document{
		ItemsCategory: append([]core.CategoryRank(nil), defaultCategories...),
	})

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("ADMIN_PASSWORD is required")
	}
	admin, err := core.NewUserService(store).SeedAdmin(ctx, os.Getenv("ADMIN_EMAIL"), password)
	if err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	seed, err := store.Snapshot()
	if err != nil {
		log.Fatalf("Failed to encode seed: %v", err)
	}
	if err := backend.Save(ctx, seed); err != nil {
		log.Fatalf("Failed to write seed: %v", err)
	}
	log.Printf("Seed restored: admin %s, %d categories.", admin.Email, len(defaultCategories))
}
