package core_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"order-portal/internal/core"
)

// memoryBackend is a DocumentBackend that keeps every save.
type memoryBackend struct {
	mu      sync.Mutex
	raw     []byte
	saves   int
	failing bool
}

func (b *memoryBackend) Load(ctx context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.raw, nil
}

func (b *memoryBackend) Save(ctx context.Context, raw []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failing {
		return errors.New("disk full")
	}
	b.raw = append([]byte(nil), raw...)
	b.saves++
	return nil
}

func (b *memoryBackend) saveCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}

func TestStore_OpenEmptyBackend(t *testing.T) {
	store, err := core.OpenStore(context.Background(), &memoryBackend{})
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	raw, err := store.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	doc, err := core.DecodeDocument(raw)
	if err != nil {
		t.Fatalf("DecodeDocument failed: %v", err)
	}
	if doc.Users == nil || doc.Inventory == nil || doc.Returns == nil {
		t.Errorf("Expected empty collections rather than nil, got %+v", doc)
	}
	if !bytes.Contains(raw, []byte(`"users": []`)) {
		t.Errorf("Expected users to encode as an empty array, got %s", raw)
	}
}

func TestStore_UpdateRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := core.NewMemoryStore(seedDocument())

	err := store.Update(ctx, func(d *core.Document) error {
		d.Inventory[0].Quantity = dec("0")
		d.Users = d.Users[:1]
		return errors.New("abort")
	})
	if err == nil {
		t.Fatal("Expected Update to return the callback error")
	}

	assertDecimal(t, "quantity", viewItem(t, store, 1).Quantity, "10")
	_ = store.View(func(d *core.Document) error {
		if len(d.Users) != 3 {
			t.Errorf("Expected 3 users after rollback, got %d", len(d.Users))
		}
		return nil
	})
}

func TestStore_UpdateRollsBackOnFailedWrite(t *testing.T) {
	ctx := context.Background()
	raw, err := seedDocument().Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	backend := &memoryBackend{raw: raw}
	store, err := core.OpenStore(ctx, backend)
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}

	backend.failing = true
	err = store.Update(ctx, func(d *core.Document) error {
		d.Inventory[0].Quantity = dec("1")
		return nil
	})
	if err == nil {
		t.Fatal("Expected Update to fail when the backend rejects the write")
	}
	assertDecimal(t, "quantity", viewItem(t, store, 1).Quantity, "10")

	backend.failing = false
	if err := store.Update(ctx, func(d *core.Document) error {
		d.Inventory[0].Quantity = dec("1")
		return nil
	}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	saved, err := core.DecodeDocument(backend.raw)
	if err != nil {
		t.Fatalf("DecodeDocument failed: %v", err)
	}
	assertDecimal(t, "saved quantity", saved.Inventory[0].Quantity, "1")
}

func TestStore_EncodingIsStable(t *testing.T) {
	store := core.NewMemoryStore(invoicedDocument())

	first, err := store.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	doc, err := core.DecodeDocument(first)
	if err != nil {
		t.Fatalf("DecodeDocument failed: %v", err)
	}
	second, err := doc.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("Expected decode then encode to reproduce the document byte for byte")
	}
}

func TestStore_RunAutosaveFlushesOnCancel(t *testing.T) {
	backend := &memoryBackend{}
	store, err := core.OpenStore(context.Background(), backend)
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		store.RunAutosave(ctx, time.Hour)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("RunAutosave did not return after cancel")
	}
	if backend.saveCount() != 1 {
		t.Errorf("Expected one final flush, got %d saves", backend.saveCount())
	}
}

func TestDecodeDocument_LegacyShapes(t *testing.T) {
	raw := []byte(`{
		"users": [{"id": 1, "email": "a@b.test", "company": "Acme", "priceLevel": "2"}],
		"vendors": ["Acme Supply", {"id": 7, "company": "Best Wholesale"}],
		"ItemsCategory": [{"Category": "Snacks", "Rank": 5}, {"Category": "Cigarettes", "Rank": 1}]
	}`)
	doc, err := core.DecodeDocument(raw)
	if err != nil {
		t.Fatalf("DecodeDocument failed: %v", err)
	}
	if doc.Users[0].PriceLevel != 2 {
		t.Errorf("Expected a string price level to decode as 2, got %d", doc.Users[0].PriceLevel)
	}
	if doc.Vendors[0].Company != "Acme Supply" || doc.Vendors[0].ID != 8 {
		t.Errorf("Expected the bare vendor name to get the next free ID, got %+v", doc.Vendors[0])
	}
	if doc.ItemsCategory[0].Category != "Cigarettes" {
		t.Errorf("Expected categories ordered by rank, got %+v", doc.ItemsCategory)
	}
}
