package notify_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"order-portal/internal/core"
	"order-portal/internal/notify"

	"github.com/shopspring/decimal"
)

func TestPDFRenderer_Render(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "invoices")
	r := notify.NewPDFRenderer(dir, "Order Portal", "12 Main St", "Newark, NJ 07102")

	qty := decimal.NewFromInt(2)
	rate := decimal.RequireFromString("10")
	inv := core.Invoice{
		InvoiceNumber: "AW/01",
		CompanyName:   "Acme Widgets",
		DateCreated:   "2025-03-01",
		Products: []core.InvoiceLine{
			{ProductName: "Marlboro Red", ProductCategory: "Cigarettes", Quantity: qty, Rate: rate, Total: qty.Mul(rate)},
		},
		Subtotal:     decimal.RequireFromString("20"),
		SalesTax:     decimal.RequireFromString("1.325"),
		TotalAmount:  decimal.RequireFromString("21.325"),
		TotalBalance: decimal.RequireFromString("21.325"),
		Notes:        "Leave at the back door",
	}

	path, err := r.Render(context.Background(), inv)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if path != filepath.Join(dir, "invoice-AW_01.pdf") {
		t.Errorf("Expected unsafe characters to be replaced, got %s", path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !bytes.HasPrefix(raw, []byte("%PDF")) {
		t.Errorf("Expected a PDF file, got %q", raw[:8])
	}
}

func TestPDFRenderer_CancelledContext(t *testing.T) {
	r := notify.NewPDFRenderer(t.TempDir(), "Order Portal")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, core.Invoice{InvoiceNumber: "AW01"}); err == nil {
		t.Errorf("Expected a cancelled context to stop rendering")
	}
}
