package core_test

import (
	"context"
	"errors"
	"testing"

	"order-portal/internal/core"
)

func setupPurchaseTest(t *testing.T) (*core.Store, core.PurchaseService, context.Context) {
	t.Helper()
	store := core.NewMemoryStore(seedDocument())
	return store, core.NewPurchaseService(store), context.Background()
}

func TestPurchaseService_RecordPurchase(t *testing.T) {
	store, purchases, ctx := setupPurchaseTest(t)

	p, err := purchases.RecordPurchase(ctx, core.PurchaseInput{
		VendorName:    core.VendorOther,
		NewVendor:     "  Best Wholesale ",
		DateCreated:   "04/02/2025",
		InvoiceNumber: "BW-7781",
		CashPaid:      dec("50"),
		Products: []core.PurchaseLine{
			{ProductName: "Marlboro Red", Quantity: dec("10"), Rate: dec("10"), AutoPricing: core.ProfileRetail},
			{ProductName: "Unlisted Cigar", Quantity: dec("2"), Rate: dec("3")},
		},
	})
	if err != nil {
		t.Fatalf("RecordPurchase failed: %v", err)
	}

	if p.PurchaseID != 1 {
		t.Errorf("Expected purchase ID 1, got %d", p.PurchaseID)
	}
	if p.VendorName != "Best Wholesale" {
		t.Errorf("Expected the free-text vendor name, got %q", p.VendorName)
	}
	if p.DateCreated != "2025-04-02" {
		t.Errorf("Expected date 2025-04-02, got %s", p.DateCreated)
	}
	assertDecimal(t, "line total", p.Products[0].Total, "100")
	assertDecimal(t, "invoiceTotal", p.InvoiceTotal, "106")
	assertDecimal(t, "accountBalance", p.AccountBalance, "56")
	if p.Paid {
		t.Errorf("Expected the purchase to be unpaid")
	}

	item := viewItem(t, store, 1)
	assertDecimal(t, "cost", item.Cost, "10")
	assertDecimal(t, "priceLevel1", item.PriceLevel1.Decimal, "11.25")
	assertDecimal(t, "priceLevel2", item.PriceLevel2.Decimal, "12")
	assertDecimal(t, "priceLevel3", item.PriceLevel3.Decimal, "14")
	if len(item.Vendors) != 1 || item.Vendors[0].Name != "Best Wholesale" || item.Vendors[0].LastPurchased != "2025-04-02" {
		t.Errorf("Expected a vendor price from Best Wholesale, got %+v", item.Vendors)
	}

	vendors, _ := core.NewVendorService(store).ListVendors(ctx)
	if len(vendors) != 1 || vendors[0].Company != "Best Wholesale" {
		t.Errorf("Expected the new vendor to be added, got %+v", vendors)
	}
}

func TestPurchaseService_UpdateAndDelete(t *testing.T) {
	store, purchases, ctx := setupPurchaseTest(t)

	p, err := purchases.RecordPurchase(ctx, core.PurchaseInput{
		VendorName: "Best Wholesale",
		Products:   []core.PurchaseLine{{ProductName: "Lighter", Quantity: dec("5"), Rate: dec("2")}},
	})
	if err != nil {
		t.Fatalf("RecordPurchase failed: %v", err)
	}

	updated, err := purchases.UpdatePurchase(ctx, p.PurchaseID, core.PurchaseInput{
		VendorName:  "best wholesale",
		CashPaid:    dec("6"),
		AccountPaid: dec("6"),
		Products:    []core.PurchaseLine{{ProductName: "Lighter", Quantity: dec("6"), Rate: dec("2"), AutoPricing: core.ProfileVPack}},
	})
	if err != nil {
		t.Fatalf("UpdatePurchase failed: %v", err)
	}
	assertDecimal(t, "invoiceTotal", updated.InvoiceTotal, "12")
	if !updated.Paid {
		t.Errorf("Expected a fully paid purchase")
	}
	item := viewItem(t, store, 2)
	// 1.15*2+0.25 = 2.55 rounds to 2.5
	assertDecimal(t, "priceLevel1", item.PriceLevel1.Decimal, "2.5")
	if len(item.Vendors) != 1 {
		t.Errorf("Expected vendor names to match case-insensitively, got %+v", item.Vendors)
	}

	if err := purchases.DeletePurchase(ctx, p.PurchaseID); err != nil {
		t.Fatalf("DeletePurchase failed: %v", err)
	}
	if _, err := purchases.GetPurchase(ctx, p.PurchaseID); !core.IsNotFound(err) {
		t.Errorf("Expected not found after delete, got %v", err)
	}
	if err := purchases.DeletePurchase(ctx, p.PurchaseID); !core.IsNotFound(err) {
		t.Errorf("Expected not found on a second delete, got %v", err)
	}
}

func TestPurchaseService_Rejected(t *testing.T) {
	_, purchases, ctx := setupPurchaseTest(t)
	line := []core.PurchaseLine{{ProductName: "Lighter", Quantity: dec("1"), Rate: dec("2")}}

	tests := []struct {
		name    string
		in      core.PurchaseInput
		wantErr error
	}{
		{"no vendor", core.PurchaseInput{Products: line}, core.ErrInvalidInput},
		{"other without name", core.PurchaseInput{VendorName: core.VendorOther, Products: line}, core.ErrInvalidInput},
		{"no lines", core.PurchaseInput{VendorName: "Acme"}, core.ErrInvalidLine},
		{
			"unknown profile",
			core.PurchaseInput{VendorName: "Acme", Products: []core.PurchaseLine{{ProductName: "Lighter", AutoPricing: "half-off"}}},
			core.ErrInvalidLine,
		},
		{"negative payment", core.PurchaseInput{VendorName: "Acme", Products: line, CashPaid: dec("-1")}, core.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := purchases.RecordPurchase(ctx, tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPurchaseOutstanding(t *testing.T) {
	_, purchases, ctx := setupPurchaseTest(t)
	for _, paid := range []string{"0", "4"} {
		if _, err := purchases.RecordPurchase(ctx, core.PurchaseInput{
			VendorName: "Acme",
			CashPaid:   dec(paid),
			Products:   []core.PurchaseLine{{ProductName: "Lighter", Quantity: dec("2"), Rate: dec("2")}},
		}); err != nil {
			t.Fatalf("RecordPurchase failed: %v", err)
		}
	}
	list, err := purchases.ListPurchases(ctx)
	if err != nil {
		t.Fatalf("ListPurchases failed: %v", err)
	}
	assertDecimal(t, "outstanding", core.PurchaseOutstanding(list), "4")
}
