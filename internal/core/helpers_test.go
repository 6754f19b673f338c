package core_test

import (
	"testing"

	"order-portal/internal/core"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func assertDecimal(t *testing.T, field string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("Expected %s %s, got %s", field, want, got)
	}
}

// seedDocument returns a small document: one taxable customer, one
// tax-exempt customer, an admin and two catalog items.
func seedDocument() *core.Document {
	return &core.Document{
		Users: []core.User{
			{ID: 1, Email: "admin@example.com", Role: core.RoleAdmin, Company: "Administrator"},
			{
				ID: 2, Email: "buyer@acme.test", Role: core.RoleCustomer, Company: "Acme Widgets",
				PriceLevel: 3, Taxable: true, FinalPrice: dec("1"),
			},
			{
				ID: 3, Email: "owner@corner.test", Role: core.RoleCustomer, Company: "Corner Store",
				PriceLevel: 2, Taxable: false, FinalPrice: dec("1"),
			},
		},
		Inventory: []core.CatalogItem{
			{
				ID: 1, ItemName: "Marlboro Red", Category: "Cigarettes",
				Cost: dec("8"), Quantity: dec("10"),
				PriceLevel1: price("9"), PriceLevel2: price("9.5"), PriceLevel3: price("10"),
				Taxable: true,
			},
			{
				ID: 2, ItemName: "Lighter", Category: "Accessories",
				Cost: dec("2"), Quantity: dec("50"),
				PriceLevel1: price("4"), PriceLevel2: price("4.5"), PriceLevel3: price("5"),
				Taxable: false,
			},
		},
		ItemsCategory: []core.CategoryRank{
			{Category: "Cigarettes", Rank: 1},
			{Category: "Accessories", Rank: 2},
		},
	}
}

func viewItem(t *testing.T, store *core.Store, id int) core.CatalogItem {
	t.Helper()
	var out core.CatalogItem
	found := false
	_ = store.View(func(d *core.Document) error {
		for _, it := range d.Inventory {
			if it.ID == id {
				out = it
				found = true
			}
		}
		return nil
	})
	if !found {
		t.Fatalf("item %d not in store", id)
	}
	return out
}
