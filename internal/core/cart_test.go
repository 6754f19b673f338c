package core_test

import (
	"testing"

	"order-portal/internal/core"
)

func TestCart_AddMergesLines(t *testing.T) {
	doc := seedDocument()
	buyer := doc.Users[1]
	item := doc.Inventory[0]

	var cart core.Cart
	if err := cart.Add(item, buyer, dec("2")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := cart.Add(item, buyer, dec("1")); err != nil {
		t.Fatalf("second Add failed: %v", err)
	}

	if len(cart.Lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(cart.Lines))
	}
	line := cart.Lines[0]
	assertDecimal(t, "quantity", line.Quantity, "3")
	assertDecimal(t, "price", line.Price, "10")
	if !line.TaxableItem {
		t.Errorf("Expected the line to carry the item's taxable flag")
	}
}

func TestCart_AddRejectsNonPositiveQuantity(t *testing.T) {
	doc := seedDocument()
	var cart core.Cart

	for _, qty := range []string{"0", "-1"} {
		err := cart.Add(doc.Inventory[0], doc.Users[1], dec(qty))
		if !core.IsValidation(err) {
			t.Errorf("Expected a validation error for quantity %s, got %v", qty, err)
		}
	}
	if !cart.Empty() {
		t.Errorf("Expected the cart to stay empty")
	}
}

func TestCart_SetQuantityAndRemove(t *testing.T) {
	doc := seedDocument()
	var cart core.Cart
	_ = cart.Add(doc.Inventory[0], doc.Users[1], dec("1"))
	_ = cart.Add(doc.Inventory[1], doc.Users[1], dec("4"))

	if !cart.SetQuantity(2, dec("6")) {
		t.Fatal("Expected SetQuantity to find item 2")
	}
	assertDecimal(t, "quantity", cart.Lines[1].Quantity, "6")

	if cart.SetQuantity(99, dec("1")) {
		t.Errorf("Expected SetQuantity on a missing item to report false")
	}

	if !cart.SetQuantity(1, dec("0")) {
		t.Fatal("Expected SetQuantity(0) to find item 1")
	}
	if len(cart.Lines) != 1 || cart.Lines[0].ItemID != 2 {
		t.Fatalf("Expected only item 2 to remain, got %+v", cart.Lines)
	}

	cart.Remove(2)
	if !cart.Empty() {
		t.Errorf("Expected the cart to be empty after removing every line")
	}

	var nilCart *core.Cart
	if !nilCart.Empty() {
		t.Errorf("Expected a nil cart to be empty")
	}
}

func TestCartTotals(t *testing.T) {
	lines := []core.CartLine{
		{ItemID: 1, Price: dec("10"), Quantity: dec("2"), TaxableItem: true},
		{ItemID: 2, Price: dec("5"), Quantity: dec("1"), TaxableItem: false},
	}

	tests := []struct {
		name     string
		taxable  bool
		subtotal string
		tax      string
		total    string
	}{
		{"taxable customer pays tax on taxable lines", true, "25", "1.325", "26.325"},
		{"exempt customer pays no tax", false, "25", "0", "25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.CartTotals(lines, tt.taxable)
			assertDecimal(t, "subtotal", got.Subtotal, tt.subtotal)
			assertDecimal(t, "salesTax", got.SalesTax, tt.tax)
			assertDecimal(t, "totalAmount", got.TotalAmount, tt.total)
		})
	}
}
