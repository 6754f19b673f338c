package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"order-portal/internal/app"
	"order-portal/internal/core"
)

func setupAppTest(t *testing.T) (app.ApplicationService, context.Context) {
	t.Helper()
	doc := &core.Document{
		Users: []core.User{
			{ID: 1, Email: "admin@example.com", Role: core.RoleAdmin, Company: "Administrator"},
			{
				ID: 2, Email: "buyer@acme.test", Role: core.RoleCustomer, Company: "Acme Widgets",
				PriceLevel: 3, Taxable: true, FinalPrice: decimal.NewFromInt(1),
			},
		},
		Inventory: []core.CatalogItem{
			{
				ID: 1, ItemName: "Marlboro Red", Category: "Cigarettes",
				Cost: decimal.NewFromInt(8), Quantity: decimal.NewFromInt(10),
				PriceLevel1: decimal.NewNullDecimal(decimal.NewFromInt(9)),
				PriceLevel2: decimal.NewNullDecimal(decimal.RequireFromString("9.5")),
				PriceLevel3: decimal.NewNullDecimal(decimal.NewFromInt(10)),
				Taxable:     true,
			},
		},
	}
	return app.NewAppService(core.NewMemoryStore(doc), nil, nil), context.Background()
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		want app.Amount
	}{
		{"number", `{"itemId":1,"quantity":2.5}`, "2.5"},
		{"string", `{"itemId":1,"quantity":"$1,000"}`, "$1,000"},
		{"null", `{"itemId":1,"quantity":null}`, ""},
		{"absent", `{"itemId":1}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req app.CartItemRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if req.Quantity != tt.want {
				t.Errorf("Expected quantity %q, got %q", tt.want, req.Quantity)
			}
		})
	}

	var req app.CartItemRequest
	if err := json.Unmarshal([]byte(`{"quantity":true}`), &req); err == nil {
		t.Errorf("Expected a boolean amount to be rejected")
	}
}

func TestAppService_CartAndCheckout(t *testing.T) {
	svc, ctx := setupAppTest(t)
	cart := &core.Cart{}

	res, err := svc.AddToCart(ctx, 2, cart, app.CartItemRequest{ItemID: 1, Quantity: "2"})
	if err != nil {
		t.Fatalf("AddToCart failed: %v", err)
	}
	if len(res.Lines) != 1 || !res.Totals.TotalAmount.Equal(decimal.RequireFromString("21.325")) {
		t.Errorf("Unexpected cart %+v", res)
	}

	if _, err := svc.AddToCart(ctx, 2, cart, app.CartItemRequest{ItemID: 1, Quantity: "two"}); !core.IsValidation(err) {
		t.Errorf("Expected a validation error for a bad quantity, got %v", err)
	}
	if _, err := svc.AddToCart(ctx, 2, cart, app.CartItemRequest{ItemID: 1, Quantity: "1e30000000"}); !core.IsValidation(err) {
		t.Errorf("Expected a validation error for an exponent quantity, got %v", err)
	}
	if got := cart.Lines[0].Quantity; !got.Equal(decimal.NewFromInt(2)) {
		t.Errorf("Expected the cart quantity to stay 2, got %s", got)
	}
	if _, err := svc.AddToCart(ctx, 2, cart, app.CartItemRequest{ItemID: 9, Quantity: "1"}); !core.IsNotFound(err) {
		t.Errorf("Expected not found for an unknown item, got %v", err)
	}
	if _, err := svc.SetCartQuantity(ctx, 2, cart, app.CartItemRequest{ItemID: 9, Quantity: "1"}); !core.IsNotFound(err) {
		t.Errorf("Expected not found for an item outside the cart, got %v", err)
	}

	out, err := svc.Checkout(ctx, 2, cart)
	if err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}
	if out.Invoice.InvoiceNumber != "AW01" {
		t.Errorf("Expected invoice AW01, got %s", out.Invoice.InvoiceNumber)
	}
	if !cart.Empty() {
		t.Errorf("Expected the cart to be cleared")
	}
}

func TestAppService_UpdateInvoiceParsesStrictly(t *testing.T) {
	svc, ctx := setupAppTest(t)
	cart := &core.Cart{}
	if _, err := svc.AddToCart(ctx, 2, cart, app.CartItemRequest{ItemID: 1, Quantity: "1"}); err != nil {
		t.Fatalf("AddToCart failed: %v", err)
	}
	if _, err := svc.Checkout(ctx, 2, cart); err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}

	bad := app.InvoiceUpdateRequest{Products: []app.LineRequest{
		{ProductName: "Marlboro Red", ProductCategory: "Cigarettes", Quantity: "abc", Rate: "10"},
	}}
	if _, err := svc.UpdateInvoice(ctx, 2, "AW01", bad); !core.IsValidation(err) {
		t.Errorf("Expected a validation error, got %v", err)
	}

	cash := app.Amount("$5.00")
	inv, err := svc.UpdateInvoice(ctx, 2, "AW01", app.InvoiceUpdateRequest{CashPayment: &cash})
	if err != nil {
		t.Fatalf("UpdateInvoice failed: %v", err)
	}
	if !inv.CashPayment.Equal(decimal.NewFromInt(5)) {
		t.Errorf("Expected cash payment 5, got %s", inv.CashPayment)
	}

	if _, err := svc.RecordPayment(ctx, 2, "AW01", app.PaymentRequest{Cash: "lots"}); !core.IsValidation(err) {
		t.Errorf("Expected a validation error for a bad payment, got %v", err)
	}
}

func TestAppService_AskWithoutAnalyst(t *testing.T) {
	svc, ctx := setupAppTest(t)
	if _, err := svc.Ask(ctx, "How were sales last month?"); !errors.Is(err, app.ErrAssistantUnavailable) {
		t.Errorf("Expected ErrAssistantUnavailable, got %v", err)
	}
}

func TestAppService_ExportPriceList(t *testing.T) {
	svc, ctx := setupAppTest(t)
	var buf bytes.Buffer
	if err := svc.ExportPriceList(ctx, &buf); err != nil {
		t.Fatalf("ExportPriceList failed: %v", err)
	}
	// xlsx workbooks are zip archives.
	if !bytes.HasPrefix(buf.Bytes(), []byte("PK")) {
		t.Errorf("Expected a zip archive, got %d bytes", buf.Len())
	}
}
