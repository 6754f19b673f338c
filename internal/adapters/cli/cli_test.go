package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"order-portal/internal/adapters/cli"
	"order-portal/internal/app"
	"order-portal/internal/core"
)

func setupCLITest(t *testing.T) app.ApplicationService {
	t.Helper()
	doc := &core.Document{
		Users: []core.User{
			{
				ID: 2, Email: "buyer@acme.test", Role: core.RoleCustomer, Company: "Acme Widgets",
				PriceLevel: 3, Taxable: true,
				Invoices: []core.Invoice{{
					InvoiceNumber: "AW01",
					CompanyName:   "Acme Widgets",
					DateCreated:   "2025-02-03",
					Subtotal:      decimal.NewFromInt(200),
					SalesTax:      decimal.RequireFromString("13.25"),
					TotalAmount:   decimal.RequireFromString("213.25"),
					TotalBalance:  decimal.RequireFromString("213.25"),
				}},
			},
		},
		Inventory: []core.CatalogItem{
			{
				ID: 1, ItemName: "Marlboro Red", Category: "Cigarettes",
				Cost: decimal.NewFromInt(8), Quantity: decimal.NewFromInt(10),
				PriceLevel3: decimal.NewNullDecimal(decimal.NewFromInt(10)),
			},
		},
	}
	return app.NewAppService(core.NewMemoryStore(doc), nil, nil)
}

func TestExecute(t *testing.T) {
	svc := setupCLITest(t)
	ctx := context.Background()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"quarters", []string{"quarters"}, "2025-Q1"},
		{"quarters alias", []string{"Q"}, "2025-Q1"},
		{"unpaid", []string{"unpaid"}, "AW01"},
		{"customers", []string{"customers"}, "Acme Widgets"},
		{"inventory", []string{"inv"}, "Marlboro Red"},
		{"help", []string{"help"}, "Commands:"},
		{"schema", []string{"schema"}, `"inventory"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := cli.Execute(ctx, svc, &buf, tt.args); err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.want, buf.String())
			}
		})
	}
}

func TestExecute_Errors(t *testing.T) {
	svc := setupCLITest(t)
	ctx := context.Background()

	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"frobnicate"}},
		{"tax without quarter", []string{"tax"}},
		{"products with bad months", []string{"products", "six"}},
		{"ask without analyst", []string{"ask", "how", "are", "sales?"}},
		{"unknown export", []string{"export", "ledger", "out.xlsx"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := cli.Execute(ctx, svc, &buf, tt.args); err == nil {
				t.Errorf("Expected an error, got output:\n%s", buf.String())
			}
		})
	}
}

func TestExecute_ExportPrices(t *testing.T) {
	svc := setupCLITest(t)
	path := filepath.Join(t.TempDir(), "prices.xlsx")

	var buf bytes.Buffer
	if err := cli.Execute(context.Background(), svc, &buf, []string{"export", "prices", path}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() == 0 {
		t.Errorf("Expected a non-empty workbook")
	}
	if !strings.Contains(buf.String(), "Wrote "+path) {
		t.Errorf("Unexpected output %q", buf.String())
	}
}
