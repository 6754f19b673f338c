package export_test

import (
	"bytes"
	"testing"

	"order-portal/internal/core"
	"order-portal/internal/export"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func openWorkbook(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func assertCell(t *testing.T, f *excelize.File, sheet, cell, want string) {
	t.Helper()
	got, err := f.GetCellValue(sheet, cell)
	if err != nil {
		t.Fatalf("GetCellValue(%s!%s) failed: %v", sheet, cell, err)
	}
	if got != want {
		t.Errorf("Expected %s!%s = %q, got %q", sheet, cell, want, got)
	}
}

func TestSalesTaxReport(t *testing.T) {
	q, _ := core.QuarterByID("2025-Q1")
	report := &core.SalesTaxReport{
		Quarter: q,
		Invoices: []core.TaxedInvoice{
			{InvoiceNumber: "AW01", Company: "Acme Widgets", Date: "2025-02-03",
				SalesTax: decimal.RequireFromString("13.25"), TotalAmount: decimal.RequireFromString("213.25")},
		},
		GrossReceipts:        decimal.NewFromInt(263),
		TotalSalesTax:        decimal.RequireFromString("13.25"),
		ReceiptsNotSubjectTo: decimal.NewFromInt(63),
	}

	var buf bytes.Buffer
	if err := export.SalesTaxReport(&buf, report); err != nil {
		t.Fatalf("SalesTaxReport failed: %v", err)
	}
	f := openWorkbook(t, &buf)

	assertCell(t, f, "Sales Tax", "B1", "Jan 1 - Mar 31, 2025")
	assertCell(t, f, "Sales Tax", "B2", "263")
	assertCell(t, f, "Sales Tax", "B4", "63")
	assertCell(t, f, "Sales Tax", "A6", "Invoice")
	assertCell(t, f, "Sales Tax", "A7", "AW01")
	assertCell(t, f, "Sales Tax", "D7", "13.25")
}

func TestSalesByProduct(t *testing.T) {
	id := 1
	report := &core.ProductSalesReport{
		Months: 3, CurrentStart: "2025-02-01", CurrentEnd: "2025-04-30",
		PreviousStart: "2024-11-01", PreviousEnd: "2025-01-31",
		Products: []core.ProductSales{
			{ProductName: "Marlboro Red", Category: "Cigarettes", ItemID: &id, InInventory: true,
				OnHand: decimal.NewFromInt(8), CurrentQuantity: decimal.NewFromInt(5), CurrentTotal: decimal.NewFromInt(50),
				PreviousQuantity: decimal.Zero, PreviousTotal: decimal.Zero},
			{ProductName: "old promo pack", InInventory: false,
				OnHand: decimal.Zero, CurrentQuantity: decimal.NewFromInt(1), CurrentTotal: decimal.RequireFromString("2.5"),
				PreviousQuantity: decimal.Zero, PreviousTotal: decimal.Zero},
		},
	}

	var buf bytes.Buffer
	if err := export.SalesByProduct(&buf, report); err != nil {
		t.Fatalf("SalesByProduct failed: %v", err)
	}
	f := openWorkbook(t, &buf)

	assertCell(t, f, "Sales by Product", "B1", "2025-02-01 to 2025-04-30")
	assertCell(t, f, "Sales by Product", "A5", "Marlboro Red")
	assertCell(t, f, "Sales by Product", "C5", "Yes")
	assertCell(t, f, "Sales by Product", "F5", "50")
	assertCell(t, f, "Sales by Product", "C6", "No")
	assertCell(t, f, "Sales by Product", "F6", "2.5")
}

func TestPriceList(t *testing.T) {
	items := []core.CatalogItem{
		{ID: 1, ItemName: "Marlboro Red", Category: "Cigarettes", Cost: decimal.NewFromInt(8), Quantity: decimal.NewFromInt(10),
			PriceLevel1: decimal.NewNullDecimal(decimal.NewFromInt(9)), PriceLevel3: decimal.NewNullDecimal(decimal.NewFromInt(10)),
			Taxable: true},
	}

	var buf bytes.Buffer
	if err := export.PriceList(&buf, items); err != nil {
		t.Fatalf("PriceList failed: %v", err)
	}
	f := openWorkbook(t, &buf)

	assertCell(t, f, "Price List", "B1", "Item")
	assertCell(t, f, "Price List", "B2", "Marlboro Red")
	assertCell(t, f, "Price List", "E2", "9")
	assertCell(t, f, "Price List", "F2", "")
	assertCell(t, f, "Price List", "I2", "Yes")
}
