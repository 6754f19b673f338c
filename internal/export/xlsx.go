// Package export writes reports as xlsx workbooks.
package export

import (
	"fmt"
	"io"

	"order-portal/internal/core"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// sheet wraps one worksheet with a running row cursor.
type sheet struct {
	f    *excelize.File
	name string
	row  int
	bold int
}

func newWorkbook(name string) (*sheet, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", name); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create style: %w", err)
	}
	return &sheet{f: f, name: name, row: 1, bold: bold}, nil
}

func (s *sheet) add(values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return err
	}
	row := make([]any, len(values))
	for i, v := range values {
		if d, ok := v.(decimal.Decimal); ok {
			row[i] = d.Round(2).InexactFloat64()
			continue
		}
		row[i] = v
	}
	if err := s.f.SetSheetRow(s.name, cell, &row); err != nil {
		return fmt.Errorf("failed to write row %d: %w", s.row, err)
	}
	s.row++
	return nil
}

func (s *sheet) header(values ...any) error {
	if err := s.add(values...); err != nil {
		return err
	}
	first, _ := excelize.CoordinatesToCellName(1, s.row-1)
	last, _ := excelize.CoordinatesToCellName(len(values), s.row-1)
	return s.f.SetCellStyle(s.name, first, last, s.bold)
}

func (s *sheet) finish(w io.Writer, widths map[string]float64) error {
	defer s.f.Close()
	for col, width := range widths {
		if err := s.f.SetColWidth(s.name, col, col, width); err != nil {
			return err
		}
	}
	if err := s.f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SalesTaxReport writes the quarter's taxed invoices and totals.
func SalesTaxReport(w io.Writer, r *core.SalesTaxReport) error {
	s, err := newWorkbook("Sales Tax")
	if err != nil {
		return err
	}
	rows := [][]any{
		{"Quarter", r.Quarter.Label},
		{"Gross receipts", r.GrossReceipts},
		{"Total sales tax", r.TotalSalesTax},
		{"Receipts not subject to sales tax", r.ReceiptsNotSubjectTo},
		{},
	}
	for _, row := range rows {
		if err := s.add(row...); err != nil {
			return err
		}
	}
	if err := s.header("Invoice", "Company", "Date", "Sales Tax", "Total"); err != nil {
		return err
	}
	for _, inv := range r.Invoices {
		if err := s.add(inv.InvoiceNumber, inv.Company, inv.Date, inv.SalesTax, inv.TotalAmount); err != nil {
			return err
		}
	}
	return s.finish(w, map[string]float64{"A": 34, "B": 30, "C": 12, "D": 12, "E": 12})
}

// SalesByProduct writes the product comparison rows.
func SalesByProduct(w io.Writer, r *core.ProductSalesReport) error {
	s, err := newWorkbook("Sales by Product")
	if err != nil {
		return err
	}
	if err := s.add("Current period", r.CurrentStart+" to "+r.CurrentEnd); err != nil {
		return err
	}
	if err := s.add("Previous period", r.PreviousStart+" to "+r.PreviousEnd); err != nil {
		return err
	}
	if err := s.add(); err != nil {
		return err
	}
	if err := s.header("Product", "Category", "In Inventory", "On Hand",
		"Qty (current)", "Sales (current)", "Qty (previous)", "Sales (previous)"); err != nil {
		return err
	}
	for _, p := range r.Products {
		inInventory := "No"
		if p.InInventory {
			inInventory = "Yes"
		}
		if err := s.add(p.ProductName, p.Category, inInventory, p.OnHand,
			p.CurrentQuantity, p.CurrentTotal, p.PreviousQuantity, p.PreviousTotal); err != nil {
			return err
		}
	}
	return s.finish(w, map[string]float64{"A": 40, "B": 20})
}

// PriceList writes the catalog with all three price levels and cost.
func PriceList(w io.Writer, items []core.CatalogItem) error {
	s, err := newWorkbook("Price List")
	if err != nil {
		return err
	}
	if err := s.header("ID", "Item", "Category", "Cost", "Level 1", "Level 2", "Level 3", "On Hand", "Taxable"); err != nil {
		return err
	}
	level := func(p decimal.NullDecimal) any {
		if !p.Valid {
			return ""
		}
		return p.Decimal
	}
	for _, it := range items {
		taxable := "No"
		if it.Taxable {
			taxable = "Yes"
		}
		if err := s.add(it.ID, it.ItemName, it.Category, it.Cost,
			level(it.PriceLevel1), level(it.PriceLevel2), level(it.PriceLevel3), it.Quantity, taxable); err != nil {
			return err
		}
	}
	return s.finish(w, map[string]float64{"B": 40, "C": 20})
}
