package notify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"order-portal/internal/core"

	"github.com/go-pdf/fpdf"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// PDFRenderer writes invoice PDFs into a directory.
type PDFRenderer struct {
	dir         string
	sellerName  string
	sellerLines []string
}

// NewPDFRenderer renders into dir, which is created if needed.
func NewPDFRenderer(dir, sellerName string, sellerLines ...string) *PDFRenderer {
	return &PDFRenderer{dir: dir, sellerName: sellerName, sellerLines: sellerLines}
}

// InvoicePath is where the PDF for an invoice number is written.
func (r *PDFRenderer) InvoicePath(number string) string {
	return filepath.Join(r.dir, "invoice-"+unsafeFileChars.ReplaceAllString(number, "_")+".pdf")
}

// Render lays out inv on a letter page and writes it to InvoicePath.
func (r *PDFRenderer) Render(ctx context.Context, inv core.Invoice) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create invoice dir: %w", err)
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle("Invoice "+inv.InvoiceNumber, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, r.sellerName, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, l := range r.sellerLines {
		pdf.CellFormat(0, 5, l, "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(100, 6, "Bill To", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Invoice "+inv.InvoiceNumber, "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	billTo := []string{inv.CompanyName, inv.AddressLine1, inv.AddressLine2,
		fmt.Sprintf("%s, %s %s", inv.City, inv.State, inv.ZipCode)}
	for i, l := range billTo {
		right := ""
		if i == 0 {
			right = "Date: " + inv.DateCreated
		}
		pdf.CellFormat(100, 5, l, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, right, "", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	widths := []float64{80, 40, 20, 25, 30}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range []string{"Product", "Category", "Qty", "Rate", "Total"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
	for _, l := range inv.Products {
		pdf.CellFormat(widths[0], 6, l.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, l.ProductCategory, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, l.Quantity.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, l.Rate.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, l.Total.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	summary := [][2]string{
		{"Subtotal", inv.Subtotal.StringFixed(2)},
		{"Sales Tax", inv.SalesTax.StringFixed(2)},
		{"Total", inv.TotalAmount.StringFixed(2)},
		{"Paid (cash)", inv.CashPayment.StringFixed(2)},
		{"Paid (account)", inv.AccountPayment.StringFixed(2)},
		{"Balance Due", inv.TotalBalance.StringFixed(2)},
	}
	for _, row := range summary {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(165, 6, row[0], "", 0, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(30, 6, row[1], "", 1, "R", false, 0, "")
	}
	if inv.Notes != "" {
		pdf.Ln(4)
		pdf.MultiCell(0, 5, "Notes: "+inv.Notes, "", "L", false)
	}

	path := r.InvoicePath(inv.InvoiceNumber)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
