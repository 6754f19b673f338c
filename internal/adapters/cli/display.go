package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"order-portal/internal/app"
	"order-portal/internal/core"
)

func rule(w io.Writer, width int, ch string) {
	fmt.Fprintln(w, strings.Repeat(ch, width))
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func tier(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.StringFixed(2)
}

func printQuarters(w io.Writer, qs []core.Quarter) {
	if len(qs) == 0 {
		fmt.Fprintln(w, "No invoices yet.")
		return
	}
	for _, q := range qs {
		fmt.Fprintf(w, "  %-8s  %s\n", q.ID, q.Label)
	}
}

func printSalesTax(w io.Writer, r *core.SalesTaxReport) {
	fmt.Fprintln(w)
	rule(w, 72, "=")
	fmt.Fprintf(w, "  SALES TAX REPORT  %s (%s)\n", r.Quarter.ID, r.Quarter.Label)
	rule(w, 72, "=")
	fmt.Fprintf(w, "  %-12s %-28s %-10s %8s %10s\n", "INVOICE", "COMPANY", "DATE", "TAX", "TOTAL")
	rule(w, 72, "-")
	for _, inv := range r.Invoices {
		fmt.Fprintf(w, "  %-12s %-28.28s %-10s %8s %10s\n",
			inv.InvoiceNumber, inv.Company, inv.Date, money(inv.SalesTax), money(inv.TotalAmount))
	}
	rule(w, 72, "-")
	fmt.Fprintf(w, "  Gross receipts:                   %s\n", r.GrossReceipts.StringFixed(0))
	fmt.Fprintf(w, "  Receipts not subject to tax:      %s\n", r.ReceiptsNotSubjectTo.StringFixed(0))
	fmt.Fprintf(w, "  Sales tax collected:              %s\n", money(r.TotalSalesTax))
	rule(w, 72, "=")
}

func printMonthly(w io.Writer, r *core.MonthlySalesReport) {
	fmt.Fprintln(w)
	for _, m := range r.Months {
		fmt.Fprintf(w, "  %-10s %12s\n", m.Label, money(m.Total))
	}
	rule(w, 25, "-")
	fmt.Fprintf(w, "  %-10s %12s\n", "Average", money(r.Average))
}

func printProductSales(w io.Writer, r *core.ProductSalesReport) {
	fmt.Fprintln(w)
	rule(w, 90, "=")
	fmt.Fprintf(w, "  SALES BY PRODUCT  %s to %s  vs  %s to %s\n",
		r.CurrentStart, r.CurrentEnd, r.PreviousStart, r.PreviousEnd)
	rule(w, 90, "=")
	fmt.Fprintf(w, "  %-34s %-14s %8s %11s %8s %11s\n", "PRODUCT", "CATEGORY", "QTY", "TOTAL", "PREV QTY", "PREV TOTAL")
	rule(w, 90, "-")
	for _, p := range r.Products {
		name := p.ProductName
		if !p.InInventory {
			name += " *"
		}
		fmt.Fprintf(w, "  %-34.34s %-14.14s %8s %11s %8s %11s\n",
			name, p.Category, p.CurrentQuantity.String(), money(p.CurrentTotal),
			p.PreviousQuantity.String(), money(p.PreviousTotal))
	}
	rule(w, 90, "=")
	fmt.Fprintln(w, "  * not in inventory")
}

func printInvoices(w io.Writer, title string, r *app.InvoiceListResult) {
	fmt.Fprintln(w)
	rule(w, 80, "=")
	fmt.Fprintf(w, "  %s\n", title)
	rule(w, 80, "=")
	if len(r.Invoices) == 0 {
		fmt.Fprintln(w, "  None.")
		rule(w, 80, "=")
		return
	}
	fmt.Fprintf(w, "  %-6s %-12s %-28s %-10s %10s %10s\n", "CUST", "INVOICE", "COMPANY", "DATE", "TOTAL", "BALANCE")
	rule(w, 80, "-")
	for _, ci := range r.Invoices {
		inv := ci.Invoice
		fmt.Fprintf(w, "  %-6d %-12s %-28.28s %-10s %10s %10s\n",
			ci.UserID, inv.InvoiceNumber, ci.Company, inv.DateCreated, money(inv.TotalAmount), money(inv.TotalBalance))
	}
	rule(w, 80, "-")
	fmt.Fprintf(w, "  Outstanding: %s\n", money(r.Outstanding))
	rule(w, 80, "=")
}

func printCustomers(w io.Writer, users []core.User) {
	fmt.Fprintln(w)
	if len(users) == 0 {
		fmt.Fprintln(w, "  No customers found.")
		return
	}
	fmt.Fprintf(w, "  %-4s %-28s %-30s %5s %7s %6s\n", "ID", "COMPANY", "EMAIL", "LEVEL", "TAXABLE", "FINAL")
	rule(w, 86, "-")
	for _, u := range users {
		fmt.Fprintf(w, "  %-4d %-28.28s %-30.30s %5d %7t %6s\n",
			u.ID, u.Company, u.Email, u.Level(), u.Taxable, u.Multiplier().String())
	}
}

func printInventory(w io.Writer, items []core.CatalogItem) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-4s %-32s %-14s %8s %8s %8s %8s %8s\n", "ID", "ITEM", "CATEGORY", "ON HAND", "COST", "LEVEL 1", "LEVEL 2", "LEVEL 3")
	rule(w, 100, "-")
	for _, it := range items {
		fmt.Fprintf(w, "  %-4d %-32.32s %-14.14s %8s %8s %8s %8s %8s\n",
			it.ID, it.ItemName, it.Category, it.Quantity.String(), money(it.Cost),
			tier(it.PriceLevel1), tier(it.PriceLevel2), tier(it.PriceLevel3))
	}
}

func printAnswer(w io.Writer, r *app.AskResult) {
	fmt.Fprintf(w, "\n%s\n", r.Answer.Answer)
	for _, h := range r.Answer.Highlights {
		fmt.Fprintf(w, "  - %s\n", h)
	}
	fmt.Fprintf(w, "(confidence %.2f)\n", r.Answer.Confidence)
}
