package core

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ── Report types ─────────────────────────────────────────────────────────────

// Quarter is one calendar quarter with literal start and end dates.
type Quarter struct {
	ID    string `json:"id"`    // "2025-Q1"
	Label string `json:"label"` // "Jan 1 - Mar 31, 2025"
	Start string `json:"start"` // YYYY-MM-DD, inclusive
	End   string `json:"end"`   // YYYY-MM-DD, inclusive
}

// TaxedInvoice is an invoice listed on the sales tax report.
type TaxedInvoice struct {
	InvoiceNumber string          `json:"invoiceNumber"`
	Company       string          `json:"company"`
	Date          string          `json:"date"`
	SalesTax      decimal.Decimal `json:"salesTax"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
}

// SalesTaxReport summarizes one quarter. Gross receipts and receipts not
// subject to tax are rounded to whole dollars.
type SalesTaxReport struct {
	Quarter              Quarter         `json:"quarter"`
	Invoices             []TaxedInvoice  `json:"invoices"`
	GrossReceipts        decimal.Decimal `json:"grossReceipts"`
	TotalSalesTax        decimal.Decimal `json:"totalSalesTax"`
	ReceiptsNotSubjectTo decimal.Decimal `json:"receiptsNotSubjectToSalesTax"`
}

// MonthTotal is the invoiced total for one calendar month.
type MonthTotal struct {
	Label string          `json:"label"` // "Jan 2025"
	Year  int             `json:"year"`
	Month time.Month      `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// MonthlySalesReport covers the trailing twelve months, oldest first.
// Average excludes the current, still-open month.
type MonthlySalesReport struct {
	Months  []MonthTotal    `json:"months"`
	Average decimal.Decimal `json:"average"`
}

// RangeSalesReport is the invoiced total between two dates, inclusive.
type RangeSalesReport struct {
	From     string          `json:"from"`
	To       string          `json:"to"`
	Invoices int             `json:"invoices"`
	Total    decimal.Decimal `json:"total"`
}

// ProductSales compares one product across two equal periods.
// InInventory is false for invoice names that matched no catalog item.
type ProductSales struct {
	ProductName      string          `json:"productName"`
	Category         string          `json:"category"`
	ItemID           *int            `json:"itemId,omitempty"`
	InInventory      bool            `json:"inInventory"`
	OnHand           decimal.Decimal `json:"onHand"`
	CurrentQuantity  decimal.Decimal `json:"currentQuantity"`
	CurrentTotal     decimal.Decimal `json:"currentTotal"`
	PreviousQuantity decimal.Decimal `json:"previousQuantity"`
	PreviousTotal    decimal.Decimal `json:"previousTotal"`
}

// ProductSalesReport is sales by product for the trailing Months months
// against the Months months before them.
type ProductSalesReport struct {
	Months        int            `json:"months"`
	CurrentStart  string         `json:"currentStart"`
	CurrentEnd    string         `json:"currentEnd"`
	PreviousStart string         `json:"previousStart"`
	PreviousEnd   string         `json:"previousEnd"`
	Products      []ProductSales `json:"products"`
}

// ReportingService builds sales and tax reports from every customer's invoices.
type ReportingService interface {
	Quarters(ctx context.Context) ([]Quarter, error)
	SalesTax(ctx context.Context, quarterID string) (*SalesTaxReport, error)
	MonthlySales(ctx context.Context) (*MonthlySalesReport, error)
	SalesRange(ctx context.Context, from, to string) (*RangeSalesReport, error)
	SalesByProduct(ctx context.Context, months int) (*ProductSalesReport, error)
}

type reportingService struct {
	store *Store
	now   func() time.Time
}

// NewReportingService constructs a ReportingService over store.
func NewReportingService(store *Store) ReportingService {
	return &reportingService{store: store, now: time.Now}
}

func (s *reportingService) Quarters(ctx context.Context) ([]Quarter, error) {
	var out []Quarter
	err := s.store.View(func(d *Document) error {
		out = AvailableQuarters(d, s.now())
		return nil
	})
	return out, err
}

func (s *reportingService) SalesTax(ctx context.Context, quarterID string) (*SalesTaxReport, error) {
	q, err := QuarterByID(quarterID)
	if err != nil {
		return nil, err
	}
	var report SalesTaxReport
	err = s.store.View(func(d *Document) error {
		report = BuildSalesTaxReport(d, q)
		return nil
	})
	return &report, err
}

func (s *reportingService) MonthlySales(ctx context.Context) (*MonthlySalesReport, error) {
	var report MonthlySalesReport
	err := s.store.View(func(d *Document) error {
		report = BuildMonthlySales(d, s.now())
		return nil
	})
	return &report, err
}

func (s *reportingService) SalesRange(ctx context.Context, from, to string) (*RangeSalesReport, error) {
	start, ok := ParseDate(from)
	if !ok {
		return nil, invalid(ErrInvalidInput, "from date %q is not a date", from)
	}
	end, ok := ParseDate(to)
	if !ok {
		return nil, invalid(ErrInvalidInput, "to date %q is not a date", to)
	}
	if end.Before(start) {
		return nil, invalid(ErrInvalidInput, "range ends before it starts")
	}
	var report RangeSalesReport
	err := s.store.View(func(d *Document) error {
		report = BuildRangeSales(d, start, end)
		return nil
	})
	return &report, err
}

func (s *reportingService) SalesByProduct(ctx context.Context, months int) (*ProductSalesReport, error) {
	if months < 1 || months > 60 {
		return nil, invalid(ErrInvalidInput, "months must be between 1 and 60, got %d", months)
	}
	var report ProductSalesReport
	err := s.store.View(func(d *Document) error {
		report = BuildSalesByProduct(d, months, s.now())
		return nil
	})
	return &report, err
}

// ── Invoice scanning ─────────────────────────────────────────────────────────

type datedInvoice struct {
	company string
	date    time.Time
	inv     *Invoice
}

// datedInvoices returns every invoice with a readable date. Unreadable
// dates are skipped and counted in the log.
func datedInvoices(d *Document) []datedInvoice {
	var out []datedInvoice
	skipped := 0
	for ui := range d.Users {
		u := &d.Users[ui]
		for ii := range u.Invoices {
			t, ok := ParseDate(u.Invoices[ii].DateCreated)
			if !ok {
				skipped++
				continue
			}
			out = append(out, datedInvoice{company: u.Company, date: t, inv: &u.Invoices[ii]})
		}
	}
	if skipped > 0 {
		log.Printf("reports: skipped %d invoices with unreadable dates", skipped)
	}
	return out
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func within(t, start, end time.Time) bool {
	t = day(t)
	return !t.Before(day(start)) && !t.After(day(end))
}

// ── Quarters and sales tax ───────────────────────────────────────────────────

var quarterBounds = [4]struct {
	startMonth time.Month
	endMonth   time.Month
	endDay     int
}{
	{time.January, time.March, 31},
	{time.April, time.June, 30},
	{time.July, time.September, 30},
	{time.October, time.December, 31},
}

// NewQuarter returns quarter q (1-4) of year.
func NewQuarter(year, q int) Quarter {
	b := quarterBounds[q-1]
	start := time.Date(year, b.startMonth, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, b.endMonth, b.endDay, 0, 0, 0, 0, time.UTC)
	return Quarter{
		ID:    fmt.Sprintf("%d-Q%d", year, q),
		Label: fmt.Sprintf("%s 1 - %s %d, %d", start.Format("Jan"), end.Format("Jan"), b.endDay, year),
		Start: start.Format("2006-01-02"),
		End:   end.Format("2006-01-02"),
	}
}

// QuarterByID parses "2025-Q1".
func QuarterByID(id string) (Quarter, error) {
	var year, q int
	if _, err := fmt.Sscanf(id, "%d-Q%d", &year, &q); err != nil || q < 1 || q > 4 || year < 1 {
		return Quarter{}, invalid(ErrInvalidInput, "quarter %q must look like 2025-Q1", id)
	}
	return NewQuarter(year, q), nil
}

// AvailableQuarters lists the four quarters of every year from the earliest
// invoice through now, latest first. With no dated invoices the list is empty.
func AvailableQuarters(d *Document, now time.Time) []Quarter {
	invoices := datedInvoices(d)
	if len(invoices) == 0 {
		return []Quarter{}
	}
	first := now.Year()
	for _, di := range invoices {
		if di.date.Year() < first {
			first = di.date.Year()
		}
	}
	var out []Quarter
	for year := now.Year(); year >= first; year-- {
		for q := 4; q >= 1; q-- {
			out = append(out, NewQuarter(year, q))
		}
	}
	return out
}

// BuildSalesTaxReport scans all invoices dated inside q. Every invoice adds
// totalAmount - CashPayment to gross receipts; invoices with tax are listed
// and their tax summed. Receipts not subject to tax are derived by inverting
// the tax rate: gross - tax/0.06625.
func BuildSalesTaxReport(d *Document, q Quarter) SalesTaxReport {
	start, _ := ParseDate(q.Start)
	end, _ := ParseDate(q.End)

	gross := decimal.Zero
	tax := decimal.Zero
	listed := []TaxedInvoice{}
	for _, di := range datedInvoices(d) {
		if !within(di.date, start, end) {
			continue
		}
		gross = gross.Add(di.inv.TotalAmount.Sub(di.inv.CashPayment))
		if di.inv.SalesTax.Sign() > 0 {
			listed = append(listed, TaxedInvoice{
				InvoiceNumber: di.inv.InvoiceNumber,
				Company:       di.company,
				Date:          di.date.Format("2006-01-02"),
				SalesTax:      di.inv.SalesTax,
				TotalAmount:   di.inv.TotalAmount,
			})
			tax = tax.Add(di.inv.SalesTax)
		}
	}
	sort.SliceStable(listed, func(i, j int) bool { return listed[i].Date < listed[j].Date })

	notSubject := gross.Sub(tax.Div(SalesTaxRate))
	return SalesTaxReport{
		Quarter:              q,
		Invoices:             listed,
		GrossReceipts:        gross.Round(0),
		TotalSalesTax:        tax.Round(2),
		ReceiptsNotSubjectTo: notSubject.Round(0),
	}
}

// ── Monthly and range sales ──────────────────────────────────────────────────

func monthStart(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// BuildMonthlySales totals the trailing twelve months ending with the
// current month, oldest first, and averages the eleven completed months.
func BuildMonthlySales(d *Document, now time.Time) MonthlySalesReport {
	current := monthStart(now.Year(), now.Month())
	months := make([]MonthTotal, 12)
	for i := range months {
		m := current.AddDate(0, i-11, 0)
		months[i] = MonthTotal{Label: m.Format("Jan 2006"), Year: m.Year(), Month: m.Month(), Total: decimal.Zero}
	}
	for _, di := range datedInvoices(d) {
		for i := range months {
			if di.date.Year() == months[i].Year && di.date.Month() == months[i].Month {
				months[i].Total = months[i].Total.Add(di.inv.TotalAmount)
				break
			}
		}
	}
	sum := decimal.Zero
	for _, m := range months[:11] {
		sum = sum.Add(m.Total)
	}
	return MonthlySalesReport{Months: months, Average: sum.Div(decimal.NewFromInt(11))}
}

// BuildRangeSales totals invoices dated between start and end, inclusive.
func BuildRangeSales(d *Document, start, end time.Time) RangeSalesReport {
	report := RangeSalesReport{
		From:  start.Format("2006-01-02"),
		To:    end.Format("2006-01-02"),
		Total: decimal.Zero,
	}
	for _, di := range datedInvoices(d) {
		if within(di.date, start, end) {
			report.Invoices++
			report.Total = report.Total.Add(di.inv.TotalAmount)
		}
	}
	return report
}

// ── Sales by product ─────────────────────────────────────────────────────────

// BuildSalesByProduct aggregates invoice lines for the trailing months
// (current month included) and the equal period before. Line names are
// matched to catalog items with MatchProduct; unmatched names get their
// own rows keyed by normalized name. Rows are ordered by current total,
// highest first.
func BuildSalesByProduct(d *Document, months int, now time.Time) ProductSalesReport {
	curStart := monthStart(now.Year(), now.Month()).AddDate(0, -(months - 1), 0)
	curEnd := monthStart(now.Year(), now.Month()).AddDate(0, 1, -1)
	prevStart := curStart.AddDate(0, -months, 0)
	prevEnd := curStart.AddDate(0, 0, -1)

	names := make([]string, len(d.Inventory))
	for i, it := range d.Inventory {
		names[i] = it.ItemName
	}

	rows := make(map[string]*ProductSales)
	var order []string
	matched := make(map[string]int) // line name → inventory index or -1

	rowFor := func(line InvoiceLine) *ProductSales {
		idx := -1
		if line.ItemID != nil {
			idx = d.itemIndex(*line.ItemID)
		}
		if idx < 0 {
			cached, ok := matched[line.ProductName]
			if !ok {
				cached, _ = MatchProduct(line.ProductName, names)
				matched[line.ProductName] = cached
			}
			idx = cached
		}
		var key string
		if idx >= 0 {
			key = fmt.Sprintf("item:%d", d.Inventory[idx].ID)
		} else {
			key = "name:" + NormalizeProductName(line.ProductName)
		}
		if r, ok := rows[key]; ok {
			return r
		}
		r := &ProductSales{
			ProductName:      line.ProductName,
			Category:         line.ProductCategory,
			OnHand:           decimal.Zero,
			CurrentQuantity:  decimal.Zero,
			CurrentTotal:     decimal.Zero,
			PreviousQuantity: decimal.Zero,
			PreviousTotal:    decimal.Zero,
		}
		if idx >= 0 {
			it := d.Inventory[idx]
			id := it.ID
			r.ProductName = it.ItemName
			r.Category = it.Category
			r.ItemID = &id
			r.InInventory = true
			r.OnHand = it.Quantity
		}
		rows[key] = r
		order = append(order, key)
		return r
	}

	for _, di := range datedInvoices(d) {
		current := within(di.date, curStart, curEnd)
		previous := within(di.date, prevStart, prevEnd)
		if !current && !previous {
			continue
		}
		for _, line := range di.inv.Products {
			r := rowFor(line)
			if current {
				r.CurrentQuantity = r.CurrentQuantity.Add(line.Quantity)
				r.CurrentTotal = r.CurrentTotal.Add(line.Total)
			} else {
				r.PreviousQuantity = r.PreviousQuantity.Add(line.Quantity)
				r.PreviousTotal = r.PreviousTotal.Add(line.Total)
			}
		}
	}

	products := make([]ProductSales, 0, len(order))
	for _, key := range order {
		products = append(products, *rows[key])
	}
	sort.SliceStable(products, func(i, j int) bool {
		if c := products[i].CurrentTotal.Cmp(products[j].CurrentTotal); c != 0 {
			return c > 0
		}
		return products[i].ProductName < products[j].ProductName
	})

	return ProductSalesReport{
		Months:        months,
		CurrentStart:  curStart.Format("2006-01-02"),
		CurrentEnd:    curEnd.Format("2006-01-02"),
		PreviousStart: prevStart.Format("2006-01-02"),
		PreviousEnd:   prevEnd.Format("2006-01-02"),
		Products:      products,
	}
}
