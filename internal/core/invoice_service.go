package core

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// InvoiceService covers administration of committed invoices. Every edit
// re-derives the invoice figures from its lines; stored totals are never
// trusted.
type InvoiceService interface {
	GetInvoice(ctx context.Context, userID int, number string) (*CustomerInvoice, error)
	// FindInvoice looks a number up across all customers. Numbers are only
	// unique per company prefix, so the first match wins and duplicates are logged.
	FindInvoice(ctx context.Context, number string) (*CustomerInvoice, error)
	ListInvoices(ctx context.Context) ([]CustomerInvoice, error)
	ListUnpaid(ctx context.Context) ([]CustomerInvoice, error)
	CustomerInvoices(ctx context.Context, userID int) ([]Invoice, error)
	UpdateInvoice(ctx context.Context, userID int, number string, upd InvoiceUpdate) (*Invoice, error)
	RecordPayment(ctx context.Context, userID int, number string, cash, account decimal.Decimal) (*Invoice, error)
	// DeleteInvoice restores inventory from the invoice's lines, then removes it.
	DeleteInvoice(ctx context.Context, userID int, number string) ([]ReconciliationWarning, error)
}

type invoiceService struct {
	store *Store
}

// NewInvoiceService constructs an InvoiceService over store.
func NewInvoiceService(store *Store) InvoiceService {
	return &invoiceService{store: store}
}

func (u *User) invoiceIndex(number string) int {
	for i := range u.Invoices {
		if u.Invoices[i].InvoiceNumber == number {
			return i
		}
	}
	return -1
}

func (d *Document) locateInvoice(userID int, number string) (ui, ii int, err error) {
	ui = d.userIndex(userID)
	if ui < 0 {
		return -1, -1, notFound("customer", userID)
	}
	ii = d.Users[ui].invoiceIndex(number)
	if ii < 0 {
		return -1, -1, notFound("invoice", number)
	}
	return ui, ii, nil
}

func ownedInvoice(u User, inv Invoice) CustomerInvoice {
	return CustomerInvoice{UserID: u.ID, Email: u.Email, Company: u.Company, Invoice: inv}
}

func (s *invoiceService) GetInvoice(ctx context.Context, userID int, number string) (*CustomerInvoice, error) {
	var out CustomerInvoice
	err := s.store.View(func(d *Document) error {
		ui, ii, err := d.locateInvoice(userID, number)
		if err != nil {
			return err
		}
		out = ownedInvoice(d.Users[ui], d.Users[ui].Invoices[ii])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *invoiceService) FindInvoice(ctx context.Context, number string) (*CustomerInvoice, error) {
	var matches []CustomerInvoice
	_ = s.store.View(func(d *Document) error {
		for _, u := range d.Users {
			if i := u.invoiceIndex(number); i >= 0 {
				matches = append(matches, ownedInvoice(u, u.Invoices[i]))
			}
		}
		return nil
	})
	if len(matches) == 0 {
		return nil, notFound("invoice", number)
	}
	if len(matches) > 1 {
		log.Printf("warning: invoice number %s is held by %d customers; returning the first", number, len(matches))
	}
	return &matches[0], nil
}

func (s *invoiceService) allInvoices() []CustomerInvoice {
	var out []CustomerInvoice
	_ = s.store.View(func(d *Document) error {
		for _, u := range d.Users {
			for _, inv := range u.Invoices {
				out = append(out, ownedInvoice(u, inv))
			}
		}
		return nil
	})
	return out
}

// ListInvoices orders invoices by prefix, then by numeric suffix.
func (s *invoiceService) ListInvoices(ctx context.Context) ([]CustomerInvoice, error) {
	all := s.allInvoices()
	sort.SliceStable(all, func(i, j int) bool {
		pi, ni := ParseInvoiceNumber(all[i].Invoice.InvoiceNumber)
		pj, nj := ParseInvoiceNumber(all[j].Invoice.InvoiceNumber)
		if pi != pj {
			return pi < pj
		}
		return ni < nj
	})
	return all, nil
}

// ListUnpaid returns unpaid invoices, newest first.
func (s *invoiceService) ListUnpaid(ctx context.Context) ([]CustomerInvoice, error) {
	var unpaid []CustomerInvoice
	for _, ci := range s.allInvoices() {
		if !ci.Invoice.Paid {
			unpaid = append(unpaid, ci)
		}
	}
	sort.SliceStable(unpaid, func(i, j int) bool {
		ti, _ := ParseDate(unpaid[i].Invoice.DateCreated)
		tj, _ := ParseDate(unpaid[j].Invoice.DateCreated)
		return ti.After(tj)
	})
	return unpaid, nil
}

func (s *invoiceService) CustomerInvoices(ctx context.Context, userID int) ([]Invoice, error) {
	var out []Invoice
	err := s.store.View(func(d *Document) error {
		ui := d.userIndex(userID)
		if ui < 0 {
			return notFound("customer", userID)
		}
		out = append([]Invoice(nil), d.Users[ui].Invoices...)
		return nil
	})
	return out, err
}

// ValidateInvoiceLines rejects lines without a product name or category.
func ValidateInvoiceLines(lines []InvoiceLine) error {
	var problems []string
	for i, l := range lines {
		if strings.TrimSpace(l.ProductName) == "" {
			problems = append(problems, fmt.Sprintf("line %d: missing productName", i+1))
		}
		if strings.TrimSpace(l.ProductCategory) == "" {
			problems = append(problems, fmt.Sprintf("line %d: missing productCategory", i+1))
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Err: ErrInvalidLine, Details: strings.Join(problems, "; ")}
	}
	return nil
}

// lineTaxable resolves a line's taxability: the flag recorded on the line,
// else the matching catalog item's flag, else false.
func (d *Document) lineTaxable(l InvoiceLine) bool {
	if l.Taxable != nil {
		return *l.Taxable
	}
	if i := d.matchLine(l); i >= 0 {
		return d.Inventory[i].Taxable
	}
	return false
}

// RecomputeInvoice re-derives line totals, subtotal, tax, total, balance
// and paid from the lines, the payments and the customer's taxable flag.
func (d *Document) RecomputeInvoice(inv *Invoice, customerTaxable bool) {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for i := range inv.Products {
		l := &inv.Products[i]
		l.Total = l.Quantity.Mul(l.Rate)
		subtotal = subtotal.Add(l.Total)
		if customerTaxable && d.lineTaxable(*l) {
			tax = tax.Add(l.Total.Mul(SalesTaxRate))
		}
	}
	inv.Subtotal = subtotal
	inv.SalesTax = tax
	inv.TotalAmount = subtotal.Add(tax)
	inv.Settle()
}

// numberTaken reports whether another invoice of the same company already uses number.
func (d *Document) numberTaken(company, number string, except *Invoice) bool {
	for ui := range d.Users {
		if d.Users[ui].Company != company {
			continue
		}
		for ii := range d.Users[ui].Invoices {
			inv := &d.Users[ui].Invoices[ii]
			if inv != except && inv.InvoiceNumber == number {
				return true
			}
		}
	}
	return false
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, userID int, number string, upd InvoiceUpdate) (*Invoice, error) {
	if upd.Products != nil {
		if err := ValidateInvoiceLines(upd.Products); err != nil {
			return nil, err
		}
	}
	var out Invoice
	err := s.store.Update(ctx, func(d *Document) error {
		ui, ii, err := d.locateInvoice(userID, number)
		if err != nil {
			return err
		}
		u := &d.Users[ui]
		inv := &u.Invoices[ii]

		if upd.InvoiceNumber != nil && *upd.InvoiceNumber != inv.InvoiceNumber {
			renumbered := strings.TrimSpace(*upd.InvoiceNumber)
			if renumbered == "" {
				return invalid(ErrInvalidInput, "invoice number cannot be blank")
			}
			if d.numberTaken(u.Company, renumbered, inv) {
				return invalid(ErrDuplicate, "invoice %s already exists for %s", renumbered, u.Company)
			}
			inv.InvoiceNumber = renumbered
		}
		if upd.DateCreated != nil {
			if _, ok := ParseDate(*upd.DateCreated); !ok {
				return invalid(ErrInvalidInput, "date %q is not a date", *upd.DateCreated)
			}
			inv.DateCreated = CanonicalDate(*upd.DateCreated)
		}
		if upd.Products != nil {
			inv.Products = append([]InvoiceLine(nil), upd.Products...)
		}
		if upd.CashPayment != nil {
			inv.CashPayment = *upd.CashPayment
		}
		if upd.AccountPayment != nil {
			inv.AccountPayment = *upd.AccountPayment
		}
		if upd.Notes != nil {
			inv.Notes = *upd.Notes
		}
		d.RecomputeInvoice(inv, u.Taxable)
		out = *inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *invoiceService) RecordPayment(ctx context.Context, userID int, number string, cash, account decimal.Decimal) (*Invoice, error) {
	if cash.Sign() < 0 || account.Sign() < 0 {
		return nil, invalid(ErrInvalidInput, "payments cannot be negative")
	}
	var out Invoice
	err := s.store.Update(ctx, func(d *Document) error {
		ui, ii, err := d.locateInvoice(userID, number)
		if err != nil {
			return err
		}
		inv := &d.Users[ui].Invoices[ii]
		inv.CashPayment = inv.CashPayment.Add(cash)
		inv.AccountPayment = inv.AccountPayment.Add(account)
		d.RecomputeInvoice(inv, d.Users[ui].Taxable)
		out = *inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, userID int, number string) ([]ReconciliationWarning, error) {
	var warnings []ReconciliationWarning
	err := s.store.Update(ctx, func(d *Document) error {
		ui, ii, err := d.locateInvoice(userID, number)
		if err != nil {
			return err
		}
		u := &d.Users[ui]
		warnings = RestoreInventory(d, u.Invoices[ii].Products)
		u.Invoices = append(u.Invoices[:ii], u.Invoices[ii+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	logWarnings("delete invoice "+number, warnings)
	return warnings, nil
}
