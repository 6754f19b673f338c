package core

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Notifier receives invoices after they are committed, for PDF rendering and
// email delivery. InvoiceCreated must not block and its failures never reach
// the caller.
type Notifier interface {
	InvoiceCreated(inv Invoice, customer User)
}

// CheckoutResult is the committed invoice plus any inventory lines that
// could not be reconciled.
type CheckoutResult struct {
	Invoice  Invoice                 `json:"invoice"`
	Warnings []ReconciliationWarning `json:"warnings,omitempty"`
}

// OrderService turns a customer's cart into an invoice.
//
// A checkout runs Validate → PriceAndTax → Number → BuildInvoice →
// PersistAndDeduct → NotifyAsync → ClearCart. Everything up to and including
// PersistAndDeduct happens inside one Store.Update, so a failure leaves no
// partial state and the invoice, the inventory deduction and the write land
// together.
type OrderService interface {
	Checkout(ctx context.Context, userID int, cart *Cart) (*CheckoutResult, error)
}

type orderService struct {
	store    *Store
	notifier Notifier
	now      func() time.Time
}

// NewOrderService constructs an OrderService. notifier may be nil.
func NewOrderService(store *Store, notifier Notifier) OrderService {
	return &orderService{store: store, notifier: notifier, now: time.Now}
}

func (s *orderService) Checkout(ctx context.Context, userID int, cart *Cart) (*CheckoutResult, error) {
	// Validate
	if userID <= 0 {
		return nil, &ValidationError{Err: ErrNoActor}
	}
	if cart.Empty() {
		return nil, &ValidationError{Err: ErrEmptyCart}
	}

	now := s.now()
	var (
		invoice  Invoice
		customer User
		warnings []ReconciliationWarning
	)
	err := s.store.Update(ctx, func(d *Document) error {
		ui := d.userIndex(userID)
		if ui < 0 {
			return invalid(ErrNoActor, "user %d does not exist", userID)
		}
		u := &d.Users[ui]
		if u.Company == "" {
			return invalid(ErrNoCompany, "user %s", u.Email)
		}

		// PriceAndTax
		totals := CartTotals(cart.Lines, u.Taxable)

		// Number
		number := AssignInvoiceNumber(d, u.Company, now)

		// BuildInvoice
		invoice = buildInvoice(*u, number, now, cart.Lines, totals)

		// PersistAndDeduct
		u.Invoices = append(u.Invoices, invoice)
		warnings = DeductInventory(d, invoice.Products)
		customer = u.Public()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("checkout failed: %w", err)
	}
	logWarnings("checkout "+invoice.InvoiceNumber, warnings)

	// NotifyAsync
	if s.notifier != nil {
		s.notifier.InvoiceCreated(invoice, customer)
	}

	// ClearCart
	cart.Clear()
	log.Printf("invoice %s created for %s: total %s", invoice.InvoiceNumber, customer.Company, invoice.TotalAmount.StringFixed(2))
	return &CheckoutResult{Invoice: invoice, Warnings: warnings}, nil
}

func buildInvoice(u User, number string, now time.Time, lines []CartLine, totals Totals) Invoice {
	products := make([]InvoiceLine, 0, len(lines))
	for _, l := range lines {
		id := l.ItemID
		taxable := l.TaxableItem
		products = append(products, InvoiceLine{
			ProductName:     l.ItemName,
			ProductCategory: l.Category,
			Quantity:        l.Quantity,
			Rate:            l.Price,
			Total:           l.LineTotal(),
			ItemID:          &id,
			Taxable:         &taxable,
		})
	}
	inv := Invoice{
		InvoiceNumber: number,
		CompanyName:   u.Company,
		AddressLine1:  u.AddressLine1,
		AddressLine2:  u.AddressLine2,
		City:          u.City,
		State:         u.State,
		ZipCode:       u.ZipCode,
		DateCreated:   now.Format("2006-01-02"),
		Products:      products,
		Subtotal:      totals.Subtotal,
		SalesTax:      totals.SalesTax,
		TotalAmount:   totals.TotalAmount,
	}
	inv.Settle()
	return inv
}
