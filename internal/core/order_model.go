package core

import "github.com/shopspring/decimal"

// Invoice is a customer invoice, owned by exactly one User.
// InvoiceNumber is unique within a company prefix, not globally.
type Invoice struct {
	InvoiceNumber  string          `json:"invoiceNumber"`
	CompanyName    string          `json:"companyName"`
	AddressLine1   string          `json:"addressLine1"`
	AddressLine2   string          `json:"addressLine2"`
	City           string          `json:"city"`
	State          string          `json:"state"`
	ZipCode        string          `json:"zipCode"`
	DateCreated    string          `json:"dateCreated"` // YYYY-MM-DD
	Products       []InvoiceLine   `json:"products"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	SalesTax       decimal.Decimal `json:"salesTax"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	TotalBalance   decimal.Decimal `json:"totalBalance"`
	Paid           bool            `json:"paid"`
	CashPayment    decimal.Decimal `json:"CashPayment"`
	AccountPayment decimal.Decimal `json:"AccountPayment"`
	Notes          string          `json:"notes,omitempty"`
}

// InvoiceLine is one product row on an invoice.
// ItemID and Taxable are recorded on new invoices; older lines only carry
// the product name and are matched back to the catalog by name.
type InvoiceLine struct {
	ProductName     string          `json:"productName"`
	ProductCategory string          `json:"productCategory"`
	Quantity        decimal.Decimal `json:"quantity"`
	Rate            decimal.Decimal `json:"rate"`
	Total           decimal.Decimal `json:"total"`
	ItemID          *int            `json:"itemId,omitempty"`
	Taxable         *bool           `json:"taxable,omitempty"`
}

// Settle derives TotalBalance and Paid from TotalAmount and the payments.
func (inv *Invoice) Settle() {
	inv.TotalBalance = inv.TotalAmount.Sub(inv.CashPayment).Sub(inv.AccountPayment)
	inv.Paid = inv.TotalBalance.IsZero()
}

// CustomerInvoice pairs an invoice with its owner, for admin listings.
type CustomerInvoice struct {
	UserID  int     `json:"userId"`
	Email   string  `json:"email"`
	Company string  `json:"company"`
	Invoice Invoice `json:"invoice"`
}

// CartLine is a session-scoped snapshot of a catalog item with its
// resolved customer price. It is never persisted.
type CartLine struct {
	ItemID      int             `json:"itemId"`
	ItemName    string          `json:"itemName"`
	Category    string          `json:"itemCategory"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    decimal.Decimal `json:"quantity"`
	TaxableItem bool            `json:"taxableItem"`
}

// LineTotal is price × quantity at full precision.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(l.Quantity)
}

// Totals is the folded result of a cart or invoice.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	SalesTax    decimal.Decimal `json:"salesTax"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// InvoiceUpdate is an admin edit of an existing invoice. Nil fields are left unchanged.
type InvoiceUpdate struct {
	InvoiceNumber  *string
	DateCreated    *string
	Products       []InvoiceLine // nil keeps the current lines
	CashPayment    *decimal.Decimal
	AccountPayment *decimal.Decimal
	Notes          *string
}
