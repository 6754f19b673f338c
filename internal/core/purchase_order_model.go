package core

import "github.com/shopspring/decimal"

// Purchase is a vendor invoice recorded by an administrator.
// It mirrors Invoice on the buying side; AccountBalance and Paid are derived.
type Purchase struct {
	PurchaseID     int             `json:"PurchaseID"`
	VendorName     string          `json:"vendorName"`
	DateCreated    string          `json:"dateCreated"`
	InvoiceNumber  string          `json:"invoiceNumber"` // vendor-supplied, not checked for uniqueness
	CashPaid       decimal.Decimal `json:"cashPaid"`
	AccountPaid    decimal.Decimal `json:"accountPaid"`
	Products       []PurchaseLine  `json:"products"`
	InvoiceTotal   decimal.Decimal `json:"invoiceTotal"`
	AccountBalance decimal.Decimal `json:"accountBalance"`
	Paid           bool            `json:"paid"`
}

// PurchaseLine is one product row on a purchase. AutoPricing names the
// markup profile to apply to the catalog item, if any.
type PurchaseLine struct {
	ProductName     string          `json:"productName"`
	ProductCategory string          `json:"productCategory,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	Rate            decimal.Decimal `json:"rate"`
	Total           decimal.Decimal `json:"total"`
	AutoPricing     string          `json:"autoPricing,omitempty"`
}

// PurchaseInput is the parsed form of a new or edited purchase.
type PurchaseInput struct {
	VendorName    string
	NewVendor     string // used when VendorName is "other"
	DateCreated   string
	InvoiceNumber string
	CashPaid      decimal.Decimal
	AccountPaid   decimal.Decimal
	Products      []PurchaseLine
}

// VendorOther selects the free-text NewVendor field.
const VendorOther = "other"

// settle derives InvoiceTotal, AccountBalance and Paid from the lines and payments.
func (p *Purchase) settle() {
	total := decimal.Zero
	for _, l := range p.Products {
		total = total.Add(l.Total)
	}
	p.InvoiceTotal = total
	p.AccountBalance = total.Sub(p.CashPaid).Sub(p.AccountPaid)
	p.Paid = p.AccountBalance.IsZero()
}
