package app

import (
	"github.com/shopspring/decimal"

	"order-portal/internal/ai"
	"order-portal/internal/core"
)

// SessionResult is the identity carried by a login cookie.
type SessionResult struct {
	UserID  int    `json:"userId"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Company string `json:"company"`
}

// CartResult is a cart with its totals at the customer's tax status.
type CartResult struct {
	Lines  []core.CartLine `json:"lines"`
	Totals core.Totals     `json:"totals"`
}

// CatalogResult is the price list for one customer.
type CatalogResult struct {
	Categories []core.CategoryRank `json:"categories"`
	Items      []core.PricedItem   `json:"items"`
}

// InvoiceListResult is returned by the admin invoice listings.
type InvoiceListResult struct {
	Invoices    []core.CustomerInvoice `json:"invoices"`
	Outstanding decimal.Decimal        `json:"outstanding"`
}

// PurchaseListResult is returned by ListPurchases.
type PurchaseListResult struct {
	Purchases   []core.Purchase `json:"purchases"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// DeleteResult reports inventory lines that could not be restored.
type DeleteResult struct {
	Warnings []core.ReconciliationWarning `json:"warnings,omitempty"`
}

// AskResult is the analyst's answer to an admin question.
type AskResult struct {
	Question string     `json:"question"`
	Answer   *ai.Answer `json:"answer"`
}
