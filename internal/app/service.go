package app

import (
	"context"
	"errors"
	"io"

	"order-portal/internal/core"
)

// ErrAssistantUnavailable is returned by Ask when no OpenAI key is configured.
var ErrAssistantUnavailable = errors.New("assistant is not configured")

// ApplicationService is the single interface all UI adapters (REPL, CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// Register creates a customer account from the public sign-up form.
	Register(ctx context.Context, req RegisterRequest) (*SessionResult, error)

	// Login checks credentials and returns the session identity.
	Login(ctx context.Context, req LoginRequest) (*SessionResult, error)

	// GetUser returns a user without the password hash.
	GetUser(ctx context.Context, userID int) (*core.User, error)

	// Catalog returns the price list resolved for one customer.
	Catalog(ctx context.Context, userID int) (*CatalogResult, error)

	// ViewCart returns the cart's lines and totals at the customer's tax status.
	ViewCart(ctx context.Context, userID int, cart *core.Cart) (*CartResult, error)

	// AddToCart prices an item for the customer and adds it to the cart.
	AddToCart(ctx context.Context, userID int, cart *core.Cart, req CartItemRequest) (*CartResult, error)

	// SetCartQuantity changes a line's quantity; zero removes it.
	SetCartQuantity(ctx context.Context, userID int, cart *core.Cart, req CartItemRequest) (*CartResult, error)

	// Checkout turns the cart into an invoice, deducts inventory and clears the cart.
	Checkout(ctx context.Context, userID int, cart *core.Cart) (*core.CheckoutResult, error)

	// CustomerInvoices returns the invoices owned by one customer.
	CustomerInvoices(ctx context.Context, userID int) ([]core.Invoice, error)

	ListItems(ctx context.Context) ([]core.CatalogItem, error)
	GetItem(ctx context.Context, id int) (*core.CatalogItem, error)
	CreateItem(ctx context.Context, req ItemRequest) (*core.CatalogItem, error)
	UpdateItem(ctx context.Context, id int, req ItemRequest) (*core.CatalogItem, error)
	DeleteItem(ctx context.Context, id int) error
	DuplicateItem(ctx context.Context, id int) (*core.CatalogItem, error)
	SetItemRank(ctx context.Context, id int, rank float64) error
	CategoryRanks(ctx context.Context) ([]core.CategoryRank, error)
	SetCategoryRanks(ctx context.Context, ranks []core.CategoryRank) error
	SetItemVendorPrice(ctx context.Context, itemID int, vendor string, req VendorPriceRequest) (*core.CatalogItem, error)
	DeleteItemVendor(ctx context.Context, itemID int, vendor string) error

	ListCustomers(ctx context.Context) ([]core.User, error)
	AddCustomer(ctx context.Context, req CustomerRequest) (*core.User, error)
	UpdateCustomer(ctx context.Context, id int, req CustomerRequest) (*core.User, error)
	DeleteCustomer(ctx context.Context, id int) error

	// ListInvoices returns every invoice across customers.
	ListInvoices(ctx context.Context) (*InvoiceListResult, error)

	// ListUnpaid returns invoices with a balance, newest first.
	ListUnpaid(ctx context.Context) (*InvoiceListResult, error)

	GetInvoice(ctx context.Context, userID int, number string) (*core.CustomerInvoice, error)
	UpdateInvoice(ctx context.Context, userID int, number string, req InvoiceUpdateRequest) (*core.Invoice, error)
	RecordPayment(ctx context.Context, userID int, number string, req PaymentRequest) (*core.Invoice, error)

	// DeleteInvoice restores the invoice's inventory, then removes it.
	DeleteInvoice(ctx context.Context, userID int, number string) (*DeleteResult, error)

	ListPurchases(ctx context.Context) (*PurchaseListResult, error)
	GetPurchase(ctx context.Context, id int) (*core.Purchase, error)
	RecordPurchase(ctx context.Context, req PurchaseRequest) (*core.Purchase, error)
	UpdatePurchase(ctx context.Context, id int, req PurchaseRequest) (*core.Purchase, error)
	DeletePurchase(ctx context.Context, id int) error

	ListVendors(ctx context.Context) ([]core.Vendor, error)
	CreateVendor(ctx context.Context, req VendorRequest) (*core.Vendor, error)
	UpdateVendor(ctx context.Context, id int, req VendorRequest) (*core.Vendor, error)
	DeleteVendor(ctx context.Context, id int) error

	ListReturns(ctx context.Context) ([]core.Return, error)
	GetReturn(ctx context.Context, number string) (*core.Return, error)
	CreateReturn(ctx context.Context, req ReturnRequest) (*core.Return, error)
	MarkReturnProcessed(ctx context.Context, number string) (*core.Return, error)

	Quarters(ctx context.Context) ([]core.Quarter, error)
	SalesTax(ctx context.Context, quarterID string) (*core.SalesTaxReport, error)
	MonthlySales(ctx context.Context) (*core.MonthlySalesReport, error)
	SalesRange(ctx context.Context, from, to string) (*core.RangeSalesReport, error)
	SalesByProduct(ctx context.Context, months int) (*core.ProductSalesReport, error)

	// ExportSalesTax writes the quarter's sales tax report as an xlsx workbook.
	ExportSalesTax(ctx context.Context, quarterID string, w io.Writer) error

	// ExportSalesByProduct writes the product sales report as an xlsx workbook.
	ExportSalesByProduct(ctx context.Context, months int, w io.Writer) error

	// ExportPriceList writes the full catalog with all three price levels.
	ExportPriceList(ctx context.Context, w io.Writer) error

	// DocumentSchema returns the JSON Schema of the stored document.
	DocumentSchema(ctx context.Context) ([]byte, error)

	// Ask answers an admin question about sales using the reports as context.
	// Returns ErrAssistantUnavailable when no analyst is configured.
	Ask(ctx context.Context, question string) (*AskResult, error)
}
