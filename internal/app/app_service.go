package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"order-portal/internal/ai"
	"order-portal/internal/core"
	"order-portal/internal/export"
)

// contextProducts caps the product rows sent to the analyst.
const contextProducts = 15

// appService implements ApplicationService by delegating to the core services.
type appService struct {
	store     *core.Store
	users     core.UserService
	inventory core.InventoryService
	orders    core.OrderService
	invoices  core.InvoiceService
	purchases core.PurchaseService
	vendors   core.VendorService
	returns   core.ReturnService
	reports   core.ReportingService
	analyst   ai.AnalystService
}

// NewAppService constructs the ApplicationService over one document store.
// notifier and analyst may be nil; without an analyst, Ask returns
// ErrAssistantUnavailable.
func NewAppService(store *core.Store, notifier core.Notifier, analyst ai.AnalystService) ApplicationService {
	return &appService{
		store:     store,
		users:     core.NewUserService(store),
		inventory: core.NewInventoryService(store),
		orders:    core.NewOrderService(store, notifier),
		invoices:  core.NewInvoiceService(store),
		purchases: core.NewPurchaseService(store),
		vendors:   core.NewVendorService(store),
		returns:   core.NewReturnService(store),
		reports:   core.NewReportingService(store),
		analyst:   analyst,
	}
}

// ── Accounts ──────────────────────────────────────────────────────────────────

func session(u *core.User) *SessionResult {
	return &SessionResult{UserID: u.ID, Email: u.Email, Role: u.Role, Company: u.Company}
}

func (s *appService) Register(ctx context.Context, req RegisterRequest) (*SessionResult, error) {
	u, err := s.users.Register(ctx, req.input())
	if err != nil {
		return nil, err
	}
	return session(u), nil
}

func (s *appService) Login(ctx context.Context, req LoginRequest) (*SessionResult, error) {
	u, err := s.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return session(u), nil
}

func (s *appService) GetUser(ctx context.Context, userID int) (*core.User, error) {
	return s.users.GetUser(ctx, userID)
}

// ── Catalog and cart ──────────────────────────────────────────────────────────

func (s *appService) Catalog(ctx context.Context, userID int) (*CatalogResult, error) {
	items, err := s.inventory.PriceList(ctx, userID)
	if err != nil {
		return nil, err
	}
	ranks, err := s.inventory.CategoryRanks(ctx)
	if err != nil {
		return nil, err
	}
	return &CatalogResult{Categories: ranks, Items: items}, nil
}

func (s *appService) ViewCart(ctx context.Context, userID int, cart *core.Cart) (*CartResult, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	lines := cart.Lines
	if lines == nil {
		lines = []core.CartLine{}
	}
	return &CartResult{Lines: lines, Totals: core.CartTotals(lines, u.Taxable)}, nil
}

func (s *appService) AddToCart(ctx context.Context, userID int, cart *core.Cart, req CartItemRequest) (*CartResult, error) {
	qty, err := req.Quantity.strict("quantity")
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	item, err := s.inventory.GetItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if err := cart.Add(*item, *u, qty); err != nil {
		return nil, err
	}
	return s.ViewCart(ctx, userID, cart)
}

func (s *appService) SetCartQuantity(ctx context.Context, userID int, cart *core.Cart, req CartItemRequest) (*CartResult, error) {
	qty, err := req.Quantity.strict("quantity")
	if err != nil {
		return nil, err
	}
	if !cart.SetQuantity(req.ItemID, qty) {
		return nil, &core.NotFoundError{Kind: "cart item", Key: fmt.Sprint(req.ItemID)}
	}
	return s.ViewCart(ctx, userID, cart)
}

func (s *appService) Checkout(ctx context.Context, userID int, cart *core.Cart) (*core.CheckoutResult, error) {
	return s.orders.Checkout(ctx, userID, cart)
}

func (s *appService) CustomerInvoices(ctx context.Context, userID int) ([]core.Invoice, error) {
	return s.invoices.CustomerInvoices(ctx, userID)
}

// ── Inventory ─────────────────────────────────────────────────────────────────

func (s *appService) ListItems(ctx context.Context) ([]core.CatalogItem, error) {
	return s.inventory.ListItems(ctx)
}

func (s *appService) GetItem(ctx context.Context, id int) (*core.CatalogItem, error) {
	return s.inventory.GetItem(ctx, id)
}

func (s *appService) CreateItem(ctx context.Context, req ItemRequest) (*core.CatalogItem, error) {
	in, err := req.input()
	if err != nil {
		return nil, err
	}
	return s.inventory.CreateItem(ctx, in)
}

func (s *appService) UpdateItem(ctx context.Context, id int, req ItemRequest) (*core.CatalogItem, error) {
	in, err := req.input()
	if err != nil {
		return nil, err
	}
	return s.inventory.UpdateItem(ctx, id, in)
}

func (s *appService) DeleteItem(ctx context.Context, id int) error {
	return s.inventory.DeleteItem(ctx, id)
}

func (s *appService) DuplicateItem(ctx context.Context, id int) (*core.CatalogItem, error) {
	return s.inventory.DuplicateItem(ctx, id)
}

func (s *appService) SetItemRank(ctx context.Context, id int, rank float64) error {
	return s.inventory.SetItemRank(ctx, id, rank)
}

func (s *appService) CategoryRanks(ctx context.Context) ([]core.CategoryRank, error) {
	return s.inventory.CategoryRanks(ctx)
}

func (s *appService) SetCategoryRanks(ctx context.Context, ranks []core.CategoryRank) error {
	return s.inventory.SetCategoryRanks(ctx, ranks)
}

func (s *appService) SetItemVendorPrice(ctx context.Context, itemID int, vendor string, req VendorPriceRequest) (*core.CatalogItem, error) {
	price, err := req.Price.strict("price")
	if err != nil {
		return nil, err
	}
	return s.vendors.SetItemVendorPrice(ctx, itemID, vendor, price, req.LastPurchased)
}

func (s *appService) DeleteItemVendor(ctx context.Context, itemID int, vendor string) error {
	return s.vendors.DeleteItemVendor(ctx, itemID, vendor)
}

// ── Customers ─────────────────────────────────────────────────────────────────

func (s *appService) ListCustomers(ctx context.Context) ([]core.User, error) {
	return s.users.ListCustomers(ctx)
}

func (s *appService) AddCustomer(ctx context.Context, req CustomerRequest) (*core.User, error) {
	in, err := req.input()
	if err != nil {
		return nil, err
	}
	return s.users.AddCustomer(ctx, in)
}

func (s *appService) UpdateCustomer(ctx context.Context, id int, req CustomerRequest) (*core.User, error) {
	in, err := req.input()
	if err != nil {
		return nil, err
	}
	return s.users.UpdateCustomer(ctx, id, in)
}

func (s *appService) DeleteCustomer(ctx context.Context, id int) error {
	return s.users.DeleteCustomer(ctx, id)
}

// ── Invoices ──────────────────────────────────────────────────────────────────

func invoiceList(invs []core.CustomerInvoice) *InvoiceListResult {
	out := decimal.Zero
	for _, ci := range invs {
		out = out.Add(ci.Invoice.TotalBalance)
	}
	if invs == nil {
		invs = []core.CustomerInvoice{}
	}
	return &InvoiceListResult{Invoices: invs, Outstanding: out}
}

func (s *appService) ListInvoices(ctx context.Context) (*InvoiceListResult, error) {
	invs, err := s.invoices.ListInvoices(ctx)
	if err != nil {
		return nil, err
	}
	return invoiceList(invs), nil
}

func (s *appService) ListUnpaid(ctx context.Context) (*InvoiceListResult, error) {
	invs, err := s.invoices.ListUnpaid(ctx)
	if err != nil {
		return nil, err
	}
	return invoiceList(invs), nil
}

func (s *appService) GetInvoice(ctx context.Context, userID int, number string) (*core.CustomerInvoice, error) {
	return s.invoices.GetInvoice(ctx, userID, number)
}

func (s *appService) UpdateInvoice(ctx context.Context, userID int, number string, req InvoiceUpdateRequest) (*core.Invoice, error) {
	upd, err := req.update()
	if err != nil {
		return nil, err
	}
	return s.invoices.UpdateInvoice(ctx, userID, number, upd)
}

func (s *appService) RecordPayment(ctx context.Context, userID int, number string, req PaymentRequest) (*core.Invoice, error) {
	cash, err := req.Cash.strict("cash")
	if err != nil {
		return nil, err
	}
	account, err := req.Account.strict("account")
	if err != nil {
		return nil, err
	}
	return s.invoices.RecordPayment(ctx, userID, number, cash, account)
}

func (s *appService) DeleteInvoice(ctx context.Context, userID int, number string) (*DeleteResult, error) {
	warnings, err := s.invoices.DeleteInvoice(ctx, userID, number)
	if err != nil {
		return nil, err
	}
	return &DeleteResult{Warnings: warnings}, nil
}

// ── Purchases and vendors ─────────────────────────────────────────────────────

func (s *appService) ListPurchases(ctx context.Context) (*PurchaseListResult, error) {
	ps, err := s.purchases.ListPurchases(ctx)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		ps = []core.Purchase{}
	}
	return &PurchaseListResult{Purchases: ps, Outstanding: core.PurchaseOutstanding(ps)}, nil
}

func (s *appService) GetPurchase(ctx context.Context, id int) (*core.Purchase, error) {
	return s.purchases.GetPurchase(ctx, id)
}

func (s *appService) RecordPurchase(ctx context.Context, req PurchaseRequest) (*core.Purchase, error) {
	return s.purchases.RecordPurchase(ctx, req.input())
}

func (s *appService) UpdatePurchase(ctx context.Context, id int, req PurchaseRequest) (*core.Purchase, error) {
	return s.purchases.UpdatePurchase(ctx, id, req.input())
}

func (s *appService) DeletePurchase(ctx context.Context, id int) error {
	return s.purchases.DeletePurchase(ctx, id)
}

func (s *appService) ListVendors(ctx context.Context) ([]core.Vendor, error) {
	return s.vendors.ListVendors(ctx)
}

func (s *appService) CreateVendor(ctx context.Context, req VendorRequest) (*core.Vendor, error) {
	return s.vendors.CreateVendor(ctx, req.input())
}

func (s *appService) UpdateVendor(ctx context.Context, id int, req VendorRequest) (*core.Vendor, error) {
	return s.vendors.UpdateVendor(ctx, id, req.input())
}

func (s *appService) DeleteVendor(ctx context.Context, id int) error {
	return s.vendors.DeleteVendor(ctx, id)
}

// ── Returns ───────────────────────────────────────────────────────────────────

func (s *appService) ListReturns(ctx context.Context) ([]core.Return, error) {
	return s.returns.ListReturns(ctx)
}

func (s *appService) GetReturn(ctx context.Context, number string) (*core.Return, error) {
	return s.returns.GetReturn(ctx, number)
}

func (s *appService) CreateReturn(ctx context.Context, req ReturnRequest) (*core.Return, error) {
	return s.returns.CreateReturn(ctx, req.input())
}

func (s *appService) MarkReturnProcessed(ctx context.Context, number string) (*core.Return, error) {
	return s.returns.MarkProcessed(ctx, number)
}

// ── Reports and exports ───────────────────────────────────────────────────────

func (s *appService) Quarters(ctx context.Context) ([]core.Quarter, error) {
	return s.reports.Quarters(ctx)
}

func (s *appService) SalesTax(ctx context.Context, quarterID string) (*core.SalesTaxReport, error) {
	return s.reports.SalesTax(ctx, quarterID)
}

func (s *appService) MonthlySales(ctx context.Context) (*core.MonthlySalesReport, error) {
	return s.reports.MonthlySales(ctx)
}

func (s *appService) SalesRange(ctx context.Context, from, to string) (*core.RangeSalesReport, error) {
	return s.reports.SalesRange(ctx, from, to)
}

func (s *appService) SalesByProduct(ctx context.Context, months int) (*core.ProductSalesReport, error) {
	return s.reports.SalesByProduct(ctx, months)
}

func (s *appService) ExportSalesTax(ctx context.Context, quarterID string, w io.Writer) error {
	r, err := s.reports.SalesTax(ctx, quarterID)
	if err != nil {
		return err
	}
	return export.SalesTaxReport(w, r)
}

func (s *appService) ExportSalesByProduct(ctx context.Context, months int, w io.Writer) error {
	r, err := s.reports.SalesByProduct(ctx, months)
	if err != nil {
		return err
	}
	return export.SalesByProduct(w, r)
}

func (s *appService) ExportPriceList(ctx context.Context, w io.Writer) error {
	items, err := s.inventory.ListItems(ctx)
	if err != nil {
		return err
	}
	return export.PriceList(w, items)
}

func (s *appService) DocumentSchema(ctx context.Context) ([]byte, error) {
	return ai.DocumentSchema()
}

// ── Assistant ─────────────────────────────────────────────────────────────────

func (s *appService) Ask(ctx context.Context, question string) (*AskResult, error) {
	if s.analyst == nil {
		return nil, ErrAssistantUnavailable
	}
	salesContext, err := s.salesContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build sales context: %w", err)
	}
	answer, err := s.analyst.Ask(ctx, question, salesContext)
	if err != nil {
		return nil, err
	}
	return &AskResult{Question: question, Answer: answer}, nil
}

// salesContext renders the monthly totals, the current quarter's tax figures,
// the top products and the receivables as plain text for the analyst prompt.
func (s *appService) salesContext(ctx context.Context) (string, error) {
	var sb strings.Builder

	monthly, err := s.reports.MonthlySales(ctx)
	if err != nil {
		return "", err
	}
	sb.WriteString("Monthly sales (oldest first):\n")
	for _, m := range monthly.Months {
		fmt.Fprintf(&sb, "  %s: $%s\n", m.Label, m.Total.StringFixed(2))
	}
	fmt.Fprintf(&sb, "  Average of completed months: $%s\n", monthly.Average.StringFixed(2))

	quarters, err := s.reports.Quarters(ctx)
	if err != nil {
		return "", err
	}
	if len(quarters) > 0 {
		tax, err := s.reports.SalesTax(ctx, quarters[0].ID)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "\nSales tax %s (%s): gross receipts $%s, sales tax $%s, not subject to tax $%s, %d invoices\n",
			tax.Quarter.ID, tax.Quarter.Label,
			tax.GrossReceipts.StringFixed(2), tax.TotalSalesTax.StringFixed(2),
			tax.ReceiptsNotSubjectTo.StringFixed(2), len(tax.Invoices))
	}

	products, err := s.reports.SalesByProduct(ctx, 3)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&sb, "\nTop products %s to %s (previous period %s to %s):\n",
		products.CurrentStart, products.CurrentEnd, products.PreviousStart, products.PreviousEnd)
	for i, p := range products.Products {
		if i == contextProducts {
			break
		}
		fmt.Fprintf(&sb, "  %s [%s]: qty %s, $%s (previous qty %s, $%s), on hand %s\n",
			p.ProductName, p.Category,
			p.CurrentQuantity.String(), p.CurrentTotal.StringFixed(2),
			p.PreviousQuantity.String(), p.PreviousTotal.StringFixed(2), p.OnHand.String())
	}

	unpaid, err := s.invoices.ListUnpaid(ctx)
	if err != nil {
		return "", err
	}
	list := invoiceList(unpaid)
	fmt.Fprintf(&sb, "\nUnpaid invoices: %d, outstanding $%s\n", len(unpaid), list.Outstanding.StringFixed(2))

	log.Printf("ask: sales context %d bytes", sb.Len())
	return sb.String(), nil
}
