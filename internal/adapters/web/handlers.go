package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"order-portal/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService, the chi router, and the session carts.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	carts     *cartStore
	jwtSecret string
}

// NewHandler creates and wires the chi router with all routes.
// ctx bounds the cart purge goroutine.
func NewHandler(ctx context.Context, svc app.ApplicationService, allowedOrigins, jwtSecret string) http.Handler {
	h := &Handler{
		svc:       svc,
		carts:     newCartStore(),
		jwtSecret: jwtSecret,
	}
	h.carts.startPurge(ctx)

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(NoStore)
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Post("/api/auth/register", h.register)
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Any signed-in user ────────────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Get("/api/auth/me", h.me)
		r.Get("/api/catalog", h.catalog)

		r.Get("/api/cart", h.viewCart)
		r.Post("/api/cart/items", h.addCartItem)
		r.Put("/api/cart/items/{itemID}", h.setCartItem)
		r.Delete("/api/cart/items/{itemID}", h.removeCartItem)
		r.Post("/api/checkout", h.checkout)

		r.Get("/api/invoices", h.myInvoices)
	})

	// ── Admin ─────────────────────────────────────────────────────────────────
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequireAdmin)

		r.Get("/inventory", h.listItems)
		r.Post("/inventory", h.createItem)
		r.Get("/inventory/{id}", h.getItem)
		r.Put("/inventory/{id}", h.updateItem)
		r.Delete("/inventory/{id}", h.deleteItem)
		r.Post("/inventory/{id}/duplicate", h.duplicateItem)
		r.Put("/inventory/{id}/rank", h.setItemRank)
		r.Put("/inventory/{id}/vendors/{vendor}", h.setItemVendorPrice)
		r.Delete("/inventory/{id}/vendors/{vendor}", h.deleteItemVendor)
		r.Get("/categories", h.categoryRanks)
		r.Put("/categories", h.setCategoryRanks)

		r.Get("/customers", h.listCustomers)
		r.Post("/customers", h.addCustomer)
		r.Put("/customers/{id}", h.updateCustomer)
		r.Delete("/customers/{id}", h.deleteCustomer)

		r.Get("/invoices", h.listInvoices)
		r.Get("/invoices/unpaid", h.listUnpaid)
		r.Get("/customers/{id}/invoices/{number}", h.getInvoice)
		r.Put("/customers/{id}/invoices/{number}", h.updateInvoice)
		r.Delete("/customers/{id}/invoices/{number}", h.deleteInvoice)
		r.Post("/customers/{id}/invoices/{number}/payment", h.recordPayment)

		r.Get("/purchases", h.listPurchases)
		r.Post("/purchases", h.recordPurchase)
		r.Get("/purchases/{id}", h.getPurchase)
		r.Put("/purchases/{id}", h.updatePurchase)
		r.Delete("/purchases/{id}", h.deletePurchase)

		r.Get("/vendors", h.listVendors)
		r.Post("/vendors", h.createVendor)
		r.Put("/vendors/{id}", h.updateVendor)
		r.Delete("/vendors/{id}", h.deleteVendor)

		r.Get("/returns", h.listReturns)
		r.Post("/returns", h.createReturn)
		r.Get("/returns/{number}", h.getReturn)
		r.Post("/returns/{number}/processed", h.markReturnProcessed)

		r.Get("/reports/quarters", h.quarters)
		r.Get("/reports/sales-tax", h.salesTax)
		r.Get("/reports/monthly", h.monthlySales)
		r.Get("/reports/range", h.salesRange)
		r.Get("/reports/products", h.salesByProduct)
		r.Get("/reports/sales-tax.xlsx", h.salesTaxXLSX)
		r.Get("/reports/products.xlsx", h.salesByProductXLSX)
		r.Get("/price-list.xlsx", h.priceListXLSX)

		r.Post("/ask", h.ask)
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// intParam reads a numeric URL parameter, writing a 400 and returning false
// when it is not an integer.
func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		writeError(w, r, name+" must be an integer", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
