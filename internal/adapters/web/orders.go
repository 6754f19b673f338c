package web

import (
	"net/http"

	"order-portal/internal/app"
	"order-portal/internal/core"

	"github.com/go-chi/chi/v5"
)

// ── Customer ──────────────────────────────────────────────────────────────────

// catalog handles GET /api/catalog: every item priced for the signed-in customer.
func (h *Handler) catalog(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Catalog(r.Context(), authFromContext(r.Context()).UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// checkout handles POST /api/checkout. The cart stays locked for the whole
// checkout so a concurrent add cannot slip in between pricing and clearing.
func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	userID := authFromContext(r.Context()).UserID
	var result *core.CheckoutResult
	err := h.carts.with(userID, func(c *core.Cart) error {
		var err error
		result, err = h.svc.Checkout(r.Context(), userID, c)
		return err
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, result)
}

// myInvoices handles GET /api/invoices.
func (h *Handler) myInvoices(w http.ResponseWriter, r *http.Request) {
	invs, err := h.svc.CustomerInvoices(r.Context(), authFromContext(r.Context()).UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if invs == nil {
		invs = []core.Invoice{}
	}
	writeJSON(w, invs)
}

// ── Admin: customers ──────────────────────────────────────────────────────────

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListCustomers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if users == nil {
		users = []core.User{}
	}
	writeJSON(w, users)
}

func (h *Handler) addCustomer(w http.ResponseWriter, r *http.Request) {
	var req app.CustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.svc.AddCustomer(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, u)
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	var req app.CustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.svc.UpdateCustomer(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, u)
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteCustomer(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── Admin: invoices ───────────────────────────────────────────────────────────

func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListInvoices(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) listUnpaid(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListUnpaid(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// invoiceKey reads the customer ID and invoice number from the URL.
// Invoice numbers are only unique per company, so both are needed.
func invoiceKey(w http.ResponseWriter, r *http.Request) (int, string, bool) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return 0, "", false
	}
	return id, chi.URLParam(r, "number"), true
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	userID, number, ok := invoiceKey(w, r)
	if !ok {
		return
	}
	inv, err := h.svc.GetInvoice(r.Context(), userID, number)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, inv)
}

func (h *Handler) updateInvoice(w http.ResponseWriter, r *http.Request) {
	userID, number, ok := invoiceKey(w, r)
	if !ok {
		return
	}
	var req app.InvoiceUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	inv, err := h.svc.UpdateInvoice(r.Context(), userID, number, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, inv)
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	userID, number, ok := invoiceKey(w, r)
	if !ok {
		return
	}
	var req app.PaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	inv, err := h.svc.RecordPayment(r.Context(), userID, number, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, inv)
}

func (h *Handler) deleteInvoice(w http.ResponseWriter, r *http.Request) {
	userID, number, ok := invoiceKey(w, r)
	if !ok {
		return
	}
	result, err := h.svc.DeleteInvoice(r.Context(), userID, number)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}
