package web

import (
	"net/http"

	"order-portal/internal/app"
	"order-portal/internal/core"

	"github.com/go-chi/chi/v5"
)

// ── Purchases ─────────────────────────────────────────────────────────────────

func (h *Handler) listPurchases(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListPurchases(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) getPurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	p, err := h.svc.GetPurchase(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, p)
}

// recordPurchase handles POST /api/admin/purchases. Catalog costs and
// auto-priced tiers are updated in the same write.
func (h *Handler) recordPurchase(w http.ResponseWriter, r *http.Request) {
	var req app.PurchaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.svc.RecordPurchase(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, p)
}

func (h *Handler) updatePurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	var req app.PurchaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.svc.UpdatePurchase(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, p)
}

func (h *Handler) deletePurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeletePurchase(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── Vendors ───────────────────────────────────────────────────────────────────

func (h *Handler) listVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.svc.ListVendors(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if vendors == nil {
		vendors = []core.Vendor{}
	}
	writeJSON(w, vendors)
}

func (h *Handler) createVendor(w http.ResponseWriter, r *http.Request) {
	var req app.VendorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	v, err := h.svc.CreateVendor(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, v)
}

func (h *Handler) updateVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	var req app.VendorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	v, err := h.svc.UpdateVendor(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, v)
}

func (h *Handler) deleteVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteVendor(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── Returns ───────────────────────────────────────────────────────────────────

func (h *Handler) listReturns(w http.ResponseWriter, r *http.Request) {
	returns, err := h.svc.ListReturns(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if returns == nil {
		returns = []core.Return{}
	}
	writeJSON(w, returns)
}

func (h *Handler) getReturn(w http.ResponseWriter, r *http.Request) {
	ret, err := h.svc.GetReturn(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, ret)
}

func (h *Handler) createReturn(w http.ResponseWriter, r *http.Request) {
	var req app.ReturnRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ret, err := h.svc.CreateReturn(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, ret)
}

func (h *Handler) markReturnProcessed(w http.ResponseWriter, r *http.Request) {
	ret, err := h.svc.MarkReturnProcessed(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, ret)
}
