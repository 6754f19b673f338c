package web

import (
	"net/http"

	"order-portal/internal/app"
	"order-portal/internal/core"

	"github.com/go-chi/chi/v5"
)

// listItems handles GET /api/admin/inventory. Items come back in display order.
func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListItems(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []core.CatalogItem{}
	}
	writeJSON(w, items)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	item, err := h.svc.GetItem(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, item)
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var req app.ItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.svc.CreateItem(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, item)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	var req app.ItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.svc.UpdateItem(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, item)
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteItem(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) duplicateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	item, err := h.svc.DuplicateItem(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, item)
}

func (h *Handler) setItemRank(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Rank float64 `json:"rank"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.SetItemRank(r.Context(), id, req.Rank); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setItemVendorPrice(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	var req app.VendorPriceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.svc.SetItemVendorPrice(r.Context(), id, chi.URLParam(r, "vendor"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, item)
}

func (h *Handler) deleteItemVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteItemVendor(r.Context(), id, chi.URLParam(r, "vendor")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── Categories ────────────────────────────────────────────────────────────────

func (h *Handler) categoryRanks(w http.ResponseWriter, r *http.Request) {
	ranks, err := h.svc.CategoryRanks(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, ranks)
}

func (h *Handler) setCategoryRanks(w http.ResponseWriter, r *http.Request) {
	var ranks []core.CategoryRank
	if !decodeJSON(w, r, &ranks) {
		return
	}
	if err := h.svc.SetCategoryRanks(r.Context(), ranks); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
