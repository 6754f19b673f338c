package web

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ── Reports ───────────────────────────────────────────────────────────────────

// quarters handles GET /api/admin/reports/quarters.
func (h *Handler) quarters(w http.ResponseWriter, r *http.Request) {
	qs, err := h.svc.Quarters(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, qs)
}

// salesTax handles GET /api/admin/reports/sales-tax?quarter=2025-Q1.
func (h *Handler) salesTax(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.SalesTax(r.Context(), r.URL.Query().Get("quarter"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, report)
}

// monthlySales handles GET /api/admin/reports/monthly.
func (h *Handler) monthlySales(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.MonthlySales(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, report)
}

// salesRange handles GET /api/admin/reports/range?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *Handler) salesRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	report, err := h.svc.SalesRange(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, report)
}

// monthsParam reads ?months=, defaulting to 3.
func monthsParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("months")
	if raw == "" {
		return 3, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, r, "months must be an integer", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

// salesByProduct handles GET /api/admin/reports/products?months=3.
func (h *Handler) salesByProduct(w http.ResponseWriter, r *http.Request) {
	months, ok := monthsParam(w, r)
	if !ok {
		return
	}
	report, err := h.svc.SalesByProduct(r.Context(), months)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, report)
}

// ── Workbook downloads ────────────────────────────────────────────────────────

// writeWorkbook renders into memory first so a failure still gets a JSON error.
func writeWorkbook(w http.ResponseWriter, r *http.Request, filename string, render func(ctx context.Context, out io.Writer) error) {
	var buf bytes.Buffer
	if err := render(r.Context(), &buf); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

// salesTaxXLSX handles GET /api/admin/reports/sales-tax.xlsx?quarter=.
func (h *Handler) salesTaxXLSX(w http.ResponseWriter, r *http.Request) {
	quarter := r.URL.Query().Get("quarter")
	writeWorkbook(w, r, "sales-tax-"+quarter+".xlsx", func(ctx context.Context, out io.Writer) error {
		return h.svc.ExportSalesTax(ctx, quarter, out)
	})
}

// salesByProductXLSX handles GET /api/admin/reports/products.xlsx?months=.
func (h *Handler) salesByProductXLSX(w http.ResponseWriter, r *http.Request) {
	months, ok := monthsParam(w, r)
	if !ok {
		return
	}
	name := fmt.Sprintf("sales-by-product-%dm.xlsx", months)
	writeWorkbook(w, r, name, func(ctx context.Context, out io.Writer) error {
		return h.svc.ExportSalesByProduct(ctx, months, out)
	})
}

// priceListXLSX handles GET /api/admin/price-list.xlsx.
func (h *Handler) priceListXLSX(w http.ResponseWriter, r *http.Request) {
	name := "price-list-" + time.Now().Format("2006-01-02") + ".xlsx"
	writeWorkbook(w, r, name, h.svc.ExportPriceList)
}
