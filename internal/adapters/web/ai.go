package web

import (
	"net/http"
	"strings"
)

type askRequest struct {
	Question string `json:"question"`
}

// ask handles POST /api/admin/ask. It answers from the current reports only
// and returns 503 when no OpenAI key is configured.
func (h *Handler) ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, r, "question is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.Ask(r.Context(), req.Question)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}
