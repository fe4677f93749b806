package handler

import "net/http"

// PortfolioSummary returns the portfolio-wide aggregates
func (h *Handler) PortfolioSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.PortfolioSummary(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
