package handler

import "net/http"

// ListPayments returns payment-history entries filtered by customer or plan.
// History entries survive plan deletion, so a customer_id query still finds
// payments whose plan is gone.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customer_id")
	planID := r.URL.Query().Get("plan_id")

	switch {
	case customerID != "":
		payments, err := h.svc.ListPaymentsByCustomer(r.Context(), customerID)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, payments)
	case planID != "":
		payments, err := h.svc.ListPaymentsByPlan(r.Context(), planID)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, payments)
	default:
		http.Error(w, "customer_id or plan_id query parameter is required", http.StatusBadRequest)
	}
}
