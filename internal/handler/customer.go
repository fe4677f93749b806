package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// ListCustomers returns all customers for the plan form lookup
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.ListCustomers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, customers)
}

// GetCustomer returns one customer
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	cust, err := h.svc.GetCustomer(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cust)
}
