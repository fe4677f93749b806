package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/watchara/installment-service/internal/service"
)

// CreatePlan handles installment plan creation
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var in service.CreatePlanInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	plan, err := h.svc.CreatePlan(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, plan)
}

// ListPlans returns every plan with its derived metrics
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	overviews, err := h.svc.ListPlanOverviews(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, overviews)
}

// GetPlan returns one plan with its schedules
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.svc.GetPlan(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

type payTermRequest struct {
	Term   int    `json:"term"`
	Amount int64  `json:"amount"`
	Method string `json:"method"`
}

// PayTerm settles one term of a plan
func (h *Handler) PayTerm(w http.ResponseWriter, r *http.Request) {
	var req payTermRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	plan, err := h.svc.PayTerm(r.Context(), mux.Vars(r)["id"], req.Term, req.Amount, req.Method)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

// CancelPlan freezes an active plan
func (h *Handler) CancelPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.svc.CancelPlan(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

// DeletePlan removes a plan while keeping its payment history
func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePlan(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
