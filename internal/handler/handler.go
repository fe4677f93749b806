package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/watchara/installment-service/internal/models"
	"github.com/watchara/installment-service/internal/service"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// respondError maps domain sentinels onto HTTP statuses. Anything unmapped is
// treated as a persistence failure.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrInvalidScheduleConfig):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrPlanNotFound),
		errors.Is(err, models.ErrTermNotFound),
		errors.Is(err, models.ErrCustomerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrAlreadyPaid),
		errors.Is(err, models.ErrPlanNotActive):
		status = http.StatusConflict
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}
