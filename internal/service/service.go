package service

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/watchara/installment-service/internal/config"
	"github.com/watchara/installment-service/internal/models"
	"github.com/watchara/installment-service/internal/repository"
)

// Service handles business logic
type Service struct {
	store  repository.Store
	cache  repository.Cache
	log    *logrus.Logger
	config *config.Config
}

// NewService initializes a new service
func NewService(store repository.Store, cache repository.Cache, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{store: store, cache: cache, log: log, config: cfg}
}

// GetCustomer looks up a single customer
func (s *Service) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	return s.store.FindCustomerByID(ctx, id)
}

// ListCustomers returns all customers
func (s *Service) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	return s.store.ListCustomers(ctx)
}

// ListPaymentsByCustomer returns the payment history recorded for a customer,
// including entries whose originating plan has since been deleted.
func (s *Service) ListPaymentsByCustomer(ctx context.Context, customerID string) ([]*models.Payment, error) {
	return s.store.ListPaymentsByCustomer(ctx, customerID)
}

// ListPaymentsByPlan returns the payment history recorded against one plan
func (s *Service) ListPaymentsByPlan(ctx context.Context, planID string) ([]*models.Payment, error) {
	return s.store.ListPaymentsByPlan(ctx, planID)
}

// operatorFromContext extracts the authenticated operator set by the auth
// middleware. Empty when the call did not pass through it.
func operatorFromContext(ctx context.Context) string {
	if operator, ok := ctx.Value("operator").(string); ok {
		return operator
	}
	return ""
}
