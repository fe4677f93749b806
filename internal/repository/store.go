package repository

import (
	"context"

	"github.com/watchara/installment-service/internal/models"
)

// PlanStore persists installment plans together with their embedded schedules.
type PlanStore interface {
	// CreatePlan stores a plan and all of its schedule rows.
	CreatePlan(ctx context.Context, plan *models.InstallmentPlan) error

	// GetPlan retrieves a plan with its schedules ordered by term.
	GetPlan(ctx context.Context, id string) (*models.InstallmentPlan, error)

	// ListPlans retrieves every plan with schedules, newest first.
	ListPlans(ctx context.Context) ([]*models.InstallmentPlan, error)

	// PayTerm marks the term paid and appends the ledger entry as one atomic
	// unit, so two concurrent payments of the same term serialize and the
	// loser gets models.ErrAlreadyPaid. When all terms end up paid the plan
	// status flips to completed in the same unit. Returns the plan as it
	// looks after the payment.
	PayTerm(ctx context.Context, planID string, term int, payment *models.Payment) (*models.InstallmentPlan, error)

	// UpdatePlanStatus overwrites the plan status.
	UpdatePlanStatus(ctx context.Context, planID, status string) error

	// DeletePlan removes the plan and its schedules. Ledger entries stay.
	DeletePlan(ctx context.Context, id string) error
}

// PaymentLedger reads the append-only payment history.
type PaymentLedger interface {
	ListPaymentsByCustomer(ctx context.Context, customerID string) ([]*models.Payment, error)
	ListPaymentsByPlan(ctx context.Context, planID string) ([]*models.Payment, error)
}

// CustomerDirectory is the read-only customer lookup.
type CustomerDirectory interface {
	FindCustomerByID(ctx context.Context, id string) (*models.Customer, error)
	ListCustomers(ctx context.Context) ([]*models.Customer, error)
}

// OperatorStore persists staff accounts.
type OperatorStore interface {
	CreateOperator(ctx context.Context, op *models.Operator) error
	FindOperatorByUsername(ctx context.Context, username string) (*models.Operator, error)
}

// Store is everything the service layer needs from persistence.
type Store interface {
	PlanStore
	PaymentLedger
	CustomerDirectory
	OperatorStore
}
