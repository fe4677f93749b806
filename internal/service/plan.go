package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/watchara/installment-service/internal/models"
)

// CreatePlanInput mirrors the installment form.
type CreatePlanInput struct {
	CustomerID   string  `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	ProductName  string  `json:"product_name"`
	Note         string  `json:"note"`
	TotalAmount  int64   `json:"total_amount"`
	DownPayment  int64   `json:"down_payment"`
	Months       int     `json:"months"`
	InterestRate float64 `json:"interest_rate"`
	StartDate    string  `json:"start_date"`
}

// CreatePlan validates the form, prices the plan, generates its schedule and
// persists everything as an active plan. The customer's current name and
// phone are copied onto the plan so it stays readable after the customer
// record changes or disappears; if the customer id is not resolvable the
// name given on the form is used instead.
func (s *Service) CreatePlan(ctx context.Context, in CreatePlanInput) (*models.InstallmentPlan, error) {
	start, err := time.Parse(models.DateLayout, in.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start date must be YYYY-MM-DD, got %q", models.ErrInvalidScheduleConfig, in.StartDate)
	}

	amort, err := ComputeAmortization(in.TotalAmount, in.DownPayment, in.Months, in.InterestRate)
	if err != nil {
		return nil, err
	}
	schedules, err := GenerateSchedule(start, in.Months, amort.MonthlyAmount)
	if err != nil {
		return nil, err
	}

	name := in.CustomerName
	phone := ""
	if cust, err := s.store.FindCustomerByID(ctx, in.CustomerID); err == nil {
		name = cust.Name
		phone = cust.Phone
	}

	plan := &models.InstallmentPlan{
		ID:              uuid.NewString(),
		CustomerID:      in.CustomerID,
		CustomerName:    name,
		CustomerPhone:   phone,
		ProductName:     in.ProductName,
		Note:            in.Note,
		TotalAmount:     in.TotalAmount,
		DownPayment:     in.DownPayment,
		PrincipalAmount: amort.Principal,
		Months:          in.Months,
		InterestRate:    in.InterestRate,
		MonthlyAmount:   amort.MonthlyAmount,
		StartDate:       start.Format(models.DateLayout),
		Status:          models.PlanActive,
		RecordedBy:      operatorFromContext(ctx),
		Schedules:       schedules,
	}

	if err := s.store.CreatePlan(ctx, plan); err != nil {
		return nil, err
	}
	s.invalidateSummary()

	s.log.Infof("Plan %s created for customer %s: %d terms of %d (principal %d)",
		plan.ID, plan.CustomerID, plan.Months, plan.MonthlyAmount, plan.PrincipalAmount)
	return plan, nil
}

// GetPlan returns one plan with its schedules
func (s *Service) GetPlan(ctx context.Context, id string) (*models.InstallmentPlan, error) {
	return s.store.GetPlan(ctx, id)
}

// ListPlans returns every plan with its schedules
func (s *Service) ListPlans(ctx context.Context) ([]*models.InstallmentPlan, error) {
	return s.store.ListPlans(ctx)
}

// PayTerm settles one term of a plan in full and appends the payment to the
// ledger. A term can be paid exactly once; paying it again fails with
// models.ErrAlreadyPaid and records nothing. When the last pending term is
// paid the plan transitions to completed.
func (s *Service) PayTerm(ctx context.Context, planID string, term int, amount int64, method string) (*models.InstallmentPlan, error) {
	if term <= 0 {
		return nil, fmt.Errorf("%w: term must be positive, got %d", models.ErrTermNotFound, term)
	}
	if amount < 0 {
		return nil, fmt.Errorf("%w: payment amount must not be negative", models.ErrInvalidScheduleConfig)
	}

	payment := &models.Payment{
		ID:     uuid.NewString(),
		PlanID: planID,
		Term:   term,
		Amount: amount,
		Method: method,
		PaidAt: time.Now().Format("2006-01-02 15:04:05"),
	}

	plan, err := s.store.PayTerm(ctx, planID, term, payment)
	if err != nil {
		return nil, err
	}
	s.invalidateSummary()

	if plan.Status == models.PlanCompleted {
		s.log.Infof("Plan %s completed: all %d terms paid", plan.ID, plan.Months)
	} else {
		s.log.Infof("Plan %s term %d paid via %s", planID, term, method)
	}
	return plan, nil
}

// CancelPlan freezes an active plan. Remaining pending terms stop counting
// toward outstanding and overdue totals and can no longer be paid. Only
// active plans can be cancelled.
func (s *Service) CancelPlan(ctx context.Context, planID string) (*models.InstallmentPlan, error) {
	plan, err := s.store.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.Status != models.PlanActive {
		return nil, fmt.Errorf("%w: plan %s is %s", models.ErrPlanNotActive, planID, plan.Status)
	}

	if err := s.store.UpdatePlanStatus(ctx, planID, models.PlanCancelled); err != nil {
		return nil, err
	}
	plan.Status = models.PlanCancelled
	s.invalidateSummary()

	s.log.Infof("Plan %s cancelled with %d of %d terms paid", planID, plan.PaidTermCount(), plan.Months)
	return plan, nil
}

// DeletePlan removes a plan and its schedules. Payment history already
// recorded against the plan is kept.
func (s *Service) DeletePlan(ctx context.Context, planID string) error {
	if err := s.store.DeletePlan(ctx, planID); err != nil {
		return err
	}
	s.invalidateSummary()

	s.log.Infof("Plan %s deleted, payment history retained", planID)
	return nil
}
