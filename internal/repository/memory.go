package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/watchara/installment-service/internal/models"
)

// MemoryStore is an in-memory implementation of Store, used in tests and as a
// stand-in when no database is reachable. Mutations hold a single mutex, which
// gives the same one-payment-wins guarantee the Postgres transaction does.
type MemoryStore struct {
	mu        sync.Mutex
	plans     map[string]*models.InstallmentPlan
	order     []string
	payments  []*models.Payment
	customers map[string]*models.Customer
	operators map[string]*models.Operator
	nextOpID  int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		plans:     make(map[string]*models.InstallmentPlan),
		customers: make(map[string]*models.Customer),
		operators: make(map[string]*models.Operator),
	}
}

// SeedCustomer adds or replaces a customer record.
func (m *MemoryStore) SeedCustomer(cust *models.Customer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[cust.ID] = cust
}

// RemoveCustomer deletes a customer record, simulating out-of-band CRUD.
func (m *MemoryStore) RemoveCustomer(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.customers, id)
}

func (m *MemoryStore) CreatePlan(ctx context.Context, plan *models.InstallmentPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().Format(time.RFC3339)
	plan.CreatedAt = now
	plan.UpdatedAt = now
	m.plans[plan.ID] = clonePlan(plan)
	m.order = append(m.order, plan.ID)
	return nil
}

func (m *MemoryStore) GetPlan(ctx context.Context, id string) (*models.InstallmentPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	plan, ok := m.plans[id]
	if !ok {
		return nil, models.ErrPlanNotFound
	}
	return clonePlan(plan), nil
}

func (m *MemoryStore) ListPlans(ctx context.Context) ([]*models.InstallmentPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	plans := make([]*models.InstallmentPlan, 0, len(m.plans))
	for i := len(m.order) - 1; i >= 0; i-- {
		if plan, ok := m.plans[m.order[i]]; ok {
			plans = append(plans, clonePlan(plan))
		}
	}
	return plans, nil
}

func (m *MemoryStore) PayTerm(ctx context.Context, planID string, term int, payment *models.Payment) (*models.InstallmentPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	plan, ok := m.plans[planID]
	if !ok {
		return nil, models.ErrPlanNotFound
	}
	if plan.Status != models.PlanActive {
		return nil, fmt.Errorf("%w: plan %s is %s", models.ErrPlanNotActive, planID, plan.Status)
	}

	idx := -1
	for i := range plan.Schedules {
		if plan.Schedules[i].Term == term {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: plan %s has no term %d", models.ErrTermNotFound, planID, term)
	}
	if plan.Schedules[idx].Status == models.SchedulePaid {
		return nil, fmt.Errorf("%w: plan %s term %d", models.ErrAlreadyPaid, planID, term)
	}

	plan.Schedules[idx].Status = models.SchedulePaid
	if payment.Amount == 0 {
		payment.Amount = plan.Schedules[idx].Amount
	}
	payment.CustomerID = plan.CustomerID
	entry := *payment
	m.payments = append(m.payments, &entry)

	if plan.PaidTermCount() == plan.Months {
		plan.Status = models.PlanCompleted
	}
	plan.UpdatedAt = time.Now().Format(time.RFC3339)
	return clonePlan(plan), nil
}

func (m *MemoryStore) UpdatePlanStatus(ctx context.Context, planID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	plan, ok := m.plans[planID]
	if !ok {
		return models.ErrPlanNotFound
	}
	plan.Status = status
	plan.UpdatedAt = time.Now().Format(time.RFC3339)
	return nil
}

func (m *MemoryStore) DeletePlan(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[id]; !ok {
		return models.ErrPlanNotFound
	}
	delete(m.plans, id)
	return nil
}

func (m *MemoryStore) ListPaymentsByCustomer(ctx context.Context, customerID string) ([]*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Payment
	for _, p := range m.payments {
		if p.CustomerID == customerID {
			entry := *p
			out = append(out, &entry)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PaidAt > out[j].PaidAt })
	return out, nil
}

func (m *MemoryStore) ListPaymentsByPlan(ctx context.Context, planID string) ([]*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Payment
	for _, p := range m.payments {
		if p.PlanID == planID {
			entry := *p
			out = append(out, &entry)
		}
	}
	return out, nil
}

func (m *MemoryStore) FindCustomerByID(ctx context.Context, id string) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cust, ok := m.customers[id]
	if !ok {
		return nil, models.ErrCustomerNotFound
	}
	c := *cust
	return &c, nil
}

func (m *MemoryStore) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	customers := make([]*models.Customer, 0, len(m.customers))
	for _, cust := range m.customers {
		c := *cust
		customers = append(customers, &c)
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].Name < customers[j].Name })
	return customers, nil
}

func (m *MemoryStore) CreateOperator(ctx context.Context, op *models.Operator) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.operators[op.Username]; exists {
		return fmt.Errorf("operator %s already exists", op.Username)
	}
	m.nextOpID++
	op.ID = m.nextOpID
	op.CreatedAt = time.Now().Format(time.RFC3339)
	c := *op
	m.operators[op.Username] = &c
	return nil
}

func (m *MemoryStore) FindOperatorByUsername(ctx context.Context, username string) (*models.Operator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	op, ok := m.operators[username]
	if !ok {
		return nil, errors.New("operator not found")
	}
	c := *op
	return &c, nil
}

func clonePlan(plan *models.InstallmentPlan) *models.InstallmentPlan {
	out := *plan
	out.Schedules = make([]models.InstallmentSchedule, len(plan.Schedules))
	copy(out.Schedules, plan.Schedules)
	return &out
}
