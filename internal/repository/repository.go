package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/watchara/installment-service/internal/models"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreatePlan stores a plan and its schedule rows in one transaction
func (r *Repository) CreatePlan(ctx context.Context, plan *models.InstallmentPlan) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO shop.installment_plans
			(id, customer_id, customer_name, customer_phone, product_name, note,
			 total_amount, down_payment, principal_amount, months, interest_rate,
			 monthly_amount, start_date, status, recorded_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err = tx.QueryRowContext(ctx, query,
		plan.ID, plan.CustomerID, plan.CustomerName, plan.CustomerPhone,
		plan.ProductName, plan.Note, plan.TotalAmount, plan.DownPayment,
		plan.PrincipalAmount, plan.Months, plan.InterestRate, plan.MonthlyAmount,
		plan.StartDate, plan.Status, plan.RecordedBy).
		Scan(&plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}

	for _, sch := range plan.Schedules {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO shop.installment_schedules (plan_id, term, due_date, amount, status)
			VALUES ($1, $2, $3, $4, $5)`,
			plan.ID, sch.Term, sch.DueDate, sch.Amount, sch.Status)
		if err != nil {
			return fmt.Errorf("failed to create schedule term %d: %w", sch.Term, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit plan: %w", err)
	}
	return nil
}

// GetPlan retrieves a plan and its schedules ordered by term
func (r *Repository) GetPlan(ctx context.Context, id string) (*models.InstallmentPlan, error) {
	plan := &models.InstallmentPlan{}
	query := `
		SELECT id, customer_id, customer_name, customer_phone, product_name, note,
		       total_amount, down_payment, principal_amount, months, interest_rate,
		       monthly_amount, start_date, status, recorded_by, created_at, updated_at
		FROM shop.installment_plans
		WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&plan.ID, &plan.CustomerID, &plan.CustomerName, &plan.CustomerPhone,
		&plan.ProductName, &plan.Note, &plan.TotalAmount, &plan.DownPayment,
		&plan.PrincipalAmount, &plan.Months, &plan.InterestRate, &plan.MonthlyAmount,
		&plan.StartDate, &plan.Status, &plan.RecordedBy, &plan.CreatedAt, &plan.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}

	schedules, err := r.loadSchedules(ctx, id)
	if err != nil {
		return nil, err
	}
	plan.Schedules = schedules
	return plan, nil
}

// ListPlans retrieves every plan with its schedules, newest first
func (r *Repository) ListPlans(ctx context.Context) ([]*models.InstallmentPlan, error) {
	query := `
		SELECT id, customer_id, customer_name, customer_phone, product_name, note,
		       total_amount, down_payment, principal_amount, months, interest_rate,
		       monthly_amount, start_date, status, recorded_by, created_at, updated_at
		FROM shop.installment_plans
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []*models.InstallmentPlan
	byID := make(map[string]*models.InstallmentPlan)
	for rows.Next() {
		plan := &models.InstallmentPlan{}
		err := rows.Scan(
			&plan.ID, &plan.CustomerID, &plan.CustomerName, &plan.CustomerPhone,
			&plan.ProductName, &plan.Note, &plan.TotalAmount, &plan.DownPayment,
			&plan.PrincipalAmount, &plan.Months, &plan.InterestRate, &plan.MonthlyAmount,
			&plan.StartDate, &plan.Status, &plan.RecordedBy, &plan.CreatedAt, &plan.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, plan)
		byID[plan.ID] = plan
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	schedRows, err := r.db.QueryContext(ctx, `
		SELECT plan_id, term, due_date, amount, status
		FROM shop.installment_schedules
		ORDER BY plan_id, term`)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer schedRows.Close()

	for schedRows.Next() {
		var planID string
		var sch models.InstallmentSchedule
		if err := schedRows.Scan(&planID, &sch.Term, &sch.DueDate, &sch.Amount, &sch.Status); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		if plan, ok := byID[planID]; ok {
			plan.Schedules = append(plan.Schedules, sch)
		}
	}
	if err := schedRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return plans, nil
}

// PayTerm flips a pending term to paid and appends the ledger entry in a
// single transaction. The plan and schedule rows are locked first, so a
// concurrent payment of the same term blocks and then fails with
// models.ErrAlreadyPaid instead of double-recording.
func (r *Repository) PayTerm(ctx context.Context, planID string, term int, payment *models.Payment) (*models.InstallmentPlan, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var planStatus, customerID string
	err = tx.QueryRowContext(ctx, `
		SELECT status, customer_id FROM shop.installment_plans
		WHERE id = $1
		FOR UPDATE`, planID).Scan(&planStatus, &customerID)
	if err == sql.ErrNoRows {
		return nil, models.ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock plan: %w", err)
	}
	if planStatus != models.PlanActive {
		return nil, fmt.Errorf("%w: plan %s is %s", models.ErrPlanNotActive, planID, planStatus)
	}

	var schedStatus string
	var amount int64
	err = tx.QueryRowContext(ctx, `
		SELECT status, amount FROM shop.installment_schedules
		WHERE plan_id = $1 AND term = $2
		FOR UPDATE`, planID, term).Scan(&schedStatus, &amount)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: plan %s has no term %d", models.ErrTermNotFound, planID, term)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock schedule: %w", err)
	}
	if schedStatus == models.SchedulePaid {
		return nil, fmt.Errorf("%w: plan %s term %d", models.ErrAlreadyPaid, planID, term)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE shop.installment_schedules SET status = $1
		WHERE plan_id = $2 AND term = $3`, models.SchedulePaid, planID, term)
	if err != nil {
		return nil, fmt.Errorf("failed to mark term paid: %w", err)
	}

	if payment.Amount == 0 {
		payment.Amount = amount
	}
	payment.CustomerID = customerID
	_, err = tx.ExecContext(ctx, `
		INSERT INTO shop.payments (id, plan_id, customer_id, term, amount, method, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		payment.ID, payment.PlanID, payment.CustomerID, payment.Term,
		payment.Amount, payment.Method, payment.PaidAt)
	if err != nil {
		return nil, fmt.Errorf("failed to append payment: %w", err)
	}

	var pending int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM shop.installment_schedules
		WHERE plan_id = $1 AND status = $2`, planID, models.SchedulePending).Scan(&pending)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending terms: %w", err)
	}

	status := models.PlanActive
	if pending == 0 {
		status = models.PlanCompleted
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE shop.installment_plans SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2`, status, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to update plan status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment: %w", err)
	}
	return r.GetPlan(ctx, planID)
}

// UpdatePlanStatus overwrites the plan status
func (r *Repository) UpdatePlanStatus(ctx context.Context, planID, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE shop.installment_plans SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2`, status, planID)
	if err != nil {
		return fmt.Errorf("failed to update plan status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update plan status: %w", err)
	}
	if affected == 0 {
		return models.ErrPlanNotFound
	}
	return nil
}

// DeletePlan removes the plan and its schedules. Payment ledger entries are
// deliberately left untouched.
func (r *Repository) DeletePlan(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM shop.installment_schedules WHERE plan_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete schedules: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM shop.installment_plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	if affected == 0 {
		return models.ErrPlanNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// ListPaymentsByCustomer retrieves ledger entries for a customer, newest first
func (r *Repository) ListPaymentsByCustomer(ctx context.Context, customerID string) ([]*models.Payment, error) {
	return r.listPayments(ctx, `
		SELECT id, plan_id, customer_id, term, amount, method, paid_at
		FROM shop.payments
		WHERE customer_id = $1
		ORDER BY paid_at DESC`, customerID)
}

// ListPaymentsByPlan retrieves ledger entries for a plan, oldest first
func (r *Repository) ListPaymentsByPlan(ctx context.Context, planID string) ([]*models.Payment, error) {
	return r.listPayments(ctx, `
		SELECT id, plan_id, customer_id, term, amount, method, paid_at
		FROM shop.payments
		WHERE plan_id = $1
		ORDER BY paid_at`, planID)
}

// FindCustomerByID retrieves a customer by id
func (r *Repository) FindCustomerByID(ctx context.Context, id string) (*models.Customer, error) {
	cust := &models.Customer{}
	query := `
		SELECT id, name, phone, address
		FROM shop.customers
		WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&cust.ID, &cust.Name, &cust.Phone, &cust.Address)
	if err == sql.ErrNoRows {
		return nil, models.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return cust, nil
}

// ListCustomers retrieves all customers ordered by name
func (r *Repository) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, phone, address
		FROM shop.customers
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		cust := &models.Customer{}
		if err := rows.Scan(&cust.ID, &cust.Name, &cust.Phone, &cust.Address); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, cust)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// CreateOperator creates a new staff account
func (r *Repository) CreateOperator(ctx context.Context, op *models.Operator) error {
	query := `
		INSERT INTO shop.operators (username, password_hash, created_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, op.Username, op.PasswordHash).
		Scan(&op.ID, &op.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create operator: %w", err)
	}
	return nil
}

// FindOperatorByUsername retrieves a staff account by username
func (r *Repository) FindOperatorByUsername(ctx context.Context, username string) (*models.Operator, error) {
	op := &models.Operator{}
	query := `
		SELECT id, username, password_hash, created_at
		FROM shop.operators
		WHERE username = $1`
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&op.ID, &op.Username, &op.PasswordHash, &op.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.New("operator not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find operator: %w", err)
	}
	return op, nil
}

func (r *Repository) loadSchedules(ctx context.Context, planID string) ([]models.InstallmentSchedule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT term, due_date, amount, status
		FROM shop.installment_schedules
		WHERE plan_id = $1
		ORDER BY term`, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}
	defer rows.Close()

	var schedules []models.InstallmentSchedule
	for rows.Next() {
		var sch models.InstallmentSchedule
		if err := rows.Scan(&sch.Term, &sch.DueDate, &sch.Amount, &sch.Status); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, sch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}
	return schedules, nil
}

func (r *Repository) listPayments(ctx context.Context, query string, arg any) ([]*models.Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p := &models.Payment{}
		err := rows.Scan(&p.ID, &p.PlanID, &p.CustomerID, &p.Term, &p.Amount, &p.Method, &p.PaidAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}
