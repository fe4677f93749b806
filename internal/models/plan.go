package models

// DateLayout is the canonical calendar-date format used everywhere a date is
// stored or compared. Zero-padded ISO dates order lexicographically the same
// way they order chronologically, so overdue checks are plain string
// comparisons against "today".
const DateLayout = "2006-01-02"

// Plan statuses.
const (
	PlanActive    = "active"
	PlanCompleted = "completed"
	PlanCancelled = "cancelled"
)

// Schedule statuses.
const (
	SchedulePending = "pending"
	SchedulePaid    = "paid"
)

// InstallmentPlan is the agreement to pay a product price across multiple
// monthly terms. CustomerName and CustomerPhone are snapshots taken at
// creation time and deliberately go stale if the customer record is later
// renamed or deleted. PrincipalAmount and MonthlyAmount are derived once at
// creation and never recomputed.
type InstallmentPlan struct {
	ID              string                `json:"id"`
	CustomerID      string                `json:"customer_id"`
	CustomerName    string                `json:"customer_name"`
	CustomerPhone   string                `json:"customer_phone,omitempty"`
	ProductName     string                `json:"product_name"`
	Note            string                `json:"note,omitempty"`
	TotalAmount     int64                 `json:"total_amount"`
	DownPayment     int64                 `json:"down_payment"`
	PrincipalAmount int64                 `json:"principal_amount"`
	Months          int                   `json:"months"`
	InterestRate    float64               `json:"interest_rate"`
	MonthlyAmount   int64                 `json:"monthly_amount"`
	StartDate       string                `json:"start_date"` // YYYY-MM-DD
	Status          string                `json:"status"`
	RecordedBy      string                `json:"recorded_by"`
	Schedules       []InstallmentSchedule `json:"schedules"`
	CreatedAt       string                `json:"created_at"`
	UpdatedAt       string                `json:"updated_at"`
}

// InstallmentSchedule is one term of a plan, owned exclusively by its parent.
// Terms are numbered 1..Months with no gaps; a term moves pending -> paid
// exactly once and Amount never changes after generation.
type InstallmentSchedule struct {
	Term    int    `json:"term"`
	DueDate string `json:"due_date"` // YYYY-MM-DD
	Amount  int64  `json:"amount"`
	Status  string `json:"status"`
}

// PaidTermCount returns how many terms of the plan have been settled.
func (p *InstallmentPlan) PaidTermCount() int {
	count := 0
	for _, sch := range p.Schedules {
		if sch.Status == SchedulePaid {
			count++
		}
	}
	return count
}
