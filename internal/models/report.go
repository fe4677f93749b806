package models

// PlanReport holds the derived, read-only metrics for a single plan.
type PlanReport struct {
	PlanID      string  `json:"plan_id"`
	Outstanding int64   `json:"outstanding"`
	Overdue     int64   `json:"overdue"`
	PaidTerms   int     `json:"paid_terms"`
	Progress    float64 `json:"progress"` // PaidTerms / Months
	HasOverdue  bool    `json:"has_overdue"`
}

// PortfolioSummary aggregates the derived metrics across all plans.
type PortfolioSummary struct {
	ActivePlans        int   `json:"active_plans"`
	OutstandingBalance int64 `json:"outstanding_balance"`
	OverdueBalance     int64 `json:"overdue_balance"`
	OverduePlans       int   `json:"overdue_plans"`
}

// PlanOverview pairs a plan with its derived metrics for listing screens.
type PlanOverview struct {
	Plan   *InstallmentPlan `json:"plan"`
	Report *PlanReport      `json:"report"`
}

// OverdueTerm is a single past-due schedule line, flattened for the daily
// reminder digest.
type OverdueTerm struct {
	PlanID        string `json:"plan_id"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	ProductName   string `json:"product_name"`
	Term          int    `json:"term"`
	DueDate       string `json:"due_date"`
	Amount        int64  `json:"amount"`
}
