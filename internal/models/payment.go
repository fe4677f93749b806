package models

// Payment is one entry in the append-only payment ledger. Entries outlive the
// plan they were recorded against: deleting a plan never retracts its history.
type Payment struct {
	ID         string `json:"id"`
	PlanID     string `json:"plan_id"`
	CustomerID string `json:"customer_id"`
	Term       int    `json:"term"`
	Amount     int64  `json:"amount"`
	Method     string `json:"method"`
	PaidAt     string `json:"paid_at"`
}
