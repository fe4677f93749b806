package models

// Customer is a read-only view of a shop customer. Customer CRUD lives in the
// customer management subsystem; the installment engine only looks customers
// up to snapshot name and phone onto new plans.
type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}
