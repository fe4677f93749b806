package models

import "errors"

// Domain errors surfaced by the installment engine. Validation errors are
// raised before any write reaches the store; handlers map these sentinels to
// HTTP statuses and treat everything else as a persistence failure.
var (
	ErrInvalidScheduleConfig = errors.New("invalid schedule configuration")
	ErrPlanNotFound          = errors.New("plan not found")
	ErrTermNotFound          = errors.New("schedule term not found")
	ErrAlreadyPaid           = errors.New("term already paid")
	ErrPlanNotActive         = errors.New("plan is not active")
	ErrCustomerNotFound      = errors.New("customer not found")
)
