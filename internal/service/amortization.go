package service

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/watchara/installment-service/internal/models"
)

// AmortizationResult is the outcome of pricing a plan. Principal and
// MonthlyAmount are whole currency units; Interest and TotalPayable keep
// their exact values so the ceiling division stays precise.
type AmortizationResult struct {
	Principal     int64
	Interest      decimal.Decimal
	TotalPayable  decimal.Decimal
	MonthlyAmount int64
}

// ComputeAmortization applies simple interest once to the financed principal
// (not per annum, not compounding) and splits the payable total into equal
// monthly amounts, rounded up to the next currency unit. The rounded schedule
// may total up to months-1 units more than the payable amount; that surplus is
// accepted and never redistributed onto the final term.
func ComputeAmortization(totalAmount, downPayment int64, months int, interestRate float64) (*AmortizationResult, error) {
	if months <= 0 {
		return nil, fmt.Errorf("%w: months must be positive, got %d", models.ErrInvalidScheduleConfig, months)
	}
	if totalAmount < 0 {
		return nil, fmt.Errorf("%w: total amount must not be negative", models.ErrInvalidScheduleConfig)
	}
	if downPayment < 0 {
		return nil, fmt.Errorf("%w: down payment must not be negative", models.ErrInvalidScheduleConfig)
	}
	if downPayment > totalAmount {
		return nil, fmt.Errorf("%w: down payment %d exceeds total amount %d", models.ErrInvalidScheduleConfig, downPayment, totalAmount)
	}
	if interestRate < 0 {
		return nil, fmt.Errorf("%w: interest rate must not be negative", models.ErrInvalidScheduleConfig)
	}

	principal := totalAmount - downPayment
	p := decimal.NewFromInt(principal)
	interest := p.Mul(decimal.NewFromFloat(interestRate)).Div(decimal.NewFromInt(100))
	totalPayable := p.Add(interest)
	monthly := totalPayable.Div(decimal.NewFromInt(int64(months))).Ceil()

	return &AmortizationResult{
		Principal:     principal,
		Interest:      interest,
		TotalPayable:  totalPayable,
		MonthlyAmount: monthly.IntPart(),
	}, nil
}
