package service

import (
	"fmt"
	"time"

	"github.com/watchara/installment-service/internal/models"
)

// GenerateSchedule builds the term sequence for a new plan. The first term
// falls due one calendar month after the start date, never on the start date
// itself, and each later term falls due one calendar month after the previous
// one. Month stepping relies on time.AddDate's calendar normalization, so a
// start on Jan 31 rolls the first due date into early March.
func GenerateSchedule(startDate time.Time, months int, perTermAmount int64) ([]models.InstallmentSchedule, error) {
	if months <= 0 {
		return nil, fmt.Errorf("%w: months must be positive, got %d", models.ErrInvalidScheduleConfig, months)
	}

	schedules := make([]models.InstallmentSchedule, 0, months)
	due := startDate
	for term := 1; term <= months; term++ {
		due = due.AddDate(0, 1, 0)
		schedules = append(schedules, models.InstallmentSchedule{
			Term:    term,
			DueDate: due.Format(models.DateLayout),
			Amount:  perTermAmount,
			Status:  models.SchedulePending,
		})
	}
	return schedules, nil
}
