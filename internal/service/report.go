package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/watchara/installment-service/internal/models"
)

const summaryCacheKey = "portfolio-summary"

// BuildPlanReport derives the read-only metrics for one plan. today is a
// YYYY-MM-DD date: since zero-padded ISO dates compare lexicographically in
// chronological order, overdue detection is a plain string comparison. A term
// due exactly today is not overdue. Cancelled plans freeze their remaining
// terms, which then count toward neither outstanding nor overdue balances.
func BuildPlanReport(plan *models.InstallmentPlan, today string) *models.PlanReport {
	report := &models.PlanReport{PlanID: plan.ID}
	for _, sch := range plan.Schedules {
		if sch.Status == models.SchedulePaid {
			report.PaidTerms++
			continue
		}
		if plan.Status == models.PlanCancelled {
			continue
		}
		report.Outstanding += sch.Amount
		if sch.Status == models.SchedulePending && sch.DueDate < today {
			report.Overdue += sch.Amount
			report.HasOverdue = true
		}
	}
	if plan.Months > 0 {
		report.Progress = float64(report.PaidTerms) / float64(plan.Months)
	}
	return report
}

// BuildPortfolioSummary folds every plan into the portfolio-wide totals. It
// is recomputed from the full plan list on demand; nothing is incrementally
// mutated, so the summary can never drift from the stored plans.
func BuildPortfolioSummary(plans []*models.InstallmentPlan, today string) *models.PortfolioSummary {
	summary := &models.PortfolioSummary{}
	for _, plan := range plans {
		if plan.Status == models.PlanActive {
			summary.ActivePlans++
		}
		report := BuildPlanReport(plan, today)
		summary.OutstandingBalance += report.Outstanding
		summary.OverdueBalance += report.Overdue
		if report.HasOverdue {
			summary.OverduePlans++
		}
	}
	return summary
}

// CollectOverdueTerms flattens every past-due pending term across the given
// plans, for the reminder digest.
func CollectOverdueTerms(plans []*models.InstallmentPlan, today string) []models.OverdueTerm {
	var terms []models.OverdueTerm
	for _, plan := range plans {
		if plan.Status != models.PlanActive {
			continue
		}
		for _, sch := range plan.Schedules {
			if sch.Status == models.SchedulePending && sch.DueDate < today {
				terms = append(terms, models.OverdueTerm{
					PlanID:        plan.ID,
					CustomerName:  plan.CustomerName,
					CustomerPhone: plan.CustomerPhone,
					ProductName:   plan.ProductName,
					Term:          sch.Term,
					DueDate:       sch.DueDate,
					Amount:        sch.Amount,
				})
			}
		}
	}
	return terms
}

// ListPlanOverviews returns every plan together with its derived metrics
func (s *Service) ListPlanOverviews(ctx context.Context) ([]*models.PlanOverview, error) {
	plans, err := s.store.ListPlans(ctx)
	if err != nil {
		return nil, err
	}
	today := time.Now().Format(models.DateLayout)
	overviews := make([]*models.PlanOverview, 0, len(plans))
	for _, plan := range plans {
		overviews = append(overviews, &models.PlanOverview{
			Plan:   plan,
			Report: BuildPlanReport(plan, today),
		})
	}
	return overviews, nil
}

// PortfolioSummary returns the portfolio-wide totals, memoized in the cache.
// The cache key carries the calendar date so a summary computed yesterday can
// never serve today's overdue numbers.
func (s *Service) PortfolioSummary(ctx context.Context) (*models.PortfolioSummary, error) {
	today := time.Now().Format(models.DateLayout)
	key := summaryCacheKey + ":" + today

	if raw, ok := s.cache.Get(key); ok {
		summary := &models.PortfolioSummary{}
		if err := json.Unmarshal([]byte(raw), summary); err == nil {
			return summary, nil
		}
	}

	plans, err := s.store.ListPlans(ctx)
	if err != nil {
		return nil, err
	}
	summary := BuildPortfolioSummary(plans, today)

	if raw, err := json.Marshal(summary); err == nil {
		if err := s.cache.Set(key, string(raw)); err != nil {
			s.log.Warnf("Failed to cache portfolio summary: %v", err)
		}
	}
	return summary, nil
}

// ListOverdueTerms returns every past-due pending term as of today
func (s *Service) ListOverdueTerms(ctx context.Context) ([]models.OverdueTerm, error) {
	plans, err := s.store.ListPlans(ctx)
	if err != nil {
		return nil, err
	}
	return CollectOverdueTerms(plans, time.Now().Format(models.DateLayout)), nil
}

func (s *Service) invalidateSummary() {
	key := summaryCacheKey + ":" + time.Now().Format(models.DateLayout)
	if err := s.cache.Delete(key); err != nil {
		s.log.Warnf("Failed to invalidate portfolio summary cache: %v", err)
	}
}
