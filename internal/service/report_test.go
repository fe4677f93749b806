package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchara/installment-service/internal/models"
)

func planFixture(id, status string, schedules []models.InstallmentSchedule) *models.InstallmentPlan {
	return &models.InstallmentPlan{
		ID:        id,
		Status:    status,
		Months:    len(schedules),
		Schedules: schedules,
	}
}

func TestBuildPlanReport_OutstandingAndProgress(t *testing.T) {
	plan := planFixture("p1", models.PlanActive, []models.InstallmentSchedule{
		{Term: 1, DueDate: "2024-04-01", Amount: 5000, Status: models.SchedulePaid},
		{Term: 2, DueDate: "2024-05-01", Amount: 5000, Status: models.SchedulePaid},
		{Term: 3, DueDate: "2024-06-01", Amount: 5000, Status: models.SchedulePending},
		{Term: 4, DueDate: "2024-07-01", Amount: 5000, Status: models.SchedulePending},
	})

	report := BuildPlanReport(plan, "2024-05-15")
	assert.Equal(t, int64(10000), report.Outstanding)
	assert.Equal(t, int64(0), report.Overdue)
	assert.Equal(t, 2, report.PaidTerms)
	assert.InDelta(t, 0.5, report.Progress, 1e-9)
	assert.False(t, report.HasOverdue)
}

func TestBuildPlanReport_OverdueBoundary(t *testing.T) {
	plan := planFixture("p1", models.PlanActive, []models.InstallmentSchedule{
		{Term: 1, DueDate: "2024-06-14", Amount: 5000, Status: models.SchedulePending},
		{Term: 2, DueDate: "2024-06-15", Amount: 5000, Status: models.SchedulePending},
		{Term: 3, DueDate: "2024-06-16", Amount: 5000, Status: models.SchedulePending},
	})

	// A term due exactly today is not overdue; yesterday's is.
	report := BuildPlanReport(plan, "2024-06-15")
	assert.True(t, report.HasOverdue)
	assert.Equal(t, int64(5000), report.Overdue)
	assert.Equal(t, int64(15000), report.Outstanding)
}

func TestBuildPlanReport_PaidTermsNeverOverdue(t *testing.T) {
	plan := planFixture("p1", models.PlanActive, []models.InstallmentSchedule{
		{Term: 1, DueDate: "2024-01-01", Amount: 5000, Status: models.SchedulePaid},
	})

	report := BuildPlanReport(plan, "2024-06-15")
	assert.False(t, report.HasOverdue)
	assert.Equal(t, int64(0), report.Outstanding)
}

func TestBuildPlanReport_CancelledPlanFreezesTerms(t *testing.T) {
	plan := planFixture("p1", models.PlanCancelled, []models.InstallmentSchedule{
		{Term: 1, DueDate: "2024-04-01", Amount: 5000, Status: models.SchedulePaid},
		{Term: 2, DueDate: "2024-05-01", Amount: 5000, Status: models.SchedulePending},
	})

	report := BuildPlanReport(plan, "2024-06-15")
	assert.Equal(t, int64(0), report.Outstanding)
	assert.Equal(t, int64(0), report.Overdue)
	assert.Equal(t, 1, report.PaidTerms)
}

func TestBuildPortfolioSummary(t *testing.T) {
	plans := []*models.InstallmentPlan{
		planFixture("p1", models.PlanActive, []models.InstallmentSchedule{
			{Term: 1, DueDate: "2024-05-01", Amount: 5000, Status: models.SchedulePending},
			{Term: 2, DueDate: "2024-07-01", Amount: 5000, Status: models.SchedulePending},
		}),
		planFixture("p2", models.PlanActive, []models.InstallmentSchedule{
			{Term: 1, DueDate: "2024-07-01", Amount: 3000, Status: models.SchedulePending},
		}),
		planFixture("p3", models.PlanCompleted, []models.InstallmentSchedule{
			{Term: 1, DueDate: "2024-01-01", Amount: 2000, Status: models.SchedulePaid},
		}),
		planFixture("p4", models.PlanCancelled, []models.InstallmentSchedule{
			{Term: 1, DueDate: "2024-01-01", Amount: 9000, Status: models.SchedulePending},
		}),
	}

	summary := BuildPortfolioSummary(plans, "2024-06-15")
	assert.Equal(t, 2, summary.ActivePlans)
	assert.Equal(t, int64(13000), summary.OutstandingBalance)
	assert.Equal(t, int64(5000), summary.OverdueBalance)
	assert.Equal(t, 1, summary.OverduePlans)
}

func TestCollectOverdueTerms(t *testing.T) {
	plans := []*models.InstallmentPlan{
		{
			ID: "p1", Status: models.PlanActive, Months: 2,
			CustomerName: "Somchai", ProductName: "Frames",
			Schedules: []models.InstallmentSchedule{
				{Term: 1, DueDate: "2024-06-01", Amount: 5000, Status: models.SchedulePending},
				{Term: 2, DueDate: "2024-07-01", Amount: 5000, Status: models.SchedulePending},
			},
		},
		{
			ID: "p2", Status: models.PlanCancelled, Months: 1,
			Schedules: []models.InstallmentSchedule{
				{Term: 1, DueDate: "2024-01-01", Amount: 9000, Status: models.SchedulePending},
			},
		},
	}

	terms := CollectOverdueTerms(plans, "2024-06-15")
	require.Len(t, terms, 1)
	assert.Equal(t, "p1", terms[0].PlanID)
	assert.Equal(t, 1, terms[0].Term)
	assert.Equal(t, "Somchai", terms[0].CustomerName)
}

func TestPortfolioSummary_RecomputedAfterMutation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, testPlanInput())
	require.NoError(t, err)

	first, err := svc.PortfolioSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ActivePlans)
	assert.Equal(t, int64(20000), first.OutstandingBalance)

	// The memoized summary must be invalidated by the payment.
	_, err = svc.PayTerm(ctx, plan.ID, 1, 0, "cash")
	require.NoError(t, err)

	second, err := svc.PortfolioSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), second.OutstandingBalance)

	// Cached result is served for repeated reads.
	third, err := svc.PortfolioSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, third)
}

func TestPortfolioSummary_CancelledPlansExcluded(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, testPlanInput())
	require.NoError(t, err)
	_, err = svc.CancelPlan(ctx, plan.ID)
	require.NoError(t, err)

	summary, err := svc.PortfolioSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.ActivePlans)
	assert.Equal(t, int64(0), summary.OutstandingBalance)
}
