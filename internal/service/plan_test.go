package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchara/installment-service/internal/config"
	"github.com/watchara/installment-service/internal/models"
	"github.com/watchara/installment-service/internal/repository"
)

func newTestService(t *testing.T) (*Service, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := NewService(store, repository.NewMockCache(), logger, &config.Config{JWTSecret: "test-secret"})
	return svc, store
}

func testPlanInput() CreatePlanInput {
	return CreatePlanInput{
		CustomerID:   "cust-1",
		CustomerName: "Walk-in",
		ProductName:  "Progressive lenses",
		TotalAmount:  25000,
		DownPayment:  5000,
		Months:       4,
		InterestRate: 0,
		StartDate:    "2024-03-01",
	}
}

func TestCreatePlan(t *testing.T) {
	svc, store := newTestService(t)
	store.SeedCustomer(&models.Customer{ID: "cust-1", Name: "Somchai", Phone: "081-111-2222"})

	ctx := context.WithValue(context.Background(), "operator", "narin")
	plan, err := svc.CreatePlan(ctx, testPlanInput())
	require.NoError(t, err)

	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, models.PlanActive, plan.Status)
	assert.Equal(t, int64(20000), plan.PrincipalAmount)
	assert.Equal(t, int64(5000), plan.MonthlyAmount)
	assert.Equal(t, "narin", plan.RecordedBy)
	require.Len(t, plan.Schedules, 4)
	assert.Equal(t, "2024-04-01", plan.Schedules[0].DueDate)
	assert.Equal(t, "2024-07-01", plan.Schedules[3].DueDate)

	// Name and phone were snapshotted from the customer record
	assert.Equal(t, "Somchai", plan.CustomerName)
	assert.Equal(t, "081-111-2222", plan.CustomerPhone)

	// The snapshot survives the customer record being deleted
	store.RemoveCustomer("cust-1")
	got, err := svc.GetPlan(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "Somchai", got.CustomerName)
}

func TestCreatePlan_UnresolvableCustomerFallsBackToFormName(t *testing.T) {
	svc, _ := newTestService(t)

	plan, err := svc.CreatePlan(context.Background(), testPlanInput())
	require.NoError(t, err)
	assert.Equal(t, "Walk-in", plan.CustomerName)
	assert.Empty(t, plan.CustomerPhone)
}

func TestCreatePlan_RejectsInvalidConfiguration(t *testing.T) {
	svc, _ := newTestService(t)

	t.Run("zero months", func(t *testing.T) {
		in := testPlanInput()
		in.Months = 0
		_, err := svc.CreatePlan(context.Background(), in)
		assert.True(t, errors.Is(err, models.ErrInvalidScheduleConfig))
	})

	t.Run("down payment above total", func(t *testing.T) {
		in := testPlanInput()
		in.DownPayment = 30000
		_, err := svc.CreatePlan(context.Background(), in)
		assert.True(t, errors.Is(err, models.ErrInvalidScheduleConfig))
	})

	t.Run("malformed start date", func(t *testing.T) {
		in := testPlanInput()
		in.StartDate = "01/03/2024"
		_, err := svc.CreatePlan(context.Background(), in)
		assert.True(t, errors.Is(err, models.ErrInvalidScheduleConfig))
	})
}

func TestPayTerm_CompletesOnlyAfterLastTerm(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, testPlanInput())
	require.NoError(t, err)

	for term := 1; term <= 3; term++ {
		updated, err := svc.PayTerm(ctx, plan.ID, term, 0, "cash")
		require.NoError(t, err)
		assert.Equal(t, models.PlanActive, updated.Status, "plan must stay active after term %d", term)
	}

	updated, err := svc.PayTerm(ctx, plan.ID, 4, 0, "cash")
	require.NoError(t, err)
	assert.Equal(t, models.PlanCompleted, updated.Status)
	assert.Equal(t, 4, updated.PaidTermCount())
}

func TestPayTerm_AlreadyPaidIsRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, testPlanInput())
	require.NoError(t, err)

	_, err = svc.PayTerm(ctx, plan.ID, 1, 0, "cash")
	require.NoError(t, err)

	before, err := svc.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	outstandingBefore := BuildPlanReport(before, "2024-03-01").Outstanding

	_, err = svc.PayTerm(ctx, plan.ID, 1, 0, "cash")
	assert.True(t, errors.Is(err, models.ErrAlreadyPaid))

	// Nothing changed: no duplicate ledger entry, same outstanding balance
	payments, err := svc.ListPaymentsByPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 1)

	after, err := svc.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, outstandingBefore, BuildPlanReport(after, "2024-03-01").Outstanding)
}

func TestPayTerm_UnknownPlanAndTerm(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.PayTerm(ctx, "missing", 1, 0, "cash")
	assert.True(t, errors.Is(err, models.ErrPlanNotFound))

	plan, err := svc.CreatePlan(ctx, testPlanInput())
	require.NoError(t, err)

	_, err = svc.PayTerm(ctx, plan.ID, 9, 0, "cash")
	assert.True(t, errors.Is(err, models.ErrTermNotFound))
}

func TestPayTerm_LedgerRecordsTermAmountAndMethod(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, testPlanInput())
	require.NoError(t, err)

	_, err = svc.PayTerm(ctx, plan.ID, 2, 0, "transfer")
	require.NoError(t, err)

	payments, err := svc.ListPaymentsByPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, 2, payments[0].Term)
	assert.Equal(t, int64(5000), payments[0].Amount)
	assert.Equal(t, "transfer", payments[0].Method)
	assert.Equal(t, "cust-1", payments[0].CustomerID)
}

func TestDeletePlan_KeepsPaymentHistory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, testPlanInput())
	require.NoError(t, err)

	_, err = svc.PayTerm(ctx, plan.ID, 1, 0, "cash")
	require.NoError(t, err)
	_, err = svc.PayTerm(ctx, plan.ID, 2, 0, "cash")
	require.NoError(t, err)

	require.NoError(t, svc.DeletePlan(ctx, plan.ID))

	_, err = svc.GetPlan(ctx, plan.ID)
	assert.True(t, errors.Is(err, models.ErrPlanNotFound))

	payments, err := svc.ListPaymentsByCustomer(ctx, "cust-1")
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}

func TestDeletePlan_Unknown(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.DeletePlan(context.Background(), "missing")
	assert.True(t, errors.Is(err, models.ErrPlanNotFound))
}

func TestCancelPlan(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, testPlanInput())
	require.NoError(t, err)

	cancelled, err := svc.CancelPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanCancelled, cancelled.Status)

	// Terms of a cancelled plan can no longer be paid
	_, err = svc.PayTerm(ctx, plan.ID, 1, 0, "cash")
	assert.True(t, errors.Is(err, models.ErrPlanNotActive))

	// Cancelling twice is rejected
	_, err = svc.CancelPlan(ctx, plan.ID)
	assert.True(t, errors.Is(err, models.ErrPlanNotActive))
}

func TestCancelPlan_CompletedIsRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	in := testPlanInput()
	in.Months = 1
	in.TotalAmount = 6000
	in.DownPayment = 1000
	plan, err := svc.CreatePlan(ctx, in)
	require.NoError(t, err)

	_, err = svc.PayTerm(ctx, plan.ID, 1, 0, "cash")
	require.NoError(t, err)

	_, err = svc.CancelPlan(ctx, plan.ID)
	assert.True(t, errors.Is(err, models.ErrPlanNotActive))
}
