package insights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/subwise/subwise/internal/models"
	"github.com/subwise/subwise/internal/store"
	"github.com/subwise/subwise/pkg/apperr"
	"github.com/subwise/subwise/pkg/types"
)

func setup(t *testing.T) (*Service, store.Store, string) {
	t.Helper()
	m := store.NewMemory()
	u, err := m.CreateUser(context.Background(), &models.User{
		Email: "i@example.com", Name: "I", Currency: "USD", Plan: types.PlanFree,
	})
	require.NoError(t, err)
	return NewService(m, zap.NewNop().Sugar()), m, u.ID
}

func addSub(t *testing.T, m store.Store, userID string, amount float64, cycle types.BillingCycle, status types.SubscriptionStatus, category types.SubscriptionCategory, lastUsed *time.Time) *models.Subscription {
	t.Helper()
	sub, err := m.CreateSubscription(context.Background(), &models.Subscription{
		UserID:          userID,
		Name:            "svc",
		Company:         "co",
		Amount:          amount,
		Currency:        "USD",
		BillingCycle:    cycle,
		NextBillingDate: time.Now().Add(10 * 24 * time.Hour),
		Category:        category,
		Status:          status,
		LastUsed:        lastUsed,
	})
	require.NoError(t, err)
	return sub
}

func daysAgo(d int) *time.Time {
	t := time.Now().UTC().AddDate(0, 0, -d)
	return &t
}

func TestSavingsReport(t *testing.T) {
	ctx := context.Background()
	svc, m, userID := setup(t)

	addSub(t, m, userID, 15.99, types.BillingCycleMonthly, types.SubscriptionStatusCancelled, types.CategoryStreaming, nil)
	addSub(t, m, userID, 9.99, types.BillingCycleMonthly, types.SubscriptionStatusActive, types.CategoryStreaming, nil)

	savings := 5.00
	completed := types.BillStatusCompleted
	n, err := m.CreateNegotiation(ctx, &models.BillNegotiation{
		UserID: userID, ServiceName: "Internet", CurrentAmount: 60, Status: types.BillStatusPending,
	})
	require.NoError(t, err)
	_, err = m.UpdateNegotiation(ctx, n.ID, &models.BillNegotiationPatch{
		Status: &completed, SavingsPotential: &savings,
	})
	require.NoError(t, err)
	// pending negotiations do not count
	_, err = m.CreateNegotiation(ctx, &models.BillNegotiation{
		UserID: userID, ServiceName: "Phone", CurrentAmount: 40, Status: types.BillStatusPending,
	})
	require.NoError(t, err)

	report, err := svc.SavingsReport(ctx, userID)
	require.NoError(t, err)
	assert.InDelta(t, 20.99, report.MonthlySavings, 1e-9)
	assert.InDelta(t, report.MonthlySavings*12, report.YearlySavings, 1e-9)
	assert.Equal(t, 1, report.CancelledSubscriptions)
	assert.Equal(t, 1, report.NegotiatedBills)
	assert.Equal(t, 2, report.TotalSubscriptions)
	assert.Equal(t, 1, report.ActiveSubscriptions)
}

func TestSavingsReportUserNotFound(t *testing.T) {
	svc, _, _ := setup(t)
	_, err := svc.SavingsReport(context.Background(), "missing")
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestUnusedSubscriptions(t *testing.T) {
	ctx := context.Background()
	svc, m, userID := setup(t)

	stale := addSub(t, m, userID, 10, types.BillingCycleMonthly, types.SubscriptionStatusActive, types.CategoryFitness, daysAgo(45))
	addSub(t, m, userID, 10, types.BillingCycleMonthly, types.SubscriptionStatusActive, types.CategoryFitness, daysAgo(2))
	// no usage signal is never flagged, however old the record
	addSub(t, m, userID, 10, types.BillingCycleMonthly, types.SubscriptionStatusActive, types.CategoryFitness, nil)
	// cancelled records are excluded even when stale
	addSub(t, m, userID, 10, types.BillingCycleMonthly, types.SubscriptionStatusCancelled, types.CategoryFitness, daysAgo(90))

	unused, err := svc.UnusedSubscriptions(ctx, userID, 30)
	require.NoError(t, err)
	require.Len(t, unused, 1)
	assert.Equal(t, stale.ID, unused[0].ID)
}

func TestBreakdown(t *testing.T) {
	ctx := context.Background()
	svc, m, userID := setup(t)

	addSub(t, m, userID, 15.99, types.BillingCycleMonthly, types.SubscriptionStatusActive, types.CategoryStreaming, daysAgo(45))
	addSub(t, m, userID, 9.99, types.BillingCycleMonthly, types.SubscriptionStatusActive, types.CategoryStreaming, daysAgo(1))
	addSub(t, m, userID, 120, types.BillingCycleYearly, types.SubscriptionStatusActive, types.CategorySoftware, nil)
	// weekly amounts are not folded into period totals
	addSub(t, m, userID, 5, types.BillingCycleWeekly, types.SubscriptionStatusActive, types.CategoryNews, nil)
	// inactive records contribute nothing
	addSub(t, m, userID, 52.99, types.BillingCycleMonthly, types.SubscriptionStatusCancelled, types.CategorySoftware, nil)

	got, err := svc.Breakdown(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.TotalActive)
	assert.InDelta(t, 25.98, got.MonthlyTotal, 1e-9)
	assert.InDelta(t, 120, got.YearlyTotal, 1e-9)
	assert.InDelta(t, 25.98*12+120, got.AnnualProjection, 1e-9)

	streaming := got.Categories[types.CategoryStreaming]
	assert.Equal(t, 2, streaming.Count)
	assert.InDelta(t, 25.98, streaming.TotalCost, 1e-9)
	software := got.Categories[types.CategorySoftware]
	assert.Equal(t, 1, software.Count)
	assert.InDelta(t, 120, software.TotalCost, 1e-9)

	assert.Equal(t, 1, got.UnusedCount)
	assert.InDelta(t, 15.0, got.OptimizationPotential, 1e-9)
}
