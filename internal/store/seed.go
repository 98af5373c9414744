package store

import (
	"context"
	"time"

	"github.com/subwise/subwise/internal/models"
	"github.com/subwise/subwise/pkg/types"
)

const DemoUserID = "sample-user-123"

// SeedDemoData loads the demonstration account and its subscriptions.
// Call it explicitly at process start; creation is idempotent enough for a
// fresh store, which is the only place it runs.
func SeedDemoData(ctx context.Context, s Store) error {
	if _, err := s.GetUser(ctx, DemoUserID); err == nil {
		return nil
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:                   DemoUserID,
		Email:                "demo@example.com",
		Name:                 "Demo User",
		Currency:             "USD",
		Plan:                 types.PlanFree,
		TotalMonthlySpending: 156.97,
		TotalSavings:         45.50,
		AIDetectionLimit:     5,
	}
	if _, err := s.CreateUser(ctx, user); err != nil {
		return err
	}

	lastUsed := func(d time.Duration) *time.Time {
		t := now.Add(-d)
		return &t
	}

	subs := []*models.Subscription{
		{
			ID:              "sub-1",
			UserID:          user.ID,
			Name:            "Netflix Premium",
			Company:         "Netflix",
			Amount:          15.99,
			Currency:        "USD",
			BillingCycle:    types.BillingCycleMonthly,
			NextBillingDate: now.Add(15 * 24 * time.Hour),
			Category:        types.CategoryStreaming,
			Status:          types.SubscriptionStatusActive,
			AutoDetected:    true,
			LastUsed:        lastUsed(2 * 24 * time.Hour),
		},
		{
			ID:              "sub-2",
			UserID:          user.ID,
			Name:            "Spotify Premium",
			Company:         "Spotify",
			Amount:          9.99,
			Currency:        "USD",
			BillingCycle:    types.BillingCycleMonthly,
			NextBillingDate: now.Add(8 * 24 * time.Hour),
			Category:        types.CategoryStreaming,
			Status:          types.SubscriptionStatusActive,
			AutoDetected:    true,
			LastUsed:        lastUsed(3 * time.Hour),
		},
		{
			ID:              "sub-3",
			UserID:          user.ID,
			Name:            "Adobe Creative Cloud",
			Company:         "Adobe",
			Amount:          52.99,
			Currency:        "USD",
			BillingCycle:    types.BillingCycleMonthly,
			NextBillingDate: now.Add(22 * 24 * time.Hour),
			Category:        types.CategorySoftware,
			Status:          types.SubscriptionStatusActive,
			AutoDetected:    true,
			LastUsed:        lastUsed(45 * 24 * time.Hour),
		},
		{
			ID:              "sub-4",
			UserID:          user.ID,
			Name:            "Gym Membership",
			Company:         "FitLife Gym",
			Amount:          29.99,
			Currency:        "USD",
			BillingCycle:    types.BillingCycleMonthly,
			NextBillingDate: now.Add(5 * 24 * time.Hour),
			Category:        types.CategoryFitness,
			Status:          types.SubscriptionStatusActive,
			AutoDetected:    true,
			LastUsed:        lastUsed(30 * 24 * time.Hour),
		},
		{
			ID:              "sub-5",
			UserID:          user.ID,
			Name:            "Disney+",
			Company:         "Disney",
			Amount:          7.99,
			Currency:        "USD",
			BillingCycle:    types.BillingCycleMonthly,
			NextBillingDate: now.Add(12 * 24 * time.Hour),
			Category:        types.CategoryStreaming,
			Status:          types.SubscriptionStatusActive,
			AutoDetected:    true,
			LastUsed:        lastUsed(60 * 24 * time.Hour),
		},
	}

	for _, sub := range subs {
		if _, err := s.CreateSubscription(ctx, sub); err != nil {
			return err
		}
	}
	return nil
}
