// Package insights computes derived views over a user's live record set.
// Nothing here is cached or persisted; every call recomputes from the store.
package insights

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/subwise/subwise/internal/models"
	"github.com/subwise/subwise/internal/store"
	"github.com/subwise/subwise/pkg/apperr"
	"github.com/subwise/subwise/pkg/types"
)

const (
	// DefaultStalenessDays flags active subscriptions unused for this long.
	DefaultStalenessDays = 30

	// optimizationPerUnused is a flat heuristic estimate of monthly dollars
	// recoverable per unused subscription.
	optimizationPerUnused = 15.0
)

type Service struct {
	store store.Store
	log   *zap.SugaredLogger
}

func NewService(s store.Store, log *zap.SugaredLogger) *Service {
	return &Service{store: s, log: log}
}

// CategoryBreakdown aggregates active subscriptions in one category.
type CategoryBreakdown struct {
	Count     int     `json:"count"`
	TotalCost float64 `json:"total_cost"`
}

// Insights summarizes a user's active subscriptions. Weekly-cycle amounts
// are not folded into the period totals.
type Insights struct {
	UserID                string                                         `json:"user_id"`
	TotalActive           int                                            `json:"total_active"`
	MonthlyTotal          float64                                        `json:"monthly_total"`
	YearlyTotal           float64                                        `json:"yearly_total"`
	AnnualProjection      float64                                        `json:"annual_projection"`
	Categories            map[types.SubscriptionCategory]CategoryBreakdown `json:"categories"`
	UnusedCount           int                                            `json:"unused_count"`
	OptimizationPotential float64                                        `json:"optimization_potential"`
}

func (s *Service) requireUser(ctx context.Context, userID string) error {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.New(apperr.CodeNotFound, "user not found")
		}
		return err
	}
	return nil
}

// SavingsReport sums realized savings: completed negotiations plus cancelled
// subscription amounts, with yearly always twelve times monthly.
func (s *Service) SavingsReport(ctx context.Context, userID string) (*models.SavingsReport, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	subs, err := s.store.ListSubscriptionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	negotiations, err := s.store.ListNegotiationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	active := lo.Filter(subs, func(sub *models.Subscription, _ int) bool {
		return sub.Status == types.SubscriptionStatusActive
	})
	cancelled := lo.Filter(subs, func(sub *models.Subscription, _ int) bool {
		return sub.Status == types.SubscriptionStatusCancelled
	})
	completed := lo.Filter(negotiations, func(n *models.BillNegotiation, _ int) bool {
		return n.Status == types.BillStatusCompleted
	})

	monthly := lo.SumBy(completed, func(n *models.BillNegotiation) float64 {
		return lo.FromPtr(n.SavingsPotential)
	})
	monthly += lo.SumBy(cancelled, func(sub *models.Subscription) float64 {
		return sub.Amount
	})

	return &models.SavingsReport{
		UserID:                 userID,
		MonthlySavings:         monthly,
		YearlySavings:          monthly * 12,
		CancelledSubscriptions: len(cancelled),
		NegotiatedBills:        len(completed),
		TotalSubscriptions:     len(subs),
		ActiveSubscriptions:    len(active),
	}, nil
}

// UnusedSubscriptions returns active subscriptions last used before
// now - daysUnused. Records that never reported usage are not flagged.
func (s *Service) UnusedSubscriptions(ctx context.Context, userID string, daysUnused int) ([]*models.Subscription, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	subs, err := s.store.ListSubscriptionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return filterUnused(subs, daysUnused, time.Now().UTC()), nil
}

func filterUnused(subs []*models.Subscription, daysUnused int, now time.Time) []*models.Subscription {
	cutoff := now.AddDate(0, 0, -daysUnused)
	return lo.Filter(subs, func(sub *models.Subscription, _ int) bool {
		return sub.Status == types.SubscriptionStatusActive &&
			sub.LastUsed != nil &&
			sub.LastUsed.Before(cutoff)
	})
}

// Breakdown computes the full insights view for one user.
func (s *Service) Breakdown(ctx context.Context, userID string) (*Insights, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	subs, err := s.store.ListSubscriptionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	active := lo.Filter(subs, func(sub *models.Subscription, _ int) bool {
		return sub.Status == types.SubscriptionStatusActive
	})

	monthlyTotal := lo.SumBy(active, func(sub *models.Subscription) float64 {
		if sub.BillingCycle == types.BillingCycleMonthly {
			return sub.Amount
		}
		return 0
	})
	yearlyTotal := lo.SumBy(active, func(sub *models.Subscription) float64 {
		if sub.BillingCycle == types.BillingCycleYearly {
			return sub.Amount
		}
		return 0
	})

	categories := make(map[types.SubscriptionCategory]CategoryBreakdown)
	for category, group := range lo.GroupBy(active, func(sub *models.Subscription) types.SubscriptionCategory {
		return sub.Category
	}) {
		categories[category] = CategoryBreakdown{
			Count:     len(group),
			TotalCost: lo.SumBy(group, func(sub *models.Subscription) float64 { return sub.Amount }),
		}
	}

	unused := len(filterUnused(subs, DefaultStalenessDays, time.Now().UTC()))

	return &Insights{
		UserID:                userID,
		TotalActive:           len(active),
		MonthlyTotal:          monthlyTotal,
		YearlyTotal:           yearlyTotal,
		AnnualProjection:      monthlyTotal*12 + yearlyTotal,
		Categories:            categories,
		UnusedCount:           unused,
		OptimizationPotential: float64(unused) * optimizationPerUnused,
	}, nil
}
