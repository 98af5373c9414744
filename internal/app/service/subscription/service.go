package subscription

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/subwise/subwise/internal/models"
	"github.com/subwise/subwise/internal/store"
	"github.com/subwise/subwise/pkg/apperr"
	"github.com/subwise/subwise/pkg/logctx"
	"github.com/subwise/subwise/pkg/types"
)

// Service manages subscription records for a user. User existence is checked
// before any per-user operation; the store does not enforce references.
type Service struct {
	store store.Store
	log   *zap.SugaredLogger
}

func NewService(s store.Store, log *zap.SugaredLogger) *Service {
	return &Service{store: s, log: log}
}

type CreateSubscriptionRequest struct {
	Name            string                     `json:"name" binding:"required"`
	Company         string                     `json:"company" binding:"required"`
	Amount          float64                    `json:"amount" binding:"required,gt=0"`
	Currency        string                     `json:"currency"`
	BillingCycle    types.BillingCycle         `json:"billing_cycle" binding:"required"`
	NextBillingDate time.Time                  `json:"next_billing_date" binding:"required"`
	Category        types.SubscriptionCategory `json:"category" binding:"required"`
	AutoDetected    bool                       `json:"auto_detected"`
	LastUsed        *time.Time                 `json:"last_used"`
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

func (s *Service) ListByUser(ctx context.Context, userID string) ([]*models.Subscription, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListSubscriptionsByUser(ctx, userID)
}

func (s *Service) Create(ctx context.Context, userID string, req *CreateSubscriptionRequest) (*models.Subscription, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if !req.BillingCycle.Valid() {
		return nil, apperr.New(apperr.CodeUnprocessable, "invalid billing cycle")
	}
	if !req.Category.Valid() {
		return nil, apperr.New(apperr.CodeUnprocessable, "invalid category")
	}
	cur := req.Currency
	if cur == "" {
		cur = "USD"
	}

	sub := &models.Subscription{
		UserID:          userID,
		Name:            req.Name,
		Company:         req.Company,
		Amount:          req.Amount,
		Currency:        cur,
		BillingCycle:    req.BillingCycle,
		NextBillingDate: req.NextBillingDate,
		Category:        req.Category,
		Status:          types.SubscriptionStatusActive,
		AutoDetected:    req.AutoDetected,
		LastUsed:        req.LastUsed,
	}
	created, err := s.store.CreateSubscription(ctx, sub)
	if err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infof("subscription created, user_id=%s, subscription_id=%s", userID, created.ID)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Subscription, error) {
	sub, err := s.store.GetSubscription(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.CodeNotFound, "subscription not found")
	}
	return sub, err
}

func (s *Service) setStatus(ctx context.Context, id string, status types.SubscriptionStatus) (*models.Subscription, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateSubscription(ctx, id, &models.SubscriptionPatch{Status: &status})
	if err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infof("subscription status changed, subscription_id=%s, status=%s", id, status)
	return updated, nil
}

func (s *Service) Cancel(ctx context.Context, id string) (*models.Subscription, error) {
	return s.setStatus(ctx, id, types.SubscriptionStatusCancelled)
}

func (s *Service) Pause(ctx context.Context, id string) (*models.Subscription, error) {
	return s.setStatus(ctx, id, types.SubscriptionStatusPaused)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	existed, err := s.store.DeleteSubscription(ctx, id)
	if err != nil {
		return err
	}
	if !existed {
		return apperr.New(apperr.CodeNotFound, "subscription not found")
	}
	logctx.FromCtx(ctx, s.log).Infof("subscription deleted, subscription_id=%s", id)
	return nil
}
