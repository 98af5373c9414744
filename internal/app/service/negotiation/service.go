package negotiation

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

// savingsEstimateRate seeds new negotiations with an expected reduction of
// 15% of the current bill. Completion overwrites it with actual savings.
const savingsEstimateRate = 0.15

type Service struct {
	store store.Store
	log   *zap.SugaredLogger
}

func NewService(s store.Store, log *zap.SugaredLogger) *Service {
	return &Service{store: s, log: log}
}

type CreateNegotiationRequest struct {
	SubscriptionID   *string  `json:"subscription_id"`
	ServiceName      string   `json:"service_name" binding:"required"`
	CurrentAmount    float64  `json:"current_amount" binding:"required,gt=0"`
	TargetAmount     *float64 `json:"target_amount"`
	NegotiationNotes *string  `json:"negotiation_notes"`
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

func (s *Service) ListByUser(ctx context.Context, userID string) ([]*models.BillNegotiation, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListNegotiationsByUser(ctx, userID)
}

func (s *Service) Create(ctx context.Context, userID string, req *CreateNegotiationRequest) (*models.BillNegotiation, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	estimate := req.CurrentAmount * savingsEstimateRate
	n := &models.BillNegotiation{
		UserID:           userID,
		SubscriptionID:   req.SubscriptionID,
		ServiceName:      req.ServiceName,
		CurrentAmount:    req.CurrentAmount,
		TargetAmount:     req.TargetAmount,
		Status:           types.BillStatusPending,
		SavingsPotential: &estimate,
		NegotiationNotes: req.NegotiationNotes,
	}
	created, err := s.store.CreateNegotiation(ctx, n)
	if err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infof("negotiation created, user_id=%s, negotiation_id=%s", userID, created.ID)
	return created, nil
}

// Complete marks the negotiation done; actualSavings replaces the estimate.
func (s *Service) Complete(ctx context.Context, id string, actualSavings float64) (*models.BillNegotiation, error) {
	if _, err := s.store.GetNegotiation(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.CodeNotFound, "negotiation not found")
		}
		return nil, err
	}
	completed := types.BillStatusCompleted
	now := time.Now().UTC()
	updated, err := s.store.UpdateNegotiation(ctx, id, &models.BillNegotiationPatch{
		Status:           &completed,
		SavingsPotential: &actualSavings,
		CompletedAt:      &now,
	})
	if err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infof("negotiation completed, negotiation_id=%s, savings=%.2f", id, actualSavings)
	return updated, nil
}
