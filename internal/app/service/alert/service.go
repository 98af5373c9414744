// Package alert exposes price-change alerts. Nothing in this process
// produces alerts yet; they enter through Create and leave through listing
// and acknowledgement.
package alert

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/subwise/subwise/internal/models"
	"github.com/subwise/subwise/internal/store"
	"github.com/subwise/subwise/pkg/apperr"
	"github.com/subwise/subwise/pkg/logctx"
)

type Service struct {
	store store.Store
	log   *zap.SugaredLogger
}

func NewService(s store.Store, log *zap.SugaredLogger) *Service {
	return &Service{store: s, log: log}
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]*models.PriceAlert, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.CodeNotFound, "user not found")
		}
		return nil, err
	}
	return s.store.ListPriceAlertsByUser(ctx, userID)
}

// Create records an externally detected price change.
func (s *Service) Create(ctx context.Context, alert *models.PriceAlert) (*models.PriceAlert, error) {
	if alert.OldPrice > 0 {
		alert.ChangePercentage = (alert.NewPrice - alert.OldPrice) / alert.OldPrice * 100
	}
	created, err := s.store.CreatePriceAlert(ctx, alert)
	if err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infof("price alert created, user_id=%s, alert_id=%s", alert.UserID, created.ID)
	return created, nil
}

func (s *Service) Acknowledge(ctx context.Context, id string) error {
	err := s.store.AcknowledgePriceAlert(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.New(apperr.CodeNotFound, "price alert not found")
	}
	return err
}
