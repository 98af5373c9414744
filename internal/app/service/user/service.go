package user

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/subwise/subwise/internal/models"
	"github.com/subwise/subwise/internal/store"
	"github.com/subwise/subwise/pkg/apperr"
	cfgpkg "github.com/subwise/subwise/pkg/config"
	"github.com/subwise/subwise/pkg/currency"
	"github.com/subwise/subwise/pkg/logctx"
	"github.com/subwise/subwise/pkg/types"
)

// Service manages account lifecycle: signup, lookup, plan upgrades and the
// AI detection usage counter.
type Service struct {
	store store.Store
	cfg   *cfgpkg.Config
	log   *zap.SugaredLogger
}

func NewService(s store.Store, cfg *cfgpkg.Config, log *zap.SugaredLogger) *Service {
	return &Service{store: s, cfg: cfg, log: log}
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Currency string `json:"currency"`
}

func (s *Service) Create(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	if _, err := s.store.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, apperr.New(apperr.CodeConflict, "user with this email already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	cur := req.Currency
	if cur == "" || !currency.Supported(cur) {
		cur = "USD"
	}

	u := &models.User{
		Email:            req.Email,
		Name:             req.Name,
		Currency:         cur,
		Plan:             types.PlanFree,
		AIDetectionLimit: s.cfg.Detector.FreePlanLimit,
	}
	created, err := s.store.CreateUser(ctx, u)
	if err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infof("user created, user_id=%s", created.ID)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.CodeNotFound, "user not found")
	}
	return u, err
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.CodeNotFound, "user not found")
	}
	return u, err
}

// Upgrade promotes a user to the premium tier. The detection cap is lifted;
// premium accounts are not metered.
func (s *Service) Upgrade(ctx context.Context, id string) (*models.User, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	plan := types.PlanPremium
	limit := 0
	updated, err := s.store.UpdateUser(ctx, id, &models.UserPatch{Plan: &plan, AIDetectionLimit: &limit})
	if err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infof("user upgraded to premium, user_id=%s", id)
	return updated, nil
}

// ConsumeDetection charges one AI analysis against the user's quota.
// Premium users and users with a non-positive limit are unmetered.
func (s *Service) ConsumeDetection(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Plan == types.PlanPremium || u.AIDetectionLimit <= 0 {
		return u, nil
	}
	if u.AIDetectionsUsed >= u.AIDetectionLimit {
		return nil, apperr.New(apperr.CodeUnprocessable, "AI detection limit reached, upgrade to premium for unlimited analyses")
	}
	used := u.AIDetectionsUsed + 1
	return s.store.UpdateUser(ctx, id, &models.UserPatch{AIDetectionsUsed: &used})
}
