package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/subwise/subwise/internal/store"
	"github.com/subwise/subwise/pkg/apperr"
	cfgpkg "github.com/subwise/subwise/pkg/config"
	"github.com/subwise/subwise/pkg/types"
)

func newTestService() *Service {
	cfg := &cfgpkg.Config{}
	cfg.Detector.FreePlanLimit = 2
	return NewService(store.NewMemory(), cfg, zap.NewNop().Sugar())
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	u, err := svc.Create(ctx, &CreateUserRequest{Email: "a@example.com", Name: "A", Currency: "EUR"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "EUR", u.Currency)
	assert.Equal(t, types.PlanFree, u.Plan)
	assert.Equal(t, 2, u.AIDetectionLimit)
	assert.Zero(t, u.AIDetectionsUsed)
}

func TestCreateUserDefaultsCurrency(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	u, err := svc.Create(ctx, &CreateUserRequest{Email: "b@example.com", Name: "B"})
	require.NoError(t, err)
	assert.Equal(t, "USD", u.Currency)

	// unsupported currency codes also default to USD
	u2, err := svc.Create(ctx, &CreateUserRequest{Email: "c@example.com", Name: "C", Currency: "XXX"})
	require.NoError(t, err)
	assert.Equal(t, "USD", u2.Currency)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Create(ctx, &CreateUserRequest{Email: "dup@example.com", Name: "One"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &CreateUserRequest{Email: "dup@example.com", Name: "Two"})
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
}

func TestGetUserNotFound(t *testing.T) {
	svc := newTestService()

	_, err := svc.Get(context.Background(), "missing")
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	_, err = svc.GetByEmail(context.Background(), "nobody@example.com")
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestUpgrade(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	u, err := svc.Create(ctx, &CreateUserRequest{Email: "up@example.com", Name: "Up"})
	require.NoError(t, err)

	upgraded, err := svc.Upgrade(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, types.PlanPremium, upgraded.Plan)
	assert.Zero(t, upgraded.AIDetectionLimit)

	_, err = svc.Upgrade(ctx, "missing")
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestConsumeDetectionMetersFreeUsers(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	u, err := svc.Create(ctx, &CreateUserRequest{Email: "meter@example.com", Name: "M"})
	require.NoError(t, err)

	first, err := svc.ConsumeDetection(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.AIDetectionsUsed)

	second, err := svc.ConsumeDetection(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, second.AIDetectionsUsed)

	_, err = svc.ConsumeDetection(ctx, u.ID)
	assert.Equal(t, apperr.CodeUnprocessable, apperr.CodeOf(err))
}

func TestConsumeDetectionPremiumUnmetered(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	u, err := svc.Create(ctx, &CreateUserRequest{Email: "prem@example.com", Name: "P"})
	require.NoError(t, err)
	_, err = svc.Upgrade(ctx, u.ID)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		got, err := svc.ConsumeDetection(ctx, u.ID)
		require.NoError(t, err)
		assert.Zero(t, got.AIDetectionsUsed)
	}
}
