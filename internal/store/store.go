// Package store defines the record store abstraction. Business services
// depend on the interface only, so the in-memory default can be swapped for
// the durable GORM backend without touching them.
package store

import (
	"context"
	"errors"

	"github.com/subwise/subwise/internal/models"
)

// ErrNotFound signals absence of a record by id or email. The API layer
// translates it to a NotFound response.
var ErrNotFound = errors.New("record not found")

type Store interface {
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, patch *models.UserPatch) (*models.User, error)

	CreateSubscription(ctx context.Context, s *models.Subscription) (*models.Subscription, error)
	GetSubscription(ctx context.Context, id string) (*models.Subscription, error)
	ListSubscriptionsByUser(ctx context.Context, userID string) ([]*models.Subscription, error)
	UpdateSubscription(ctx context.Context, id string, patch *models.SubscriptionPatch) (*models.Subscription, error)
	DeleteSubscription(ctx context.Context, id string) (bool, error)

	CreateNegotiation(ctx context.Context, n *models.BillNegotiation) (*models.BillNegotiation, error)
	GetNegotiation(ctx context.Context, id string) (*models.BillNegotiation, error)
	ListNegotiationsByUser(ctx context.Context, userID string) ([]*models.BillNegotiation, error)
	UpdateNegotiation(ctx context.Context, id string, patch *models.BillNegotiationPatch) (*models.BillNegotiation, error)

	CreatePriceAlert(ctx context.Context, a *models.PriceAlert) (*models.PriceAlert, error)
	ListPriceAlertsByUser(ctx context.Context, userID string) ([]*models.PriceAlert, error)
	AcknowledgePriceAlert(ctx context.Context, id string) error
}
