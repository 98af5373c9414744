package db

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/subwise/subwise/internal/models"
	"github.com/subwise/subwise/internal/store"
	"github.com/subwise/subwise/pkg/logctx"
	"github.com/subwise/subwise/pkg/tool"
)

// GormStore implements store.Store on a relational backend. Behavior
// matches the in-memory store; subscription mutations additionally leave a
// change-log row with before/after snapshots.
type GormStore struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewGormStore(gdb *gorm.DB, log *zap.SugaredLogger) *GormStore {
	return &GormStore{db: gdb, log: log}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}

func (g *GormStore) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	if u.ID == "" {
		u.ID = tool.GenerateUUIDV7()
	}
	if err := g.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (g *GormStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (g *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := g.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (g *GormStore) UpdateUser(ctx context.Context, id string, patch *models.UserPatch) (*models.User, error) {
	var u models.User
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&u).Error; err != nil {
			return translate(err)
		}
		u.Apply(patch)
		return tx.Save(&u).Error
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (g *GormStore) CreateSubscription(ctx context.Context, s *models.Subscription) (*models.Subscription, error) {
	if s.ID == "" {
		s.ID = tool.GenerateUUIDV7()
	}
	if err := g.db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

func (g *GormStore) GetSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	var s models.Subscription
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (g *GormStore) ListSubscriptionsByUser(ctx context.Context, userID string) ([]*models.Subscription, error) {
	var out []*models.Subscription
	if err := g.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at asc, id asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (g *GormStore) UpdateSubscription(ctx context.Context, id string, patch *models.SubscriptionPatch) (*models.Subscription, error) {
	var after models.Subscription
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var original models.Subscription
		if err := tx.Where("id = ?", id).First(&original).Error; err != nil {
			return translate(err)
		}
		before := original
		after = original
		after.Apply(patch)
		after.UpdatedAt = time.Now().UTC()
		if err := tx.Save(&after).Error; err != nil {
			return err
		}
		g.writeChangeLog(ctx, tx, &before, &after)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &after, nil
}

// writeChangeLog is best-effort; a failed log row never fails the update.
func (g *GormStore) writeChangeLog(ctx context.Context, tx *gorm.DB, before, after *models.Subscription) {
	entry := &models.SubscriptionChangeLog{
		ID:             tool.GenerateUUIDV7(),
		UserID:         after.UserID,
		SubscriptionID: after.ID,
		Before:         datatypes.NewJSONType(before),
		After:          datatypes.NewJSONType(after),
	}
	if err := tx.Create(entry).Error; err != nil {
		logctx.FromCtx(ctx, g.log).Errorf("failed to save subscription change log: %v", err)
	}
}

func (g *GormStore) DeleteSubscription(ctx context.Context, id string) (bool, error) {
	res := g.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Subscription{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (g *GormStore) CreateNegotiation(ctx context.Context, n *models.BillNegotiation) (*models.BillNegotiation, error) {
	if n.ID == "" {
		n.ID = tool.GenerateUUIDV7()
	}
	if err := g.db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

func (g *GormStore) GetNegotiation(ctx context.Context, id string) (*models.BillNegotiation, error) {
	var n models.BillNegotiation
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&n).Error; err != nil {
		return nil, translate(err)
	}
	return &n, nil
}

func (g *GormStore) ListNegotiationsByUser(ctx context.Context, userID string) ([]*models.BillNegotiation, error) {
	var out []*models.BillNegotiation
	if err := g.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at asc, id asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (g *GormStore) UpdateNegotiation(ctx context.Context, id string, patch *models.BillNegotiationPatch) (*models.BillNegotiation, error) {
	var n models.BillNegotiation
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&n).Error; err != nil {
			return translate(err)
		}
		n.Apply(patch)
		return tx.Save(&n).Error
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (g *GormStore) CreatePriceAlert(ctx context.Context, a *models.PriceAlert) (*models.PriceAlert, error) {
	if a.ID == "" {
		a.ID = tool.GenerateUUIDV7()
	}
	if a.AlertDate.IsZero() {
		a.AlertDate = time.Now().UTC()
	}
	if err := g.db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

func (g *GormStore) ListPriceAlertsByUser(ctx context.Context, userID string) ([]*models.PriceAlert, error) {
	var out []*models.PriceAlert
	if err := g.db.WithContext(ctx).Where("user_id = ?", userID).Order("alert_date asc, id asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (g *GormStore) AcknowledgePriceAlert(ctx context.Context, id string) error {
	res := g.db.WithContext(ctx).Model(&models.PriceAlert{}).Where("id = ?", id).Update("acknowledged", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
