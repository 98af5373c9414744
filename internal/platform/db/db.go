// Package db provides the record store: the in-memory default, or a
// GORM/postgres backend when a DSN is configured.
package db

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/subwise/subwise/internal/models"
	"github.com/subwise/subwise/internal/store"
	cfgpkg "github.com/subwise/subwise/pkg/config"
	gormzap "github.com/subwise/subwise/pkg/gormlog"
)

func NewStore(lc fx.Lifecycle, l *zap.SugaredLogger, cfg *cfgpkg.Config) (store.Store, error) {
	if cfg.Database.DSN == "" {
		l.Infow("using in-memory record store")
		return store.NewMemory(), nil
	}

	gdb, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{Logger: gormzap.New(l)})
	if err != nil {
		l.Errorf("failed to connect database: %v", err)
		return nil, err
	}
	if err := autoMigrate(gdb); err != nil {
		l.Errorf("automigrate failed: %v", err)
		return nil, err
	}
	l.Infow("connected to postgres via DSN")
	registerClose(lc, l, gdb)
	return NewGormStore(gdb, l), nil
}

func autoMigrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.BillNegotiation{},
		&models.PriceAlert{},
		&models.SubscriptionChangeLog{},
	)
}

func registerClose(lc fx.Lifecycle, l *zap.SugaredLogger, gdb *gorm.DB) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				l.Warnw("gorm: get sql.DB failed", "err", err)
				return nil
			}
			l.Infow("closing postgres connection pool")
			return sqlDB.Close()
		},
	})
}

// seedIfConfigured loads demo data once the store is ready.
func seedIfConfigured(l *zap.SugaredLogger, cfg *cfgpkg.Config, s store.Store) error {
	if !cfg.SeedDemoData {
		return nil
	}
	if err := store.SeedDemoData(context.Background(), s); err != nil {
		l.Errorf("failed to seed demo data: %v", err)
		return err
	}
	l.Infow("demo data seeded")
	return nil
}

var Module = fx.Options(
	fx.Provide(NewStore),
	fx.Invoke(seedIfConfigured),
)
