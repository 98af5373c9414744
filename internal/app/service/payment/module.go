package payment

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	stripeclient "github.com/subwise/subwise/internal/platform/stripe"
)

func NewService(client *stripeclient.Client, log *zap.SugaredLogger) *Service {
	return New(client, log)
}

var Module = fx.Options(
	fx.Provide(NewService),
)
