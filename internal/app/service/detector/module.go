package detector

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/subwise/subwise/internal/platform/anthropic"
)

func NewService(client *anthropic.Client, log *zap.SugaredLogger) *Service {
	return New(client, log)
}

var Module = fx.Options(
	fx.Provide(NewService),
)
