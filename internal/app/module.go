package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/subwise/subwise/internal/app/api/server"
	"github.com/subwise/subwise/internal/app/service/alert"
	"github.com/subwise/subwise/internal/app/service/detector"
	"github.com/subwise/subwise/internal/app/service/insights"
	"github.com/subwise/subwise/internal/app/service/negotiation"
	"github.com/subwise/subwise/internal/app/service/payment"
	"github.com/subwise/subwise/internal/app/service/subscription"
	"github.com/subwise/subwise/internal/app/service/user"
	"github.com/subwise/subwise/internal/platform/anthropic"
	"github.com/subwise/subwise/internal/platform/db"
	stripeclient "github.com/subwise/subwise/internal/platform/stripe"
	"github.com/subwise/subwise/pkg/config"
	"github.com/subwise/subwise/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	anthropic.Module,
	stripeclient.Module,
	server.Module,
	user.Module,
	subscription.Module,
	negotiation.Module,
	alert.Module,
	detector.Module,
	insights.Module,
	payment.Module,
)
