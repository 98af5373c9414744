// Package stripe wraps the Stripe SDK behind the narrow surface the payment
// service needs. When no secret key is configured the wrapper is still
// constructed; callers check Enabled and degrade instead of failing startup.
package stripe

import (
	"context"
	"strings"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/customer"
	"github.com/stripe/stripe-go/v84/paymentintent"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/subwise/subwise/pkg/config"
)

type Client struct {
	enabled bool
}

func NewClient(cfg *cfgpkg.Config, l *zap.SugaredLogger) *Client {
	key := strings.TrimSpace(cfg.Stripe.SecretKey)
	if key == "" {
		l.Infow("stripe not configured, payment operations disabled")
		return &Client{}
	}
	stripe.Key = key
	l.Infow("stripe client initialized")
	return &Client{enabled: true}
}

func (c *Client) Enabled() bool {
	return c != nil && c.enabled
}

func (c *Client) CreateCustomer(ctx context.Context, params *stripe.CustomerParams) (*stripe.Customer, error) {
	if params != nil {
		params.Context = ctx
	}
	return customer.New(params)
}

func (c *Client) CreatePaymentIntent(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if params != nil {
		params.Context = ctx
	}
	return paymentintent.New(params)
}

func (c *Client) GetPaymentIntent(ctx context.Context, id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if params != nil {
		params.Context = ctx
	}
	return paymentintent.Get(id, params)
}

var Module = fx.Provide(NewClient)
