// Package payment charges plan upgrades through the payment processor.
// Unlike the statement detector there is no fallback here: payment
// correctness cannot be faked, so failures surface as errors.
package payment

import (
	"context"
	"strings"

	"github.com/stripe/stripe-go/v84"
	"go.uber.org/zap"

	"github.com/subwise/subwise/pkg/apperr"
	"github.com/subwise/subwise/pkg/logctx"
	"github.com/subwise/subwise/pkg/types"
)

// defaultPlanPrice is used when no entry exists for a (plan, currency) pair.
const defaultPlanPrice = 9.99

// planPrices is flat per currency. No prorating, no discounts.
var planPrices = map[types.PlanTier]map[string]float64{
	types.PlanPremium: {
		"USD": 9.99,
		"EUR": 8.49,
		"GBP": 7.99,
		"INR": 799.00,
		"AUD": 14.99,
		"CAD": 12.99,
		"JPY": 1499.00,
	},
}

// Provider is the processor surface the service needs. The production
// implementation wraps the Stripe SDK.
type Provider interface {
	Enabled() bool
	CreateCustomer(ctx context.Context, params *stripe.CustomerParams) (*stripe.Customer, error)
	CreatePaymentIntent(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type Service struct {
	provider Provider
	log      *zap.SugaredLogger
}

func New(provider Provider, log *zap.SugaredLogger) *Service {
	return &Service{provider: provider, log: log}
}

// UpgradeIntent is the client-facing result of starting an upgrade payment.
type UpgradeIntent struct {
	ClientSecret    string  `json:"client_secret"`
	PaymentIntentID string  `json:"payment_intent_id"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}

// PaymentState reports the processor's view of an intent.
type PaymentState struct {
	Status   string            `json:"status"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func PlanPrice(plan types.PlanTier, currency string) float64 {
	if price, ok := planPrices[plan][currency]; ok {
		return price
	}
	return defaultPlanPrice
}

// minorUnits converts a display amount to the processor's integer
// convention. JPY has no minor unit and is sent as whole units.
func minorUnits(amount float64, currency string) int64 {
	if currency == "JPY" {
		return int64(amount)
	}
	return int64(amount * 100)
}

// CreateCustomer registers a processor customer and returns its reference.
// A disabled provider or a processor failure both yield an empty reference
// without error; customer creation is advisory.
func (s *Service) CreateCustomer(ctx context.Context, email, name string) string {
	if !s.provider.Enabled() {
		return ""
	}
	customer, err := s.provider.CreateCustomer(ctx, &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	})
	if err != nil {
		logctx.FromCtx(ctx, s.log).Errorf("failed to create customer: %v", err)
		return ""
	}
	return customer.ID
}

// CreateUpgradeIntent starts a payment for a plan purchase. User id and plan
// ride along as metadata for later reconciliation.
func (s *Service) CreateUpgradeIntent(ctx context.Context, userID string, plan types.PlanTier, currency, customerID string) (*UpgradeIntent, error) {
	if !s.provider.Enabled() {
		return nil, apperr.New(apperr.CodeUnavailable, "payment processing is currently unavailable")
	}

	amount := PlanPrice(plan, currency)
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(minorUnits(amount, currency)),
		Currency: stripe.String(strings.ToLower(currency)),
	}
	params.AddMetadata("user_id", userID)
	params.AddMetadata("plan", string(plan))
	if customerID != "" {
		params.Customer = stripe.String(customerID)
	}

	intent, err := s.provider.CreatePaymentIntent(ctx, params)
	if err != nil {
		logctx.FromCtx(ctx, s.log).Errorf("failed to create payment intent: %v", err)
		return nil, apperr.Wrap(apperr.CodeInternal, err, "failed to create payment intent")
	}

	return &UpgradeIntent{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		Amount:          amount,
		Currency:        currency,
	}, nil
}

// ConfirmPayment reports the processor's current state for an intent, or a
// fixed "disabled" state when no processor is configured.
func (s *Service) ConfirmPayment(ctx context.Context, intentID string) (*PaymentState, error) {
	if !s.provider.Enabled() {
		return &PaymentState{Status: "disabled"}, nil
	}

	intent, err := s.provider.GetPaymentIntent(ctx, intentID, nil)
	if err != nil {
		logctx.FromCtx(ctx, s.log).Errorf("failed to confirm payment: %v", err)
		return nil, apperr.Wrap(apperr.CodeInternal, err, "failed to confirm payment")
	}

	return &PaymentState{
		Status:   string(intent.Status),
		Amount:   intent.Amount,
		Currency: string(intent.Currency),
		Metadata: intent.Metadata,
	}, nil
}
