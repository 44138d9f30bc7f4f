package payments

import (
	"context"
	"fmt"

	pkgerrors "github.com/angelmondragon/medmart-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"
)

const (
	currencyUSD       = "usd"
	paymentMethodCard = "card"
)

var minorUnitsPerDollar = decimal.NewFromInt(100)

// CreateIntentInput is the checkout amount in dollars.
type CreateIntentInput struct {
	Amount decimal.Decimal `json:"amount"`
}

// IntentDTO carries the secret the browser needs to confirm the card payment.
type IntentDTO struct {
	ClientSecret string `json:"clientSecret"`
}

// Service bridges checkout amounts to the payment gateway. It keeps no local state.
type Service interface {
	CreateIntent(ctx context.Context, input CreateIntentInput) (*IntentDTO, error)
}

type service struct {
	client IntentClient
}

func NewService(client IntentClient) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("payment intent client required")
	}
	return &service{client: client}, nil
}

func (s *service) CreateIntent(ctx context.Context, input CreateIntentInput) (*IntentDTO, error) {
	amount, err := ToMinorUnits(input.Amount)
	if err != nil {
		return nil, err
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currencyUSD),
		PaymentMethodTypes: stripe.StringSlice([]string{paymentMethodCard}),
	}
	intent, err := s.client.Create(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "create payment intent")
	}
	if intent == nil || intent.ClientSecret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, "payment intent missing client secret")
	}
	return &IntentDTO{ClientSecret: intent.ClientSecret}, nil
}

// ToMinorUnits converts a dollar amount to whole cents, rounding half away
// from zero.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	if !amount.IsPositive() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	cents := amount.Mul(minorUnitsPerDollar).Round(0)
	if !cents.IsPositive() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "amount must be at least one cent")
	}
	return cents.IntPart(), nil
}
