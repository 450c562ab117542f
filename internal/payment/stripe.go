package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/cinemaster/cinemaster-api/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/charge"
)

type StripePaymentProvider struct {
}

func NewStripePaymentProvider(apiKey string) *StripePaymentProvider {
	stripe.Key = apiKey

	return &StripePaymentProvider{}
}

func (s *StripePaymentProvider) Charge(
	ctx context.Context,
	req domain.ChargeRequest) (*domain.ChargeResult, error) {

	amountCents := req.Amount.Mul(decimal.NewFromInt(100)).IntPart()

	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(amountCents),
		Currency:    stripe.String(req.Currency),
		Description: stripe.String(req.Description),
	}
	params.Context = ctx
	params.SetSource(req.Token)
	params.SetIdempotencyKey(uuid.NewString())

	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	ch, err := charge.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			return nil, fmt.Errorf("%w: %s", domain.ErrPaymentFailed, stripeErr.Msg)
		}

		return nil, err
	}

	return &domain.ChargeResult{Reference: ch.ID}, nil
}
