package payment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/cinemaster/cinemaster-api/internal/domain"
)

// DeclinedToken makes the simulated provider reject a charge, mirroring
// Stripe's test-card convention.
const DeclinedToken = "tok_declined"

// SimulatedPaymentProvider approves every charge except DeclinedToken and
// mints a demo reference. It is the default provider, so the whole booking
// flow works without Stripe credentials.
type SimulatedPaymentProvider struct {
}

func NewSimulatedPaymentProvider() *SimulatedPaymentProvider {
	return &SimulatedPaymentProvider{}
}

func (s *SimulatedPaymentProvider) Charge(
	ctx context.Context,
	req domain.ChargeRequest) (*domain.ChargeResult, error) {

	if req.Token == DeclinedToken {
		return nil, fmt.Errorf("%w: card declined", domain.ErrPaymentFailed)
	}

	b := make([]byte, 12)
	_, err := rand.Read(b)
	if err != nil {
		return nil, err
	}

	return &domain.ChargeResult{Reference: "ch_demo_" + hex.EncodeToString(b)}, nil
}
