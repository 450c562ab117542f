package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// ChargeRequest carries an opaque client-side payment token and the amount
// the server expects to collect. The amount is always the server-recomputed
// total, never the client-submitted one.
type ChargeRequest struct {
	Token       string
	Amount      decimal.Decimal
	Currency    string
	Description string
	Metadata    map[string]string
}

type ChargeResult struct {
	Reference string
}

// PaymentProvider is the external payment collaborator. Implementations must
// be treated as at-least-once: the same charge may be reported more than
// once, which is why booking confirmation is idempotent.
type PaymentProvider interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}
