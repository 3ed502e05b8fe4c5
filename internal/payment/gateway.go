package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

// ChargeRequest describes a single charge attempt.
type ChargeRequest struct {
	Amount decimal.Decimal
	Method string
}

// Result is the outcome of a charge. A failed charge is a normal result, not
// an error; the error return on Charge is reserved for the gateway itself
// being unreachable.
type Result struct {
	Success       bool
	TransactionID string
	Message       string
}

// Gateway is the payment processor port. Implementations must honor context
// cancellation so a slow processor cannot hold a pledge transaction open.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (Result, error)
	Refund(ctx context.Context, transactionID string) (bool, error)
}
