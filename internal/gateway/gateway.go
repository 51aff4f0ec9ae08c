// Package gateway models the external payment gateway collaborator. The
// reference deployment always approves, but callers must treat every call as
// fallible.
package gateway

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrDeclined = errors.New("gateway declined the request")

type Gateway interface {
	// Charge settles an amount against an order and returns the gateway's
	// reference for the charge.
	Charge(ctx context.Context, orderID string, amount float64) (string, error)
	// Reverse refunds a previously settled payment.
	Reverse(ctx context.Context, paymentID string) error
}

// AutoApprove is the reference gateway: every charge and reversal succeeds.
type AutoApprove struct{}

func (AutoApprove) Charge(ctx context.Context, orderID string, amount float64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "ch_" + uuid.New().String(), nil
}

func (AutoApprove) Reverse(ctx context.Context, paymentID string) error {
	return ctx.Err()
}
