package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dchgoh/SWE30003-ART-System/internal/clock"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/payment"
	"github.com/dchgoh/SWE30003-ART-System/internal/gateway"
)

// PaymentProcessor records settlements and reversals, delegating the money
// movement to the external gateway.
type PaymentProcessor struct {
	payments PaymentStore
	gw       gateway.Gateway
	clock    clock.Clock
}

func NewPaymentProcessor(payments PaymentStore, gw gateway.Gateway, clk clock.Clock) *PaymentProcessor {
	return &PaymentProcessor{payments: payments, gw: gw, clock: clk}
}

// Settle charges the gateway and persists a Completed payment. On decline or
// gateway timeout nothing is persisted and payment.ErrDeclined is returned;
// the caller marks the order PaymentFailed.
func (p *PaymentProcessor) Settle(ctx context.Context, orderID string, amount float64) (payment.Payment, error) {
	ref, err := p.gw.Charge(ctx, orderID, amount)
	if err != nil {
		// A timed-out gateway call is indistinguishable from a decline for
		// the orchestration: same compensations either way.
		return payment.Payment{}, fmt.Errorf("%w: %v", payment.ErrDeclined, err)
	}

	pay := payment.Payment{
		ID:         uuid.New().String(),
		OrderID:    orderID,
		Amount:     amount,
		Method:     "MockCard",
		GatewayRef: ref,
		Status:     payment.StatusCompleted,
		CreatedAt:  p.clock.Now(),
	}
	if err := p.payments.Upsert(ctx, pay); err != nil {
		return payment.Payment{}, fmt.Errorf("persist payment: %w", err)
	}
	return pay, nil
}

// MarkRequiresReversal flags a payment whose order failed after settlement.
// Idempotent.
func (p *PaymentProcessor) MarkRequiresReversal(ctx context.Context, paymentID string) error {
	err := p.payments.Update(ctx, paymentID, func(pay *payment.Payment) error {
		pay.MarkRequiresRefund()
		return nil
	})
	if err != nil {
		return fmt.Errorf("mark payment %s requires reversal: %w", paymentID, err)
	}
	return nil
}

// MarkRefunded transitions the payment to Refunded. Calling it on an
// already-refunded payment is a no-op, not an error.
func (p *PaymentProcessor) MarkRefunded(ctx context.Context, paymentID string) error {
	err := p.payments.Update(ctx, paymentID, func(pay *payment.Payment) error {
		pay.MarkRefunded()
		return nil
	})
	if err != nil {
		return fmt.Errorf("mark payment %s refunded: %w", paymentID, err)
	}
	return nil
}
