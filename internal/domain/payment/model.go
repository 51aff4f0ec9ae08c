package payment

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("payment not found")
	ErrDeclined = errors.New("payment declined")
)

type Status string

const (
	StatusCompleted      Status = "Completed"
	StatusRequiresRefund Status = "RequiresRefund"
	StatusRefunded       Status = "Refunded"
)

// Payment records one settlement attempt against an order. One payment covers
// the order's full amount.
type Payment struct {
	ID         string    `json:"paymentID"`
	OrderID    string    `json:"orderID"`
	Amount     float64   `json:"amount"`
	Method     string    `json:"method"`
	GatewayRef string    `json:"gatewayRef,omitempty"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"paymentDatetime"`
}

// MarkRequiresRefund flags the payment for manual reversal after a booking
// failed post-settlement. Idempotent.
func (p *Payment) MarkRequiresRefund() {
	if p.Status == StatusRefunded {
		return
	}
	p.Status = StatusRequiresRefund
}

// MarkRefunded is a no-op when the payment is already refunded.
func (p *Payment) MarkRefunded() {
	p.Status = StatusRefunded
}
