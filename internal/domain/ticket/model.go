package ticket

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("ticket not found")
	ErrAlreadyVoided = errors.New("ticket is not active")
	ErrTerminal      = errors.New("ticket is in a terminal state")
)

type Status string

const (
	StatusActive       Status = "Active"
	StatusVoided       Status = "Voided"
	StatusRefunded     Status = "Refunded"
	StatusRefundFailed Status = "RefundFailed"
)

// Ticket represents exactly one reserved seat, tied to one order and one
// payment.
type Ticket struct {
	ID         string    `json:"ticketID"`
	UserID     string    `json:"userID"`
	TripID     string    `json:"tripID"`
	OrderID    string    `json:"orderID"`
	PaymentID  string    `json:"paymentID"`
	SeatNumber string    `json:"seatNumber"`
	IssuedAt   time.Time `json:"issueDatetime"`
	Status     Status    `json:"status"`
}

// Void transitions Active -> Voided and rejects every other starting state.
func (t *Ticket) Void() error {
	if t.Status != StatusActive {
		return ErrAlreadyVoided
	}
	t.Status = StatusVoided
	return nil
}

// MarkRefunded finalises a refunded ticket. Refunded is terminal.
func (t *Ticket) MarkRefunded() error {
	if t.Status == StatusRefunded {
		return nil
	}
	if t.Status == StatusActive {
		// a ticket must be voided before it can be refunded
		return ErrTerminal
	}
	t.Status = StatusRefunded
	return nil
}

// MarkRefundFailed records a failed refund attempt on a voided ticket.
func (t *Ticket) MarkRefundFailed() error {
	if t.Status == StatusRefunded {
		return ErrTerminal
	}
	t.Status = StatusRefundFailed
	return nil
}
