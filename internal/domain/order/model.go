package order

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrNotOwner          = errors.New("order does not belong to this user")
	ErrNotRefundable     = errors.New("order is not eligible for refund")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

type Status string

const (
	StatusPendingPayment          Status = "PendingPayment"
	StatusCompleted               Status = "Completed"
	StatusPaymentFailed           Status = "PaymentFailed"
	StatusSeatBookingFailure      Status = "SeatBookingFailure"
	StatusRefunded                Status = "Refunded"
	StatusPartiallyRefunded       Status = "PartiallyRefunded"
	StatusErrorNoTicketsForRefund Status = "ErrorNoTicketsForRefund"
)

var transitions = map[Status][]Status{
	StatusPendingPayment: {StatusCompleted, StatusPaymentFailed},
	StatusCompleted: {
		StatusRefunded,
		StatusPartiallyRefunded,
		StatusSeatBookingFailure,
		StatusErrorNoTicketsForRefund,
	},
	// A partial refund may be continued by a later refund call.
	StatusPartiallyRefunded: {StatusRefunded, StatusPartiallyRefunded},
}

// Order is a user's purchase intent. Its total is always derived from line
// items, never stored.
type Order struct {
	ID        string    `json:"orderID"`
	UserID    string    `json:"userID"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"orderDatetime"`
}

// Transition moves the order to a new status, rejecting anything outside the
// state machine. Moving to the current status is a no-op.
func (o *Order) Transition(to Status) error {
	if o.Status == to {
		return nil
	}
	for _, allowed := range transitions[o.Status] {
		if allowed == to {
			o.Status = to
			return nil
		}
	}
	return ErrInvalidTransition
}

// Refundable reports whether a refund call may proceed on this order.
func (o *Order) Refundable() bool {
	return o.Status == StatusCompleted || o.Status == StatusPartiallyRefunded
}
