package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dchgoh/SWE30003-ART-System/internal/clock"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/ticket"
)

// TicketIssuer creates and voids per-seat tickets.
type TicketIssuer struct {
	tickets TicketStore
	clock   clock.Clock
}

func NewTicketIssuer(tickets TicketStore, clk clock.Clock) *TicketIssuer {
	return &TicketIssuer{tickets: tickets, clock: clk}
}

func (i *TicketIssuer) Issue(ctx context.Context, userID, tripID, orderID, paymentID string) (ticket.Ticket, error) {
	t := ticket.Ticket{
		ID:         uuid.New().String(),
		UserID:     userID,
		TripID:     tripID,
		OrderID:    orderID,
		PaymentID:  paymentID,
		SeatNumber: "Any Available",
		IssuedAt:   i.clock.Now(),
		Status:     ticket.StatusActive,
	}
	if err := i.tickets.Upsert(ctx, t); err != nil {
		return ticket.Ticket{}, fmt.Errorf("issue ticket: %w", err)
	}
	return t, nil
}

// Void transitions Active -> Voided; any other starting state fails with
// ticket.ErrAlreadyVoided.
func (i *TicketIssuer) Void(ctx context.Context, ticketID string) error {
	err := i.tickets.Update(ctx, ticketID, func(t *ticket.Ticket) error {
		return t.Void()
	})
	if err != nil {
		return fmt.Errorf("void ticket %s: %w", ticketID, err)
	}
	return nil
}

func (i *TicketIssuer) MarkRefunded(ctx context.Context, ticketID string) error {
	err := i.tickets.Update(ctx, ticketID, func(t *ticket.Ticket) error {
		return t.MarkRefunded()
	})
	if err != nil {
		return fmt.Errorf("mark ticket %s refunded: %w", ticketID, err)
	}
	return nil
}

func (i *TicketIssuer) MarkRefundFailed(ctx context.Context, ticketID string) error {
	err := i.tickets.Update(ctx, ticketID, func(t *ticket.Ticket) error {
		return t.MarkRefundFailed()
	})
	if err != nil {
		return fmt.Errorf("mark ticket %s refund-failed: %w", ticketID, err)
	}
	return nil
}

// DeleteByOrder removes every ticket of an order. Used only when rolling
// back a booking whose issuance failed part-way.
func (i *TicketIssuer) DeleteByOrder(ctx context.Context, orderID string) error {
	if _, err := i.tickets.DeleteByOrderID(ctx, orderID); err != nil {
		return fmt.Errorf("delete tickets for order %s: %w", orderID, err)
	}
	return nil
}
