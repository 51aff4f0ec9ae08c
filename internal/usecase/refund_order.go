package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dchgoh/SWE30003-ART-System/internal/clock"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/order"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/payment"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/refund"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/ticket"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/trip"
	"github.com/dchgoh/SWE30003-ART-System/internal/gateway"
)

// ErrNoTicketsForRefund is returned when a completed order has no tickets at
// all; the order is parked in ErrorNoTicketsForRefund for investigation.
var ErrNoTicketsForRefund = errors.New("order has no tickets to refund")

// RefundOrder drives the reverse saga. Tickets are refunded independently:
// one ticket failing never aborts the rest, and every outcome lands in the
// result's message list rather than an error.
type RefundOrder struct {
	orders   *OrderService
	ordStore OrderStore
	tickets  TicketStore
	issuer   *TicketIssuer
	payments *PaymentProcessor
	payStore PaymentStore
	refunds  RefundStore
	ledger   *InventoryLedger
	gw       gateway.Gateway
	clock    clock.Clock
	log      *slog.Logger
}

func NewRefundOrder(
	orders *OrderService,
	ordStore OrderStore,
	tickets TicketStore,
	issuer *TicketIssuer,
	payments *PaymentProcessor,
	payStore PaymentStore,
	refunds RefundStore,
	ledger *InventoryLedger,
	gw gateway.Gateway,
	clk clock.Clock,
	log *slog.Logger,
) *RefundOrder {
	return &RefundOrder{
		orders:   orders,
		ordStore: ordStore,
		tickets:  tickets,
		issuer:   issuer,
		payments: payments,
		payStore: payStore,
		refunds:  refunds,
		ledger:   ledger,
		gw:       gw,
		clock:    clk,
		log:      log,
	}
}

type RefundOrderParams struct {
	UserID  string
	OrderID string
}

type RefundOrderResult struct {
	// RefundedTickets counts tickets newly refunded by this call.
	RefundedTickets int
	// AllProcessed is false when at least one eligible ticket could not be
	// refunded.
	AllProcessed bool
	OrderStatus  order.Status
	Messages     []string
}

func (uc *RefundOrder) Execute(ctx context.Context, params RefundOrderParams) (RefundOrderResult, error) {
	o, ok, err := uc.ordStore.FindByID(ctx, params.OrderID)
	if err != nil {
		return RefundOrderResult{}, fmt.Errorf("load order: %w", err)
	}
	if !ok {
		return RefundOrderResult{}, order.ErrNotFound
	}
	if o.UserID != params.UserID {
		return RefundOrderResult{}, order.ErrNotOwner
	}
	if o.Status == order.StatusRefunded {
		// Second refund call on a settled order: no mutations, success.
		return RefundOrderResult{
			AllProcessed: true,
			OrderStatus:  o.Status,
			Messages:     []string{"order already refunded"},
		}, nil
	}
	if !o.Refundable() {
		return RefundOrderResult{}, fmt.Errorf("%w (status %s)", order.ErrNotRefundable, o.Status)
	}

	ticketsInOrder, err := uc.tickets.FindByOrderID(ctx, params.OrderID)
	if err != nil {
		return RefundOrderResult{}, fmt.Errorf("load tickets: %w", err)
	}
	if len(ticketsInOrder) == 0 {
		if stErr := uc.orders.SetStatus(ctx, o.ID, order.StatusErrorNoTicketsForRefund); stErr != nil {
			uc.log.Error("failed to park order without tickets", "order_id", o.ID, "error", stErr)
		}
		return RefundOrderResult{}, ErrNoTicketsForRefund
	}

	pay, ok, err := uc.payStore.FindByOrderID(ctx, params.OrderID)
	if err != nil {
		return RefundOrderResult{}, fmt.Errorf("load payment: %w", err)
	}
	if !ok {
		return RefundOrderResult{}, payment.ErrNotFound
	}
	if pay.Status == payment.StatusRefunded {
		return uc.settleImplicitly(ctx, o, ticketsInOrder)
	}

	perTicket := uc.perTicketAmount(ctx, o.ID, pay, len(ticketsInOrder))

	var (
		refunded     int
		allProcessed = true
		messages     []string
	)

	for _, t := range ticketsInOrder {
		switch t.Status {
		case ticket.StatusActive:
			newRefunded, msg, processedOK := uc.refundTicket(ctx, o, pay, t, perTicket)
			messages = append(messages, msg)
			if newRefunded {
				refunded++
			}
			if !processedOK {
				allProcessed = false
			}
		case ticket.StatusRefundFailed:
			// Seat already released and ticket voided on the earlier attempt;
			// only the gateway leg is retried.
			newRefunded, msg, processedOK := uc.processReversal(ctx, o, pay, t, perTicket)
			messages = append(messages, msg)
			if newRefunded {
				refunded++
			}
			if !processedOK {
				allProcessed = false
			}
		case ticket.StatusRefunded:
			messages = append(messages, fmt.Sprintf("ticket %s was previously refunded", t.ID))
		default:
			// Voided tickets without a refund outcome are left alone.
		}
	}

	// Re-derive the order status from the tickets' final states.
	finalStatus := o.Status
	finalTickets, err := uc.tickets.FindByOrderID(ctx, params.OrderID)
	if err == nil {
		switch classifyTickets(finalTickets) {
		case allRefunded:
			finalStatus = order.StatusRefunded
		case someRefunded:
			finalStatus = order.StatusPartiallyRefunded
		case noneRefunded:
			// The order keeps its current status; the messages carry the
			// error summary.
		}
		if finalStatus != o.Status {
			if stErr := uc.orders.SetStatus(ctx, o.ID, finalStatus); stErr != nil {
				uc.log.Error("failed to update order status after refund", "order_id", o.ID, "error", stErr)
			}
		}
	}

	// One payment covers the whole order: any successful ticket refund marks
	// it Refunded (documented simplification).
	if refunded > 0 {
		if err := uc.payments.MarkRefunded(ctx, pay.ID); err != nil {
			uc.log.Error("failed to mark payment refunded", "payment_id", pay.ID, "error", err)
		}
	}

	return RefundOrderResult{
		RefundedTickets: refunded,
		AllProcessed:    allProcessed,
		OrderStatus:     finalStatus,
		Messages:        messages,
	}, nil
}

// refundTicket voids one active ticket, releases its seat, records the
// refund and drives the gateway reversal. It reports whether a new refund
// was processed and whether the ticket ended in a good state.
func (uc *RefundOrder) refundTicket(ctx context.Context, o order.Order, pay payment.Payment, t ticket.Ticket, amount float64) (bool, string, bool) {
	if err := uc.issuer.Void(ctx, t.ID); err != nil {
		return false, fmt.Sprintf("ticket %s already void or in a non-refundable state", t.ID), true
	}

	if err := uc.ledger.Release(ctx, t.TripID, 1); err != nil {
		if errors.Is(err, trip.ErrConsistency) {
			uc.log.Error("CONSISTENCY VIOLATION releasing refunded seat", "trip_id", t.TripID, "ticket_id", t.ID, "error", err)
		} else {
			uc.log.Error("seat release failed during refund", "trip_id", t.TripID, "ticket_id", t.ID, "error", err)
		}
	}

	return uc.processReversal(ctx, o, pay, t, amount)
}

// processReversal records the refund and drives the gateway leg for a ticket
// whose seat has already been dealt with.
func (uc *RefundOrder) processReversal(ctx context.Context, o order.Order, pay payment.Payment, t ticket.Ticket, amount float64) (bool, string, bool) {
	now := uc.clock.Now()
	rf := refund.Refund{
		ID:          uuid.New().String(),
		PaymentID:   pay.ID,
		OrderID:     o.ID,
		TicketID:    t.ID,
		Amount:      amount,
		Reason:      "User requested",
		Status:      refund.StatusPending,
		RequestedAt: now,
	}

	gwErr := uc.gw.Reverse(ctx, pay.ID)
	if gwErr == nil {
		rf.MarkProcessed(uc.clock.Now())
	} else {
		rf.MarkFailed(uc.clock.Now())
	}
	if err := uc.refunds.Upsert(ctx, rf); err != nil {
		uc.log.Error("failed to persist refund record", "refund_id", rf.ID, "ticket_id", t.ID, "error", err)
	}

	if gwErr != nil {
		if err := uc.issuer.MarkRefundFailed(ctx, t.ID); err != nil {
			uc.log.Error("failed to mark ticket refund-failed", "ticket_id", t.ID, "error", err)
		}
		return false, fmt.Sprintf("gateway refund failed for ticket %s", t.ID), false
	}

	if err := uc.issuer.MarkRefunded(ctx, t.ID); err != nil {
		uc.log.Error("failed to mark ticket refunded", "ticket_id", t.ID, "error", err)
		return true, fmt.Sprintf("ticket %s refunded (status update pending)", t.ID), false
	}
	return true, fmt.Sprintf("ticket %s refunded", t.ID), true
}

// settleImplicitly handles the idempotent fast path: the payment is already
// fully refunded, so remaining active tickets are released and marked
// refunded without creating new refund records.
func (uc *RefundOrder) settleImplicitly(ctx context.Context, o order.Order, ticketsInOrder []ticket.Ticket) (RefundOrderResult, error) {
	var messages []string
	for _, t := range ticketsInOrder {
		if t.Status != ticket.StatusActive {
			continue
		}
		if err := uc.issuer.Void(ctx, t.ID); err != nil {
			continue
		}
		if err := uc.ledger.Release(ctx, t.TripID, 1); err != nil {
			uc.log.Error("seat release failed on implicit refund", "trip_id", t.TripID, "ticket_id", t.ID, "error", err)
		}
		if err := uc.issuer.MarkRefunded(ctx, t.ID); err != nil {
			uc.log.Error("failed to mark ticket refunded on implicit refund", "ticket_id", t.ID, "error", err)
			continue
		}
		messages = append(messages, fmt.Sprintf("ticket %s part of an already refunded payment", t.ID))
	}
	if err := uc.orders.SetStatus(ctx, o.ID, order.StatusRefunded); err != nil {
		uc.log.Error("failed to mark order refunded on implicit refund", "order_id", o.ID, "error", err)
	}
	return RefundOrderResult{
		AllProcessed: true,
		OrderStatus:  order.StatusRefunded,
		Messages:     messages,
	}, nil
}

// perTicketAmount derives the refund per ticket from the order's line items,
// falling back to an even split of the payment when the line items do not
// reconcile with the ticket count. The fallback is a documented
// approximation carried over from the business rule, not a guarantee.
func (uc *RefundOrder) perTicketAmount(ctx context.Context, orderID string, pay payment.Payment, ticketCount int) float64 {
	total, totalErr := uc.orders.Total(ctx, orderID)
	units, unitsErr := uc.orders.TripTicketUnits(ctx, orderID)
	if totalErr == nil && unitsErr == nil && units > 0 && units == ticketCount {
		return total / float64(units)
	}
	if ticketCount > 0 {
		return pay.Amount / float64(ticketCount)
	}
	return 0
}

type ticketOutcome int

const (
	allRefunded ticketOutcome = iota
	someRefunded
	noneRefunded
)

func classifyTickets(tickets []ticket.Ticket) ticketOutcome {
	refunded := 0
	for _, t := range tickets {
		if t.Status == ticket.StatusRefunded {
			refunded++
		}
	}
	switch {
	case refunded == len(tickets):
		return allRefunded
	case refunded > 0:
		return someRefunded
	default:
		return noneRefunded
	}
}
