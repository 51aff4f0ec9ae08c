package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dchgoh/SWE30003-ART-System/internal/domain/order"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/payment"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/ticket"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/trip"
)

// ErrTicketIssuance is returned when tickets could not be created after the
// payment settled. Money has already moved, so the whole batch is rolled
// back and the failure surfaces for manual remediation instead of a silent
// retry.
var ErrTicketIssuance = errors.New("failed to create tickets after payment")

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// BookTrip is the forward saga: reserve seats, create the order and its line
// item, settle payment, issue tickets. Each failure point has an explicit
// compensation running in reverse order of the mutations it undoes.
type BookTrip struct {
	trips    TripStore
	ledger   *InventoryLedger
	orders   *OrderService
	payments *PaymentProcessor
	issuer   *TicketIssuer
	log      *slog.Logger
}

func NewBookTrip(
	trips TripStore,
	ledger *InventoryLedger,
	orders *OrderService,
	payments *PaymentProcessor,
	issuer *TicketIssuer,
	log *slog.Logger,
) *BookTrip {
	return &BookTrip{
		trips:    trips,
		ledger:   ledger,
		orders:   orders,
		payments: payments,
		issuer:   issuer,
		log:      log,
	}
}

type BookTripParams struct {
	UserID   string
	TripID   string
	Quantity int
}

type BookTripResult struct {
	Order       order.Order
	FirstTicket ticket.Ticket
	Tickets     []ticket.Ticket
}

func (uc *BookTrip) Execute(ctx context.Context, params BookTripParams) (BookTripResult, error) {
	if params.Quantity < 1 {
		return BookTripResult{}, ErrInvalidQuantity
	}

	// 1. The trip must exist; its unit price fixes the line item.
	tr, ok, err := uc.trips.FindByID(ctx, params.TripID)
	if err != nil {
		return BookTripResult{}, fmt.Errorf("load trip: %w", err)
	}
	if !ok {
		return BookTripResult{}, trip.ErrNotFound
	}

	// 2. Reserve inventory. Failure here has no side effects to undo.
	if err := uc.ledger.Reserve(ctx, params.TripID, params.Quantity); err != nil {
		return BookTripResult{}, err
	}

	// 3. Order plus one TripTicket line item at the trip's unit price.
	o, err := uc.orders.Create(ctx, params.UserID)
	if err != nil {
		uc.releaseSeats(ctx, params.TripID, params.Quantity)
		return BookTripResult{}, err
	}
	if _, err := uc.orders.AddLineItem(ctx, o.ID, params.TripID, order.ItemTypeTripTicket, params.Quantity, tr.Price); err != nil {
		uc.releaseSeats(ctx, params.TripID, params.Quantity)
		return BookTripResult{}, err
	}

	// 4. Settle. A decline (or gateway timeout) compensates the reservation.
	amount := float64(params.Quantity) * tr.Price
	pay, err := uc.payments.Settle(ctx, o.ID, amount)
	if err != nil {
		if stErr := uc.orders.SetStatus(ctx, o.ID, order.StatusPaymentFailed); stErr != nil {
			uc.log.Error("failed to mark order PaymentFailed", "order_id", o.ID, "error", stErr)
		}
		uc.releaseSeats(ctx, params.TripID, params.Quantity)
		if errors.Is(err, payment.ErrDeclined) {
			return BookTripResult{}, err
		}
		return BookTripResult{}, fmt.Errorf("settle payment: %w", err)
	}

	// 5. Money moved; the order must record completion before any tickets
	// exist. If that write fails the saga cannot proceed: tickets issued
	// against a stored PendingPayment order would never be refundable. So
	// it compensates like any other forward-step failure, flagging the
	// settled payment for reversal and releasing the seats. PaymentFailed
	// is the only failure status the order can reach from here.
	if err := uc.orders.SetStatus(ctx, o.ID, order.StatusCompleted); err != nil {
		uc.log.Error("failed to mark order Completed, rolling back", "order_id", o.ID, "error", err)
		if rvErr := uc.payments.MarkRequiresReversal(ctx, pay.ID); rvErr != nil {
			uc.log.Error("rollback: flagging payment for reversal failed", "payment_id", pay.ID, "error", rvErr)
		}
		uc.releaseSeats(ctx, params.TripID, params.Quantity)
		if stErr := uc.orders.SetStatus(ctx, o.ID, order.StatusPaymentFailed); stErr != nil {
			uc.log.Error("rollback: marking order PaymentFailed failed", "order_id", o.ID, "error", stErr)
		}
		return BookTripResult{}, fmt.Errorf("record order completion: %w", err)
	}
	o.Status = order.StatusCompleted

	// 6. Issue one ticket per seat. Partial failure rolls the whole batch
	// back: payment has already settled, so the order is parked in
	// SeatBookingFailure for manual remediation.
	tickets := make([]ticket.Ticket, 0, params.Quantity)
	for n := 0; n < params.Quantity; n++ {
		t, err := uc.issuer.Issue(ctx, params.UserID, params.TripID, o.ID, pay.ID)
		if err != nil {
			uc.log.Error("ticket issuance failed part-way, rolling back batch",
				"order_id", o.ID, "issued", len(tickets), "requested", params.Quantity, "error", err)
			uc.rollbackIssuance(ctx, o.ID, pay.ID, params.TripID, params.Quantity)
			return BookTripResult{}, fmt.Errorf("%w: %v", ErrTicketIssuance, err)
		}
		tickets = append(tickets, t)
	}

	return BookTripResult{Order: o, FirstTicket: tickets[0], Tickets: tickets}, nil
}

// rollbackIssuance undoes a part-issued batch: delete any issued tickets,
// flag the payment for reversal, release every reserved seat and park the
// order. Each step is safe to repeat if the caller retries after a crash.
func (uc *BookTrip) rollbackIssuance(ctx context.Context, orderID, paymentID, tripID string, quantity int) {
	if err := uc.issuer.DeleteByOrder(ctx, orderID); err != nil {
		uc.log.Error("rollback: deleting issued tickets failed", "order_id", orderID, "error", err)
	}
	if err := uc.payments.MarkRequiresReversal(ctx, paymentID); err != nil {
		uc.log.Error("rollback: flagging payment for reversal failed", "payment_id", paymentID, "error", err)
	}
	uc.releaseSeats(ctx, tripID, quantity)
	if err := uc.orders.SetStatus(ctx, orderID, order.StatusSeatBookingFailure); err != nil {
		uc.log.Error("rollback: marking order SeatBookingFailure failed", "order_id", orderID, "error", err)
	}
}

func (uc *BookTrip) releaseSeats(ctx context.Context, tripID string, quantity int) {
	if err := uc.ledger.Release(ctx, tripID, quantity); err != nil {
		if errors.Is(err, trip.ErrConsistency) {
			// Never compensated away: this means the orchestration itself
			// double-released, which is a bug.
			uc.log.Error("CONSISTENCY VIOLATION releasing seats", "trip_id", tripID, "quantity", quantity, "error", err)
			return
		}
		uc.log.Error("compensating seat release failed", "trip_id", tripID, "quantity", quantity, "error", err)
	}
}
