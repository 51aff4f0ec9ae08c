package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dchgoh/SWE30003-ART-System/internal/domain/order"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/payment"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/ticket"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/trip"
)

func TestBookTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("books two seats end to end", func(t *testing.T) {
		env := newSagaEnv(t)
		env.seedTrip(t, 5, 15.0)

		res, err := env.book.Execute(ctx, BookTripParams{UserID: "u1", TripID: "trip-1", Quantity: 2})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if res.Order.Status != order.StatusCompleted {
			t.Fatalf("expected Completed order, got %s", res.Order.Status)
		}
		if len(res.Tickets) != 2 {
			t.Fatalf("expected 2 tickets, got %d", len(res.Tickets))
		}
		for _, tk := range res.Tickets {
			if tk.Status != ticket.StatusActive {
				t.Fatalf("expected Active ticket, got %s", tk.Status)
			}
		}

		if tr := env.mustTrip(t, "trip-1"); tr.AvailableSeats != 3 {
			t.Fatalf("expected 3 seats left, got %d", tr.AvailableSeats)
		}
		pay, ok, err := env.store.Payments.FindByOrderID(ctx, res.Order.ID)
		if err != nil || !ok {
			t.Fatalf("payment missing: ok=%v err=%v", ok, err)
		}
		if pay.Amount != 30.0 || pay.Status != payment.StatusCompleted {
			t.Fatalf("unexpected payment: %+v", pay)
		}
		total, err := env.orders.Total(ctx, res.Order.ID)
		if err != nil || total != 30.0 {
			t.Fatalf("expected derived total 30.0, got %v (err %v)", total, err)
		}
	})

	t.Run("unknown trip", func(t *testing.T) {
		env := newSagaEnv(t)
		_, err := env.book.Execute(ctx, BookTripParams{UserID: "u1", TripID: "nope", Quantity: 1})
		if !errors.Is(err, trip.ErrNotFound) {
			t.Fatalf("expected trip.ErrNotFound, got %v", err)
		}
	})

	t.Run("invalid quantity", func(t *testing.T) {
		env := newSagaEnv(t)
		env.seedTrip(t, 5, 15.0)
		_, err := env.book.Execute(ctx, BookTripParams{UserID: "u1", TripID: "trip-1", Quantity: 0})
		if !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("expected ErrInvalidQuantity, got %v", err)
		}
	})

	t.Run("insufficient seats leaves no trace", func(t *testing.T) {
		env := newSagaEnv(t)
		env.seedTrip(t, 2, 15.0)

		_, err := env.book.Execute(ctx, BookTripParams{UserID: "u1", TripID: "trip-1", Quantity: 3})
		if !errors.Is(err, trip.ErrInsufficientSeats) {
			t.Fatalf("expected ErrInsufficientSeats, got %v", err)
		}
		if tr := env.mustTrip(t, "trip-1"); tr.AvailableSeats != 2 {
			t.Fatalf("seat count changed: %d", tr.AvailableSeats)
		}
		orders, err := env.orders.FindByUser(ctx, "u1")
		if err != nil || len(orders) != 0 {
			t.Fatalf("expected no orders, got %d (err %v)", len(orders), err)
		}
	})

	t.Run("payment decline compensates the reservation", func(t *testing.T) {
		env := newSagaEnv(t)
		env.seedTrip(t, 5, 15.0)
		env.gw.chargeErr = errors.New("card declined")

		_, err := env.book.Execute(ctx, BookTripParams{UserID: "u1", TripID: "trip-1", Quantity: 2})
		if !errors.Is(err, payment.ErrDeclined) {
			t.Fatalf("expected payment.ErrDeclined, got %v", err)
		}

		if tr := env.mustTrip(t, "trip-1"); tr.AvailableSeats != 5 {
			t.Fatalf("seats not released after decline: %d", tr.AvailableSeats)
		}
		orders, err := env.orders.FindByUser(ctx, "u1")
		if err != nil || len(orders) != 1 {
			t.Fatalf("expected the failed order to remain, got %d (err %v)", len(orders), err)
		}
		if orders[0].Status != order.StatusPaymentFailed {
			t.Fatalf("expected PaymentFailed, got %s", orders[0].Status)
		}
		tickets, _ := env.store.Tickets.FindByOrderID(ctx, orders[0].ID)
		if len(tickets) != 0 {
			t.Fatalf("expected no tickets, got %d", len(tickets))
		}
	})

	t.Run("issuance failure after payment rolls the batch back", func(t *testing.T) {
		env := newSagaEnv(t)
		env.seedTrip(t, 5, 15.0)
		env.withFailingTickets(1)

		_, err := env.book.Execute(ctx, BookTripParams{UserID: "u1", TripID: "trip-1", Quantity: 3})
		if !errors.Is(err, ErrTicketIssuance) {
			t.Fatalf("expected ErrTicketIssuance, got %v", err)
		}

		orders, err := env.orders.FindByUser(ctx, "u1")
		if err != nil || len(orders) != 1 {
			t.Fatalf("expected 1 order, got %d (err %v)", len(orders), err)
		}
		o := orders[0]
		if o.Status != order.StatusSeatBookingFailure {
			t.Fatalf("expected SeatBookingFailure, got %s", o.Status)
		}

		tickets, _ := env.store.Tickets.FindByOrderID(ctx, o.ID)
		if len(tickets) != 0 {
			t.Fatalf("partial tickets survived rollback: %d", len(tickets))
		}
		if tr := env.mustTrip(t, "trip-1"); tr.AvailableSeats != 5 {
			t.Fatalf("seats not released after rollback: %d", tr.AvailableSeats)
		}
		pay, ok, _ := env.store.Payments.FindByOrderID(ctx, o.ID)
		if !ok || pay.Status != payment.StatusRequiresRefund {
			t.Fatalf("expected payment flagged RequiresRefund, got %+v (ok=%v)", pay, ok)
		}
	})

	t.Run("failed completion write after payment rolls back", func(t *testing.T) {
		env := newSagaEnv(t)
		env.seedTrip(t, 5, 15.0)
		env.withFailingOrderWrites(order.StatusCompleted)

		_, err := env.book.Execute(ctx, BookTripParams{UserID: "u1", TripID: "trip-1", Quantity: 2})
		if err == nil {
			t.Fatal("expected an error when completion cannot be recorded")
		}

		orders, err := env.orders.FindByUser(ctx, "u1")
		if err != nil || len(orders) != 1 {
			t.Fatalf("expected 1 order, got %d (err %v)", len(orders), err)
		}
		o := orders[0]
		if o.Status != order.StatusPaymentFailed {
			t.Fatalf("expected PaymentFailed, got %s", o.Status)
		}

		tickets, _ := env.store.Tickets.FindByOrderID(ctx, o.ID)
		if len(tickets) != 0 {
			t.Fatalf("tickets issued against an incomplete order: %d", len(tickets))
		}
		if tr := env.mustTrip(t, "trip-1"); tr.AvailableSeats != 5 {
			t.Fatalf("seats not released after rollback: %d", tr.AvailableSeats)
		}
		pay, ok, _ := env.store.Payments.FindByOrderID(ctx, o.ID)
		if !ok || pay.Status != payment.StatusRequiresRefund {
			t.Fatalf("expected payment flagged RequiresRefund, got %+v (ok=%v)", pay, ok)
		}
	})

	t.Run("two bookings racing for the last seat", func(t *testing.T) {
		env := newSagaEnv(t)
		env.seedTrip(t, 1, 15.0)

		var wg sync.WaitGroup
		results := make([]error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := env.book.Execute(ctx, BookTripParams{UserID: "u1", TripID: "trip-1", Quantity: 1})
				results[i] = err
			}(i)
		}
		wg.Wait()

		wins, losses := 0, 0
		for _, err := range results {
			switch {
			case err == nil:
				wins++
			case errors.Is(err, trip.ErrInsufficientSeats):
				losses++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if wins != 1 || losses != 1 {
			t.Fatalf("expected exactly one winner, got wins=%d losses=%d", wins, losses)
		}
		if tr := env.mustTrip(t, "trip-1"); tr.AvailableSeats != 0 {
			t.Fatalf("expected 0 seats, got %d", tr.AvailableSeats)
		}
	})
}
