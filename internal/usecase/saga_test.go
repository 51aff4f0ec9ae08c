package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dchgoh/SWE30003-ART-System/internal/clock"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/order"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/ticket"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/trip"
	"github.com/dchgoh/SWE30003-ART-System/internal/storage"
	"github.com/dchgoh/SWE30003-ART-System/internal/storage/jsonstore"
)

// fakeGateway scripts gateway outcomes per call.
type fakeGateway struct {
	mu          sync.Mutex
	chargeErr   error
	reverseErrs []error // consumed one per Reverse call; empty means success
	charges     int
	reversals   int
}

func (g *fakeGateway) Charge(ctx context.Context, orderID string, amount float64) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.charges++
	if g.chargeErr != nil {
		return "", g.chargeErr
	}
	return fmt.Sprintf("ch_test_%d", g.charges), nil
}

func (g *fakeGateway) Reverse(ctx context.Context, paymentID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reversals++
	if len(g.reverseErrs) == 0 {
		return nil
	}
	err := g.reverseErrs[0]
	g.reverseErrs = g.reverseErrs[1:]
	return err
}

// failingTicketStore passes through to the real repository until failAfter
// upserts have succeeded, then errors.
type failingTicketStore struct {
	TicketStore
	mu        sync.Mutex
	failAfter int
	upserts   int
}

func (s *failingTicketStore) Upsert(ctx context.Context, t ticket.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upserts >= s.failAfter {
		return errors.New("ticket store unavailable")
	}
	s.upserts++
	return s.TicketStore.Upsert(ctx, t)
}

// failingOrderStore rejects any write that would land the given status,
// modeling a store outage hitting one specific transition.
type failingOrderStore struct {
	OrderStore
	failOn order.Status
}

func (s *failingOrderStore) Update(ctx context.Context, id string, fn func(*order.Order) error) error {
	return s.OrderStore.Update(ctx, id, func(o *order.Order) error {
		if err := fn(o); err != nil {
			return err
		}
		if o.Status == s.failOn {
			return errors.New("order store unavailable")
		}
		return nil
	})
}

type sagaEnv struct {
	store    *storage.Store
	gw       *fakeGateway
	clk      clock.Clock
	ledger   *InventoryLedger
	orders   *OrderService
	payments *PaymentProcessor
	issuer   *TicketIssuer
	book     *BookTrip
	refund   *RefundOrder
}

func newSagaEnv(t *testing.T) *sagaEnv {
	t.Helper()

	store := jsonstore.NewStore(t.TempDir())
	gw := &fakeGateway{}
	clk := clock.NewFixed(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	ledger := NewInventoryLedger(store.Trips)
	orders := NewOrderService(store.Orders, store.LineItems, clk)
	payments := NewPaymentProcessor(store.Payments, gw, clk)
	issuer := NewTicketIssuer(store.Tickets, clk)

	return &sagaEnv{
		store:    store,
		gw:       gw,
		clk:      clk,
		ledger:   ledger,
		orders:   orders,
		payments: payments,
		issuer:   issuer,
		book:     NewBookTrip(store.Trips, ledger, orders, payments, issuer, log),
		refund: NewRefundOrder(
			orders, store.Orders, store.Tickets, issuer,
			payments, store.Payments, store.Refunds,
			ledger, gw, clk, log,
		),
	}
}

// withFailingOrderWrites rebuilds the booking saga over an order store that
// rejects writes landing the given status.
func (e *sagaEnv) withFailingOrderWrites(failOn order.Status) {
	failing := &failingOrderStore{OrderStore: e.store.Orders, failOn: failOn}
	orders := NewOrderService(failing, e.store.LineItems, e.clk)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	e.orders = orders
	e.book = NewBookTrip(e.store.Trips, e.ledger, orders, e.payments, e.issuer, log)
}

// withFailingTickets rebuilds the booking saga over a ticket store that dies
// after failAfter successful inserts.
func (e *sagaEnv) withFailingTickets(failAfter int) {
	failing := &failingTicketStore{TicketStore: e.store.Tickets, failAfter: failAfter}
	issuer := NewTicketIssuer(failing, e.clk)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	e.book = NewBookTrip(e.store.Trips, e.ledger, e.orders, e.payments, issuer, log)
}

func (e *sagaEnv) seedTrip(t *testing.T, seats int, price float64) trip.Trip {
	t.Helper()
	tr := trip.Trip{
		ID:             "trip-1",
		Origin:         "Caulfield",
		Destination:    "Rowville",
		DepartureTime:  time.Date(2025, 3, 2, 8, 30, 0, 0, time.UTC),
		Price:          price,
		AvailableSeats: seats,
		Capacity:       seats,
	}
	if err := e.store.Trips.Upsert(context.Background(), tr); err != nil {
		t.Fatalf("seed trip: %v", err)
	}
	return tr
}

func (e *sagaEnv) mustTrip(t *testing.T, id string) trip.Trip {
	t.Helper()
	tr, ok, err := e.store.Trips.FindByID(context.Background(), id)
	if err != nil || !ok {
		t.Fatalf("load trip %s: ok=%v err=%v", id, ok, err)
	}
	return tr
}
