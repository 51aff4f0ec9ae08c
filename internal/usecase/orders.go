package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dchgoh/SWE30003-ART-System/internal/clock"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/order"
)

// OrderService is the order aggregate: it creates orders, attaches line
// items and derives totals. The total is computed on every call, never
// cached.
type OrderService struct {
	orders OrderStore
	items  LineItemStore
	clock  clock.Clock
}

func NewOrderService(orders OrderStore, items LineItemStore, clk clock.Clock) *OrderService {
	return &OrderService{orders: orders, items: items, clock: clk}
}

func (s *OrderService) Create(ctx context.Context, userID string) (order.Order, error) {
	o := order.Order{
		ID:        uuid.New().String(),
		UserID:    userID,
		Status:    order.StatusPendingPayment,
		CreatedAt: s.clock.Now(),
	}
	if err := s.orders.Upsert(ctx, o); err != nil {
		return order.Order{}, fmt.Errorf("create order: %w", err)
	}
	return o, nil
}

func (s *OrderService) AddLineItem(ctx context.Context, orderID, itemID, itemType string, quantity int, unitPrice float64) (order.LineItem, error) {
	li := order.LineItem{
		ID:        uuid.New().String(),
		OrderID:   orderID,
		ItemID:    itemID,
		ItemType:  itemType,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
	if err := s.items.Upsert(ctx, li); err != nil {
		return order.LineItem{}, fmt.Errorf("add line item: %w", err)
	}
	return li, nil
}

// Total derives the order total from its line items.
func (s *OrderService) Total(ctx context.Context, orderID string) (float64, error) {
	items, err := s.items.FindByOrderID(ctx, orderID)
	if err != nil {
		return 0, fmt.Errorf("load line items: %w", err)
	}
	total := 0.0
	for _, li := range items {
		total += li.LineTotal()
	}
	return total, nil
}

// TripTicketUnits sums the quantities of TripTicket line items on the order.
func (s *OrderService) TripTicketUnits(ctx context.Context, orderID string) (int, error) {
	items, err := s.items.FindByOrderID(ctx, orderID)
	if err != nil {
		return 0, fmt.Errorf("load line items: %w", err)
	}
	units := 0
	for _, li := range items {
		if li.ItemType == order.ItemTypeTripTicket {
			units += li.Quantity
		}
	}
	return units, nil
}

// SetStatus applies a status transition under the order state machine.
func (s *OrderService) SetStatus(ctx context.Context, orderID string, to order.Status) error {
	err := s.orders.Update(ctx, orderID, func(o *order.Order) error {
		return o.Transition(to)
	})
	if err != nil {
		return fmt.Errorf("order %s -> %s: %w", orderID, to, err)
	}
	return nil
}

func (s *OrderService) FindByUser(ctx context.Context, userID string) ([]order.Order, error) {
	return s.orders.FindByUserID(ctx, userID)
}
