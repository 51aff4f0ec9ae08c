package storage

import (
	"context"
	"sort"
	"time"

	"github.com/dchgoh/SWE30003-ART-System/internal/domain/feedback"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/notification"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/order"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/outbox"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/payment"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/refund"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/ticket"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/transit"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/trip"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/user"
)

// Store bundles one typed repository per entity collection. Both backends
// build the same Store shape.
type Store struct {
	Trips         *TripRepository
	Orders        *OrderRepository
	LineItems     *LineItemRepository
	Payments      *PaymentRepository
	Tickets       *TicketRepository
	Refunds       *RefundRepository
	Users         *UserRepository
	Feedback      *FeedbackRepository
	Responses     *ResponseRepository
	Notifications *NotificationRepository
	Routes        *RouteRepository
	Stops         *StopRepository
	Locations     *LocationRepository
	Outbox        *OutboxRepository
}

type TripRepository struct {
	col Collection[trip.Trip]
}

func NewTripRepository(col Collection[trip.Trip]) *TripRepository {
	return &TripRepository{col: col}
}

func (r *TripRepository) FindByID(ctx context.Context, id string) (trip.Trip, bool, error) {
	return r.col.FindByID(ctx, id)
}

func (r *TripRepository) All(ctx context.Context) ([]trip.Trip, error) {
	return r.col.All(ctx)
}

func (r *TripRepository) Upsert(ctx context.Context, t trip.Trip) error {
	return r.col.Upsert(ctx, t)
}

func (r *TripRepository) Update(ctx context.Context, id string, fn func(*trip.Trip) error) error {
	return r.col.Update(ctx, id, fn)
}

type OrderRepository struct {
	col Collection[order.Order]
}

func NewOrderRepository(col Collection[order.Order]) *OrderRepository {
	return &OrderRepository{col: col}
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (order.Order, bool, error) {
	return r.col.FindByID(ctx, id)
}

func (r *OrderRepository) FindByUserID(ctx context.Context, userID string) ([]order.Order, error) {
	return r.col.FindBy(ctx, func(o order.Order) bool { return o.UserID == userID })
}

func (r *OrderRepository) Upsert(ctx context.Context, o order.Order) error {
	return r.col.Upsert(ctx, o)
}

func (r *OrderRepository) Update(ctx context.Context, id string, fn func(*order.Order) error) error {
	return r.col.Update(ctx, id, fn)
}

type LineItemRepository struct {
	col Collection[order.LineItem]
}

func NewLineItemRepository(col Collection[order.LineItem]) *LineItemRepository {
	return &LineItemRepository{col: col}
}

func (r *LineItemRepository) FindByOrderID(ctx context.Context, orderID string) ([]order.LineItem, error) {
	return r.col.FindBy(ctx, func(li order.LineItem) bool { return li.OrderID == orderID })
}

func (r *LineItemRepository) Upsert(ctx context.Context, li order.LineItem) error {
	return r.col.Upsert(ctx, li)
}

type PaymentRepository struct {
	col Collection[payment.Payment]
}

func NewPaymentRepository(col Collection[payment.Payment]) *PaymentRepository {
	return &PaymentRepository{col: col}
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (payment.Payment, bool, error) {
	return r.col.FindByID(ctx, id)
}

// FindByOrderID returns the first payment recorded against the order, if any.
func (r *PaymentRepository) FindByOrderID(ctx context.Context, orderID string) (payment.Payment, bool, error) {
	matches, err := r.col.FindBy(ctx, func(p payment.Payment) bool { return p.OrderID == orderID })
	if err != nil || len(matches) == 0 {
		return payment.Payment{}, false, err
	}
	return matches[0], true, nil
}

func (r *PaymentRepository) Upsert(ctx context.Context, p payment.Payment) error {
	return r.col.Upsert(ctx, p)
}

func (r *PaymentRepository) Update(ctx context.Context, id string, fn func(*payment.Payment) error) error {
	return r.col.Update(ctx, id, fn)
}

type TicketRepository struct {
	col Collection[ticket.Ticket]
}

func NewTicketRepository(col Collection[ticket.Ticket]) *TicketRepository {
	return &TicketRepository{col: col}
}

func (r *TicketRepository) FindByID(ctx context.Context, id string) (ticket.Ticket, bool, error) {
	return r.col.FindByID(ctx, id)
}

func (r *TicketRepository) FindByOrderID(ctx context.Context, orderID string) ([]ticket.Ticket, error) {
	return r.col.FindBy(ctx, func(t ticket.Ticket) bool { return t.OrderID == orderID })
}

func (r *TicketRepository) FindActiveByTripID(ctx context.Context, tripID string) ([]ticket.Ticket, error) {
	return r.col.FindBy(ctx, func(t ticket.Ticket) bool {
		return t.TripID == tripID && t.Status == ticket.StatusActive
	})
}

func (r *TicketRepository) Upsert(ctx context.Context, t ticket.Ticket) error {
	return r.col.Upsert(ctx, t)
}

func (r *TicketRepository) Update(ctx context.Context, id string, fn func(*ticket.Ticket) error) error {
	return r.col.Update(ctx, id, fn)
}

func (r *TicketRepository) DeleteByOrderID(ctx context.Context, orderID string) (int, error) {
	return r.col.DeleteBy(ctx, func(t ticket.Ticket) bool { return t.OrderID == orderID })
}

type RefundRepository struct {
	col Collection[refund.Refund]
}

func NewRefundRepository(col Collection[refund.Refund]) *RefundRepository {
	return &RefundRepository{col: col}
}

func (r *RefundRepository) FindByOrderID(ctx context.Context, orderID string) ([]refund.Refund, error) {
	return r.col.FindBy(ctx, func(rf refund.Refund) bool { return rf.OrderID == orderID })
}

func (r *RefundRepository) Upsert(ctx context.Context, rf refund.Refund) error {
	return r.col.Upsert(ctx, rf)
}

type UserRepository struct {
	col Collection[user.User]
}

func NewUserRepository(col Collection[user.User]) *UserRepository {
	return &UserRepository{col: col}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (user.User, bool, error) {
	return r.col.FindByID(ctx, id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (user.User, bool, error) {
	matches, err := r.col.FindBy(ctx, func(u user.User) bool { return u.Username == username })
	if err != nil || len(matches) == 0 {
		return user.User{}, false, err
	}
	return matches[0], true, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (user.User, bool, error) {
	matches, err := r.col.FindBy(ctx, func(u user.User) bool { return u.Email == email })
	if err != nil || len(matches) == 0 {
		return user.User{}, false, err
	}
	return matches[0], true, nil
}

func (r *UserRepository) Upsert(ctx context.Context, u user.User) error {
	return r.col.Upsert(ctx, u)
}

type FeedbackRepository struct {
	col Collection[feedback.Feedback]
}

func NewFeedbackRepository(col Collection[feedback.Feedback]) *FeedbackRepository {
	return &FeedbackRepository{col: col}
}

func (r *FeedbackRepository) FindByID(ctx context.Context, id string) (feedback.Feedback, bool, error) {
	return r.col.FindByID(ctx, id)
}

func (r *FeedbackRepository) FindByStatus(ctx context.Context, status feedback.Status) ([]feedback.Feedback, error) {
	return r.col.FindBy(ctx, func(f feedback.Feedback) bool { return f.Status == status })
}

func (r *FeedbackRepository) All(ctx context.Context) ([]feedback.Feedback, error) {
	return r.col.All(ctx)
}

func (r *FeedbackRepository) Upsert(ctx context.Context, f feedback.Feedback) error {
	return r.col.Upsert(ctx, f)
}

type ResponseRepository struct {
	col Collection[feedback.Response]
}

func NewResponseRepository(col Collection[feedback.Response]) *ResponseRepository {
	return &ResponseRepository{col: col}
}

func (r *ResponseRepository) FindByFeedbackID(ctx context.Context, feedbackID string) ([]feedback.Response, error) {
	return r.col.FindBy(ctx, func(resp feedback.Response) bool { return resp.FeedbackID == feedbackID })
}

func (r *ResponseRepository) Upsert(ctx context.Context, resp feedback.Response) error {
	return r.col.Upsert(ctx, resp)
}

type NotificationRepository struct {
	col Collection[notification.Notification]
}

func NewNotificationRepository(col Collection[notification.Notification]) *NotificationRepository {
	return &NotificationRepository{col: col}
}

func (r *NotificationRepository) FindByRecipient(ctx context.Context, userID string) ([]notification.Notification, error) {
	return r.col.FindBy(ctx, func(n notification.Notification) bool { return n.RecipientUserID == userID })
}

func (r *NotificationRepository) Upsert(ctx context.Context, n notification.Notification) error {
	return r.col.Upsert(ctx, n)
}

type RouteRepository struct {
	col Collection[transit.Route]
}

func NewRouteRepository(col Collection[transit.Route]) *RouteRepository {
	return &RouteRepository{col: col}
}

func (r *RouteRepository) FindByID(ctx context.Context, id string) (transit.Route, bool, error) {
	return r.col.FindByID(ctx, id)
}

func (r *RouteRepository) All(ctx context.Context) ([]transit.Route, error) {
	return r.col.All(ctx)
}

func (r *RouteRepository) Upsert(ctx context.Context, rt transit.Route) error {
	return r.col.Upsert(ctx, rt)
}

type StopRepository struct {
	col Collection[transit.Stop]
}

func NewStopRepository(col Collection[transit.Stop]) *StopRepository {
	return &StopRepository{col: col}
}

func (r *StopRepository) FindByID(ctx context.Context, id string) (transit.Stop, bool, error) {
	return r.col.FindByID(ctx, id)
}

func (r *StopRepository) All(ctx context.Context) ([]transit.Stop, error) {
	return r.col.All(ctx)
}

func (r *StopRepository) Upsert(ctx context.Context, s transit.Stop) error {
	return r.col.Upsert(ctx, s)
}

type LocationRepository struct {
	col Collection[transit.Location]
}

func NewLocationRepository(col Collection[transit.Location]) *LocationRepository {
	return &LocationRepository{col: col}
}

func (r *LocationRepository) FindByID(ctx context.Context, id string) (transit.Location, bool, error) {
	return r.col.FindByID(ctx, id)
}

func (r *LocationRepository) Upsert(ctx context.Context, l transit.Location) error {
	return r.col.Upsert(ctx, l)
}

func (r *LocationRepository) Update(ctx context.Context, id string, fn func(*transit.Location) error) error {
	return r.col.Update(ctx, id, fn)
}

type OutboxRepository struct {
	col Collection[outbox.Event]
}

func NewOutboxRepository(col Collection[outbox.Event]) *OutboxRepository {
	return &OutboxRepository{col: col}
}

func (r *OutboxRepository) Append(ctx context.Context, e outbox.Event) error {
	return r.col.Upsert(ctx, e)
}

// FetchBatch returns up to limit unpublished events, oldest first.
func (r *OutboxRepository) FetchBatch(ctx context.Context, limit int) ([]outbox.Event, error) {
	pending, err := r.col.FindBy(ctx, func(e outbox.Event) bool { return e.Status == outbox.StatusNew })
	if err != nil {
		return nil, err
	}
	sortEventsByCreatedAt(pending)
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

// MarkPublished flips the given events to published. Already-published events
// are left untouched so a worker retry is harmless.
func (r *OutboxRepository) MarkPublished(ctx context.Context, ids []string, at time.Time) error {
	for _, id := range ids {
		err := r.col.Update(ctx, id, func(e *outbox.Event) error {
			if e.Status == outbox.StatusPublished {
				return nil
			}
			e.Status = outbox.StatusPublished
			e.PublishedAt = &at
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func sortEventsByCreatedAt(events []outbox.Event) {
	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
}
