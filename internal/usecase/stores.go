package usecase

import (
	"context"

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

// Store interfaces are declared on the consumer side so tests can substitute
// fakes; the storage package's typed repositories satisfy them.

type TripStore interface {
	FindByID(ctx context.Context, id string) (trip.Trip, bool, error)
	All(ctx context.Context) ([]trip.Trip, error)
	Upsert(ctx context.Context, t trip.Trip) error
	Update(ctx context.Context, id string, fn func(*trip.Trip) error) error
}

type OrderStore interface {
	FindByID(ctx context.Context, id string) (order.Order, bool, error)
	FindByUserID(ctx context.Context, userID string) ([]order.Order, error)
	Upsert(ctx context.Context, o order.Order) error
	Update(ctx context.Context, id string, fn func(*order.Order) error) error
}

type LineItemStore interface {
	FindByOrderID(ctx context.Context, orderID string) ([]order.LineItem, error)
	Upsert(ctx context.Context, li order.LineItem) error
}

type PaymentStore interface {
	FindByID(ctx context.Context, id string) (payment.Payment, bool, error)
	FindByOrderID(ctx context.Context, orderID string) (payment.Payment, bool, error)
	Upsert(ctx context.Context, p payment.Payment) error
	Update(ctx context.Context, id string, fn func(*payment.Payment) error) error
}

type TicketStore interface {
	FindByID(ctx context.Context, id string) (ticket.Ticket, bool, error)
	FindByOrderID(ctx context.Context, orderID string) ([]ticket.Ticket, error)
	Upsert(ctx context.Context, t ticket.Ticket) error
	Update(ctx context.Context, id string, fn func(*ticket.Ticket) error) error
	DeleteByOrderID(ctx context.Context, orderID string) (int, error)
}

type RefundStore interface {
	FindByOrderID(ctx context.Context, orderID string) ([]refund.Refund, error)
	Upsert(ctx context.Context, r refund.Refund) error
}

type UserStore interface {
	FindByID(ctx context.Context, id string) (user.User, bool, error)
	FindByUsername(ctx context.Context, username string) (user.User, bool, error)
	FindByEmail(ctx context.Context, email string) (user.User, bool, error)
	Upsert(ctx context.Context, u user.User) error
}

type FeedbackStore interface {
	FindByID(ctx context.Context, id string) (feedback.Feedback, bool, error)
	FindByStatus(ctx context.Context, status feedback.Status) ([]feedback.Feedback, error)
	All(ctx context.Context) ([]feedback.Feedback, error)
	Upsert(ctx context.Context, f feedback.Feedback) error
}

type ResponseStore interface {
	FindByFeedbackID(ctx context.Context, feedbackID string) ([]feedback.Response, error)
	Upsert(ctx context.Context, r feedback.Response) error
}

type NotificationStore interface {
	FindByRecipient(ctx context.Context, userID string) ([]notification.Notification, error)
	Upsert(ctx context.Context, n notification.Notification) error
}

type RouteStore interface {
	FindByID(ctx context.Context, id string) (transit.Route, bool, error)
	All(ctx context.Context) ([]transit.Route, error)
	Upsert(ctx context.Context, r transit.Route) error
}

type StopStore interface {
	FindByID(ctx context.Context, id string) (transit.Stop, bool, error)
	All(ctx context.Context) ([]transit.Stop, error)
	Upsert(ctx context.Context, s transit.Stop) error
}

type LocationStore interface {
	FindByID(ctx context.Context, id string) (transit.Location, bool, error)
	Upsert(ctx context.Context, l transit.Location) error
	Update(ctx context.Context, id string, fn func(*transit.Location) error) error
}

type OutboxStore interface {
	Append(ctx context.Context, e outbox.Event) error
}
