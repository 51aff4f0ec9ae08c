package jsonstore

import (
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
	"github.com/dchgoh/SWE30003-ART-System/internal/storage"
)

// NewStore builds the full repository bundle over JSON files in dir.
func NewStore(dir string) *storage.Store {
	return &storage.Store{
		Trips:         storage.NewTripRepository(NewCollection(dir, "trips", func(t trip.Trip) string { return t.ID })),
		Orders:        storage.NewOrderRepository(NewCollection(dir, "orders", func(o order.Order) string { return o.ID })),
		LineItems:     storage.NewLineItemRepository(NewCollection(dir, "order_line_items", func(li order.LineItem) string { return li.ID })),
		Payments:      storage.NewPaymentRepository(NewCollection(dir, "payments", func(p payment.Payment) string { return p.ID })),
		Tickets:       storage.NewTicketRepository(NewCollection(dir, "tickets", func(t ticket.Ticket) string { return t.ID })),
		Refunds:       storage.NewRefundRepository(NewCollection(dir, "refunds", func(r refund.Refund) string { return r.ID })),
		Users:         storage.NewUserRepository(NewCollection(dir, "users", func(u user.User) string { return u.ID })),
		Feedback:      storage.NewFeedbackRepository(NewCollection(dir, "feedback", func(f feedback.Feedback) string { return f.ID })),
		Responses:     storage.NewResponseRepository(NewCollection(dir, "responses", func(r feedback.Response) string { return r.ID })),
		Notifications: storage.NewNotificationRepository(NewCollection(dir, "notifications", func(n notification.Notification) string { return n.ID })),
		Routes:        storage.NewRouteRepository(NewCollection(dir, "routes", func(r transit.Route) string { return r.ID })),
		Stops:         storage.NewStopRepository(NewCollection(dir, "stops", func(s transit.Stop) string { return s.ID })),
		Locations:     storage.NewLocationRepository(NewCollection(dir, "locations", func(l transit.Location) string { return l.ID })),
		Outbox:        storage.NewOutboxRepository(NewCollection(dir, "outbox", func(e outbox.Event) string { return e.ID })),
	}
}
