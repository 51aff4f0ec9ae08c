package pgstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

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

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

func NewPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

var tables = []string{
	"trips", "orders", "order_line_items", "payments", "tickets", "refunds",
	"users", "feedback", "responses", "notifications", "routes", "stops",
	"locations", "outbox",
}

// Migrate creates the document tables if they are missing.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, table := range tables {
		sql := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (id text PRIMARY KEY, doc jsonb NOT NULL)`, table)
		if _, err := pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
	}
	return nil
}

// NewStore builds the full repository bundle over document tables.
func NewStore(pool *pgxpool.Pool) *storage.Store {
	return &storage.Store{
		Trips:         storage.NewTripRepository(NewCollection(pool, "trips", func(t trip.Trip) string { return t.ID })),
		Orders:        storage.NewOrderRepository(NewCollection(pool, "orders", func(o order.Order) string { return o.ID })),
		LineItems:     storage.NewLineItemRepository(NewCollection(pool, "order_line_items", func(li order.LineItem) string { return li.ID })),
		Payments:      storage.NewPaymentRepository(NewCollection(pool, "payments", func(p payment.Payment) string { return p.ID })),
		Tickets:       storage.NewTicketRepository(NewCollection(pool, "tickets", func(t ticket.Ticket) string { return t.ID })),
		Refunds:       storage.NewRefundRepository(NewCollection(pool, "refunds", func(r refund.Refund) string { return r.ID })),
		Users:         storage.NewUserRepository(NewCollection(pool, "users", func(u user.User) string { return u.ID })),
		Feedback:      storage.NewFeedbackRepository(NewCollection(pool, "feedback", func(f feedback.Feedback) string { return f.ID })),
		Responses:     storage.NewResponseRepository(NewCollection(pool, "responses", func(r feedback.Response) string { return r.ID })),
		Notifications: storage.NewNotificationRepository(NewCollection(pool, "notifications", func(n notification.Notification) string { return n.ID })),
		Routes:        storage.NewRouteRepository(NewCollection(pool, "routes", func(r transit.Route) string { return r.ID })),
		Stops:         storage.NewStopRepository(NewCollection(pool, "stops", func(s transit.Stop) string { return s.ID })),
		Locations:     storage.NewLocationRepository(NewCollection(pool, "locations", func(l transit.Location) string { return l.ID })),
		Outbox:        storage.NewOutboxRepository(NewCollection(pool, "outbox", func(e outbox.Event) string { return e.ID })),
	}
}
