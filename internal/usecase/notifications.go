package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dchgoh/SWE30003-ART-System/internal/clock"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/notification"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/outbox"
)

const EventNotificationCreated = "notification.created"

// Notifier records fire-and-forget notifications and queues an outbox event
// for each one. Delivery happens asynchronously in the worker; a notifier
// failure never fails the operation that triggered it.
type Notifier struct {
	notifications NotificationStore
	outbox        OutboxStore
	clock         clock.Clock
}

func NewNotifier(notifications NotificationStore, ob OutboxStore, clk clock.Clock) *Notifier {
	return &Notifier{notifications: notifications, outbox: ob, clock: clk}
}

type NotifyParams struct {
	RecipientUserID string
	SenderUserID    string
	Message         string
	Type            string
	CorrelationID   string
}

func (n *Notifier) Notify(ctx context.Context, params NotifyParams) (notification.Notification, error) {
	note := notification.Notification{
		ID:              uuid.New().String(),
		RecipientUserID: params.RecipientUserID,
		SenderUserID:    params.SenderUserID,
		Message:         params.Message,
		Type:            params.Type,
		CreatedAt:       n.clock.Now(),
	}
	if err := n.notifications.Upsert(ctx, note); err != nil {
		return notification.Notification{}, fmt.Errorf("persist notification: %w", err)
	}

	payload, err := json.Marshal(note)
	if err != nil {
		return notification.Notification{}, fmt.Errorf("encode notification payload: %w", err)
	}
	evt := outbox.Event{
		ID:            uuid.New().String(),
		EventType:     EventNotificationCreated,
		Payload:       payload,
		Status:        outbox.StatusNew,
		CorrelationID: params.CorrelationID,
		Producer:      "api",
		CreatedAt:     n.clock.Now(),
	}
	if err := n.outbox.Append(ctx, evt); err != nil {
		return notification.Notification{}, fmt.Errorf("append outbox event: %w", err)
	}
	return note, nil
}

func (n *Notifier) ListForUser(ctx context.Context, userID string) ([]notification.Notification, error) {
	return n.notifications.FindByRecipient(ctx, userID)
}
