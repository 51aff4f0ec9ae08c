package notification

import "time"

const (
	TypeGeneral          = "General"
	TypeFeedbackResponse = "FeedbackResponse"
	TypeRefundProcessed  = "RefundProcessed"
)

// Notification is a fire-and-forget message to a user. It sits outside the
// booking/refund transactional boundary.
type Notification struct {
	ID              string    `json:"notificationID"`
	RecipientUserID string    `json:"recipientUserID"`
	SenderUserID    string    `json:"senderUserID"`
	Message         string    `json:"messageContent"`
	Type            string    `json:"notificationType"`
	CreatedAt       time.Time `json:"createdDatetime"`
	Read            bool      `json:"read"`
}
