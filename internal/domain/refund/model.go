package refund

import "time"

type Status string

const (
	StatusPending   Status = "Pending"
	StatusProcessed Status = "Processed"
	StatusFailed    Status = "Failed"
)

// Refund is a monetary reversal record tied to one payment, order and ticket.
// One refund record exists per voided ticket.
type Refund struct {
	ID          string     `json:"refundID"`
	PaymentID   string     `json:"paymentID"`
	OrderID     string     `json:"orderID"`
	TicketID    string     `json:"ticketID"`
	Amount      float64    `json:"refundAmount"`
	Reason      string     `json:"refundReason"`
	Status      Status     `json:"status"`
	RequestedAt time.Time  `json:"requestDatetime"`
	ProcessedAt *time.Time `json:"processedDatetime,omitempty"`
}

func (r *Refund) MarkProcessed(now time.Time) {
	r.Status = StatusProcessed
	if r.ProcessedAt == nil {
		r.ProcessedAt = &now
	}
}

func (r *Refund) MarkFailed(now time.Time) {
	r.Status = StatusFailed
	if r.ProcessedAt == nil {
		r.ProcessedAt = &now
	}
}
