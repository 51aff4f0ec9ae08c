package outbox

import (
	"encoding/json"
	"time"
)

const (
	StatusNew       = "new"
	StatusPublished = "published"
)

// Event is a pending publication. Events are appended to the store alongside
// the records that caused them and published asynchronously by the worker.
type Event struct {
	ID            string          `json:"id"`
	EventType     string          `json:"eventType"`
	Payload       json.RawMessage `json:"payload"`
	Status        string          `json:"status"`
	CorrelationID string          `json:"correlationID"`
	Producer      string          `json:"producer"`
	CreatedAt     time.Time       `json:"createdAt"`
	PublishedAt   *time.Time      `json:"publishedAt,omitempty"`
}
