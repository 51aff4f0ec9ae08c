package feedback

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("feedback not found")
	ErrEmptyContent = errors.New("content cannot be empty")
)

type Status string

const (
	StatusOpen      Status = "Open"
	StatusResponded Status = "Responded"
	StatusClosed    Status = "Closed"
)

// Feedback is a user-submitted note, optionally rated and tied to a trip.
type Feedback struct {
	ID              string    `json:"feedbackID"`
	SubmitterUserID string    `json:"submitterUserID"`
	Content         string    `json:"feedbackContent"`
	Rating          *int      `json:"rating,omitempty"`
	RelatedTripID   string    `json:"relatedTripID,omitempty"`
	Status          Status    `json:"status"`
	SubmittedAt     time.Time `json:"submissionDatetime"`
	ResponseIDs     []string  `json:"responseIDs,omitempty"`
}

func (f *Feedback) AddResponse(responseID string) {
	f.ResponseIDs = append(f.ResponseIDs, responseID)
	f.Status = StatusResponded
}

// Response is an admin reply to one feedback entry.
type Response struct {
	ID               string    `json:"responseID"`
	FeedbackID       string    `json:"feedbackID"`
	ResponderAdminID string    `json:"responderAdminID"`
	Content          string    `json:"responseContent"`
	CreatedAt        time.Time `json:"responseDatetime"`
}
