package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dchgoh/SWE30003-ART-System/internal/clock"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/feedback"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/notification"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// FeedbackDesk takes user submissions and admin responses. A response also
// notifies the submitter through the Notifier.
type FeedbackDesk struct {
	feedback  FeedbackStore
	responses ResponseStore
	notifier  *Notifier
	clock     clock.Clock
}

func NewFeedbackDesk(fb FeedbackStore, responses ResponseStore, notifier *Notifier, clk clock.Clock) *FeedbackDesk {
	return &FeedbackDesk{feedback: fb, responses: responses, notifier: notifier, clock: clk}
}

type SubmitFeedbackParams struct {
	UserID        string
	Content       string
	Rating        *int
	RelatedTripID string
}

func (d *FeedbackDesk) Submit(ctx context.Context, params SubmitFeedbackParams) (feedback.Feedback, error) {
	if strings.TrimSpace(params.Content) == "" {
		return feedback.Feedback{}, feedback.ErrEmptyContent
	}
	if params.Rating != nil && (*params.Rating < 1 || *params.Rating > 5) {
		return feedback.Feedback{}, ErrInvalidRating
	}
	f := feedback.Feedback{
		ID:              uuid.New().String(),
		SubmitterUserID: params.UserID,
		Content:         params.Content,
		Rating:          params.Rating,
		RelatedTripID:   params.RelatedTripID,
		Status:          feedback.StatusOpen,
		SubmittedAt:     d.clock.Now(),
	}
	if err := d.feedback.Upsert(ctx, f); err != nil {
		return feedback.Feedback{}, fmt.Errorf("persist feedback: %w", err)
	}
	return f, nil
}

// FeedbackWithResponses pairs one feedback entry with its responses.
type FeedbackWithResponses struct {
	Feedback  feedback.Feedback
	Responses []feedback.Response
}

// List returns all feedback, each enriched with its responses.
func (d *FeedbackDesk) List(ctx context.Context) ([]FeedbackWithResponses, error) {
	all, err := d.feedback.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	out := make([]FeedbackWithResponses, 0, len(all))
	for _, f := range all {
		resps, err := d.responses.FindByFeedbackID(ctx, f.ID)
		if err != nil {
			return nil, fmt.Errorf("load responses for feedback %s: %w", f.ID, err)
		}
		out = append(out, FeedbackWithResponses{Feedback: f, Responses: resps})
	}
	return out, nil
}

type RespondParams struct {
	FeedbackID string
	AdminID    string
	Content    string
}

// Respond records an admin reply, marks the feedback Responded and notifies
// the submitter. A notification failure is reported but does not undo the
// response.
func (d *FeedbackDesk) Respond(ctx context.Context, params RespondParams) (feedback.Response, error) {
	if strings.TrimSpace(params.Content) == "" {
		return feedback.Response{}, feedback.ErrEmptyContent
	}
	f, ok, err := d.feedback.FindByID(ctx, params.FeedbackID)
	if err != nil {
		return feedback.Response{}, fmt.Errorf("load feedback: %w", err)
	}
	if !ok {
		return feedback.Response{}, feedback.ErrNotFound
	}

	resp := feedback.Response{
		ID:               uuid.New().String(),
		FeedbackID:       f.ID,
		ResponderAdminID: params.AdminID,
		Content:          params.Content,
		CreatedAt:        d.clock.Now(),
	}
	if err := d.responses.Upsert(ctx, resp); err != nil {
		return feedback.Response{}, fmt.Errorf("persist response: %w", err)
	}

	f.AddResponse(resp.ID)
	if err := d.feedback.Upsert(ctx, f); err != nil {
		return feedback.Response{}, fmt.Errorf("update feedback: %w", err)
	}

	if _, err := d.notifier.Notify(ctx, NotifyParams{
		RecipientUserID: f.SubmitterUserID,
		SenderUserID:    params.AdminID,
		Message:         fmt.Sprintf("Your feedback has received a response: %s", params.Content),
		Type:            notification.TypeFeedbackResponse,
		CorrelationID:   f.ID,
	}); err != nil {
		return resp, fmt.Errorf("notify submitter: %w", err)
	}
	return resp, nil
}
