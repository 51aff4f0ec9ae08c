package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dchgoh/SWE30003-ART-System/internal/domain/feedback"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/order"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/payment"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/ticket"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/transit"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/trip"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/user"
	"github.com/dchgoh/SWE30003-ART-System/internal/usecase"
)

// statusFor maps domain sentinels to HTTP statuses; anything unmapped is a
// 500 so internal failures are never mistaken for client mistakes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidQuantity),
		errors.Is(err, usecase.ErrWeakPassword),
		errors.Is(err, usecase.ErrInvalidRating),
		errors.Is(err, feedback.ErrEmptyContent):
		return http.StatusBadRequest
	case errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, order.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, trip.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, payment.ErrNotFound),
		errors.Is(err, ticket.ErrNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, feedback.ErrNotFound),
		errors.Is(err, transit.ErrRouteNotFound),
		errors.Is(err, transit.ErrStopNotFound):
		return http.StatusNotFound
	case errors.Is(err, trip.ErrInsufficientSeats),
		errors.Is(err, order.ErrNotRefundable),
		errors.Is(err, user.ErrUsernameTaken),
		errors.Is(err, user.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, payment.ErrDeclined),
		errors.Is(err, usecase.ErrNoTicketsForRefund),
		errors.Is(err, transit.ErrStopNotOnRoute):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		// Internal details stay in the logs.
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
