package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dchgoh/SWE30003-ART-System/internal/domain/order"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/payment"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/trip"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/user"
	"github.com/dchgoh/SWE30003-ART-System/internal/usecase"
)

func TestStatusFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want int
	}{
		{usecase.ErrInvalidQuantity, http.StatusBadRequest},
		{user.ErrInvalidCredentials, http.StatusUnauthorized},
		{order.ErrNotOwner, http.StatusForbidden},
		{trip.ErrNotFound, http.StatusNotFound},
		{order.ErrNotFound, http.StatusNotFound},
		{trip.ErrInsufficientSeats, http.StatusConflict},
		{order.ErrNotRefundable, http.StatusConflict},
		{user.ErrUsernameTaken, http.StatusConflict},
		{payment.ErrDeclined, http.StatusUnprocessableEntity},
		{usecase.ErrNoTicketsForRefund, http.StatusUnprocessableEntity},
		{errors.New("anything else"), http.StatusInternalServerError},
		// Wrapped sentinels still map.
		{fmt.Errorf("settle payment: %w", payment.ErrDeclined), http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Errorf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
