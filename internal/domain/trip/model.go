package trip

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("trip not found")
	ErrInsufficientSeats = errors.New("not enough available seats")
	// ErrConsistency means a seat release would push availableSeats above the
	// trip's creation-time capacity. It indicates an orchestration bug, never
	// a legitimate business failure, and must not be compensated away.
	ErrConsistency = errors.New("seat count would exceed trip capacity")
)

// Trip is a scheduled service with a fixed seat capacity. AvailableSeats is
// mutated only through Reserve and Release, always inside a single
// read-modify-write cycle on the trip collection.
type Trip struct {
	ID             string    `json:"tripID"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departureTime"`
	Price          float64   `json:"price"`
	AvailableSeats int       `json:"availableSeats"`
	Capacity       int       `json:"capacity"`
}

// Reserve decrements the seat count or reports ErrInsufficientSeats.
func (t *Trip) Reserve(quantity int) error {
	if quantity < 1 {
		return ErrInsufficientSeats
	}
	if t.AvailableSeats < quantity {
		return ErrInsufficientSeats
	}
	t.AvailableSeats -= quantity
	return nil
}

// Release returns seats to the pool. Raising the count above capacity is a
// consistency violation.
func (t *Trip) Release(quantity int) error {
	if quantity < 1 {
		return nil
	}
	if t.AvailableSeats+quantity > t.Capacity {
		return ErrConsistency
	}
	t.AvailableSeats += quantity
	return nil
}
