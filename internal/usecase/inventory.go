package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/dchgoh/SWE30003-ART-System/internal/domain/trip"
	"github.com/dchgoh/SWE30003-ART-System/internal/storage"
)

// InventoryLedger owns seat-count mutation for trips. Reserve and Release
// each run as one exclusive read-modify-write cycle on the trip collection,
// so concurrent reservations on the same trip serialise instead of losing
// updates.
type InventoryLedger struct {
	trips TripStore
}

func NewInventoryLedger(trips TripStore) *InventoryLedger {
	return &InventoryLedger{trips: trips}
}

// Reserve decrements availableSeats or fails with trip.ErrInsufficientSeats.
func (l *InventoryLedger) Reserve(ctx context.Context, tripID string, quantity int) error {
	err := l.trips.Update(ctx, tripID, func(t *trip.Trip) error {
		return t.Reserve(quantity)
	})
	if errors.Is(err, storage.ErrNotFound) {
		return trip.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("reserve %d seat(s) on trip %s: %w", quantity, tripID, err)
	}
	return nil
}

// Release returns seats to the trip. It is used both by refunds and by
// booking compensation. A release that would exceed the trip's capacity
// fails with trip.ErrConsistency.
func (l *InventoryLedger) Release(ctx context.Context, tripID string, quantity int) error {
	err := l.trips.Update(ctx, tripID, func(t *trip.Trip) error {
		return t.Release(quantity)
	})
	if errors.Is(err, storage.ErrNotFound) {
		return trip.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("release %d seat(s) on trip %s: %w", quantity, tripID, err)
	}
	return nil
}
