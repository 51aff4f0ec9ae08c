package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dchgoh/SWE30003-ART-System/internal/domain/trip"
)

// TripCatalogue serves trip search and lookup, and lets admins add trips.
type TripCatalogue struct {
	trips TripStore
}

func NewTripCatalogue(trips TripStore) *TripCatalogue {
	return &TripCatalogue{trips: trips}
}

type TripFilter struct {
	Origin      string
	Destination string
	// Date filters by the trip's departure calendar day (UTC) when non-zero.
	Date time.Time
}

// Search lists trips with seats left, filtered by case-insensitive substring
// match on origin and destination and by departure date.
func (c *TripCatalogue) Search(ctx context.Context, filter TripFilter) ([]trip.Trip, error) {
	all, err := c.trips.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	matched := make([]trip.Trip, 0, len(all))
	for _, t := range all {
		if t.AvailableSeats <= 0 {
			continue
		}
		if filter.Origin != "" && !containsFold(t.Origin, filter.Origin) {
			continue
		}
		if filter.Destination != "" && !containsFold(t.Destination, filter.Destination) {
			continue
		}
		if !filter.Date.IsZero() && !sameDay(t.DepartureTime, filter.Date) {
			continue
		}
		matched = append(matched, t)
	}
	return matched, nil
}

func (c *TripCatalogue) Details(ctx context.Context, tripID string) (trip.Trip, error) {
	t, ok, err := c.trips.FindByID(ctx, tripID)
	if err != nil {
		return trip.Trip{}, fmt.Errorf("load trip: %w", err)
	}
	if !ok {
		return trip.Trip{}, trip.ErrNotFound
	}
	return t, nil
}

type CreateTripParams struct {
	Origin        string
	Destination   string
	DepartureTime time.Time
	Price         float64
	Seats         int
}

// Create registers a new trip. The initial seat count fixes the capacity used
// by the release consistency guard for the trip's whole lifetime.
func (c *TripCatalogue) Create(ctx context.Context, params CreateTripParams) (trip.Trip, error) {
	t := trip.Trip{
		ID:             uuid.New().String(),
		Origin:         params.Origin,
		Destination:    params.Destination,
		DepartureTime:  params.DepartureTime,
		Price:          params.Price,
		AvailableSeats: params.Seats,
		Capacity:       params.Seats,
	}
	if err := c.trips.Upsert(ctx, t); err != nil {
		return trip.Trip{}, fmt.Errorf("create trip: %w", err)
	}
	return t, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
