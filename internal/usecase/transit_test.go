package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/dchgoh/SWE30003-ART-System/internal/domain/transit"
	"github.com/dchgoh/SWE30003-ART-System/internal/storage"
	"github.com/dchgoh/SWE30003-ART-System/internal/storage/jsonstore"
)

func newNetwork(t *testing.T) (*TransitNetwork, *storage.Store) {
	t.Helper()
	store := jsonstore.NewStore(t.TempDir())
	ctx := context.Background()

	seedRoutes := []transit.Route{
		{ID: "r1", Name: "Route 900", StopIDs: []string{"s1", "s2"}},
		{ID: "r2", Name: "Route 901", StopIDs: []string{"s3"}},
	}
	for _, r := range seedRoutes {
		if err := store.Routes.Upsert(ctx, r); err != nil {
			t.Fatalf("seed route: %v", err)
		}
	}
	for _, s := range []transit.Stop{
		{ID: "s1", Name: "Caulfield", LocationID: "l1"},
		{ID: "s2", Name: "Chadstone", LocationID: "l2"},
		{ID: "s3", Name: "Oakleigh", LocationID: "l3"},
	} {
		if err := store.Stops.Upsert(ctx, s); err != nil {
			t.Fatalf("seed stop: %v", err)
		}
	}
	for _, l := range []transit.Location{
		{ID: "l1", Latitude: -37.88, Longitude: 145.04, City: "Melbourne"},
		{ID: "l2", Latitude: -37.89, Longitude: 145.08, City: "Melbourne"},
	} {
		if err := store.Locations.Upsert(ctx, l); err != nil {
			t.Fatalf("seed location: %v", err)
		}
	}
	return NewTransitNetwork(store.Routes, store.Stops, store.Locations), store
}

func TestTransitNetworkDetails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	network, _ := newNetwork(t)

	details, err := network.Details(ctx, "r1")
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if len(details.Stops) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(details.Stops))
	}
	if details.Stops[0].Location == nil || details.Stops[0].Location.ID != "l1" {
		t.Fatalf("expected location l1 on first stop, got %+v", details.Stops[0].Location)
	}

	t.Run("dangling location is tolerated", func(t *testing.T) {
		// s3 points at l3, which was never written.
		got, err := network.Details(ctx, "r2")
		if err != nil {
			t.Fatalf("details: %v", err)
		}
		if len(got.Stops) != 1 || got.Stops[0].Location != nil {
			t.Fatalf("expected stop without location, got %+v", got.Stops)
		}
	})

	if _, err := network.Details(ctx, "missing"); !errors.Is(err, transit.ErrRouteNotFound) {
		t.Fatalf("expected ErrRouteNotFound, got %v", err)
	}
}

func TestTransitNetworkUpdateStopLocation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	network, store := newNetwork(t)

	t.Run("updates a stop on the route", func(t *testing.T) {
		loc, err := network.UpdateStopLocation(ctx, UpdateStopLocationParams{
			RouteID:   "r1",
			StopID:    "s1",
			Latitude:  -37.00,
			Longitude: 145.00,
			Address:   "1 New St",
			City:      "Melbourne",
			Postcode:  "3145",
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if loc.Address != "1 New St" {
			t.Fatalf("address not updated: %+v", loc)
		}
		stored, _, _ := store.Locations.FindByID(ctx, "l1")
		if stored.Latitude != -37.00 || stored.Postcode != "3145" {
			t.Fatalf("location not persisted: %+v", stored)
		}
	})

	t.Run("stop must belong to the route", func(t *testing.T) {
		_, err := network.UpdateStopLocation(ctx, UpdateStopLocationParams{RouteID: "r1", StopID: "s3"})
		if !errors.Is(err, transit.ErrStopNotOnRoute) {
			t.Fatalf("expected ErrStopNotOnRoute, got %v", err)
		}
	})
}
