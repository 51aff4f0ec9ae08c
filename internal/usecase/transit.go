package usecase

import (
	"context"
	"fmt"

	"github.com/dchgoh/SWE30003-ART-System/internal/domain/transit"
)

// TransitNetwork reads the route map and lets admins move stop locations.
type TransitNetwork struct {
	routes    RouteStore
	stops     StopStore
	locations LocationStore
}

func NewTransitNetwork(routes RouteStore, stops StopStore, locations LocationStore) *TransitNetwork {
	return &TransitNetwork{routes: routes, stops: stops, locations: locations}
}

func (n *TransitNetwork) ListRoutes(ctx context.Context) ([]transit.Route, error) {
	return n.routes.All(ctx)
}

// StopDetails is a stop joined with its location, when one is on file.
type StopDetails struct {
	Stop     transit.Stop
	Location *transit.Location
}

type RouteDetails struct {
	Route transit.Route
	Stops []StopDetails
}

// Details resolves a route's stops in order, attaching each stop's location.
// A dangling stop or location reference is skipped rather than failing the
// whole route.
func (n *TransitNetwork) Details(ctx context.Context, routeID string) (RouteDetails, error) {
	r, ok, err := n.routes.FindByID(ctx, routeID)
	if err != nil {
		return RouteDetails{}, fmt.Errorf("load route: %w", err)
	}
	if !ok {
		return RouteDetails{}, transit.ErrRouteNotFound
	}

	details := RouteDetails{Route: r, Stops: make([]StopDetails, 0, len(r.StopIDs))}
	for _, stopID := range r.StopIDs {
		s, ok, err := n.stops.FindByID(ctx, stopID)
		if err != nil {
			return RouteDetails{}, fmt.Errorf("load stop %s: %w", stopID, err)
		}
		if !ok {
			continue
		}
		sd := StopDetails{Stop: s}
		if s.LocationID != "" {
			loc, ok, err := n.locations.FindByID(ctx, s.LocationID)
			if err != nil {
				return RouteDetails{}, fmt.Errorf("load location %s: %w", s.LocationID, err)
			}
			if ok {
				sd.Location = &loc
			}
		}
		details.Stops = append(details.Stops, sd)
	}
	return details, nil
}

type UpdateStopLocationParams struct {
	RouteID   string
	StopID    string
	Latitude  float64
	Longitude float64
	Address   string
	City      string
	Postcode  string
}

// UpdateStopLocation rewrites the location of a stop, provided the stop is
// actually on the named route.
func (n *TransitNetwork) UpdateStopLocation(ctx context.Context, params UpdateStopLocationParams) (transit.Location, error) {
	r, ok, err := n.routes.FindByID(ctx, params.RouteID)
	if err != nil {
		return transit.Location{}, fmt.Errorf("load route: %w", err)
	}
	if !ok {
		return transit.Location{}, transit.ErrRouteNotFound
	}
	if !r.HasStop(params.StopID) {
		return transit.Location{}, transit.ErrStopNotOnRoute
	}

	s, ok, err := n.stops.FindByID(ctx, params.StopID)
	if err != nil {
		return transit.Location{}, fmt.Errorf("load stop: %w", err)
	}
	if !ok {
		return transit.Location{}, transit.ErrStopNotFound
	}

	var updated transit.Location
	err = n.locations.Update(ctx, s.LocationID, func(l *transit.Location) error {
		l.SetDetails(params.Latitude, params.Longitude, params.Address, params.City, params.Postcode)
		updated = *l
		return nil
	})
	if err != nil {
		return transit.Location{}, fmt.Errorf("update location %s: %w", s.LocationID, err)
	}
	return updated, nil
}
