package transit

import "errors"

var (
	ErrRouteNotFound  = errors.New("route not found")
	ErrStopNotFound   = errors.New("stop not found")
	ErrStopNotOnRoute = errors.New("stop is not part of this route")
)

// Route is an ordered sequence of stops.
type Route struct {
	ID      string   `json:"routeID"`
	Name    string   `json:"routeName"`
	StopIDs []string `json:"stopIDs"`
}

// HasStop reports whether the stop belongs to this route.
func (r Route) HasStop(stopID string) bool {
	for _, id := range r.StopIDs {
		if id == stopID {
			return true
		}
	}
	return false
}

// Stop references its geocoded Location by ID.
type Stop struct {
	ID         string `json:"stopID"`
	Name       string `json:"stopName"`
	LocationID string `json:"locationID"`
}

type Location struct {
	ID        string  `json:"locationID"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
	City      string  `json:"city"`
	Postcode  string  `json:"postcode"`
}

// SetDetails replaces the location's geographic details in one step.
func (l *Location) SetDetails(lat, long float64, address, city, postcode string) {
	l.Latitude = lat
	l.Longitude = long
	l.Address = address
	l.City = city
	l.Postcode = postcode
}
