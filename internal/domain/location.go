package domain

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// DefaultMaxLocations is the number of search matches accepted when the
// caller does not set a limit.
const DefaultMaxLocations = 5

// Location is one MetaWeather search match.
type Location struct {
	Title        string    `json:"title"`
	LocationType string    `json:"location_type"`
	WOEID        int64     `json:"woeid"`
	LattLong     string    `json:"latt_long"`
	Parent       *Location `json:"parent,omitempty"`
}

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

// Coordinates parses the location's latt_long field.
func (l Location) Coordinates() (Coordinates, error) {
	return ParseCoordinates(l.LattLong)
}

// ParseCoordinates parses a MetaWeather "lat,long" string.
func ParseCoordinates(lattLong string) (Coordinates, error) {
	latStr, longStr, ok := strings.Cut(lattLong, ",")
	if !ok {
		return Coordinates{}, fmt.Errorf("parse latt_long %q: missing comma", lattLong)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse latitude %q: %w", latStr, err)
	}
	long, err := strconv.ParseFloat(strings.TrimSpace(longStr), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse longitude %q: %w", longStr, err)
	}
	return Coordinates{Lat: lat, Long: long}, nil
}

// SelectLocations applies the ambiguity rules to a decoded search result.
// An exact count of maxMatches is accepted; only strictly more is rejected.
// A maxMatches of zero or less means DefaultMaxLocations.
func SelectLocations(locations []Location, maxMatches int) ([]Location, error) {
	if maxMatches <= 0 {
		maxMatches = DefaultMaxLocations
	}
	if len(locations) == 0 {
		return nil, ErrLocationNotFound
	}
	if len(locations) > maxMatches {
		return nil, fmt.Errorf("%w: %d matches, limit %d", ErrTooManyLocations, len(locations), maxMatches)
	}
	return locations, nil
}

// LocationResolver turns a free-text query into matching locations.
type LocationResolver interface {
	// ResolveLocations returns the matches in upstream relevance order.
	ResolveLocations(ctx context.Context, query string, maxMatches int) ([]Location, error)
}
