package cli

import (
	"fmt"

	"github.com/savorhq/savor/internal/savor"
)

// checkLimit bounds result-count flags.
func checkLimit(limit int) error {
	if limit < 1 || limit > 1000 {
		return fmt.Errorf("limit must be between 1 and 1000, got %d", limit)
	}
	return nil
}

// geoPoint validates an optional latitude/longitude flag pair. Both
// must be given together; the zero sentinel 999 marks an unset flag.
const unsetCoord = 999

func geoPoint(lat, lon float64) (*savor.GeoPoint, error) {
	latSet := lat != unsetCoord
	lonSet := lon != unsetCoord
	if latSet != lonSet {
		return nil, fmt.Errorf("--lat and --lon must be provided together")
	}
	if !latSet {
		return nil, nil
	}
	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("latitude must be between -90 and 90, got %g", lat)
	}
	if lon < -180 || lon > 180 {
		return nil, fmt.Errorf("longitude must be between -180 and 180, got %g", lon)
	}
	return &savor.GeoPoint{Latitude: lat, Longitude: lon}, nil
}
