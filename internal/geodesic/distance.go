// Package geodesic holds the great-circle math used when ingesting trips.
package geodesic

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean earth radius.
const EarthRadiusMeters = 6371000.0

var (
	ErrNotFinite      = errors.New("coordinate is not a finite number")
	ErrLatitudeRange  = errors.New("latitude must be within [-90, 90]")
	ErrLongitudeRange = errors.New("longitude must be within [-180, 180]")
)

type Coordinate struct {
	Latitude  float64
	Longitude float64
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%.5f, %.5f)", c.Latitude, c.Longitude)
}

// Validate checks c against the WGS84 degree ranges.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) ||
		math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) {
		return ErrNotFinite
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return ErrLatitudeRange
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return ErrLongitudeRange
	}
	return nil
}

func (c Coordinate) latLng() s2.LatLng {
	return s2.LatLngFromDegrees(c.Latitude, c.Longitude)
}

// Distance returns the haversine distance between a and b in meters.
func Distance(a, b Coordinate) float64 {
	return a.latLng().Distance(b.latLng()).Radians() * EarthRadiusMeters
}

// PathLength sums Distance over consecutive coordinates.
func PathLength(path []Coordinate) float64 {
	var total float64
	for i := 1; i < len(path); i++ {
		total += Distance(path[i-1], path[i])
	}
	return total
}

// Speed is meters per second over elapsed. It is 0 for non-positive durations.
func Speed(meters float64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return meters / elapsed.Seconds()
}

// Round5 rounds a degree value to five decimal places (about 1.1 m).
func Round5(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}
