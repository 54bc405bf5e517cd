package trips

import (
	"math"
	"sort"
	"time"

	"trip_tracker/internal/apperr"
	"trip_tracker/internal/geodesic"
	"trip_tracker/internal/models"
)

// Processed is a validated trip ready to be stored.
type Processed struct {
	// Points are in time order; TripID is unset.
	Points []models.Point
	// Distance is the unrounded path length in meters.
	Distance float64
}

// RoundedDistance is the distance persisted on the trip row.
func (p Processed) RoundedDistance() int {
	return int(math.Round(p.Distance))
}

// Process validates samples and derives per-point speeds and the total
// distance over the time-sorted sequence. It never touches storage.
func Process(op string, samples []models.Sample) (Processed, error) {
	sorted, err := normalize(op, samples)
	if err != nil {
		return Processed{}, err
	}
	points, total := derive(sorted)
	return Processed{Points: points, Distance: total}, nil
}

// normalize validates each sample, truncates its time to storage precision and
// sorts by time. Coordinates keep full precision. Equal timestamps are rejected
// since (trip_id, time) is unique.
func normalize(op string, samples []models.Sample) ([]models.Sample, error) {
	if len(samples) < 2 {
		return nil, apperr.Validation(op, "trip must have at least two points")
	}

	out := make([]models.Sample, len(samples))
	for i, s := range samples {
		c := geodesic.Coordinate{Latitude: s.Latitude, Longitude: s.Longitude}
		if err := c.Validate(); err != nil {
			return nil, apperr.Validation(op, "point %d: %v", i, err)
		}
		if s.Time.IsZero() {
			return nil, apperr.Validation(op, "point %d: time is required", i)
		}
		out[i] = models.Sample{
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
			Time:      s.Time.UTC().Truncate(time.Microsecond),
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })

	for i := 1; i < len(out); i++ {
		if out[i].Time.Equal(out[i-1].Time) {
			return nil, apperr.Validation(op, "duplicate timestamp %s", out[i].Time.Format(time.RFC3339Nano))
		}
	}
	return out, nil
}

// derive expects samples sorted by time. Segments are measured on the submitted
// coordinates; only the stored point coordinates are rounded to 5 decimals.
func derive(sorted []models.Sample) ([]models.Point, float64) {
	points := make([]models.Point, len(sorted))
	var total float64
	for i, s := range sorted {
		points[i] = models.Point{
			Longitude: geodesic.Round5(s.Longitude),
			Latitude:  geodesic.Round5(s.Latitude),
			Time:      s.Time,
		}
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		seg := geodesic.Distance(
			geodesic.Coordinate{Latitude: prev.Latitude, Longitude: prev.Longitude},
			geodesic.Coordinate{Latitude: s.Latitude, Longitude: s.Longitude},
		)
		total += seg
		points[i].SpeedMps = geodesic.Speed(seg, s.Time.Sub(prev.Time))
	}
	return points, total
}
