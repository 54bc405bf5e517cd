// Package geojson renders points and trip paths as GeoJSON.
package geojson

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"

	"trip_tracker/internal/models"
)

const ContentType = "application/geo+json"

// Points renders a FeatureCollection with one Point feature per point.
func Points(points []models.PointView) ([]byte, error) {
	fc := gjson.FeatureCollection{Features: make([]*gjson.Feature, 0, len(points))}
	for _, p := range points {
		fc.Features = append(fc.Features, &gjson.Feature{
			Geometry: geom.NewPointFlat(geom.XY, []float64{p.Longitude, p.Latitude}),
			Properties: map[string]interface{}{
				"time":      p.Time.UTC().Format(time.RFC3339Nano),
				"speed_mps": p.Speed,
			},
		})
	}
	return json.Marshal(&fc)
}

// TripPath renders trip's points, which must be in time order, as a
// LineString feature. A trip with a single point renders as a Point.
func TripPath(trip *models.Trip) ([]byte, error) {
	flat := make([]float64, 0, 2*len(trip.Points))
	for _, p := range trip.Points {
		flat = append(flat, p.Longitude, p.Latitude)
	}

	var g geom.T
	switch len(trip.Points) {
	case 0:
		g = geom.NewLineString(geom.XY)
	case 1:
		g = geom.NewPointFlat(geom.XY, flat)
	default:
		g = geom.NewLineStringFlat(geom.XY, flat)
	}

	f := &gjson.Feature{
		ID:       strconv.FormatUint(uint64(trip.ID), 10),
		Geometry: g,
		Properties: map[string]interface{}{
			"trip_id":     trip.ID,
			"trip_type":   string(trip.TripType),
			"distance":    trip.Distance,
			"point_count": len(trip.Points),
		},
	}
	if len(trip.Points) > 0 {
		f.Properties["started_at"] = trip.Points[0].Time.UTC().Format(time.RFC3339Nano)
		f.Properties["ended_at"] = trip.Points[len(trip.Points)-1].Time.UTC().Format(time.RFC3339Nano)
	}
	return json.Marshal(f)
}
