package geojson

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"

	"trip_tracker/internal/models"
)

var t0 = time.Date(2025, 9, 13, 15, 5, 0, 0, time.UTC)

func TestPoints(t *testing.T) {
	b, err := Points([]models.PointView{
		{Longitude: 12.59093, Latitude: 55.67422, Time: t0, Speed: 0},
		{Longitude: 12.59427, Latitude: 55.67239, Time: t0.Add(30 * time.Second), Speed: 9.74},
	})
	if err != nil {
		t.Fatalf("Points: %v", err)
	}

	var fc gjson.FeatureCollection
	if err := json.Unmarshal(b, &fc); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, b)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("features = %d, want 2", len(fc.Features))
	}
	pt, ok := fc.Features[1].Geometry.(*geom.Point)
	if !ok {
		t.Fatalf("geometry = %T, want *geom.Point", fc.Features[1].Geometry)
	}
	if pt.X() != 12.59427 || pt.Y() != 55.67239 {
		t.Fatalf("coordinates = %v, want lon/lat order", pt.Coords())
	}
	if fc.Features[1].Properties["speed_mps"] != 9.74 || fc.Features[1].Properties["time"] != "2025-09-13T15:05:30Z" {
		t.Fatalf("properties = %v", fc.Features[1].Properties)
	}
}

func TestPointsEmptyCollection(t *testing.T) {
	b, err := Points(nil)
	if err != nil {
		t.Fatalf("Points: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw["type"] != "FeatureCollection" {
		t.Fatalf("type = %v", raw["type"])
	}
	if features, ok := raw["features"].([]any); !ok || len(features) != 0 {
		t.Fatalf("features = %#v, want empty array", raw["features"])
	}
}

func TestTripPath(t *testing.T) {
	trip := &models.Trip{ID: 2, TripType: models.TripTypeBike, Distance: 441, Points: []models.Point{
		{Longitude: 12.59093, Latitude: 55.67422, Time: t0},
		{Longitude: 12.59427, Latitude: 55.67239, Time: t0.Add(30 * time.Second)},
		{Longitude: 12.59587, Latitude: 55.67338, Time: t0.Add(time.Minute)},
	}}

	b, err := TripPath(trip)
	if err != nil {
		t.Fatalf("TripPath: %v", err)
	}
	var f gjson.Feature
	if err := json.Unmarshal(b, &f); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, b)
	}
	ls, ok := f.Geometry.(*geom.LineString)
	if !ok {
		t.Fatalf("geometry = %T, want *geom.LineString", f.Geometry)
	}
	if ls.NumCoords() != 3 || ls.Coord(2).X() != 12.59587 {
		t.Fatalf("line = %v", ls.Coords())
	}
	if f.ID != "2" || f.Properties["trip_type"] != "bike" || f.Properties["distance"] != float64(441) {
		t.Fatalf("feature = %+v", f)
	}
}

func TestTripPathSinglePoint(t *testing.T) {
	trip := &models.Trip{ID: 4, TripType: models.TripTypeWalk, Points: []models.Point{
		{Longitude: 1, Latitude: 2, Time: t0},
	}}
	b, err := TripPath(trip)
	if err != nil {
		t.Fatalf("TripPath: %v", err)
	}
	var f gjson.Feature
	if err := json.Unmarshal(b, &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := f.Geometry.(*geom.Point); !ok {
		t.Fatalf("geometry = %T, want *geom.Point", f.Geometry)
	}
}
