package geodesic

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestDistanceKnownPair(t *testing.T) {
	a := Coordinate{Latitude: 55.674221, Longitude: 12.590932}
	b := Coordinate{Latitude: 55.672387, Longitude: 12.594269}

	got := Distance(a, b)
	if math.Abs(got-292.2) > 0.5 {
		t.Fatalf("Distance = %.3f, want about 292.2", got)
	}
	if back := Distance(b, a); math.Abs(back-got) > 1e-9 {
		t.Fatalf("Distance not symmetric: %.6f vs %.6f", got, back)
	}
}

func TestDistanceOneDegreeAtEquator(t *testing.T) {
	got := Distance(Coordinate{0, 0}, Coordinate{0, 1})
	want := EarthRadiusMeters * math.Pi / 180
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("Distance = %f, want %f", got, want)
	}
	if Distance(Coordinate{10, 10}, Coordinate{10, 10}) != 0 {
		t.Fatal("Distance of identical points must be 0")
	}
}

func TestPathLength(t *testing.T) {
	path := []Coordinate{{0, 0}, {0, 1}, {1, 1}}
	want := Distance(path[0], path[1]) + Distance(path[1], path[2])
	if got := PathLength(path); math.Abs(got-want) > 1e-9 {
		t.Fatalf("PathLength = %f, want %f", got, want)
	}
	if PathLength(path[:1]) != 0 {
		t.Fatal("single coordinate path must have zero length")
	}
}

func TestSpeed(t *testing.T) {
	if got := Speed(300, 30*time.Second); got != 10 {
		t.Fatalf("Speed = %f, want 10", got)
	}
	if got := Speed(300, 0); got != 0 {
		t.Fatalf("Speed with zero elapsed = %f, want 0", got)
	}
	if got := Speed(300, -time.Second); got != 0 {
		t.Fatalf("Speed with negative elapsed = %f, want 0", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		c    Coordinate
		want error
	}{
		{Coordinate{45, 90}, nil},
		{Coordinate{-90, -180}, nil},
		{Coordinate{90.1, 0}, ErrLatitudeRange},
		{Coordinate{0, 180.5}, ErrLongitudeRange},
		{Coordinate{math.NaN(), 0}, ErrNotFinite},
		{Coordinate{0, math.Inf(1)}, ErrNotFinite},
	}
	for _, tt := range tests {
		if err := tt.c.Validate(); !errors.Is(err, tt.want) {
			t.Errorf("Validate(%v) = %v, want %v", tt.c, err, tt.want)
		}
	}
}

func TestRound5(t *testing.T) {
	if got := Round5(12.5909321); got != 12.59093 {
		t.Fatalf("Round5 = %v", got)
	}
	if got := Round5(-73.8273491); got != -73.82735 {
		t.Fatalf("Round5 = %v", got)
	}
}
