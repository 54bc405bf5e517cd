package events

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestSubject(t *testing.T) {
	tests := []struct {
		prefix, typ, want string
	}{
		{"trips", TripCreated, "trips.created"},
		{" trips ", TripDeleted, "trips.deleted"},
		{"city.trips", "created", "city_trips.created"},
		{"", "created", "_.created"},
		{"trips", "*", "trips._"},
	}
	for _, tt := range tests {
		if got := Subject(tt.prefix, tt.typ); got != tt.want {
			t.Errorf("Subject(%q, %q) = %q, want %q", tt.prefix, tt.typ, got, tt.want)
		}
	}
}

func TestTripEventCarriesNoCoordinates(t *testing.T) {
	ev := TripEvent{
		Type:       TripCreated,
		TripID:     3,
		UserID:     1,
		TripType:   "walk",
		Distance:   154,
		PointCount: 3,
		OccurredAt: time.Date(2025, 10, 20, 18, 6, 0, 0, time.UTC),
	}
	b, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, banned := range []string{"latitude", "longitude", "lat", "lon"} {
		if strings.Contains(string(b), `"`+banned+`"`) {
			t.Fatalf("event payload exposes %q: %s", banned, b)
		}
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = Nop{}
	if err := p.PublishTripEvent(context.Background(), TripEvent{Type: TripCreated}); err != nil {
		t.Fatalf("Nop publish: %v", err)
	}
	p.Close()
}
