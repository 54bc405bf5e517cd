package models

import "testing"

func TestParseTripType(t *testing.T) {
	tests := []struct {
		in      string
		want    TripType
		wantErr bool
	}{
		{"walk", TripTypeWalk, false},
		{"bike", TripTypeBike, false},
		{" bike ", TripTypeBike, false},
		{"Walk", "", true},
		{"car", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseTripType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTripType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTripType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
