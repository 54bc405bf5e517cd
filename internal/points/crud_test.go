package points

import (
	"context"
	"math"
	"testing"
	"time"

	"trip_tracker/internal/apperr"
	"trip_tracker/internal/storage/storagetest"
)

func ptr(v float64) *float64 { return &v }

func TestPointCRUD(t *testing.T) {
	db := seeded(t)
	svc := NewService(db)
	ctx := context.Background()

	list, err := svc.ListByTrip(ctx, 2)
	if err != nil {
		t.Fatalf("ListByTrip: %v", err)
	}
	if len(list) != 3 || !list[0].Time.Before(list[1].Time) {
		t.Fatalf("ListByTrip = %+v", list)
	}

	at := storagetest.At(t, "2025-09-13T15:05:30Z")
	p, err := svc.GetPoint(ctx, 2, at)
	if err != nil {
		t.Fatalf("GetPoint: %v", err)
	}
	if p.Longitude != 12.594269 || p.Latitude != 55.672387 {
		t.Fatalf("GetPoint = %+v", p)
	}

	updated, err := svc.UpdatePoint(ctx, 2, at, PointUpdate{Latitude: ptr(55.6724), SpeedMps: ptr(4.5)})
	if err != nil {
		t.Fatalf("UpdatePoint: %v", err)
	}
	if updated.Latitude != 55.6724 || updated.SpeedMps != 4.5 || updated.Longitude != 12.594269 {
		t.Fatalf("updated = %+v", updated)
	}

	if err := svc.DeletePoint(ctx, 2, at); err != nil {
		t.Fatalf("DeletePoint: %v", err)
	}
	if _, err := svc.GetPoint(ctx, 2, at); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("GetPoint after delete error = %v, want not found", err)
	}
	if err := svc.DeletePoint(ctx, 2, at); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("second delete error = %v, want not found", err)
	}
	if list, _ := svc.ListByTrip(ctx, 2); len(list) != 2 {
		t.Fatalf("points left = %d, want 2", len(list))
	}
}

func TestUpdatePointValidation(t *testing.T) {
	db := seeded(t)
	svc := NewService(db)
	ctx := context.Background()
	at := storagetest.At(t, "2025-11-13T15:05:00Z")

	tests := map[string]PointUpdate{
		"latitude out of range": {Latitude: ptr(91)},
		"longitude not finite":  {Longitude: ptr(math.Inf(-1))},
		"negative speed":        {SpeedMps: ptr(-1)},
		"empty":                 {},
	}
	for name, upd := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.UpdatePoint(ctx, 1, at, upd); !apperr.Is(err, apperr.KindValidation) {
				t.Fatalf("error = %v, want validation", err)
			}
		})
	}

	if _, err := svc.UpdatePoint(ctx, 1, at.Add(time.Second), PointUpdate{SpeedMps: ptr(1)}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("missing point error = %v, want not found", err)
	}
}

func TestListByTripUnknownTripIsEmpty(t *testing.T) {
	svc := NewService(storagetest.Open(t))
	list, err := svc.ListByTrip(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListByTrip: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("ListByTrip = %#v, want empty slice", list)
	}
}
