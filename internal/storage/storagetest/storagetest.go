// Package storagetest provides a migrated sqlite database for package tests.
package storagetest

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"trip_tracker/internal/models"
	"trip_tracker/internal/storage"
)

// Open returns a freshly migrated sqlite database living in t.TempDir().
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "trips.db")
	if err := storage.Migrate(storage.DriverSQLite, path); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	db, err := storage.Open(storage.DriverSQLite, path, storage.Options{Logger: gormlogger.Discard})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := storage.Close(db); err != nil {
			t.Logf("close test database: %v", err)
		}
	})
	return db
}

// CreateUser inserts a user with the given id.
func CreateUser(t testing.TB, db *gorm.DB, id uint) models.User {
	t.Helper()

	u := models.User{
		ID:       id,
		Email:    fmt.Sprintf("user%d@example.com", id),
		Password: "not-a-real-hash",
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user %d: %v", id, err)
	}
	return u
}

// CreateTrip inserts a trip and its points verbatim, bypassing ingestion.
func CreateTrip(t testing.TB, db *gorm.DB, trip models.Trip, points []models.Point) models.Trip {
	t.Helper()

	if err := db.Create(&trip).Error; err != nil {
		t.Fatalf("create trip: %v", err)
	}
	for i := range points {
		points[i].TripID = trip.ID
	}
	if len(points) > 0 {
		if err := db.Create(&points).Error; err != nil {
			t.Fatalf("create points for trip %d: %v", trip.ID, err)
		}
	}
	return trip
}

// At parses an RFC3339 timestamp or fails the test.
func At(t testing.TB, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse time %q: %v", s, err)
	}
	return ts.UTC()
}

// Seed loads the two reference users and trips:
// trip 1 (user 1, walk) visits (0,0) (1,0) (1,1) in lon/lat order;
// trip 2 (user 2, bike) runs through central Copenhagen.
func Seed(t testing.TB, db *gorm.DB) {
	t.Helper()

	CreateUser(t, db, 1)
	CreateUser(t, db, 2)

	CreateTrip(t, db,
		models.Trip{ID: 1, UserID: 1, Distance: 69, TripType: models.TripTypeWalk},
		[]models.Point{
			{Longitude: 0, Latitude: 0, Time: At(t, "2025-11-13T15:05:00Z")},
			{Longitude: 1, Latitude: 0, Time: At(t, "2025-11-13T15:05:30Z")},
			{Longitude: 1, Latitude: 1, Time: At(t, "2025-11-13T15:06:00Z")},
		})
	CreateTrip(t, db,
		models.Trip{ID: 2, UserID: 2, Distance: 420, TripType: models.TripTypeBike},
		[]models.Point{
			{Longitude: 12.590932, Latitude: 55.674221, Time: At(t, "2025-09-13T15:05:00Z")},
			{Longitude: 12.594269, Latitude: 55.672387, Time: At(t, "2025-09-13T15:05:30Z")},
			{Longitude: 12.595868, Latitude: 55.673378, Time: At(t, "2025-11-13T15:06:00Z")},
		})
}
