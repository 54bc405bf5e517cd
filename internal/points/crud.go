package points

import (
	"context"
	"math"
	"time"

	"gorm.io/gorm"

	"trip_tracker/internal/apperr"
	"trip_tracker/internal/geodesic"
	"trip_tracker/internal/models"
	"trip_tracker/internal/storage"
)

// PointUpdate holds the editable point fields; nil fields are left untouched.
type PointUpdate struct {
	Longitude *float64
	Latitude  *float64
	SpeedMps  *float64
}

// Service maintains individual points. Points are only ever created by trip
// ingestion, so there is no create operation here.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) ListByTrip(ctx context.Context, tripID uint) ([]models.Point, error) {
	const op = "listPoints"

	points := []models.Point{}
	if err := s.db.WithContext(ctx).Where("trip_id = ?", tripID).Order("time ASC").Find(&points).Error; err != nil {
		return nil, storage.Classify(op, err)
	}
	return points, nil
}

func (s *Service) GetPoint(ctx context.Context, tripID uint, at time.Time) (*models.Point, error) {
	const op = "getPoint"

	var p models.Point
	err := s.db.WithContext(ctx).Where("trip_id = ? AND time = ?", tripID, normalizeTime(at)).First(&p).Error
	if err != nil {
		return nil, pointLookupError(op, tripID, at, err)
	}
	return &p, nil
}

func (s *Service) UpdatePoint(ctx context.Context, tripID uint, at time.Time, upd PointUpdate) (*models.Point, error) {
	const op = "updatePoint"

	current, err := s.GetPoint(ctx, tripID, at)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	c := geodesic.Coordinate{Latitude: current.Latitude, Longitude: current.Longitude}
	if upd.Latitude != nil {
		c.Latitude = *upd.Latitude
		changes["latitude"] = geodesic.Round5(*upd.Latitude)
	}
	if upd.Longitude != nil {
		c.Longitude = *upd.Longitude
		changes["longitude"] = geodesic.Round5(*upd.Longitude)
	}
	if err := c.Validate(); err != nil {
		return nil, apperr.Validation(op, "%v", err)
	}
	if upd.SpeedMps != nil {
		if v := *upd.SpeedMps; v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, apperr.Validation(op, "speed must be a finite, non-negative number")
		}
		changes["speed_mps"] = *upd.SpeedMps
	}
	if len(changes) == 0 {
		return nil, apperr.Validation(op, "nothing to update")
	}

	err = s.db.WithContext(ctx).Model(&models.Point{}).
		Where("trip_id = ? AND time = ?", tripID, current.Time).
		Updates(changes).Error
	if err != nil {
		return nil, storage.Classify(op, err)
	}
	return s.GetPoint(ctx, tripID, at)
}

func (s *Service) DeletePoint(ctx context.Context, tripID uint, at time.Time) error {
	const op = "deletePoint"

	res := s.db.WithContext(ctx).Where("trip_id = ? AND time = ?", tripID, normalizeTime(at)).Delete(&models.Point{})
	if res.Error != nil {
		return storage.Classify(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(op, "point %s of trip %d not found", at.UTC().Format(time.RFC3339Nano), tripID)
	}
	return nil
}

func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func pointLookupError(op string, tripID uint, at time.Time, err error) error {
	err = storage.Classify(op, err)
	if apperr.Is(err, apperr.KindNotFound) {
		return apperr.NotFound(op, "point %s of trip %d not found", at.UTC().Format(time.RFC3339Nano), tripID)
	}
	return err
}
