package trips

import (
	"context"

	"gorm.io/gorm"

	"trip_tracker/internal/apperr"
	"trip_tracker/internal/events"
	"trip_tracker/internal/models"
	"trip_tracker/internal/storage"
)

// TripUpdate holds the mutable trip fields; nil fields are left untouched.
type TripUpdate struct {
	Distance *int
	TripType *models.TripType
}

func (s *Service) GetTrip(ctx context.Context, id uint) (*models.Trip, error) {
	const op = "getTrip"

	var trip models.Trip
	if err := s.db.WithContext(ctx).First(&trip, id).Error; err != nil {
		return nil, tripLookupError(op, id, err)
	}
	return &trip, nil
}

// GetTripWithPoints loads a trip and its points in time order.
func (s *Service) GetTripWithPoints(ctx context.Context, id uint) (*models.Trip, error) {
	const op = "getTripWithPoints"

	var trip models.Trip
	err := s.db.WithContext(ctx).
		Preload("Points", func(db *gorm.DB) *gorm.DB { return db.Order("time ASC") }).
		First(&trip, id).Error
	if err != nil {
		return nil, tripLookupError(op, id, err)
	}
	return &trip, nil
}

func (s *Service) ListTripsByUser(ctx context.Context, userID uint) ([]models.Trip, error) {
	const op = "listTripsByUser"

	trips := []models.Trip{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&trips).Error; err != nil {
		return nil, storage.Classify(op, err)
	}
	return trips, nil
}

func (s *Service) UpdateTrip(ctx context.Context, id uint, upd TripUpdate) (*models.Trip, error) {
	const op = "updateTrip"

	changes := map[string]any{}
	if upd.Distance != nil {
		if *upd.Distance < 0 {
			return nil, apperr.Validation(op, "distance must not be negative")
		}
		changes["distance"] = *upd.Distance
	}
	if upd.TripType != nil {
		if !upd.TripType.Valid() {
			return nil, apperr.Validation(op, "trip_type must be one of %q or %q", models.TripTypeWalk, models.TripTypeBike)
		}
		changes["trip_type"] = string(*upd.TripType)
	}
	if len(changes) == 0 {
		return nil, apperr.Validation(op, "nothing to update")
	}

	var trip models.Trip
	err := storage.Transaction(ctx, s.db, s.txTimeout, func(tx *gorm.DB) error {
		res := tx.Model(&models.Trip{}).Where("id = ?", id).Updates(changes)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound(op, "trip %d not found", id)
		}
		return tx.First(&trip, id).Error
	})
	if err != nil {
		return nil, storage.Classify(op, err)
	}
	return &trip, nil
}

// DeleteTrip removes a trip; its points go with it through the foreign key cascade.
func (s *Service) DeleteTrip(ctx context.Context, id uint) error {
	const op = "deleteTrip"

	res := s.db.WithContext(ctx).Delete(&models.Trip{}, id)
	if res.Error != nil {
		return storage.Classify(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(op, "trip %d not found", id)
	}
	s.publish(ctx, events.TripEvent{Type: events.TripDeleted, TripID: id})
	return nil
}

func tripLookupError(op string, id uint, err error) error {
	err = storage.Classify(op, err)
	if apperr.Is(err, apperr.KindNotFound) {
		return apperr.NotFound(op, "trip %d not found", id)
	}
	return err
}
