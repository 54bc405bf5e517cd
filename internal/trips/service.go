// Package trips implements trip ingestion and trip maintenance.
package trips

import (
	"context"
	"fmt"
	"time"

	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"trip_tracker/internal/apperr"
	"trip_tracker/internal/events"
	"trip_tracker/internal/models"
	"trip_tracker/internal/storage"
)

const pointBatchSize = 500

// Recorder receives ingestion outcomes.
type Recorder interface {
	TripCreated(tripType string, points int)
	IngestFailed(kind string)
}

type nopRecorder struct{}

func (nopRecorder) TripCreated(string, int) {}
func (nopRecorder) IngestFailed(string)     {}

type Service struct {
	db        *gorm.DB
	txTimeout time.Duration
	publisher events.Publisher
	metrics   Recorder
	now       func() time.Time
}

type Option func(*Service)

// WithTxTimeout bounds every write transaction.
func WithTxTimeout(d time.Duration) Option { return func(s *Service) { s.txTimeout = d } }

func WithPublisher(p events.Publisher) Option { return func(s *Service) { s.publisher = p } }

func WithRecorder(r Recorder) Option { return func(s *Service) { s.metrics = r } }

func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{
		db:        db,
		txTimeout: 10 * time.Second,
		publisher: events.Nop{},
		metrics:   nopRecorder{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.publisher == nil {
		s.publisher = events.Nop{}
	}
	if s.metrics == nil {
		s.metrics = nopRecorder{}
	}
	return s
}

// TripInput is one trip of a bulk upload.
type TripInput struct {
	Samples  []models.Sample
	TripType models.TripType
}

// CreateTrip validates and stores one trip with its points atomically and
// returns the new trip id.
func (s *Service) CreateTrip(ctx context.Context, userID uint, samples []models.Sample, tripType models.TripType) (uint, error) {
	const op = "createTrip"

	ids, err := s.create(ctx, op, userID, []TripInput{{Samples: samples, TripType: tripType}})
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

// CreateTripsBulk stores several trips for one user in a single transaction.
// Either every trip is stored or none is.
func (s *Service) CreateTripsBulk(ctx context.Context, userID uint, inputs []TripInput) ([]uint, error) {
	const op = "createTripsBulk"

	if len(inputs) == 0 {
		err := apperr.Validation(op, "at least one trip is required")
		s.metrics.IngestFailed(apperr.KindValidation.String())
		return nil, err
	}
	return s.create(ctx, op, userID, inputs)
}

func (s *Service) create(ctx context.Context, op string, userID uint, inputs []TripInput) ([]uint, error) {
	trips := make([]models.Trip, len(inputs))
	processed := make([]Processed, len(inputs))

	for i, in := range inputs {
		p, err := s.prepare(op, userID, in)
		if err != nil {
			if len(inputs) > 1 {
				err = apperr.Validation(op, "trip %d: %s", i, apperr.MessageOf(err))
			}
			s.metrics.IngestFailed(apperr.KindOf(err).String())
			return nil, err
		}
		processed[i] = p
		trips[i] = models.Trip{UserID: userID, Distance: p.RoundedDistance(), TripType: in.TripType}
	}

	err := storage.Transaction(ctx, s.db, s.txTimeout, func(tx *gorm.DB) error {
		for i := range trips {
			if err := insertTrip(tx, &trips[i], processed[i].Points); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		err = classifyWrite(op, userID, err)
		s.metrics.IngestFailed(apperr.KindOf(err).String())
		logrus.WithError(err).WithField("user_id", userID).Warn(op + ": transaction rolled back")
		return nil, err
	}

	ids := make([]uint, len(trips))
	for i, t := range trips {
		ids[i] = t.ID
		s.metrics.TripCreated(string(t.TripType), len(processed[i].Points))
		s.publish(ctx, events.TripEvent{
			Type:       events.TripCreated,
			TripID:     t.ID,
			UserID:     t.UserID,
			TripType:   string(t.TripType),
			Distance:   t.Distance,
			PointCount: len(processed[i].Points),
		})
	}
	return ids, nil
}

func (s *Service) prepare(op string, userID uint, in TripInput) (Processed, error) {
	if userID == 0 {
		return Processed{}, apperr.Validation(op, "user_id must be a positive integer")
	}
	if !in.TripType.Valid() {
		return Processed{}, apperr.Validation(op, "trip_type must be one of %q or %q", models.TripTypeWalk, models.TripTypeBike)
	}
	return Process(op, in.Samples)
}

// insertTrip creates the trip row first so its generated id is known before
// any point referencing it is written.
func insertTrip(tx *gorm.DB, trip *models.Trip, points []models.Point) error {
	if err := tx.Create(trip).Error; err != nil {
		return err
	}
	rows := make([]models.Point, len(points))
	for i, p := range points {
		p.TripID = trip.ID
		rows[i] = p
	}
	return tx.CreateInBatches(rows, pointBatchSize).Error
}

func classifyWrite(op string, userID uint, err error) error {
	classified := storage.Classify(op, err)
	if apperr.Is(classified, apperr.KindReference) {
		return apperr.Reference(op, fmt.Sprintf("user %d does not exist", userID), err)
	}
	return classified
}

func (s *Service) publish(ctx context.Context, ev events.TripEvent) {
	ev.OccurredAt = s.now().UTC()
	// Publish failures are logged only; the trip is already committed.
	if err := s.publisher.PublishTripEvent(context.WithoutCancel(ctx), ev); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"trip_id": ev.TripID,
			"event":   ev.Type,
		}).Warn("publish trip event failed")
	}
}
