// Package points answers spatial questions over stored points. No point data
// leaves the engine unless enough distinct trips are represented.
package points

import (
	"context"
	"math"
	"time"

	"gorm.io/gorm"

	"trip_tracker/internal/apperr"
	"trip_tracker/internal/models"
	"trip_tracker/internal/storage"
)

// DefaultAnonymityThreshold is the minimum number of distinct trips a result
// must cover before any of its points are disclosed.
const DefaultAnonymityThreshold = 100

// Window is a latitude/longitude rectangle. Points match when longitude lies
// between East and West and latitude between South and North; the bounds are
// used in the order given.
type Window struct {
	North float64
	South float64
	East  float64
	West  float64
}

func (w Window) validate(op string) error {
	bounds := []struct {
		name string
		v    float64
	}{{"north", w.North}, {"south", w.South}, {"east", w.East}, {"west", w.West}}
	for _, b := range bounds {
		if math.IsNaN(b.v) || math.IsInf(b.v, 0) {
			return apperr.Validation(op, "%s must be a finite number", b.name)
		}
	}
	return nil
}

type Filter struct {
	// TripType restricts to one trip type when set.
	TripType models.TripType
	// JustDestinations keeps only each trip's first and last point.
	JustDestinations bool
}

type Outcome uint8

const (
	Disclosed Outcome = iota + 1
	AnonymityBlocked
)

func (o Outcome) String() string {
	if o == AnonymityBlocked {
		return "blocked"
	}
	return "disclosed"
}

// Result is either a disclosed (possibly empty) point list or a blocked outcome
// carrying no points.
type Result struct {
	Outcome Outcome
	Points  []models.PointView
	// TripCount is the number of distinct trips the gate counted.
	TripCount int64
}

func (r Result) Blocked() bool { return r.Outcome == AnonymityBlocked }

// Recorder receives one call per gated query.
type Recorder interface {
	WindowQueried(outcome string, points int)
}

type nopRecorder struct{}

func (nopRecorder) WindowQueried(string, int) {}

type Engine struct {
	db        *gorm.DB
	threshold int64
	metrics   Recorder
}

type EngineOption func(*Engine)

// WithThreshold raises the disclosure threshold. Values below
// DefaultAnonymityThreshold are ignored: the gate can only get stricter.
func WithThreshold(n int64) EngineOption {
	return func(e *Engine) {
		if n >= DefaultAnonymityThreshold {
			e.threshold = n
		}
	}
}

func WithRecorder(r Recorder) EngineOption { return func(e *Engine) { e.metrics = r } }

func NewEngine(db *gorm.DB, opts ...EngineOption) *Engine {
	e := &Engine{db: db, threshold: DefaultAnonymityThreshold, metrics: nopRecorder{}}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = nopRecorder{}
	}
	return e
}

// GetPoints returns the points inside w. The distinct-trip count of the whole
// window is checked against the threshold before f is applied, so filters can
// never turn a blocked window into a disclosed one.
func (e *Engine) GetPoints(ctx context.Context, w Window, f Filter) (Result, error) {
	const op = "getPoints"

	if err := w.validate(op); err != nil {
		return Result{}, err
	}
	if f.TripType != "" && !f.TripType.Valid() {
		return Result{}, apperr.Validation(op, "type must be one of %q or %q", models.TripTypeWalk, models.TripTypeBike)
	}

	var count int64
	err := inWindow(e.db.WithContext(ctx).Table("points AS p"), w).
		Select("COUNT(DISTINCT p.trip_id)").
		Scan(&count).Error
	if err != nil {
		return Result{}, storage.Classify(op, err)
	}
	return e.disclose(ctx, op, count, func(q *gorm.DB) *gorm.DB { return inWindow(q, w) }, f)
}

// GetAll is GetPoints without a window. The gate counts distinct trips of the
// selected trip type.
func (e *Engine) GetAll(ctx context.Context, f Filter) (Result, error) {
	const op = "getAllPoints"

	if f.TripType != "" && !f.TripType.Valid() {
		return Result{}, apperr.Validation(op, "type must be one of %q or %q", models.TripTypeWalk, models.TripTypeBike)
	}

	var count int64
	err := ofType(e.db.WithContext(ctx).Table("points AS p"), f.TripType).
		Select("COUNT(DISTINCT p.trip_id)").
		Scan(&count).Error
	if err != nil {
		return Result{}, storage.Classify(op, err)
	}
	return e.disclose(ctx, op, count, func(q *gorm.DB) *gorm.DB { return q }, f)
}

type pointRow struct {
	Longitude float64
	Latitude  float64
	Time      time.Time
	SpeedMps  float64
}

func (e *Engine) disclose(ctx context.Context, op string, count int64, scope func(*gorm.DB) *gorm.DB, f Filter) (Result, error) {
	if count < e.threshold {
		e.metrics.WindowQueried(AnonymityBlocked.String(), 0)
		return Result{Outcome: AnonymityBlocked, TripCount: count}, nil
	}

	q := scope(e.db.WithContext(ctx).Table("points AS p")).
		Select("p.longitude, p.latitude, p.time, p.speed_mps")
	if f.JustDestinations {
		q = q.Joins("JOIN (SELECT trip_id, MIN(time) AS first_time, MAX(time) AS last_time FROM points GROUP BY trip_id) AS ends " +
			"ON ends.trip_id = p.trip_id AND (p.time = ends.first_time OR p.time = ends.last_time)")
	}
	q = ofType(q, f.TripType)

	var rows []pointRow
	if err := q.Order("p.trip_id, p.time").Scan(&rows).Error; err != nil {
		return Result{}, storage.Classify(op, err)
	}

	out := make([]models.PointView, len(rows))
	for i, r := range rows {
		out[i] = models.PointView{Longitude: r.Longitude, Latitude: r.Latitude, Time: r.Time, Speed: r.SpeedMps}
	}
	e.metrics.WindowQueried(Disclosed.String(), len(out))
	return Result{Outcome: Disclosed, Points: out, TripCount: count}, nil
}

func inWindow(q *gorm.DB, w Window) *gorm.DB {
	return q.Where("p.longitude BETWEEN ? AND ? AND p.latitude BETWEEN ? AND ?", w.East, w.West, w.South, w.North)
}

func ofType(q *gorm.DB, t models.TripType) *gorm.DB {
	if t == "" {
		return q
	}
	return q.Joins("JOIN trips AS t ON t.id = p.trip_id").Where("t.trip_type = ?", string(t))
}
