// Package heatmap aggregates disclosed points into s2 cells.
package heatmap

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/golang/geo/s2"

	"trip_tracker/internal/apperr"
	"trip_tracker/internal/models"
	"trip_tracker/internal/points"
)

// DefaultCellLevel gives cells roughly 70 m across.
const DefaultCellLevel = 17

type Kind string

const (
	KindAll          Kind = "all"
	KindWalk         Kind = "walk"
	KindBike         Kind = "bike"
	KindDestinations Kind = "destinations"
)

// ParseKind maps the query parameter onto a Kind; empty means all.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.TrimSpace(s)); k {
	case "":
		return KindAll, nil
	case KindAll, KindWalk, KindBike, KindDestinations:
		return k, nil
	default:
		return "", apperr.Validation("heatmap", "type must be one of walk, bike, destinations or all")
	}
}

func (k Kind) filter() points.Filter {
	switch k {
	case KindWalk:
		return points.Filter{TripType: models.TripTypeWalk}
	case KindBike:
		return points.Filter{TripType: models.TripTypeBike}
	case KindDestinations:
		return points.Filter{JustDestinations: true}
	default:
		return points.Filter{}
	}
}

type Cell struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Intensity float64 `json:"intensity"`
}

// Source is the gated point population a heatmap is built from.
type Source interface {
	GetAll(ctx context.Context, f points.Filter) (points.Result, error)
}

type Service struct {
	source Source
	level  int
}

func NewService(source Source, level int) *Service {
	if level < 0 || level > s2.MaxLevel {
		level = DefaultCellLevel
	}
	return &Service{source: source, level: level}
}

// Build returns the cells for kind. blocked reports that the population was
// too small to disclose; cells is nil in that case.
func (s *Service) Build(ctx context.Context, kind Kind) (cells []Cell, blocked bool, err error) {
	res, err := s.source.GetAll(ctx, kind.filter())
	if err != nil {
		return nil, false, err
	}
	if res.Blocked() {
		return nil, true, nil
	}
	return Bucket(res.Points, s.level), false, nil
}

// Bucket counts points per s2 cell at level. Intensity is the cell's count
// relative to the busiest cell, rounded to three decimals. Cells are ordered
// by cell id.
func Bucket(pts []models.PointView, level int) []Cell {
	counts := make(map[s2.CellID]int)
	for _, p := range pts {
		id := s2.CellIDFromLatLng(s2.LatLngFromDegrees(p.Latitude, p.Longitude)).Parent(level)
		counts[id]++
	}

	ids := make([]s2.CellID, 0, len(counts))
	busiest := 0
	for id, n := range counts {
		ids = append(ids, id)
		if n > busiest {
			busiest = n
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	cells := make([]Cell, len(ids))
	for i, id := range ids {
		center := id.LatLng()
		cells[i] = Cell{
			Latitude:  center.Lat.Degrees(),
			Longitude: center.Lng.Degrees(),
			Intensity: math.Round(float64(counts[id])/float64(busiest)*1000) / 1000,
		}
	}
	return cells
}
