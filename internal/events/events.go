// Package events publishes trip lifecycle notifications. Payloads carry
// identifiers and aggregates only, never coordinates.
package events

import (
	"context"
	"time"
)

const (
	TripCreated = "created"
	TripDeleted = "deleted"
)

type TripEvent struct {
	Type       string    `json:"type"`
	TripID     uint      `json:"trip_id"`
	UserID     uint      `json:"user_id,omitempty"`
	TripType   string    `json:"trip_type,omitempty"`
	Distance   int       `json:"distance,omitempty"`
	PointCount int       `json:"point_count,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	PublishTripEvent(ctx context.Context, ev TripEvent) error
	Close()
}

// Recorder receives one call per publish attempt.
type Recorder interface {
	EventPublished(err error)
}

// Nop drops every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) PublishTripEvent(context.Context, TripEvent) error { return nil }
func (Nop) Close() {}
