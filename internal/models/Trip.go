package models

import (
	"fmt"
	"strings"
)

// TripType is the closed set of movement kinds a trip can be recorded as.
type TripType string

const (
	TripTypeWalk TripType = "walk"
	TripTypeBike TripType = "bike"
)

func (t TripType) Valid() bool {
	return t == TripTypeWalk || t == TripTypeBike
}

// ParseTripType accepts the canonical lower-case names only.
func ParseTripType(s string) (TripType, error) {
	t := TripType(strings.TrimSpace(s))
	if !t.Valid() {
		return "", fmt.Errorf("trip_type must be one of %q or %q, got %q", TripTypeWalk, TripTypeBike, s)
	}
	return t, nil
}

type Trip struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	UserID   uint     `gorm:"not null;index" json:"user_id"`
	Distance int      `gorm:"not null" json:"distance"`
	TripType TripType `gorm:"column:trip_type;not null" json:"trip_type"`

	Points []Point `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE;" json:"points,omitempty"`
}
