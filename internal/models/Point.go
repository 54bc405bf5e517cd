package models

import "time"

// Sample is one raw GPS fix as submitted by a client.
type Sample struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Time      time.Time `json:"time"`
}

// Point is a stored sample. (TripID, Time) is unique.
type Point struct {
	TripID    uint      `gorm:"primaryKey;autoIncrement:false" json:"trip_id"`
	Time      time.Time `gorm:"primaryKey;column:time" json:"time"`
	Longitude float64   `gorm:"not null" json:"longitude"`
	Latitude  float64   `gorm:"not null" json:"latitude"`
	SpeedMps  float64   `gorm:"column:speed_mps;not null" json:"speed"`
}

// PointView is the externally visible shape of a point; it never names its trip.
type PointView struct {
	Longitude float64   `json:"longitude"`
	Latitude  float64   `json:"latitude"`
	Time      time.Time `json:"time"`
	Speed     float64   `json:"speed"`
}

func (p Point) View() PointView {
	return PointView{Longitude: p.Longitude, Latitude: p.Latitude, Time: p.Time, Speed: p.SpeedMps}
}
