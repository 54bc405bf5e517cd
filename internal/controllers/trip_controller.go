package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"trip_tracker/internal/geojson"
	"trip_tracker/internal/models"
	"trip_tracker/internal/trips"
)

type TripService interface {
	CreateTrip(ctx context.Context, userID uint, samples []models.Sample, tripType models.TripType) (uint, error)
	CreateTripsBulk(ctx context.Context, userID uint, inputs []trips.TripInput) ([]uint, error)
	GetTrip(ctx context.Context, id uint) (*models.Trip, error)
	GetTripWithPoints(ctx context.Context, id uint) (*models.Trip, error)
	ListTripsByUser(ctx context.Context, userID uint) ([]models.Trip, error)
	UpdateTrip(ctx context.Context, id uint, upd trips.TripUpdate) (*models.Trip, error)
	DeleteTrip(ctx context.Context, id uint) error
}

type TripController struct {
	trips TripService
}

func NewTripController(trips TripService) *TripController {
	return &TripController{trips: trips}
}

type tripInput struct {
	UserID   uint            `json:"user_id" binding:"required"`
	Trip     []models.Sample `json:"trip" binding:"required"`
	TripType string          `json:"trip_type" binding:"required"`
}

// CreateTrip ingests one trip for a user and returns its id.
func (tc *TripController) CreateTrip(c *gin.Context) {
	var input tripInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip input: " + err.Error()})
		return
	}

	tripType, err := models.ParseTripType(input.TripType)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	id, err := tc.trips.CreateTrip(c.Request.Context(), input.UserID, input.Trip, tripType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// CreateTripsBulk stores every trip uploaded by one user, or none of them.
// The body is {"uploaderId": 1, "trips": [{"path": [...], "tripType": "walk"}]}.
func (tc *TripController) CreateTripsBulk(c *gin.Context) {
	var input struct {
		UploaderID uint `json:"uploaderId" binding:"required"`
		Trips      []struct {
			Path     []models.Sample `json:"path" binding:"required"`
			TripType string          `json:"tripType" binding:"required"`
		} `json:"trips" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trips input: " + err.Error()})
		return
	}

	inputs := make([]trips.TripInput, 0, len(input.Trips))
	for _, t := range input.Trips {
		tripType, err := models.ParseTripType(t.TripType)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		inputs = append(inputs, trips.TripInput{Samples: t.Path, TripType: tripType})
	}

	ids, err := tc.trips.CreateTripsBulk(c.Request.Context(), input.UploaderID, inputs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ids": ids})
}

// GetTrip returns the trip row without its points.
func (tc *TripController) GetTrip(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	trip, err := tc.trips.GetTrip(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

// GetTripPath renders the trip as a GeoJSON feature.
func (tc *TripController) GetTripPath(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	trip, err := tc.trips.GetTripWithPoints(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	body, err := geojson.TripPath(trip)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, geojson.ContentType, body)
}

// UpdateTrip changes a trip's distance or type.
func (tc *TripController) UpdateTrip(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input struct {
		Distance *int    `json:"distance"`
		TripType *string `json:"trip_type"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip input: " + err.Error()})
		return
	}

	upd := trips.TripUpdate{Distance: input.Distance}
	if input.TripType != nil {
		tripType, err := models.ParseTripType(*input.TripType)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		upd.TripType = &tripType
	}

	trip, err := tc.trips.UpdateTrip(c.Request.Context(), id, upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

// DeleteTrip removes a trip; its points go with it.
func (tc *TripController) DeleteTrip(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := tc.trips.DeleteTrip(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted"})
}
