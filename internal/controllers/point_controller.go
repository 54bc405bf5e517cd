package controllers

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"trip_tracker/internal/geojson"
	"trip_tracker/internal/models"
	"trip_tracker/internal/points"
)

type PointService interface {
	ListByTrip(ctx context.Context, tripID uint) ([]models.Point, error)
	GetPoint(ctx context.Context, tripID uint, at time.Time) (*models.Point, error)
	UpdatePoint(ctx context.Context, tripID uint, at time.Time, upd points.PointUpdate) (*models.Point, error)
	DeletePoint(ctx context.Context, tripID uint, at time.Time) error
}

// WindowQuerier answers anonymity-gated spatial queries.
type WindowQuerier interface {
	GetPoints(ctx context.Context, w points.Window, f points.Filter) (points.Result, error)
}

type PointController struct {
	points PointService
	window WindowQuerier
}

func NewPointController(points PointService, window WindowQuerier) *PointController {
	return &PointController{points: points, window: window}
}

// ListTripPoints returns a trip's points in time order.
func (pc *PointController) ListTripPoints(c *gin.Context) {
	tripID, ok := parseID(c, "id")
	if !ok {
		return
	}
	pts, err := pc.points.ListByTrip(c.Request.Context(), tripID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": pts})
}

// GetPoint looks a point up by trip id and RFC3339 timestamp.
func (pc *PointController) GetPoint(c *gin.Context) {
	tripID, ok := parseID(c, "id")
	if !ok {
		return
	}
	at, ok := parseTimeParam(c, "time")
	if !ok {
		return
	}
	p, err := pc.points.GetPoint(c.Request.Context(), tripID, at)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"point": p})
}

// UpdatePoint edits a point's coordinates or speed.
func (pc *PointController) UpdatePoint(c *gin.Context) {
	tripID, ok := parseID(c, "id")
	if !ok {
		return
	}
	at, ok := parseTimeParam(c, "time")
	if !ok {
		return
	}

	var input struct {
		Longitude *float64 `json:"longitude"`
		Latitude  *float64 `json:"latitude"`
		Speed     *float64 `json:"speed"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid point input: " + err.Error()})
		return
	}

	p, err := pc.points.UpdatePoint(c.Request.Context(), tripID, at, points.PointUpdate{
		Longitude: input.Longitude,
		Latitude:  input.Latitude,
		SpeedMps:  input.Speed,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"point": p})
}

// DeletePoint removes a single point from a trip.
func (pc *PointController) DeletePoint(c *gin.Context) {
	tripID, ok := parseID(c, "id")
	if !ok {
		return
	}
	at, ok := parseTimeParam(c, "time")
	if !ok {
		return
	}
	if err := pc.points.DeletePoint(c.Request.Context(), tripID, at); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Point deleted"})
}

// GetWindowPoints handles GET /points/window/:north/:south/:east/:west.
func (pc *PointController) GetWindowPoints(c *gin.Context) {
	var w points.Window
	bounds := []struct {
		name string
		dst  *float64
	}{{"north", &w.North}, {"south", &w.South}, {"east", &w.East}, {"west", &w.West}}
	for _, b := range bounds {
		v, ok := parseBound(c, b.name, c.Param(b.name))
		if !ok {
			return
		}
		*b.dst = v
	}
	pc.query(c, w)
}

// GetRangePoints handles the min/max form of the window query. It is gated
// like any other window.
func (pc *PointController) GetRangePoints(c *gin.Context) {
	var minLat, maxLat, minLon, maxLon float64
	bounds := []struct {
		name string
		dst  *float64
	}{{"minLat", &minLat}, {"maxLat", &maxLat}, {"minLon", &minLon}, {"maxLon", &maxLon}}
	for _, b := range bounds {
		v, ok := parseBound(c, b.name, c.Query(b.name))
		if !ok {
			return
		}
		*b.dst = v
	}
	pc.query(c, points.Window{North: maxLat, South: minLat, East: minLon, West: maxLon})
}

func (pc *PointController) query(c *gin.Context, w points.Window) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}
	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "geojson" {
		badRequest(c, "'format' must be json or geojson")
		return
	}

	res, err := pc.window.GetPoints(c.Request.Context(), w, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if res.Blocked() {
		c.JSON(http.StatusForbidden, gin.H{"error": anonymityBlockedMessage})
		return
	}

	if format == "geojson" {
		body, err := geojson.Points(res.Points)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Data(http.StatusOK, geojson.ContentType, body)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": res.Points})
}

func parseBound(c *gin.Context, name, raw string) (float64, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		badRequest(c, "'"+name+"' must be a finite number")
		return 0, false
	}
	return v, true
}

func parseFilter(c *gin.Context) (points.Filter, bool) {
	var f points.Filter
	if raw, ok := c.GetQuery("type"); ok {
		t, err := models.ParseTripType(raw)
		if err != nil {
			badRequest(c, err.Error())
			return f, false
		}
		f.TripType = t
	}
	switch c.DefaultQuery("justDestinations", "false") {
	case "true":
		f.JustDestinations = true
	case "false":
	default:
		badRequest(c, "'justDestinations' must be true or false")
		return f, false
	}
	return f, true
}
