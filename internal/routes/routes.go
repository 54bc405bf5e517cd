package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trip_tracker/internal/controllers"
	"trip_tracker/internal/middleware"
)

// Deps is everything the router needs to mount the API.
type Deps struct {
	Auth    *controllers.AuthController
	Users   *controllers.UserController
	Trips   *controllers.TripController
	Points  *controllers.PointController
	Heatmap *controllers.HeatmapController
	Health  *controllers.HealthController

	Tokens  *middleware.Auth
	APIKeys []string
	// Limiter throttles the spatial read endpoints; nil disables throttling.
	Limiter *middleware.RateLimiter
	// AccessLog is optional.
	AccessLog gin.HandlerFunc
	Metrics   middleware.RequestObserver
	// MetricsHandler serves GET /metrics when set.
	MetricsHandler http.Handler
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())
	if d.AccessLog != nil {
		r.Use(d.AccessLog)
	}
	if d.Metrics != nil {
		r.Use(middleware.RequestMetrics(d.Metrics))
	}

	r.GET("/health", d.Health.Health)
	if d.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(d.MetricsHandler))
	}

	AuthRoutes(r, d)
	UserRoutes(r, d)
	TripRoutes(r, d)
	PointRoutes(r, d)
	HeatmapRoutes(r, d)

	return r
}

// spatial returns the handlers guarding the gated read endpoints.
func spatial(d Deps) []gin.HandlerFunc {
	if d.Limiter == nil {
		return nil
	}
	return []gin.HandlerFunc{d.Limiter.Middleware()}
}
