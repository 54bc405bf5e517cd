package routes

import (
	"github.com/gin-gonic/gin"

	"trip_tracker/internal/middleware"
)

func TripRoutes(r *gin.Engine, d Deps) {
	trips := r.Group("/trips")
	trips.Use(middleware.RequireAPIKey(d.APIKeys))
	{
		trips.POST("", d.Trips.CreateTrip)
		trips.POST("/bulk", d.Trips.CreateTripsBulk)
		trips.GET("/:id", d.Trips.GetTrip)
		trips.PUT("/:id", d.Trips.UpdateTrip)
		trips.DELETE("/:id", d.Trips.DeleteTrip)
		trips.GET("/:id/path", d.Trips.GetTripPath)

		trips.GET("/:id/points", d.Points.ListTripPoints)
		trips.GET("/:id/points/:time", d.Points.GetPoint)
		trips.PUT("/:id/points/:time", d.Points.UpdatePoint)
		trips.DELETE("/:id/points/:time", d.Points.DeletePoint)
	}
}
