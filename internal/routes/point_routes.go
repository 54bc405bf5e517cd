package routes

import (
	"github.com/gin-gonic/gin"

	"trip_tracker/internal/middleware"
)

func PointRoutes(r *gin.Engine, d Deps) {
	points := r.Group("/points")
	points.Use(middleware.RequireAPIKey(d.APIKeys))
	points.Use(spatial(d)...)
	{
		points.GET("/window/:north/:south/:east/:west", d.Points.GetWindowPoints)
		points.GET("/range", d.Points.GetRangePoints)
	}
}
