package routes

import (
	"github.com/gin-gonic/gin"

	"trip_tracker/internal/middleware"
)

func HeatmapRoutes(r *gin.Engine, d Deps) {
	heat := r.Group("/heatmap")
	heat.Use(middleware.RequireAPIKey(d.APIKeys))
	heat.Use(spatial(d)...)
	{
		heat.GET("", d.Heatmap.GetHeatmap)
	}
}
