package routes

import (
	"github.com/gin-gonic/gin"

	"trip_tracker/internal/middleware"
)

func UserRoutes(r *gin.Engine, d Deps) {
	users := r.Group("/users")
	users.Use(middleware.RequireAPIKey(d.APIKeys))
	{
		users.POST("", d.Users.CreateUser)
		users.DELETE("", d.Users.DeleteUserByEmail)
		users.GET("/:id", d.Users.GetUser)
		users.GET("/:id/trips", d.Users.ListUserTrips)
		users.DELETE("/:id", d.Users.DeleteUser)
	}
}
