package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trip_tracker/internal/users"
)

type UserController struct {
	users UserService
	trips TripService
}

func NewUserController(users UserService, trips TripService) *UserController {
	return &UserController{users: users, trips: trips}
}

// CreateUser allows an API client to create a user account.
func (uc *UserController) CreateUser(c *gin.Context) {
	var input struct {
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user input: " + err.Error()})
		return
	}

	user, err := uc.users.Create(c.Request.Context(), users.NewUser{
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID})
}

// GetUser returns a user without the password hash.
func (uc *UserController) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, err := uc.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ListUserTrips returns every trip recorded by the user.
func (uc *UserController) ListUserTrips(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	trips, err := uc.trips.ListTripsByUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": trips})
}

// DeleteUser removes a user together with their trips and points.
func (uc *UserController) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := uc.users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// DeleteUserByEmail handles DELETE /users?email=...
func (uc *UserController) DeleteUserByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		badRequest(c, "'email' query parameter is required")
		return
	}
	if err := uc.users.DeleteByEmail(c.Request.Context(), email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
