package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trip_tracker/internal/middleware"
	"trip_tracker/internal/models"
	"trip_tracker/internal/users"
)

type UserService interface {
	Create(ctx context.Context, in users.NewUser) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	Get(ctx context.Context, id uint) (*models.User, error)
	Delete(ctx context.Context, id uint) error
	DeleteByEmail(ctx context.Context, email string) error
}

type TokenIssuer interface {
	GenerateToken(userID uint) (string, error)
}

type AuthController struct {
	users  UserService
	tokens TokenIssuer
}

func NewAuthController(users UserService, tokens TokenIssuer) *AuthController {
	return &AuthController{users: users, tokens: tokens}
}

type credentialsInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates an account from an email and password.
func (ac *AuthController) Register(c *gin.Context) {
	var input credentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.users.Create(c.Request.Context(), users.NewUser{Email: input.Email, Password: input.Password})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "email": user.Email})
}

// Login checks credentials and returns a signed access token.
func (ac *AuthController) Login(c *gin.Context) {
	var input credentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.users.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		respondError(c, err)
		return
	}

	token, err := ac.tokens.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"user":        gin.H{"id": user.ID, "email": user.Email},
	})
}

// Me echoes the authenticated caller.
func (ac *AuthController) Me(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uint)
	c.JSON(http.StatusOK, gin.H{"user": gin.H{"id": userID}})
}
