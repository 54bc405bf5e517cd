// Package users manages accounts and password credentials.
package users

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"trip_tracker/internal/apperr"
	"trip_tracker/internal/models"
	"trip_tracker/internal/storage"
)

const minPasswordLength = 8

// ErrInvalidCredentials is returned for an unknown email or a wrong password alike.
var ErrInvalidCredentials = errors.New("invalid email or password")

type Service struct {
	db   *gorm.DB
	cost int
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, cost: bcrypt.DefaultCost}
}

type NewUser struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) Create(ctx context.Context, in NewUser) (*models.User, error) {
	const op = "createUser"

	email := normalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.Validation(op, "a valid email is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperr.Validation(op, "password must be at least %d characters", minPasswordLength)
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, apperr.Storage(op, err)
	}

	user := models.User{
		Email:     email,
		Password:  hash,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		err = storage.Classify(op, err)
		if apperr.Is(err, apperr.KindConflict) {
			return nil, apperr.Conflict(op, "email already in use", err)
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate returns the user owning email when password matches.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	const op = "authenticate"

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storage.Classify(op, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*models.User, error) {
	const op = "getUser"

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		err = storage.Classify(op, err)
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.NotFound(op, "user %d not found", id)
		}
		return nil, err
	}
	return &user, nil
}

// Delete removes a user; trips and points follow through the cascade.
func (s *Service) Delete(ctx context.Context, id uint) error {
	const op = "deleteUser"

	res := s.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return storage.Classify(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(op, "user %d not found", id)
	}
	return nil
}

func (s *Service) DeleteByEmail(ctx context.Context, email string) error {
	const op = "deleteUserByEmail"

	email = normalizeEmail(email)
	if email == "" {
		return apperr.Validation(op, "email is required")
	}
	res := s.db.WithContext(ctx).Where("email = ?", email).Delete(&models.User{})
	if res.Error != nil {
		return storage.Classify(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(op, "user %s not found", email)
	}
	return nil
}
