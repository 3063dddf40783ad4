// Package auth provides registration and credential verification.
package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/prompty-labs/prompty-backend/internal/metrics"
	"github.com/prompty-labs/prompty-backend/internal/models"
	"github.com/prompty-labs/prompty-backend/internal/repository"
	"github.com/prompty-labs/prompty-backend/pkg/logger"
)

// Sentinel errors mapped to HTTP statuses by the API layer.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// UserRepository interface for user operations.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
}

// Service handles account registration and login.
type Service struct {
	users UserRepository
	log   *logger.Logger
}

// NewService creates a new auth service.
func NewService(users *repository.UserRepository, log *logger.Logger) *Service {
	return &Service{users: users, log: log}
}

// NewServiceWithInterfaces creates a new auth service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(users UserRepository, log *logger.Logger) *Service {
	return &Service{users: users, log: log}
}

// Register creates a new account. New users start at level 1 with 0 XP.
//
//nolint:revive // ctx reserved for future context-aware storage
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("name, email and password are required")
	}

	if _, err := s.users.GetByEmail(email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Level:        1,
		XP:           0,
	}
	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	metrics.RecordRegistration()
	s.log.Info().
		Uint("user_id", user.ID).
		Str("email", email).
		Msg("User registered")

	return user, nil
}

// Login verifies credentials. The error is identical for unknown email and
// wrong password so callers cannot probe which emails are registered.
//
//nolint:revive // ctx reserved for future context-aware storage
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		metrics.RecordLogin("failure")
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.RecordLogin("failure")
		return nil, ErrInvalidCredentials
	}

	metrics.RecordLogin("success")
	return user, nil
}

// GetUser retrieves a user by ID, returning ErrUserNotFound when the account
// no longer exists.
//
//nolint:revive // ctx reserved for future context-aware storage
func (s *Service) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
