package service

import (
	"github.com/dvrhm/protrack/protrack-backend/internal/domain"
	"github.com/google/uuid"
)

// UserService exposes the read-only user directory
type UserService struct {
	userRepo domain.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo domain.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(id)
}

// ListUsers retrieves all users
func (s *UserService) ListUsers() ([]*domain.User, error) {
	return s.userRepo.List()
}
