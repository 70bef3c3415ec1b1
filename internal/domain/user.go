package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a directory entry used for project ownership and task assignment.
// Registration and authentication live outside this service.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserRepository interface {
	GetByID(id uuid.UUID) (*User, error)
	List() ([]*User, error)
}
