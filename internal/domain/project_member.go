package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProjectMember records a user's membership in a project. Each user appears
// at most once per project.
type ProjectMember struct {
	ID         uuid.UUID `json:"id"`
	ProjectID  uuid.UUID `json:"projectId"`
	UserID     uuid.UUID `json:"userId"`
	Role       *string   `json:"role,omitempty"`
	AssignedAt time.Time `json:"assignedAt"`

	// User is the joined directory entry, populated on reads
	User *User `json:"user,omitempty"`
}

type ProjectMemberRepository interface {
	// Create adds the membership. Returns ErrAlreadyMember when the user is
	// already a member of the project.
	Create(member *ProjectMember) (*ProjectMember, error)
	// ListByProject returns a project's members ordered by assignment time,
	// with User populated.
	ListByProject(projectID uuid.UUID) ([]*ProjectMember, error)
	GetByProjectAndUser(projectID, userID uuid.UUID) (*ProjectMember, error)
	// Delete removes the membership. Returns ErrMemberNotFound if absent.
	Delete(projectID, userID uuid.UUID) error
}
