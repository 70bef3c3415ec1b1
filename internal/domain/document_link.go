package domain

import (
	"time"

	"github.com/google/uuid"
)

// DocumentLink points at an externally hosted document (spec, design doc,
// meeting notes) attached to a project. The document body lives elsewhere;
// only the link is stored.
type DocumentLink struct {
	ID          uuid.UUID  `json:"id"`
	ProjectID   uuid.UUID  `json:"projectId"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Description *string    `json:"description,omitempty"`
	CreatedByID *uuid.UUID `json:"createdById,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// UpdateDocumentLinkData carries a partial link update; nil fields are left
// unchanged. The URL is immutable, replace the link to repoint it.
type UpdateDocumentLinkData struct {
	Title       *string
	Description *string
}

type DocumentLinkRepository interface {
	Create(link *DocumentLink) (*DocumentLink, error)
	GetByID(id uuid.UUID) (*DocumentLink, error)
	// ListByProject returns a project's links newest first.
	ListByProject(projectID uuid.UUID) ([]*DocumentLink, error)
	Update(id uuid.UUID, data *UpdateDocumentLinkData) (*DocumentLink, error)
	Delete(id uuid.UUID) error
}
