package service

import (
	"net/url"
	"strings"

	"github.com/dvrhm/protrack/protrack-backend/internal/domain"
	"github.com/google/uuid"
)

// DocumentService manages document links attached to projects
type DocumentService struct {
	documentRepo domain.DocumentLinkRepository
	projectRepo  domain.ProjectRepository
	auditService *AuditService
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(documentRepo domain.DocumentLinkRepository, projectRepo domain.ProjectRepository, auditService *AuditService) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
		projectRepo:  projectRepo,
		auditService: auditService,
	}
}

// AddDocumentLinkInput holds the input for attaching a document link
type AddDocumentLinkInput struct {
	ProjectID   uuid.UUID
	Title       string
	URL         string
	Description *string
}

// AddDocumentLink attaches an external document link to a project
func (s *DocumentService) AddDocumentLink(input AddDocumentLinkInput, actor Actor) (*domain.DocumentLink, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}
	if len(title) > domain.MaxDocumentTitleLength {
		return nil, domain.ErrTitleTooLong
	}

	rawURL := strings.TrimSpace(input.URL)
	if !validDocumentURL(rawURL) {
		return nil, domain.ErrInvalidDocumentURL
	}

	project, err := s.projectRepo.GetByID(input.ProjectID)
	if err != nil {
		return nil, err
	}

	link, err := s.documentRepo.Create(&domain.DocumentLink{
		ProjectID:   input.ProjectID,
		Title:       title,
		URL:         rawURL,
		Description: trimmedOrNil(input.Description),
		CreatedByID: actor.UserID,
	})
	if err != nil {
		return nil, err
	}

	s.auditService.Log(actor, domain.ActionAddDocumentLink, "document_link", &link.ID,
		&link.Title, map[string]any{
			"project_name": project.Name,
			"document_url": link.URL,
		})

	return link, nil
}

// ListDocumentLinks retrieves a project's document links newest first
func (s *DocumentService) ListDocumentLinks(projectID uuid.UUID) ([]*domain.DocumentLink, error) {
	if _, err := s.projectRepo.GetByID(projectID); err != nil {
		return nil, err
	}
	return s.documentRepo.ListByProject(projectID)
}

// UpdateDocumentLinkInput holds a partial link update; nil fields are left unchanged
type UpdateDocumentLinkInput struct {
	Title       *string
	Description *string
}

// UpdateDocumentLink applies the supplied fields to a document link. The URL
// is immutable once created.
func (s *DocumentService) UpdateDocumentLink(id uuid.UUID, input UpdateDocumentLinkInput, actor Actor) (*domain.DocumentLink, error) {
	var title *string
	updatedFields := make([]string, 0, 2)
	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		if trimmed == "" {
			return nil, domain.ErrTitleRequired
		}
		if len(trimmed) > domain.MaxDocumentTitleLength {
			return nil, domain.ErrTitleTooLong
		}
		title = &trimmed
		updatedFields = append(updatedFields, "title")
	}
	if input.Description != nil {
		updatedFields = append(updatedFields, "description")
	}

	link, err := s.documentRepo.Update(id, &domain.UpdateDocumentLinkData{
		Title:       title,
		Description: trimmedOrNil(input.Description),
	})
	if err != nil {
		return nil, err
	}

	s.auditService.Log(actor, domain.ActionUpdateDocumentLink, "document_link", &link.ID,
		&link.Title, map[string]any{"updated_fields": updatedFields})

	return link, nil
}

// DeleteDocumentLink removes a document link
func (s *DocumentService) DeleteDocumentLink(id uuid.UUID, actor Actor) error {
	link, err := s.documentRepo.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.documentRepo.Delete(id); err != nil {
		return err
	}

	details := map[string]any{}
	if project, err := s.projectRepo.GetByID(link.ProjectID); err == nil {
		details["project_name"] = project.Name
	}
	s.auditService.Log(actor, domain.ActionDeleteDocumentLink, "document_link", &link.ID,
		&link.Title, details)

	return nil
}

// validDocumentURL accepts absolute http(s) URLs with a host
func validDocumentURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
