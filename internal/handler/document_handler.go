package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/dvrhm/protrack/protrack-backend/internal/domain"
	"github.com/dvrhm/protrack/protrack-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// DocumentHandler handles document link HTTP requests
type DocumentHandler struct {
	documentService *service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// AddDocumentLinkRequest represents the add document link request body
type AddDocumentLinkRequest struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Description *string `json:"description,omitempty"`
}

// UpdateDocumentLinkRequest represents the update document link request body.
// Omitted fields are left unchanged; the URL cannot be changed.
type UpdateDocumentLinkRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// DocumentLinkResponse represents a document link in API responses
type DocumentLinkResponse struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"projectId"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Description *string `json:"description,omitempty"`
	CreatedByID *string `json:"createdById,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// AddDocumentLink handles POST /api/v1/projects/:id/documents
func (h *DocumentHandler) AddDocumentLink(c echo.Context) error {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid project ID", nil)
	}

	var req AddDocumentLinkRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	link, err := h.documentService.AddDocumentLink(service.AddDocumentLinkInput{
		ProjectID:   projectID,
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
	}, requestActor(c))
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return NewNotFoundError(c, "Project not found")
		}
		if resp := documentValidationResponse(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Str("project_id", projectID.String()).Msg("Failed to add document link")
		return NewInternalError(c, "Failed to add document link")
	}

	log.Info().Str("link_id", link.ID.String()).Str("project_id", projectID.String()).Msg("Document link added")
	return c.JSON(http.StatusCreated, toDocumentLinkResponse(link))
}

// GetDocumentLinks handles GET /api/v1/projects/:id/documents
func (h *DocumentHandler) GetDocumentLinks(c echo.Context) error {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid project ID", nil)
	}

	links, err := h.documentService.ListDocumentLinks(projectID)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return NewNotFoundError(c, "Project not found")
		}
		log.Error().Err(err).Str("project_id", projectID.String()).Msg("Failed to list document links")
		return NewInternalError(c, "Failed to list document links")
	}

	response := make([]DocumentLinkResponse, len(links))
	for i, link := range links {
		response[i] = toDocumentLinkResponse(link)
	}
	return c.JSON(http.StatusOK, response)
}

// UpdateDocumentLink handles PUT /api/v1/documents/:id
func (h *DocumentHandler) UpdateDocumentLink(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid document link ID", nil)
	}

	var req UpdateDocumentLinkRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	link, err := h.documentService.UpdateDocumentLink(id, service.UpdateDocumentLinkInput{
		Title:       req.Title,
		Description: req.Description,
	}, requestActor(c))
	if err != nil {
		if errors.Is(err, domain.ErrDocumentLinkNotFound) {
			return NewNotFoundError(c, "Document link not found")
		}
		if resp := documentValidationResponse(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Str("link_id", id.String()).Msg("Failed to update document link")
		return NewInternalError(c, "Failed to update document link")
	}

	log.Info().Str("link_id", link.ID.String()).Msg("Document link updated")
	return c.JSON(http.StatusOK, toDocumentLinkResponse(link))
}

// DeleteDocumentLink handles DELETE /api/v1/documents/:id
func (h *DocumentHandler) DeleteDocumentLink(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid document link ID", nil)
	}

	if err := h.documentService.DeleteDocumentLink(id, requestActor(c)); err != nil {
		if errors.Is(err, domain.ErrDocumentLinkNotFound) {
			return NewNotFoundError(c, "Document link not found")
		}
		log.Error().Err(err).Str("link_id", id.String()).Msg("Failed to delete document link")
		return NewInternalError(c, "Failed to delete document link")
	}

	log.Info().Str("link_id", id.String()).Msg("Document link deleted")
	return c.NoContent(http.StatusNoContent)
}

// documentValidationResponse maps document link validation errors to problem
// responses; returns nil for errors it does not recognize
func documentValidationResponse(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrTitleRequired) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "title", Message: "Title is required"},
		})
	}
	if errors.Is(err, domain.ErrTitleTooLong) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "title", Message: "Title must be 200 characters or less"},
		})
	}
	if errors.Is(err, domain.ErrInvalidDocumentURL) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "url", Message: "Must be an absolute http or https URL"},
		})
	}
	return nil
}

func toDocumentLinkResponse(link *domain.DocumentLink) DocumentLinkResponse {
	resp := DocumentLinkResponse{
		ID:          link.ID.String(),
		ProjectID:   link.ProjectID.String(),
		Title:       link.Title,
		URL:         link.URL,
		Description: link.Description,
		CreatedAt:   link.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   link.UpdatedAt.Format(time.RFC3339),
	}
	if link.CreatedByID != nil {
		createdByID := link.CreatedByID.String()
		resp.CreatedByID = &createdByID
	}
	return resp
}
