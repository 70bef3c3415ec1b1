package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dvrhm/protrack/protrack-backend/internal/domain"
	"github.com/dvrhm/protrack/protrack-backend/internal/middleware"
	"github.com/dvrhm/protrack/protrack-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ProjectHandler handles project-related HTTP requests
type ProjectHandler struct {
	projectService *service.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// CreateProjectRequest represents the create project request body
type CreateProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	StartDate   *string `json:"startDate,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
	Budget      *string `json:"budget,omitempty"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status"`
	StartDate   *string `json:"startDate,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
	Budget      string  `json:"budget"`
	Spent       string  `json:"spent"`
	OwnerID     string  `json:"ownerId"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// CreateProject handles POST /api/v1/projects
func (h *ProjectHandler) CreateProject(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == nil {
		return NewUnauthorizedError(c, "User identity required")
	}

	var req CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     *userID,
	}

	if req.Status != nil && *req.Status != "" {
		status := domain.ProjectStatus(*req.Status)
		input.Status = &status
	}

	startDate, err := parseDateParam(req.StartDate)
	if err != nil {
		return NewValidationError(c, "Invalid startDate", []ValidationError{
			{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}
	input.StartDate = startDate

	endDate, err := parseDateParam(req.EndDate)
	if err != nil {
		return NewValidationError(c, "Invalid endDate", []ValidationError{
			{Field: "endDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}
	input.EndDate = endDate

	if req.Budget != nil && *req.Budget != "" {
		budget, err := decimal.NewFromString(*req.Budget)
		if err != nil {
			return NewValidationError(c, "Invalid budget", []ValidationError{
				{Field: "budget", Message: "Must be a valid decimal number"},
			})
		}
		input.Budget = &budget
	}

	project, err := h.projectService.CreateProject(input, requestActor(c))
	if err != nil {
		if resp := projectValidationResponse(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Msg("Failed to create project")
		return NewInternalError(c, "Failed to create project")
	}

	log.Info().Str("project_id", project.ID.String()).Str("name", project.Name).Msg("Project created")
	return c.JSON(http.StatusCreated, toProjectResponse(project))
}

// GetProjects handles GET /api/v1/projects
func (h *ProjectHandler) GetProjects(c echo.Context) error {
	filters := &domain.ProjectFilters{}

	if statusStr := c.QueryParam("status"); statusStr != "" {
		status := domain.ProjectStatus(statusStr)
		filters.Status = &status
	}

	skip, limit, err := parsePaginationParams(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}
	filters.Skip = skip
	filters.Limit = limit

	projects, err := h.projectService.ListProjects(filters)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidProjectStatus) {
			return NewValidationError(c, "Invalid status (must be one of: planning, in_progress, completed, archived)", nil)
		}
		log.Error().Err(err).Msg("Failed to list projects")
		return NewInternalError(c, "Failed to list projects")
	}

	response := make([]ProjectResponse, len(projects))
	for i, project := range projects {
		response[i] = toProjectResponse(project)
	}
	return c.JSON(http.StatusOK, response)
}

// GetProject handles GET /api/v1/projects/:id
func (h *ProjectHandler) GetProject(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid project ID", nil)
	}

	project, err := h.projectService.GetProject(id)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return NewNotFoundError(c, "Project not found")
		}
		log.Error().Err(err).Str("project_id", id.String()).Msg("Failed to get project")
		return NewInternalError(c, "Failed to get project")
	}

	return c.JSON(http.StatusOK, toProjectResponse(project))
}

// UpdateProjectRequest represents the update project request body.
// Omitted fields are left unchanged.
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	StartDate   *string `json:"startDate,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
	Budget      *string `json:"budget,omitempty"`
}

// UpdateProject handles PUT /api/v1/projects/:id
func (h *ProjectHandler) UpdateProject(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid project ID", nil)
	}

	var req UpdateProjectRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	}

	if req.Status != nil {
		status := domain.ProjectStatus(*req.Status)
		input.Status = &status
	}

	startDate, err := parseDateParam(req.StartDate)
	if err != nil {
		return NewValidationError(c, "Invalid startDate", []ValidationError{
			{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}
	input.StartDate = startDate

	endDate, err := parseDateParam(req.EndDate)
	if err != nil {
		return NewValidationError(c, "Invalid endDate", []ValidationError{
			{Field: "endDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}
	input.EndDate = endDate

	if req.Budget != nil {
		budget, err := decimal.NewFromString(*req.Budget)
		if err != nil {
			return NewValidationError(c, "Invalid budget", []ValidationError{
				{Field: "budget", Message: "Must be a valid decimal number"},
			})
		}
		input.Budget = &budget
	}

	project, err := h.projectService.UpdateProject(id, input, requestActor(c))
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return NewNotFoundError(c, "Project not found")
		}
		if resp := projectValidationResponse(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Str("project_id", id.String()).Msg("Failed to update project")
		return NewInternalError(c, "Failed to update project")
	}

	log.Info().Str("project_id", project.ID.String()).Msg("Project updated")
	return c.JSON(http.StatusOK, toProjectResponse(project))
}

// DeleteProject handles DELETE /api/v1/projects/:id
func (h *ProjectHandler) DeleteProject(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid project ID", nil)
	}

	if err := h.projectService.DeleteProject(id, requestActor(c)); err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return NewNotFoundError(c, "Project not found")
		}
		log.Error().Err(err).Str("project_id", id.String()).Msg("Failed to delete project")
		return NewInternalError(c, "Failed to delete project")
	}

	log.Info().Str("project_id", id.String()).Msg("Project deleted")
	return c.NoContent(http.StatusNoContent)
}

// projectValidationResponse maps project validation errors to problem
// responses; returns nil for errors it does not recognize
func projectValidationResponse(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrNameRequired) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	}
	if errors.Is(err, domain.ErrNameTooLong) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 200 characters or less"},
		})
	}
	if errors.Is(err, domain.ErrInvalidProjectStatus) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "status", Message: "Must be one of: planning, in_progress, completed, archived"},
		})
	}
	if errors.Is(err, domain.ErrNegativeBudget) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "budget", Message: "Budget must not be negative"},
		})
	}
	if errors.Is(err, domain.ErrInvalidDateRange) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "endDate", Message: "End date must not be before start date"},
		})
	}
	return nil
}

// Helper function to convert domain.Project to ProjectResponse
func toProjectResponse(project *domain.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:        project.ID.String(),
		Name:      project.Name,
		Status:    string(project.Status),
		Budget:    project.Budget.StringFixed(2),
		Spent:     project.Spent.StringFixed(2),
		OwnerID:   project.OwnerID.String(),
		CreatedAt: project.CreatedAt.Format(time.RFC3339),
		UpdatedAt: project.UpdatedAt.Format(time.RFC3339),
	}
	if project.Description != nil {
		resp.Description = project.Description
	}
	if project.StartDate != nil {
		startDate := project.StartDate.Format("2006-01-02")
		resp.StartDate = &startDate
	}
	if project.EndDate != nil {
		endDate := project.EndDate.Format("2006-01-02")
		resp.EndDate = &endDate
	}
	return resp
}

// requestActor builds the audit actor from the request identity and address
func requestActor(c echo.Context) service.Actor {
	actor := service.Actor{UserID: middleware.GetUserID(c)}
	if ip := c.RealIP(); ip != "" {
		actor.IPAddress = &ip
	}
	return actor
}

// parseDateParam parses an optional YYYY-MM-DD value
func parseDateParam(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// parsePaginationParams reads skip and limit query params with defaults
func parsePaginationParams(c echo.Context) (int32, int32, error) {
	var skip, limit int32

	if skipStr := c.QueryParam("skip"); skipStr != "" {
		v, err := strconv.ParseInt(skipStr, 10, 32)
		if err != nil || v < 0 {
			return 0, 0, errors.New("Invalid skip (must be a non-negative integer)")
		}
		skip = int32(v)
	}

	if limitStr := c.QueryParam("limit"); limitStr != "" {
		v, err := strconv.ParseInt(limitStr, 10, 32)
		if err != nil || v < 1 {
			return 0, 0, errors.New("Invalid limit (must be a positive integer)")
		}
		limit = int32(v)
	}

	return skip, limit, nil
}
