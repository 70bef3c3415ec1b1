package service

import (
	"strings"
	"time"

	"github.com/dvrhm/protrack/protrack-backend/internal/domain"
	"github.com/dvrhm/protrack/protrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProjectService handles project-related business logic
type ProjectService struct {
	projectRepo  domain.ProjectRepository
	auditService *AuditService
	publisher    websocket.EventPublisher
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo domain.ProjectRepository, auditService *AuditService, publisher websocket.EventPublisher) *ProjectService {
	return &ProjectService{
		projectRepo:  projectRepo,
		auditService: auditService,
		publisher:    publisher,
	}
}

// CreateProjectInput holds the input for creating a project
type CreateProjectInput struct {
	Name        string
	Description *string
	Status      *domain.ProjectStatus
	StartDate   *time.Time
	EndDate     *time.Time
	Budget      *decimal.Decimal
	OwnerID     uuid.UUID
}

// CreateProject creates a new project with validation
func (s *ProjectService) CreateProject(input CreateProjectInput, actor Actor) (*domain.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxProjectNameLength {
		return nil, domain.ErrNameTooLong
	}

	status := domain.ProjectStatusPlanning
	if input.Status != nil {
		if !domain.ValidProjectStatus(*input.Status) {
			return nil, domain.ErrInvalidProjectStatus
		}
		status = *input.Status
	}

	budget := decimal.Zero
	if input.Budget != nil {
		if input.Budget.IsNegative() {
			return nil, domain.ErrNegativeBudget
		}
		budget = *input.Budget
	}

	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, domain.ErrInvalidDateRange
	}

	project, err := s.projectRepo.Create(&domain.Project{
		Name:        name,
		Description: trimmedOrNil(input.Description),
		Status:      status,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Budget:      budget,
		OwnerID:     input.OwnerID,
	})
	if err != nil {
		return nil, err
	}

	s.auditService.Log(actor, domain.ActionCreateProject, "project", &project.ID,
		&project.Name, map[string]any{
			"status": string(project.Status),
			"budget": project.Budget.String(),
		})
	s.publisher.Publish(websocket.ProjectCreated(project))

	return project, nil
}

// GetProject retrieves a project by ID
func (s *ProjectService) GetProject(id uuid.UUID) (*domain.Project, error) {
	return s.projectRepo.GetByID(id)
}

// ListProjects retrieves projects with an optional status filter and pagination
func (s *ProjectService) ListProjects(filters *domain.ProjectFilters) ([]*domain.Project, error) {
	if filters != nil {
		if filters.Status != nil && !domain.ValidProjectStatus(*filters.Status) {
			return nil, domain.ErrInvalidProjectStatus
		}
		if filters.Skip < 0 {
			filters.Skip = 0
		}
		if filters.Limit < 1 || filters.Limit > domain.MaxListLimit {
			filters.Limit = domain.DefaultListLimit
		}
	}
	return s.projectRepo.List(filters)
}

// UpdateProjectInput holds a partial project update; nil fields are left unchanged
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *domain.ProjectStatus
	StartDate   *time.Time
	EndDate     *time.Time
	Budget      *decimal.Decimal
}

// UpdateProject applies the supplied fields to a project with validation
func (s *ProjectService) UpdateProject(id uuid.UUID, input UpdateProjectInput, actor Actor) (*domain.Project, error) {
	var name *string
	updatedFields := make([]string, 0, 6)
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, domain.ErrNameRequired
		}
		if len(trimmed) > domain.MaxProjectNameLength {
			return nil, domain.ErrNameTooLong
		}
		name = &trimmed
		updatedFields = append(updatedFields, "name")
	}
	if input.Description != nil {
		updatedFields = append(updatedFields, "description")
	}
	if input.Status != nil {
		if !domain.ValidProjectStatus(*input.Status) {
			return nil, domain.ErrInvalidProjectStatus
		}
		updatedFields = append(updatedFields, "status")
	}
	if input.Budget != nil {
		if input.Budget.IsNegative() {
			return nil, domain.ErrNegativeBudget
		}
		updatedFields = append(updatedFields, "budget")
	}
	if input.StartDate != nil {
		updatedFields = append(updatedFields, "start_date")
	}
	if input.EndDate != nil {
		updatedFields = append(updatedFields, "end_date")
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, domain.ErrInvalidDateRange
	}

	project, err := s.projectRepo.Update(id, &domain.UpdateProjectData{
		Name:        name,
		Description: trimmedOrNil(input.Description),
		Status:      input.Status,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Budget:      input.Budget,
	})
	if err != nil {
		return nil, err
	}

	s.auditService.Log(actor, domain.ActionUpdateProject, "project", &project.ID,
		&project.Name, map[string]any{"updated_fields": updatedFields})
	s.publisher.Publish(websocket.ProjectUpdated(project))

	return project, nil
}

// DeleteProject removes a project; its tasks and expenses cascade
func (s *ProjectService) DeleteProject(id uuid.UUID, actor Actor) error {
	project, err := s.projectRepo.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.projectRepo.Delete(id); err != nil {
		return err
	}

	s.auditService.Log(actor, domain.ActionDeleteProject, "project", &project.ID,
		&project.Name, nil)
	s.publisher.Publish(websocket.ProjectDeleted(project))

	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
