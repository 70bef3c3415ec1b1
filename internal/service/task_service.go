package service

import (
	"strings"
	"time"

	"github.com/dvrhm/protrack/protrack-backend/internal/domain"
	"github.com/dvrhm/protrack/protrack-backend/internal/websocket"
	"github.com/google/uuid"
)

// TaskService handles task-related business logic
type TaskService struct {
	taskRepo     domain.TaskRepository
	projectRepo  domain.ProjectRepository
	userRepo     domain.UserRepository
	auditService *AuditService
	publisher    websocket.EventPublisher
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo domain.TaskRepository, projectRepo domain.ProjectRepository, userRepo domain.UserRepository, auditService *AuditService, publisher websocket.EventPublisher) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		projectRepo:  projectRepo,
		userRepo:     userRepo,
		auditService: auditService,
		publisher:    publisher,
	}
}

// CreateTaskInput holds the input for creating a task
type CreateTaskInput struct {
	ProjectID   uuid.UUID
	Name        string
	Description *string
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
	AssigneeID  *uuid.UUID
	DueDate     *time.Time
}

// CreateTask creates a new task with validation
func (s *TaskService) CreateTask(input CreateTaskInput, actor Actor) (*domain.Task, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxTaskNameLength {
		return nil, domain.ErrNameTooLong
	}

	status := domain.TaskStatusTodo
	if input.Status != nil {
		if !domain.ValidTaskStatus(*input.Status) {
			return nil, domain.ErrInvalidTaskStatus
		}
		status = *input.Status
	}

	priority := domain.TaskPriorityMedium
	if input.Priority != nil {
		if !domain.ValidTaskPriority(*input.Priority) {
			return nil, domain.ErrInvalidTaskPriority
		}
		priority = *input.Priority
	}

	project, err := s.projectRepo.GetByID(input.ProjectID)
	if err != nil {
		return nil, err
	}

	if input.AssigneeID != nil {
		if _, err := s.userRepo.GetByID(*input.AssigneeID); err != nil {
			return nil, domain.ErrAssigneeNotFound
		}
	}

	task, err := s.taskRepo.Create(&domain.Task{
		ProjectID:   input.ProjectID,
		Name:        name,
		Description: trimmedOrNil(input.Description),
		Status:      status,
		Priority:    priority,
		AssigneeID:  input.AssigneeID,
		CreatedByID: actor.UserID,
		DueDate:     input.DueDate,
	})
	if err != nil {
		return nil, err
	}

	s.auditService.Log(actor, domain.ActionCreateTask, "task", &task.ID,
		&task.Name, map[string]any{
			"project_name": project.Name,
			"status":       string(task.Status),
			"priority":     string(task.Priority),
		})
	s.publisher.Publish(websocket.TaskCreated(task))

	return task, nil
}

// GetTask retrieves a task by ID
func (s *TaskService) GetTask(id uuid.UUID) (*domain.Task, error) {
	return s.taskRepo.GetByID(id)
}

// ListTasks retrieves tasks matching the filters. The overdue filter is
// evaluated against today at query time.
func (s *TaskService) ListTasks(filters *domain.TaskFilters) ([]*domain.Task, error) {
	if filters != nil {
		if filters.Status != nil && !domain.ValidTaskStatus(*filters.Status) {
			return nil, domain.ErrInvalidTaskStatus
		}
		if filters.Skip < 0 {
			filters.Skip = 0
		}
		if filters.Limit < 1 || filters.Limit > domain.MaxListLimit {
			filters.Limit = domain.DefaultListLimit
		}
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	return s.taskRepo.List(filters, today)
}

// UpdateTaskInput holds a partial task update; nil fields are left unchanged
type UpdateTaskInput struct {
	Name        *string
	Description *string
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
	AssigneeID  *uuid.UUID
	DueDate     *time.Time
}

// UpdateTask applies the supplied fields to a task. Moving into completed
// stamps completed_at; moving out of completed clears it.
func (s *TaskService) UpdateTask(id uuid.UUID, input UpdateTaskInput, actor Actor) (*domain.Task, error) {
	var name *string
	updatedFields := make([]string, 0, 6)
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, domain.ErrNameRequired
		}
		if len(trimmed) > domain.MaxTaskNameLength {
			return nil, domain.ErrNameTooLong
		}
		name = &trimmed
		updatedFields = append(updatedFields, "name")
	}
	if input.Description != nil {
		updatedFields = append(updatedFields, "description")
	}
	if input.Status != nil {
		if !domain.ValidTaskStatus(*input.Status) {
			return nil, domain.ErrInvalidTaskStatus
		}
		updatedFields = append(updatedFields, "status")
	}
	if input.Priority != nil {
		if !domain.ValidTaskPriority(*input.Priority) {
			return nil, domain.ErrInvalidTaskPriority
		}
		updatedFields = append(updatedFields, "priority")
	}
	if input.AssigneeID != nil {
		if _, err := s.userRepo.GetByID(*input.AssigneeID); err != nil {
			return nil, domain.ErrAssigneeNotFound
		}
		updatedFields = append(updatedFields, "assignee_id")
	}
	if input.DueDate != nil {
		updatedFields = append(updatedFields, "due_date")
	}

	current, err := s.taskRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	data := &domain.UpdateTaskData{
		Name:        name,
		Description: trimmedOrNil(input.Description),
		Status:      input.Status,
		Priority:    input.Priority,
		AssigneeID:  input.AssigneeID,
		DueDate:     input.DueDate,
	}
	if input.Status != nil {
		if *input.Status == domain.TaskStatusCompleted {
			if current.CompletedAt == nil {
				now := time.Now().UTC()
				data.CompletedAt = &now
			}
		} else {
			data.ClearCompletedAt = true
		}
	}

	task, err := s.taskRepo.Update(id, data)
	if err != nil {
		return nil, err
	}

	s.auditService.Log(actor, domain.ActionUpdateTask, "task", &task.ID,
		&task.Name, map[string]any{"updated_fields": updatedFields})
	s.publisher.Publish(websocket.TaskUpdated(task))

	return task, nil
}

// DeleteTask removes a task
func (s *TaskService) DeleteTask(id uuid.UUID, actor Actor) error {
	task, err := s.taskRepo.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(id); err != nil {
		return err
	}

	s.auditService.Log(actor, domain.ActionDeleteTask, "task", &task.ID, &task.Name, nil)
	s.publisher.Publish(websocket.TaskDeleted(task))

	return nil
}
