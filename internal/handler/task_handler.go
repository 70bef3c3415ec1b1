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

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTaskRequest represents the create task request body
type CreateTaskRequest struct {
	ProjectID   string  `json:"projectId"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	AssigneeID  *string `json:"assigneeId,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"projectId"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	AssigneeID  *string `json:"assigneeId,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	CompletedAt *string `json:"completedAt,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// CreateTask handles POST /api/v1/tasks
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "projectId", Message: "Must be a valid project ID"},
		})
	}

	input := service.CreateTaskInput{
		ProjectID:   projectID,
		Name:        req.Name,
		Description: req.Description,
	}

	if req.Status != nil && *req.Status != "" {
		status := domain.TaskStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil && *req.Priority != "" {
		priority := domain.TaskPriority(*req.Priority)
		input.Priority = &priority
	}
	if req.AssigneeID != nil && *req.AssigneeID != "" {
		assigneeID, err := uuid.Parse(*req.AssigneeID)
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "assigneeId", Message: "Must be a valid user ID"},
			})
		}
		input.AssigneeID = &assigneeID
	}

	dueDate, err := parseDateParam(req.DueDate)
	if err != nil {
		return NewValidationError(c, "Invalid dueDate", []ValidationError{
			{Field: "dueDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}
	input.DueDate = dueDate

	task, err := h.taskService.CreateTask(input, requestActor(c))
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "projectId", Message: "Project not found"},
			})
		}
		if errors.Is(err, domain.ErrAssigneeNotFound) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "assigneeId", Message: "Assignee not found"},
			})
		}
		if resp := taskValidationResponse(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Str("project_id", projectID.String()).Msg("Failed to create task")
		return NewInternalError(c, "Failed to create task")
	}

	log.Info().Str("task_id", task.ID.String()).Str("name", task.Name).Msg("Task created")
	return c.JSON(http.StatusCreated, toTaskResponse(task))
}

// GetTasks handles GET /api/v1/tasks
func (h *TaskHandler) GetTasks(c echo.Context) error {
	filters := &domain.TaskFilters{}

	if projectIDStr := c.QueryParam("projectId"); projectIDStr != "" {
		projectID, err := uuid.Parse(projectIDStr)
		if err != nil {
			return NewValidationError(c, "Invalid projectId", nil)
		}
		filters.ProjectID = &projectID
	}

	if assigneeIDStr := c.QueryParam("assigneeId"); assigneeIDStr != "" {
		assigneeID, err := uuid.Parse(assigneeIDStr)
		if err != nil {
			return NewValidationError(c, "Invalid assigneeId", nil)
		}
		filters.AssigneeID = &assigneeID
	}

	if statusStr := c.QueryParam("status"); statusStr != "" {
		status := domain.TaskStatus(statusStr)
		filters.Status = &status
	}

	if overdueStr := c.QueryParam("overdue"); overdueStr != "" {
		switch overdueStr {
		case "true":
			overdue := true
			filters.Overdue = &overdue
		case "false":
			overdue := false
			filters.Overdue = &overdue
		default:
			return NewValidationError(c, "Invalid overdue (must be 'true' or 'false')", nil)
		}
	}

	skip, limit, err := parsePaginationParams(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}
	filters.Skip = skip
	filters.Limit = limit

	tasks, err := h.taskService.ListTasks(filters)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTaskStatus) {
			return NewValidationError(c, "Invalid status (must be one of: todo, in_progress, in_review, completed, cancelled)", nil)
		}
		log.Error().Err(err).Msg("Failed to list tasks")
		return NewInternalError(c, "Failed to list tasks")
	}

	response := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = toTaskResponse(task)
	}
	return c.JSON(http.StatusOK, response)
}

// GetTask handles GET /api/v1/tasks/:id
func (h *TaskHandler) GetTask(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid task ID", nil)
	}

	task, err := h.taskService.GetTask(id)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return NewNotFoundError(c, "Task not found")
		}
		log.Error().Err(err).Str("task_id", id.String()).Msg("Failed to get task")
		return NewInternalError(c, "Failed to get task")
	}

	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// UpdateTaskRequest represents the update task request body.
// Omitted fields are left unchanged.
type UpdateTaskRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	AssigneeID  *string `json:"assigneeId,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
}

// UpdateTask handles PUT /api/v1/tasks/:id
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid task ID", nil)
	}

	var req UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateTaskInput{
		Name:        req.Name,
		Description: req.Description,
	}

	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		input.Priority = &priority
	}
	if req.AssigneeID != nil && *req.AssigneeID != "" {
		assigneeID, err := uuid.Parse(*req.AssigneeID)
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "assigneeId", Message: "Must be a valid user ID"},
			})
		}
		input.AssigneeID = &assigneeID
	}

	dueDate, err := parseDateParam(req.DueDate)
	if err != nil {
		return NewValidationError(c, "Invalid dueDate", []ValidationError{
			{Field: "dueDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}
	input.DueDate = dueDate

	task, err := h.taskService.UpdateTask(id, input, requestActor(c))
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return NewNotFoundError(c, "Task not found")
		}
		if errors.Is(err, domain.ErrAssigneeNotFound) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "assigneeId", Message: "Assignee not found"},
			})
		}
		if resp := taskValidationResponse(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Str("task_id", id.String()).Msg("Failed to update task")
		return NewInternalError(c, "Failed to update task")
	}

	log.Info().Str("task_id", task.ID.String()).Str("status", string(task.Status)).Msg("Task updated")
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// DeleteTask handles DELETE /api/v1/tasks/:id
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid task ID", nil)
	}

	if err := h.taskService.DeleteTask(id, requestActor(c)); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return NewNotFoundError(c, "Task not found")
		}
		log.Error().Err(err).Str("task_id", id.String()).Msg("Failed to delete task")
		return NewInternalError(c, "Failed to delete task")
	}

	log.Info().Str("task_id", id.String()).Msg("Task deleted")
	return c.NoContent(http.StatusNoContent)
}

// taskValidationResponse maps task validation errors to problem responses;
// returns nil for errors it does not recognize
func taskValidationResponse(c echo.Context, err error) error {
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
	if errors.Is(err, domain.ErrInvalidTaskStatus) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "status", Message: "Must be one of: todo, in_progress, in_review, completed, cancelled"},
		})
	}
	if errors.Is(err, domain.ErrInvalidTaskPriority) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "priority", Message: "Must be one of: low, medium, high, urgent"},
		})
	}
	return nil
}

// Helper function to convert domain.Task to TaskResponse
func toTaskResponse(task *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:        task.ID.String(),
		ProjectID: task.ProjectID.String(),
		Name:      task.Name,
		Status:    string(task.Status),
		Priority:  string(task.Priority),
		CreatedAt: task.CreatedAt.Format(time.RFC3339),
		UpdatedAt: task.UpdatedAt.Format(time.RFC3339),
	}
	if task.Description != nil {
		resp.Description = task.Description
	}
	if task.AssigneeID != nil {
		assigneeID := task.AssigneeID.String()
		resp.AssigneeID = &assigneeID
	}
	if task.DueDate != nil {
		dueDate := task.DueDate.Format("2006-01-02")
		resp.DueDate = &dueDate
	}
	if task.CompletedAt != nil {
		completedAt := task.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &completedAt
	}
	return resp
}
