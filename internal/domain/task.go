package domain

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusInReview   TaskStatus = "in_review"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// PendingTaskStatuses are the statuses counted as open work, both for the
// overdue predicate and for a user's pending-task count.
var PendingTaskStatuses = []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusInReview}

// ValidTaskStatus reports whether s is one of the known task statuses.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusInReview, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// ValidTaskPriority reports whether p is one of the known task priorities.
func ValidTaskPriority(p TaskPriority) bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

type Task struct {
	ID          uuid.UUID    `json:"id"`
	ProjectID   uuid.UUID    `json:"projectId"`
	Name        string       `json:"name"`
	Description *string      `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	AssigneeID  *uuid.UUID   `json:"assigneeId,omitempty"`
	CreatedByID *uuid.UUID   `json:"createdById,omitempty"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// IsOverdue reports whether the task is past due and still open.
// Evaluated against the supplied date, never stored.
func (t *Task) IsOverdue(today time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	if t.Status == TaskStatusCompleted || t.Status == TaskStatusCancelled {
		return false
	}
	return t.DueDate.Before(today)
}

type TaskFilters struct {
	ProjectID  *uuid.UUID
	AssigneeID *uuid.UUID
	Status     *TaskStatus
	Overdue    *bool
	Skip       int32
	Limit      int32
}

// UpdateTaskData carries a partial task update; nil fields are left unchanged.
type UpdateTaskData struct {
	Name        *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	AssigneeID  *uuid.UUID
	DueDate     *time.Time
	CompletedAt *time.Time
	// ClearCompletedAt nulls completed_at when the task leaves completed
	ClearCompletedAt bool
}

type TaskRepository interface {
	Create(task *Task) (*Task, error)
	GetByID(id uuid.UUID) (*Task, error)
	List(filters *TaskFilters, today time.Time) ([]*Task, error)
	Update(id uuid.UUID, data *UpdateTaskData) (*Task, error)
	Delete(id uuid.UUID) error
	Count() (int64, error)
	CountOverdue(today time.Time) (int64, error)
	CountPendingByAssignee(assigneeID uuid.UUID) (int64, error)
}
