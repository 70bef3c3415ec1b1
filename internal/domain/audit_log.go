package domain

import (
	"time"

	"github.com/google/uuid"
)

// Audit action types
const (
	ActionCreateProject = "create_project"
	ActionUpdateProject = "update_project"
	ActionDeleteProject = "delete_project"
	ActionCreateTask    = "create_task"
	ActionUpdateTask    = "update_task"
	ActionDeleteTask    = "delete_task"
	ActionCreateExpense = "create_expense"
	ActionUpdateExpense = "update_expense"
	ActionDeleteExpense = "delete_expense"

	ActionAddMember          = "add_project_member"
	ActionRemoveMember       = "remove_project_member"
	ActionAddDocumentLink    = "add_document_link"
	ActionUpdateDocumentLink = "update_document_link"
	ActionDeleteDocumentLink = "delete_document_link"
)

// AuditLog records a single user operation. Entries are appended after the
// business mutation commits; a failed append never fails the mutation.
type AuditLog struct {
	ID           uuid.UUID      `json:"id"`
	UserID       *uuid.UUID     `json:"userId,omitempty"`
	ActionType   string         `json:"actionType"`
	ResourceType string         `json:"resourceType"`
	ResourceID   *uuid.UUID     `json:"resourceId,omitempty"`
	ResourceName *string        `json:"resourceName,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
	IPAddress    *string        `json:"ipAddress,omitempty"`
}

type AuditLogFilters struct {
	UserID       *uuid.UUID
	ActionType   *string
	ResourceType *string
	ResourceID   *uuid.UUID
	StartDate    *time.Time
	EndDate      *time.Time
	Skip         int32
	Limit        int32
}

type AuditLogRepository interface {
	Insert(entry *AuditLog) (*AuditLog, error)
	// List returns matching entries ordered by timestamp descending, plus the
	// total match count before pagination.
	List(filters *AuditLogFilters) ([]*AuditLog, int64, error)
}
