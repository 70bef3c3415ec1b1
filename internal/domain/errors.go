package domain

import "errors"

// Domain errors
var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrNameRequired         = errors.New("name is required")
	ErrNameTooLong          = errors.New("name exceeds maximum length")
	ErrDescriptionRequired  = errors.New("description is required")
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrNegativeBudget       = errors.New("budget cannot be negative")
	ErrInvalidProjectStatus = errors.New("invalid project status")
	ErrInvalidTaskStatus    = errors.New("invalid task status")
	ErrInvalidTaskPriority  = errors.New("invalid task priority")
	ErrInvalidDateRange     = errors.New("end date cannot be before start date")
	ErrAssigneeNotFound     = errors.New("assignee not found")
	ErrMemberNotFound       = errors.New("project member not found")
	ErrAlreadyMember        = errors.New("user is already a project member")
	ErrRoleTooLong          = errors.New("role exceeds maximum length")
	ErrDocumentLinkNotFound = errors.New("document link not found")
	ErrTitleRequired        = errors.New("title is required")
	ErrTitleTooLong         = errors.New("title exceeds maximum length")
	ErrInvalidDocumentURL   = errors.New("document url must be a valid http or https url")
)

// Validation constants
const (
	MaxProjectNameLength   = 200
	MaxTaskNameLength      = 200
	MaxCategoryLength      = 100
	MaxMemberRoleLength    = 50
	MaxDocumentTitleLength = 200
)
