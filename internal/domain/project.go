package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "planning"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusArchived   ProjectStatus = "archived"
)

// ValidProjectStatus reports whether s is one of the known project statuses.
func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusArchived:
		return true
	}
	return false
}

// Project is the main unit of work, owning tasks and expenses.
// Spent is derived: it always equals the sum of the project's expense amounts
// and is written only by the expense repository's recompute step.
type Project struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Status      ProjectStatus   `json:"status"`
	StartDate   *time.Time      `json:"startDate,omitempty"`
	EndDate     *time.Time      `json:"endDate,omitempty"`
	Budget      decimal.Decimal `json:"budget"`
	Spent       decimal.Decimal `json:"spent"`
	OwnerID     uuid.UUID       `json:"ownerId"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// IsOverdue reports whether the project is past its end date while still
// planned or running. Evaluated against the supplied date, never stored.
func (p *Project) IsOverdue(today time.Time) bool {
	if p.EndDate == nil {
		return false
	}
	if p.Status != ProjectStatusPlanning && p.Status != ProjectStatusInProgress {
		return false
	}
	return p.EndDate.Before(today)
}

// List pagination bounds shared by project and task listings
const (
	DefaultListLimit = 100
	MaxListLimit     = 100
)

type ProjectFilters struct {
	Status *ProjectStatus
	Skip   int32
	Limit  int32
}

// UpdateProjectData carries a partial project update; nil fields are left unchanged.
type UpdateProjectData struct {
	Name        *string
	Description *string
	Status      *ProjectStatus
	StartDate   *time.Time
	EndDate     *time.Time
	Budget      *decimal.Decimal
}

// ProjectStatusCounts holds per-status project counts for the dashboard.
type ProjectStatusCounts struct {
	Planning   int64 `json:"planning"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Archived   int64 `json:"archived"`
}

// BudgetTotals holds the summed budget and spent across all projects.
type BudgetTotals struct {
	TotalBudget decimal.Decimal
	TotalSpent  decimal.Decimal
}

type ProjectRepository interface {
	Create(project *Project) (*Project, error)
	GetByID(id uuid.UUID) (*Project, error)
	List(filters *ProjectFilters) ([]*Project, error)
	Update(id uuid.UUID, data *UpdateProjectData) (*Project, error)
	Delete(id uuid.UUID) error
	Count() (int64, error)
	CountByStatus() (*ProjectStatusCounts, error)
	SumBudgets() (*BudgetTotals, error)
	CountOverdue(today time.Time) (int64, error)
}
