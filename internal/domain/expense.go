package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a single spend record against a project. Every expense mutation
// recomputes the owning project's spent total inside the same transaction.
type Expense struct {
	ID          uuid.UUID       `json:"id"`
	ProjectID   uuid.UUID       `json:"projectId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    *string         `json:"category,omitempty"`
	RecordedAt  time.Time       `json:"recordedAt"`
	CreatedByID *uuid.UUID      `json:"createdById,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// UpdateExpenseData carries a partial expense update; nil fields are left unchanged.
type UpdateExpenseData struct {
	Amount      *decimal.Decimal
	Description *string
	Category    *string
	// ClearCategory nulls the category when the caller sends an empty one
	ClearCategory bool
	RecordedAt    *time.Time
}

// BudgetSummary is the per-project budget rollup returned by the ledger.
type BudgetSummary struct {
	ProjectID       uuid.UUID       `json:"projectId"`
	Budget          decimal.Decimal `json:"budget"`
	Spent           decimal.Decimal `json:"spent"`
	Remaining       decimal.Decimal `json:"remaining"`
	UsagePercentage float64         `json:"usagePercentage"`
	IsOverBudget    bool            `json:"isOverBudget"`
	ExpenseCount    int64           `json:"expenseCount"`
}

// Expense list pagination bounds
const (
	DefaultExpensePageSize = 100
	MaxExpensePageSize     = 100
)

type ExpenseRepository interface {
	// Create inserts the expense and recomputes the owning project's spent
	// total in one transaction. Returns ErrProjectNotFound if the project
	// does not exist.
	Create(expense *Expense) (*Expense, error)
	GetByID(id uuid.UUID) (*Expense, error)
	// Update applies the supplied fields and recomputes spent in one
	// transaction. Returns ErrExpenseNotFound if the expense does not exist.
	Update(id uuid.UUID, data *UpdateExpenseData) (*Expense, error)
	// Delete removes the expense and recomputes spent in one transaction.
	Delete(id uuid.UUID) error
	ListByProject(projectID uuid.UUID, skip, limit int32) ([]*Expense, error)
	CountByProject(projectID uuid.UUID) (int64, error)
}
