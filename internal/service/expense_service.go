package service

import (
	"strings"
	"time"

	"github.com/dvrhm/protrack/protrack-backend/internal/domain"
	"github.com/dvrhm/protrack/protrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseService is the ledger: it keeps each project's spent total consistent
// with its expense rows and serves per-project budget summaries.
type ExpenseService struct {
	expenseRepo  domain.ExpenseRepository
	projectRepo  domain.ProjectRepository
	auditService *AuditService
	publisher    websocket.EventPublisher
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository, projectRepo domain.ProjectRepository, auditService *AuditService, publisher websocket.EventPublisher) *ExpenseService {
	return &ExpenseService{
		expenseRepo:  expenseRepo,
		projectRepo:  projectRepo,
		auditService: auditService,
		publisher:    publisher,
	}
}

// CreateExpenseInput holds the input for creating an expense
type CreateExpenseInput struct {
	ProjectID   uuid.UUID
	Amount      decimal.Decimal
	Description string
	Category    *string
	RecordedAt  *time.Time
}

// CreateExpense records a new expense against a project. The insert and the
// spent recompute commit in one transaction.
func (s *ExpenseService) CreateExpense(input CreateExpenseInput, actor Actor) (*domain.Expense, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}

	category, err := normalizeCategory(input.Category)
	if err != nil {
		return nil, err
	}

	// Resolved up front for the audit entry; existence is re-checked under
	// lock inside the repository transaction.
	project, err := s.projectRepo.GetByID(input.ProjectID)
	if err != nil {
		return nil, err
	}

	recordedAt := time.Now().UTC()
	if input.RecordedAt != nil {
		recordedAt = *input.RecordedAt
	}

	expense, err := s.expenseRepo.Create(&domain.Expense{
		ProjectID:   input.ProjectID,
		Amount:      input.Amount,
		Description: description,
		Category:    category,
		RecordedAt:  recordedAt,
		CreatedByID: actor.UserID,
	})
	if err != nil {
		return nil, err
	}

	s.auditService.Log(actor, domain.ActionCreateExpense, "expense", &expense.ID,
		auditName(expense.Description), map[string]any{
			"project_name": project.Name,
			"amount":       expense.Amount.String(),
			"category":     expense.Category,
		})
	s.publisher.Publish(websocket.ExpenseCreated(expense))

	return expense, nil
}

// UpdateExpenseInput holds a partial expense update; nil fields are left unchanged
type UpdateExpenseInput struct {
	Amount      *decimal.Decimal
	Description *string
	Category    *string
	RecordedAt  *time.Time
}

// UpdateExpense applies the supplied fields to an expense and recomputes the
// owning project's spent total
func (s *ExpenseService) UpdateExpense(id uuid.UUID, input UpdateExpenseInput, actor Actor) (*domain.Expense, error) {
	if input.Amount != nil && input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	var description *string
	updatedFields := make([]string, 0, 4)
	if input.Amount != nil {
		updatedFields = append(updatedFields, "amount")
	}
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if trimmed == "" {
			return nil, domain.ErrDescriptionRequired
		}
		description = &trimmed
		updatedFields = append(updatedFields, "description")
	}
	category, err := normalizeCategory(input.Category)
	if err != nil {
		return nil, err
	}
	// An explicit empty category clears the stored one
	clearCategory := input.Category != nil && category == nil
	if input.Category != nil {
		updatedFields = append(updatedFields, "category")
	}
	if input.RecordedAt != nil {
		updatedFields = append(updatedFields, "recorded_at")
	}

	expense, err := s.expenseRepo.Update(id, &domain.UpdateExpenseData{
		Amount:        input.Amount,
		Description:   description,
		Category:      category,
		ClearCategory: clearCategory,
		RecordedAt:    input.RecordedAt,
	})
	if err != nil {
		return nil, err
	}

	details := map[string]any{"updated_fields": updatedFields}
	if project, err := s.projectRepo.GetByID(expense.ProjectID); err == nil {
		details["project_name"] = project.Name
	}
	s.auditService.Log(actor, domain.ActionUpdateExpense, "expense", &expense.ID,
		auditName(expense.Description), details)
	s.publisher.Publish(websocket.ExpenseUpdated(expense))

	return expense, nil
}

// DeleteExpense removes an expense and recomputes the owning project's spent total
func (s *ExpenseService) DeleteExpense(id uuid.UUID, actor Actor) error {
	expense, err := s.expenseRepo.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.expenseRepo.Delete(id); err != nil {
		return err
	}

	details := map[string]any{}
	if project, err := s.projectRepo.GetByID(expense.ProjectID); err == nil {
		details["project_name"] = project.Name
	}
	s.auditService.Log(actor, domain.ActionDeleteExpense, "expense", &expense.ID,
		auditName(expense.Description), details)
	s.publisher.Publish(websocket.ExpenseDeleted(expense))

	return nil
}

// ListExpenses retrieves a project's expenses ordered by recorded_at
// descending. Skip and limit are clamped rather than trusted.
func (s *ExpenseService) ListExpenses(projectID uuid.UUID, skip, limit int32) ([]*domain.Expense, error) {
	if _, err := s.projectRepo.GetByID(projectID); err != nil {
		return nil, err
	}
	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = domain.DefaultExpensePageSize
	}
	if limit > domain.MaxExpensePageSize {
		limit = domain.MaxExpensePageSize
	}
	return s.expenseRepo.ListByProject(projectID, skip, limit)
}

// GetBudgetSummary returns the budget rollup for a project
func (s *ExpenseService) GetBudgetSummary(projectID uuid.UUID) (*domain.BudgetSummary, error) {
	project, err := s.projectRepo.GetByID(projectID)
	if err != nil {
		return nil, err
	}

	count, err := s.expenseRepo.CountByProject(projectID)
	if err != nil {
		return nil, err
	}

	usage := 0.0
	if project.Budget.IsPositive() {
		usage, _ = project.Spent.Div(project.Budget).Mul(decimal.NewFromInt(100)).Float64()
	}

	return &domain.BudgetSummary{
		ProjectID:       project.ID,
		Budget:          project.Budget,
		Spent:           project.Spent,
		Remaining:       project.Budget.Sub(project.Spent),
		UsagePercentage: usage,
		IsOverBudget:    project.Spent.GreaterThan(project.Budget),
		ExpenseCount:    count,
	}, nil
}

func normalizeCategory(category *string) (*string, error) {
	if category == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*category)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > domain.MaxCategoryLength {
		return nil, domain.ErrNameTooLong
	}
	return &trimmed, nil
}

// auditName passes the expense description as the audit resource name
func auditName(description string) *string {
	return &description
}
