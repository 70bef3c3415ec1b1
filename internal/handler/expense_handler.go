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
	"github.com/shopspring/decimal"
)

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// CreateExpenseRequest represents the create expense request body
type CreateExpenseRequest struct {
	Amount      string  `json:"amount"`
	Description string  `json:"description"`
	Category    *string `json:"category,omitempty"`
	RecordedAt  *string `json:"recordedAt,omitempty"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"projectId"`
	Amount      string  `json:"amount"`
	Description string  `json:"description"`
	Category    *string `json:"category,omitempty"`
	RecordedAt  string  `json:"recordedAt"`
	CreatedByID *string `json:"createdById,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// BudgetSummaryResponse represents a project budget summary in API responses
type BudgetSummaryResponse struct {
	ProjectID       string  `json:"projectId"`
	Budget          string  `json:"budget"`
	Spent           string  `json:"spent"`
	Remaining       string  `json:"remaining"`
	UsagePercentage float64 `json:"usagePercentage"`
	IsOverBudget    bool    `json:"isOverBudget"`
	ExpenseCount    int64   `json:"expenseCount"`
}

// CreateExpense handles POST /api/v1/projects/:id/expenses
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid project ID", nil)
	}

	var req CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	input := service.CreateExpenseInput{
		ProjectID:   projectID,
		Amount:      amount,
		Description: req.Description,
		Category:    req.Category,
	}

	if req.RecordedAt != nil && *req.RecordedAt != "" {
		recordedAt, err := time.Parse(time.RFC3339, *req.RecordedAt)
		if err != nil {
			return NewValidationError(c, "Invalid recordedAt", []ValidationError{
				{Field: "recordedAt", Message: "Must be an RFC 3339 timestamp"},
			})
		}
		input.RecordedAt = &recordedAt
	}

	expense, err := h.expenseService.CreateExpense(input, requestActor(c))
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return NewNotFoundError(c, "Project not found")
		}
		if resp := expenseValidationResponse(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Str("project_id", projectID.String()).Msg("Failed to create expense")
		return NewInternalError(c, "Failed to create expense")
	}

	log.Info().Str("expense_id", expense.ID.String()).Str("project_id", projectID.String()).Str("amount", expense.Amount.StringFixed(2)).Msg("Expense created")
	return c.JSON(http.StatusCreated, toExpenseResponse(expense))
}

// GetExpenses handles GET /api/v1/projects/:id/expenses
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid project ID", nil)
	}

	skip, limit, err := parsePaginationParams(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	expenses, err := h.expenseService.ListExpenses(projectID, skip, limit)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return NewNotFoundError(c, "Project not found")
		}
		log.Error().Err(err).Str("project_id", projectID.String()).Msg("Failed to list expenses")
		return NewInternalError(c, "Failed to list expenses")
	}

	response := make([]ExpenseResponse, len(expenses))
	for i, expense := range expenses {
		response[i] = toExpenseResponse(expense)
	}
	return c.JSON(http.StatusOK, response)
}

// GetBudgetSummary handles GET /api/v1/projects/:id/budget-summary
func (h *ExpenseHandler) GetBudgetSummary(c echo.Context) error {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid project ID", nil)
	}

	summary, err := h.expenseService.GetBudgetSummary(projectID)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return NewNotFoundError(c, "Project not found")
		}
		log.Error().Err(err).Str("project_id", projectID.String()).Msg("Failed to get budget summary")
		return NewInternalError(c, "Failed to get budget summary")
	}

	return c.JSON(http.StatusOK, BudgetSummaryResponse{
		ProjectID:       summary.ProjectID.String(),
		Budget:          summary.Budget.StringFixed(2),
		Spent:           summary.Spent.StringFixed(2),
		Remaining:       summary.Remaining.StringFixed(2),
		UsagePercentage: summary.UsagePercentage,
		IsOverBudget:    summary.IsOverBudget,
		ExpenseCount:    summary.ExpenseCount,
	})
}

// UpdateExpenseRequest represents the update expense request body.
// Omitted fields are left unchanged.
type UpdateExpenseRequest struct {
	Amount      *string `json:"amount,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	RecordedAt  *string `json:"recordedAt,omitempty"`
}

// UpdateExpense handles PUT /api/v1/expenses/:id
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	var req UpdateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateExpenseInput{
		Description: req.Description,
		Category:    req.Category,
	}

	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			return NewValidationError(c, "Invalid amount", []ValidationError{
				{Field: "amount", Message: "Must be a valid decimal number"},
			})
		}
		input.Amount = &amount
	}

	if req.RecordedAt != nil && *req.RecordedAt != "" {
		recordedAt, err := time.Parse(time.RFC3339, *req.RecordedAt)
		if err != nil {
			return NewValidationError(c, "Invalid recordedAt", []ValidationError{
				{Field: "recordedAt", Message: "Must be an RFC 3339 timestamp"},
			})
		}
		input.RecordedAt = &recordedAt
	}

	expense, err := h.expenseService.UpdateExpense(id, input, requestActor(c))
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		if resp := expenseValidationResponse(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Str("expense_id", id.String()).Msg("Failed to update expense")
		return NewInternalError(c, "Failed to update expense")
	}

	log.Info().Str("expense_id", expense.ID.String()).Str("amount", expense.Amount.StringFixed(2)).Msg("Expense updated")
	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// DeleteExpense handles DELETE /api/v1/expenses/:id
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	if err := h.expenseService.DeleteExpense(id, requestActor(c)); err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Str("expense_id", id.String()).Msg("Failed to delete expense")
		return NewInternalError(c, "Failed to delete expense")
	}

	log.Info().Str("expense_id", id.String()).Msg("Expense deleted")
	return c.NoContent(http.StatusNoContent)
}

// expenseValidationResponse maps expense validation errors to problem
// responses; returns nil for errors it does not recognize
func expenseValidationResponse(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrInvalidAmount) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	}
	if errors.Is(err, domain.ErrDescriptionRequired) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description is required"},
		})
	}
	if errors.Is(err, domain.ErrNameTooLong) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Category must be 100 characters or less"},
		})
	}
	return nil
}

// Helper function to convert domain.Expense to ExpenseResponse
func toExpenseResponse(expense *domain.Expense) ExpenseResponse {
	resp := ExpenseResponse{
		ID:          expense.ID.String(),
		ProjectID:   expense.ProjectID.String(),
		Amount:      expense.Amount.StringFixed(2),
		Description: expense.Description,
		RecordedAt:  expense.RecordedAt.Format(time.RFC3339),
		CreatedAt:   expense.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   expense.UpdatedAt.Format(time.RFC3339),
	}
	if expense.Category != nil {
		resp.Category = expense.Category
	}
	if expense.CreatedByID != nil {
		createdByID := expense.CreatedByID.String()
		resp.CreatedByID = &createdByID
	}
	return resp
}
