package service

import (
	"errors"
	"testing"

	"github.com/dvrhm/protrack/protrack-backend/internal/domain"
	"github.com/dvrhm/protrack/protrack-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExpenseTestService() (*ExpenseService, *testutil.MockProjectRepository, *testutil.MockExpenseRepository, *testutil.MockAuditLogRepository, *testutil.CapturePublisher) {
	projectRepo := testutil.NewMockProjectRepository()
	expenseRepo := testutil.NewMockExpenseRepository(projectRepo)
	auditRepo := testutil.NewMockAuditLogRepository()
	publisher := &testutil.CapturePublisher{}
	svc := NewExpenseService(expenseRepo, projectRepo, NewAuditService(auditRepo), publisher)
	return svc, projectRepo, expenseRepo, auditRepo, publisher
}

func addProject(projectRepo *testutil.MockProjectRepository, budget int64) *domain.Project {
	project := &domain.Project{
		Name:    "Website Redesign",
		Status:  domain.ProjectStatusInProgress,
		Budget:  decimal.NewFromInt(budget),
		Spent:   decimal.Zero,
		OwnerID: uuid.New(),
	}
	projectRepo.AddProject(project)
	return project
}

func TestExpenseService_CreateExpense_UpdatesSpent(t *testing.T) {
	svc, projectRepo, _, _, _ := newExpenseTestService()
	project := addProject(projectRepo, 1000)

	expense, err := svc.CreateExpense(CreateExpenseInput{
		ProjectID:   project.ID,
		Amount:      decimal.NewFromInt(300),
		Description: "Design contractor",
	}, Actor{})

	require.NoError(t, err)
	assert.Equal(t, "300.00", expense.Amount.StringFixed(2))
	assert.Equal(t, "300.00", project.Spent.StringFixed(2))

	summary, err := svc.GetBudgetSummary(project.ID)
	require.NoError(t, err)
	assert.Equal(t, "300.00", summary.Spent.StringFixed(2))
	assert.Equal(t, "700.00", summary.Remaining.StringFixed(2))
	assert.InDelta(t, 30.0, summary.UsagePercentage, 0.001)
	assert.False(t, summary.IsOverBudget)
	assert.Equal(t, int64(1), summary.ExpenseCount)
}

func TestExpenseService_CreateExpense_OverBudget(t *testing.T) {
	svc, projectRepo, _, _, _ := newExpenseTestService()
	project := addProject(projectRepo, 1000)

	_, err := svc.CreateExpense(CreateExpenseInput{
		ProjectID:   project.ID,
		Amount:      decimal.NewFromInt(300),
		Description: "Design contractor",
	}, Actor{})
	require.NoError(t, err)

	// Budget exceeded, but the expense is still recorded
	_, err = svc.CreateExpense(CreateExpenseInput{
		ProjectID:   project.ID,
		Amount:      decimal.NewFromInt(800),
		Description: "Hosting annual plan",
	}, Actor{})
	require.NoError(t, err)

	summary, err := svc.GetBudgetSummary(project.ID)
	require.NoError(t, err)
	assert.Equal(t, "1100.00", summary.Spent.StringFixed(2))
	assert.Equal(t, "-100.00", summary.Remaining.StringFixed(2))
	assert.InDelta(t, 110.0, summary.UsagePercentage, 0.001)
	assert.True(t, summary.IsOverBudget)
	assert.Equal(t, int64(2), summary.ExpenseCount)
}

func TestExpenseService_DeleteExpense_RevertsSpent(t *testing.T) {
	svc, projectRepo, _, _, publisher := newExpenseTestService()
	project := addProject(projectRepo, 1000)

	first, err := svc.CreateExpense(CreateExpenseInput{
		ProjectID:   project.ID,
		Amount:      decimal.NewFromInt(300),
		Description: "Design contractor",
	}, Actor{})
	require.NoError(t, err)

	second, err := svc.CreateExpense(CreateExpenseInput{
		ProjectID:   project.ID,
		Amount:      decimal.NewFromInt(800),
		Description: "Hosting annual plan",
	}, Actor{})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteExpense(second.ID, Actor{}))

	assert.Equal(t, "300.00", project.Spent.StringFixed(2))

	summary, err := svc.GetBudgetSummary(project.ID)
	require.NoError(t, err)
	assert.Equal(t, "300.00", summary.Spent.StringFixed(2))
	assert.False(t, summary.IsOverBudget)
	assert.Equal(t, int64(1), summary.ExpenseCount)

	// Remaining expense is untouched
	remaining, err := svc.ListExpenses(project.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, first.ID, remaining[0].ID)

	assert.Equal(t, "expense.deleted", publisher.Events[len(publisher.Events)-1].Type)
}

func TestExpenseService_CreateExpense_RejectsNonPositiveAmount(t *testing.T) {
	svc, projectRepo, expenseRepo, _, publisher := newExpenseTestService()
	project := addProject(projectRepo, 1000)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-50)} {
		_, err := svc.CreateExpense(CreateExpenseInput{
			ProjectID:   project.ID,
			Amount:      amount,
			Description: "Bad entry",
		}, Actor{})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	}

	// Nothing persisted, spent untouched
	assert.Empty(t, expenseRepo.Expenses)
	assert.Equal(t, "0.00", project.Spent.StringFixed(2))
	assert.Empty(t, publisher.Events)
}

func TestExpenseService_CreateExpense_RequiresDescription(t *testing.T) {
	svc, projectRepo, _, _, _ := newExpenseTestService()
	project := addProject(projectRepo, 1000)

	_, err := svc.CreateExpense(CreateExpenseInput{
		ProjectID:   project.ID,
		Amount:      decimal.NewFromInt(10),
		Description: "   ",
	}, Actor{})
	assert.ErrorIs(t, err, domain.ErrDescriptionRequired)
}

func TestExpenseService_CreateExpense_ProjectNotFound(t *testing.T) {
	svc, _, _, _, _ := newExpenseTestService()

	_, err := svc.CreateExpense(CreateExpenseInput{
		ProjectID:   uuid.New(),
		Amount:      decimal.NewFromInt(10),
		Description: "Orphan expense",
	}, Actor{})
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestExpenseService_CreateExpense_NormalizesCategory(t *testing.T) {
	svc, projectRepo, _, _, _ := newExpenseTestService()
	project := addProject(projectRepo, 1000)

	blank := "   "
	expense, err := svc.CreateExpense(CreateExpenseInput{
		ProjectID:   project.ID,
		Amount:      decimal.NewFromInt(10),
		Description: "Stock photos",
		Category:    &blank,
	}, Actor{})
	require.NoError(t, err)
	assert.Nil(t, expense.Category)

	padded := "  software  "
	expense, err = svc.CreateExpense(CreateExpenseInput{
		ProjectID:   project.ID,
		Amount:      decimal.NewFromInt(10),
		Description: "License renewal",
		Category:    &padded,
	}, Actor{})
	require.NoError(t, err)
	require.NotNil(t, expense.Category)
	assert.Equal(t, "software", *expense.Category)
}

func TestExpenseService_CreateExpense_DefaultsRecordedAt(t *testing.T) {
	svc, projectRepo, _, _, _ := newExpenseTestService()
	project := addProject(projectRepo, 1000)

	expense, err := svc.CreateExpense(CreateExpenseInput{
		ProjectID:   project.ID,
		Amount:      decimal.NewFromInt(10),
		Description: "Coffee for the workshop",
	}, Actor{})
	require.NoError(t, err)
	assert.False(t, expense.RecordedAt.IsZero())
}

func TestExpenseService_CreateExpense_WritesAuditEntry(t *testing.T) {
	svc, projectRepo, _, auditRepo, publisher := newExpenseTestService()
	project := addProject(projectRepo, 1000)
	userID := uuid.New()

	expense, err := svc.CreateExpense(CreateExpenseInput{
		ProjectID:   project.ID,
		Amount:      decimal.NewFromInt(250),
		Description: "Design contractor",
	}, Actor{UserID: &userID})
	require.NoError(t, err)

	require.Len(t, auditRepo.Entries, 1)
	entry := auditRepo.Entries[0]
	assert.Equal(t, domain.ActionCreateExpense, entry.ActionType)
	assert.Equal(t, "expense", entry.ResourceType)
	assert.Equal(t, expense.ID, *entry.ResourceID)
	assert.Equal(t, userID, *entry.UserID)
	assert.Equal(t, "Website Redesign", entry.Details["project_name"])

	require.Len(t, publisher.Events, 1)
	assert.Equal(t, "expense.created", publisher.Events[0].Type)
}

func TestExpenseService_CreateExpense_AuditFailureDoesNotFail(t *testing.T) {
	svc, projectRepo, _, auditRepo, _ := newExpenseTestService()
	project := addProject(projectRepo, 1000)

	auditRepo.InsertFn = func(entry *domain.AuditLog) (*domain.AuditLog, error) {
		return nil, errors.New("audit store unavailable")
	}

	_, err := svc.CreateExpense(CreateExpenseInput{
		ProjectID:   project.ID,
		Amount:      decimal.NewFromInt(300),
		Description: "Design contractor",
	}, Actor{})

	require.NoError(t, err)
	assert.Equal(t, "300.00", project.Spent.StringFixed(2))
}

func TestExpenseService_UpdateExpense_RecomputesSpent(t *testing.T) {
	svc, projectRepo, _, _, _ := newExpenseTestService()
	project := addProject(projectRepo, 1000)

	expense, err := svc.CreateExpense(CreateExpenseInput{
		ProjectID:   project.ID,
		Amount:      decimal.NewFromInt(300),
		Description: "Design contractor",
	}, Actor{})
	require.NoError(t, err)

	newAmount := decimal.NewFromInt(450)
	updated, err := svc.UpdateExpense(expense.ID, UpdateExpenseInput{Amount: &newAmount}, Actor{})
	require.NoError(t, err)
	assert.Equal(t, "450.00", updated.Amount.StringFixed(2))
	assert.Equal(t, "450.00", project.Spent.StringFixed(2))
}

func TestExpenseService_UpdateExpense_ClearsCategory(t *testing.T) {
	svc, projectRepo, _, _, _ := newExpenseTestService()
	project := addProject(projectRepo, 1000)

	category := "software"
	expense, err := svc.CreateExpense(CreateExpenseInput{
		ProjectID:   project.ID,
		Amount:      decimal.NewFromInt(300),
		Description: "License renewal",
		Category:    &category,
	}, Actor{})
	require.NoError(t, err)
	require.NotNil(t, expense.Category)

	// An explicit empty category clears it
	empty := ""
	updated, err := svc.UpdateExpense(expense.ID, UpdateExpenseInput{Category: &empty}, Actor{})
	require.NoError(t, err)
	assert.Nil(t, updated.Category)

	// An omitted category leaves the stored one alone
	replacement := "tooling"
	updated, err = svc.UpdateExpense(expense.ID, UpdateExpenseInput{Category: &replacement}, Actor{})
	require.NoError(t, err)
	require.NotNil(t, updated.Category)

	newAmount := decimal.NewFromInt(400)
	updated, err = svc.UpdateExpense(expense.ID, UpdateExpenseInput{Amount: &newAmount}, Actor{})
	require.NoError(t, err)
	require.NotNil(t, updated.Category)
	assert.Equal(t, "tooling", *updated.Category)
}

func TestExpenseService_UpdateExpense_RejectsNonPositiveAmount(t *testing.T) {
	svc, projectRepo, _, _, _ := newExpenseTestService()
	project := addProject(projectRepo, 1000)

	expense, err := svc.CreateExpense(CreateExpenseInput{
		ProjectID:   project.ID,
		Amount:      decimal.NewFromInt(300),
		Description: "Design contractor",
	}, Actor{})
	require.NoError(t, err)

	bad := decimal.Zero
	_, err = svc.UpdateExpense(expense.ID, UpdateExpenseInput{Amount: &bad}, Actor{})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	assert.Equal(t, "300.00", project.Spent.StringFixed(2))
}

func TestExpenseService_UpdateExpense_NotFound(t *testing.T) {
	svc, _, _, _, _ := newExpenseTestService()

	amount := decimal.NewFromInt(10)
	_, err := svc.UpdateExpense(uuid.New(), UpdateExpenseInput{Amount: &amount}, Actor{})
	assert.ErrorIs(t, err, domain.ErrExpenseNotFound)
}

func TestExpenseService_DeleteExpense_NotFound(t *testing.T) {
	svc, _, _, _, _ := newExpenseTestService()

	err := svc.DeleteExpense(uuid.New(), Actor{})
	assert.ErrorIs(t, err, domain.ErrExpenseNotFound)
}

func TestExpenseService_GetBudgetSummary_NoExpenses(t *testing.T) {
	svc, projectRepo, _, _, _ := newExpenseTestService()
	project := addProject(projectRepo, 500)

	summary, err := svc.GetBudgetSummary(project.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.00", summary.Spent.StringFixed(2))
	assert.Equal(t, "500.00", summary.Remaining.StringFixed(2))
	assert.InDelta(t, 0.0, summary.UsagePercentage, 0.001)
	assert.False(t, summary.IsOverBudget)
	assert.Equal(t, int64(0), summary.ExpenseCount)
}

func TestExpenseService_GetBudgetSummary_ZeroBudget(t *testing.T) {
	svc, projectRepo, _, _, _ := newExpenseTestService()
	project := addProject(projectRepo, 0)

	_, err := svc.CreateExpense(CreateExpenseInput{
		ProjectID:   project.ID,
		Amount:      decimal.NewFromInt(40),
		Description: "Unbudgeted spend",
	}, Actor{})
	require.NoError(t, err)

	summary, err := svc.GetBudgetSummary(project.ID)
	require.NoError(t, err)
	// Usage rate stays zero rather than dividing by zero
	assert.InDelta(t, 0.0, summary.UsagePercentage, 0.001)
	assert.True(t, summary.IsOverBudget)
}

func TestExpenseService_GetBudgetSummary_Idempotent(t *testing.T) {
	svc, projectRepo, _, _, _ := newExpenseTestService()
	project := addProject(projectRepo, 1000)

	_, err := svc.CreateExpense(CreateExpenseInput{
		ProjectID:   project.ID,
		Amount:      decimal.NewFromInt(300),
		Description: "Design contractor",
	}, Actor{})
	require.NoError(t, err)

	first, err := svc.GetBudgetSummary(project.ID)
	require.NoError(t, err)
	second, err := svc.GetBudgetSummary(project.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Spent.StringFixed(2), second.Spent.StringFixed(2))
	assert.Equal(t, first.Remaining.StringFixed(2), second.Remaining.StringFixed(2))
	assert.Equal(t, first.UsagePercentage, second.UsagePercentage)
	assert.Equal(t, first.ExpenseCount, second.ExpenseCount)
}

func TestExpenseService_GetBudgetSummary_ProjectNotFound(t *testing.T) {
	svc, _, _, _, _ := newExpenseTestService()

	_, err := svc.GetBudgetSummary(uuid.New())
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestExpenseService_ListExpenses_ProjectNotFound(t *testing.T) {
	svc, _, _, _, _ := newExpenseTestService()

	_, err := svc.ListExpenses(uuid.New(), 0, 0)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestExpenseService_ListExpenses_ClampsPagination(t *testing.T) {
	svc, projectRepo, _, _, _ := newExpenseTestService()
	project := addProject(projectRepo, 1000)

	for i := 0; i < 3; i++ {
		_, err := svc.CreateExpense(CreateExpenseInput{
			ProjectID:   project.ID,
			Amount:      decimal.NewFromInt(10),
			Description: "Supplies",
		}, Actor{})
		require.NoError(t, err)
	}

	expenses, err := svc.ListExpenses(project.ID, -5, 500)
	require.NoError(t, err)
	assert.Len(t, expenses, 3)
}
