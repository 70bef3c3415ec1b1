package service

import (
	"strings"
	"testing"
	"time"

	"github.com/dvrhm/protrack/protrack-backend/internal/domain"
	"github.com/dvrhm/protrack/protrack-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProjectTestService() (*ProjectService, *testutil.MockProjectRepository, *testutil.MockAuditLogRepository, *testutil.CapturePublisher) {
	projectRepo := testutil.NewMockProjectRepository()
	auditRepo := testutil.NewMockAuditLogRepository()
	publisher := &testutil.CapturePublisher{}
	svc := NewProjectService(projectRepo, NewAuditService(auditRepo), publisher)
	return svc, projectRepo, auditRepo, publisher
}

func TestProjectService_CreateProject_Defaults(t *testing.T) {
	svc, _, auditRepo, publisher := newProjectTestService()

	project, err := svc.CreateProject(CreateProjectInput{
		Name:    "  Website Redesign  ",
		OwnerID: uuid.New(),
	}, Actor{})

	require.NoError(t, err)
	assert.Equal(t, "Website Redesign", project.Name)
	assert.Equal(t, domain.ProjectStatusPlanning, project.Status)
	assert.Equal(t, "0.00", project.Budget.StringFixed(2))
	assert.Equal(t, "0.00", project.Spent.StringFixed(2))

	require.Len(t, auditRepo.Entries, 1)
	assert.Equal(t, domain.ActionCreateProject, auditRepo.Entries[0].ActionType)
	require.Len(t, publisher.Events, 1)
	assert.Equal(t, "project.created", publisher.Events[0].Type)
}

func TestProjectService_CreateProject_Validation(t *testing.T) {
	svc, _, _, _ := newProjectTestService()
	owner := uuid.New()

	_, err := svc.CreateProject(CreateProjectInput{Name: "   ", OwnerID: owner}, Actor{})
	assert.ErrorIs(t, err, domain.ErrNameRequired)

	_, err = svc.CreateProject(CreateProjectInput{
		Name:    strings.Repeat("x", domain.MaxProjectNameLength+1),
		OwnerID: owner,
	}, Actor{})
	assert.ErrorIs(t, err, domain.ErrNameTooLong)

	badStatus := domain.ProjectStatus("paused")
	_, err = svc.CreateProject(CreateProjectInput{
		Name: "P", Status: &badStatus, OwnerID: owner,
	}, Actor{})
	assert.ErrorIs(t, err, domain.ErrInvalidProjectStatus)

	negative := decimal.NewFromInt(-10)
	_, err = svc.CreateProject(CreateProjectInput{
		Name: "P", Budget: &negative, OwnerID: owner,
	}, Actor{})
	assert.ErrorIs(t, err, domain.ErrNegativeBudget)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -7)
	_, err = svc.CreateProject(CreateProjectInput{
		Name: "P", StartDate: &start, EndDate: &end, OwnerID: owner,
	}, Actor{})
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestProjectService_ListProjects_InvalidStatus(t *testing.T) {
	svc, _, _, _ := newProjectTestService()

	badStatus := domain.ProjectStatus("paused")
	_, err := svc.ListProjects(&domain.ProjectFilters{Status: &badStatus})
	assert.ErrorIs(t, err, domain.ErrInvalidProjectStatus)
}

func TestProjectService_ListProjects_FiltersByStatus(t *testing.T) {
	svc, projectRepo, _, _ := newProjectTestService()
	owner := uuid.New()

	projectRepo.AddProject(&domain.Project{Name: "A", Status: domain.ProjectStatusPlanning, Budget: decimal.Zero, Spent: decimal.Zero, OwnerID: owner})
	projectRepo.AddProject(&domain.Project{Name: "B", Status: domain.ProjectStatusInProgress, Budget: decimal.Zero, Spent: decimal.Zero, OwnerID: owner})

	status := domain.ProjectStatusInProgress
	projects, err := svc.ListProjects(&domain.ProjectFilters{Status: &status})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "B", projects[0].Name)
}

func TestProjectService_UpdateProject_PartialUpdate(t *testing.T) {
	svc, projectRepo, auditRepo, _ := newProjectTestService()
	project := &domain.Project{
		Name:    "Original",
		Status:  domain.ProjectStatusPlanning,
		Budget:  decimal.NewFromInt(100),
		Spent:   decimal.Zero,
		OwnerID: uuid.New(),
	}
	projectRepo.AddProject(project)

	status := domain.ProjectStatusInProgress
	updated, err := svc.UpdateProject(project.ID, UpdateProjectInput{Status: &status}, Actor{})
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectStatusInProgress, updated.Status)
	assert.Equal(t, "Original", updated.Name)
	assert.Equal(t, "100.00", updated.Budget.StringFixed(2))

	require.Len(t, auditRepo.Entries, 1)
	assert.Equal(t, domain.ActionUpdateProject, auditRepo.Entries[0].ActionType)
	assert.Equal(t, []string{"status"}, auditRepo.Entries[0].Details["updated_fields"])
}

func TestProjectService_UpdateProject_NotFound(t *testing.T) {
	svc, _, _, _ := newProjectTestService()

	name := "Renamed"
	_, err := svc.UpdateProject(uuid.New(), UpdateProjectInput{Name: &name}, Actor{})
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestProjectService_DeleteProject(t *testing.T) {
	svc, projectRepo, auditRepo, publisher := newProjectTestService()
	project := &domain.Project{
		Name:    "Doomed",
		Status:  domain.ProjectStatusPlanning,
		Budget:  decimal.Zero,
		Spent:   decimal.Zero,
		OwnerID: uuid.New(),
	}
	projectRepo.AddProject(project)

	require.NoError(t, svc.DeleteProject(project.ID, Actor{}))
	_, err := svc.GetProject(project.ID)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)

	require.Len(t, auditRepo.Entries, 1)
	assert.Equal(t, domain.ActionDeleteProject, auditRepo.Entries[0].ActionType)
	require.Len(t, publisher.Events, 1)
	assert.Equal(t, "project.deleted", publisher.Events[0].Type)
}

func TestProjectService_DeleteProject_NotFound(t *testing.T) {
	svc, _, _, _ := newProjectTestService()

	err := svc.DeleteProject(uuid.New(), Actor{})
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}
