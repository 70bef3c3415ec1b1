package service

import (
	"strings"
	"testing"

	"github.com/dvrhm/protrack/protrack-backend/internal/domain"
	"github.com/dvrhm/protrack/protrack-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDocumentTestService() (*DocumentService, *testutil.MockProjectRepository, *testutil.MockAuditLogRepository) {
	projectRepo := testutil.NewMockProjectRepository()
	documentRepo := testutil.NewMockDocumentLinkRepository()
	auditRepo := testutil.NewMockAuditLogRepository()
	svc := NewDocumentService(documentRepo, projectRepo, NewAuditService(auditRepo))
	return svc, projectRepo, auditRepo
}

func TestDocumentService_AddDocumentLink_Success(t *testing.T) {
	svc, projectRepo, auditRepo := newDocumentTestService()
	project := addProject(projectRepo, 1000)
	userID := uuid.New()

	description := "Signed-off design spec"
	link, err := svc.AddDocumentLink(AddDocumentLinkInput{
		ProjectID:   project.ID,
		Title:       "  Design Spec  ",
		URL:         "https://docs.example.com/design-spec",
		Description: &description,
	}, Actor{UserID: &userID})
	require.NoError(t, err)
	assert.Equal(t, "Design Spec", link.Title)
	assert.Equal(t, "https://docs.example.com/design-spec", link.URL)
	require.NotNil(t, link.CreatedByID)
	assert.Equal(t, userID, *link.CreatedByID)

	require.Len(t, auditRepo.Entries, 1)
	entry := auditRepo.Entries[0]
	assert.Equal(t, domain.ActionAddDocumentLink, entry.ActionType)
	assert.Equal(t, "document_link", entry.ResourceType)
	assert.Equal(t, project.Name, entry.Details["project_name"])
	assert.Equal(t, link.URL, entry.Details["document_url"])
}

func TestDocumentService_AddDocumentLink_Validation(t *testing.T) {
	svc, projectRepo, _ := newDocumentTestService()
	project := addProject(projectRepo, 1000)

	_, err := svc.AddDocumentLink(AddDocumentLinkInput{
		ProjectID: project.ID,
		Title:     "   ",
		URL:       "https://docs.example.com/spec",
	}, Actor{})
	assert.ErrorIs(t, err, domain.ErrTitleRequired)

	_, err = svc.AddDocumentLink(AddDocumentLinkInput{
		ProjectID: project.ID,
		Title:     strings.Repeat("t", domain.MaxDocumentTitleLength+1),
		URL:       "https://docs.example.com/spec",
	}, Actor{})
	assert.ErrorIs(t, err, domain.ErrTitleTooLong)

	for _, badURL := range []string{"", "not a url", "ftp://docs.example.com/spec", "/relative/path"} {
		_, err = svc.AddDocumentLink(AddDocumentLinkInput{
			ProjectID: project.ID,
			Title:     "Spec",
			URL:       badURL,
		}, Actor{})
		assert.ErrorIs(t, err, domain.ErrInvalidDocumentURL, "url %q", badURL)
	}
}

func TestDocumentService_AddDocumentLink_ProjectNotFound(t *testing.T) {
	svc, _, _ := newDocumentTestService()

	_, err := svc.AddDocumentLink(AddDocumentLinkInput{
		ProjectID: uuid.New(),
		Title:     "Spec",
		URL:       "https://docs.example.com/spec",
	}, Actor{})
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestDocumentService_ListDocumentLinks_ProjectNotFound(t *testing.T) {
	svc, _, _ := newDocumentTestService()

	_, err := svc.ListDocumentLinks(uuid.New())
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestDocumentService_UpdateDocumentLink_PartialUpdate(t *testing.T) {
	svc, projectRepo, auditRepo := newDocumentTestService()
	project := addProject(projectRepo, 1000)

	link, err := svc.AddDocumentLink(AddDocumentLinkInput{
		ProjectID: project.ID,
		Title:     "Spec",
		URL:       "https://docs.example.com/spec",
	}, Actor{})
	require.NoError(t, err)

	newTitle := "Spec v2"
	updated, err := svc.UpdateDocumentLink(link.ID, UpdateDocumentLinkInput{Title: &newTitle}, Actor{})
	require.NoError(t, err)
	assert.Equal(t, "Spec v2", updated.Title)
	assert.Equal(t, "https://docs.example.com/spec", updated.URL)

	require.Len(t, auditRepo.Entries, 2)
	entry := auditRepo.Entries[1]
	assert.Equal(t, domain.ActionUpdateDocumentLink, entry.ActionType)
	assert.Equal(t, []string{"title"}, entry.Details["updated_fields"])
}

func TestDocumentService_UpdateDocumentLink_NotFound(t *testing.T) {
	svc, _, _ := newDocumentTestService()

	title := "Spec"
	_, err := svc.UpdateDocumentLink(uuid.New(), UpdateDocumentLinkInput{Title: &title}, Actor{})
	assert.ErrorIs(t, err, domain.ErrDocumentLinkNotFound)
}

func TestDocumentService_DeleteDocumentLink_Success(t *testing.T) {
	svc, projectRepo, auditRepo := newDocumentTestService()
	project := addProject(projectRepo, 1000)

	link, err := svc.AddDocumentLink(AddDocumentLinkInput{
		ProjectID: project.ID,
		Title:     "Spec",
		URL:       "https://docs.example.com/spec",
	}, Actor{})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDocumentLink(link.ID, Actor{}))

	links, err := svc.ListDocumentLinks(project.ID)
	require.NoError(t, err)
	assert.Empty(t, links)

	require.Len(t, auditRepo.Entries, 2)
	assert.Equal(t, domain.ActionDeleteDocumentLink, auditRepo.Entries[1].ActionType)
}

func TestDocumentService_DeleteDocumentLink_NotFound(t *testing.T) {
	svc, _, _ := newDocumentTestService()

	err := svc.DeleteDocumentLink(uuid.New(), Actor{})
	assert.ErrorIs(t, err, domain.ErrDocumentLinkNotFound)
}
