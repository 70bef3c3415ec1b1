package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dvrhm/protrack/protrack-backend/internal/service"
	"github.com/dvrhm/protrack/protrack-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newDocumentTestHandler() (*DocumentHandler, *testutil.MockProjectRepository, *testutil.MockDocumentLinkRepository) {
	projectRepo := testutil.NewMockProjectRepository()
	documentRepo := testutil.NewMockDocumentLinkRepository()
	auditService := service.NewAuditService(testutil.NewMockAuditLogRepository())
	documentService := service.NewDocumentService(documentRepo, projectRepo, auditService)
	return NewDocumentHandler(documentService), projectRepo, documentRepo
}

func TestAddDocumentLink_Success(t *testing.T) {
	e := echo.New()
	handler, projectRepo, _ := newDocumentTestHandler()
	project := addHandlerProject(projectRepo, 1000)

	body := `{"title":"Design Spec","url":"https://docs.example.com/design-spec","description":"Signed off"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/"+project.ID.String()+"/documents", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(project.ID.String())

	if err := handler.AddDocumentLink(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response DocumentLinkResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Title != "Design Spec" {
		t.Errorf("Expected title 'Design Spec', got %s", response.Title)
	}
	if response.URL != "https://docs.example.com/design-spec" {
		t.Errorf("Expected URL to round-trip, got %s", response.URL)
	}
}

func TestAddDocumentLink_InvalidURL(t *testing.T) {
	e := echo.New()
	handler, projectRepo, documentRepo := newDocumentTestHandler()
	project := addHandlerProject(projectRepo, 1000)

	body := `{"title":"Design Spec","url":"not a url"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/"+project.ID.String()+"/documents", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(project.ID.String())

	if err := handler.AddDocumentLink(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if problem.Type != ErrorTypeValidation {
		t.Errorf("Expected validation problem type, got %s", problem.Type)
	}
	if len(documentRepo.Links) != 0 {
		t.Error("Expected no document link to be persisted")
	}
}

func TestAddDocumentLink_ProjectNotFound(t *testing.T) {
	e := echo.New()
	handler, _, _ := newDocumentTestHandler()

	missing := uuid.New().String()
	body := `{"title":"Design Spec","url":"https://docs.example.com/spec"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/"+missing+"/documents", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(missing)

	if err := handler.AddDocumentLink(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestUpdateDocumentLink_PartialUpdate(t *testing.T) {
	e := echo.New()
	handler, projectRepo, _ := newDocumentTestHandler()
	project := addHandlerProject(projectRepo, 1000)

	body := `{"title":"Design Spec","url":"https://docs.example.com/spec"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/"+project.ID.String()+"/documents", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(project.ID.String())
	if err := handler.AddDocumentLink(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	var created DocumentLinkResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	body = `{"title":"Design Spec v2"}`
	req = httptest.NewRequest(http.MethodPut, "/api/v1/documents/"+created.ID, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(created.ID)

	if err := handler.UpdateDocumentLink(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var updated DocumentLinkResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if updated.Title != "Design Spec v2" {
		t.Errorf("Expected title 'Design Spec v2', got %s", updated.Title)
	}
	if updated.URL != "https://docs.example.com/spec" {
		t.Errorf("Expected URL unchanged, got %s", updated.URL)
	}
}

func TestDeleteDocumentLink_NotFound(t *testing.T) {
	e := echo.New()
	handler, _, _ := newDocumentTestHandler()

	missing := uuid.New().String()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+missing, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(missing)

	if err := handler.DeleteDocumentLink(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
