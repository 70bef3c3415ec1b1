package service

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dvrhm/protrack/protrack-backend/internal/domain"
	"github.com/dvrhm/protrack/protrack-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_Log_AppendsEntry(t *testing.T) {
	auditRepo := testutil.NewMockAuditLogRepository()
	svc := NewAuditService(auditRepo)

	userID := uuid.New()
	ip := "203.0.113.7"
	resourceID := uuid.New()
	name := "Website Redesign"

	svc.Log(Actor{UserID: &userID, IPAddress: &ip}, domain.ActionCreateProject, "project",
		&resourceID, &name, map[string]any{"budget": "1000"})

	require.Len(t, auditRepo.Entries, 1)
	entry := auditRepo.Entries[0]
	assert.Equal(t, userID, *entry.UserID)
	assert.Equal(t, ip, *entry.IPAddress)
	assert.Equal(t, domain.ActionCreateProject, entry.ActionType)
	assert.Equal(t, "project", entry.ResourceType)
	assert.Equal(t, resourceID, *entry.ResourceID)
	assert.Equal(t, "Website Redesign", *entry.ResourceName)
	assert.Equal(t, "1000", entry.Details["budget"])
}

func TestAuditService_Log_TruncatesResourceName(t *testing.T) {
	auditRepo := testutil.NewMockAuditLogRepository()
	svc := NewAuditService(auditRepo)

	long := strings.Repeat("n", 80)
	resourceID := uuid.New()
	svc.Log(Actor{}, domain.ActionCreateProject, "project", &resourceID, &long, nil)

	require.Len(t, auditRepo.Entries, 1)
	assert.Len(t, *auditRepo.Entries[0].ResourceName, 50)
}

func TestAuditService_Log_TruncatesOnRuneBoundary(t *testing.T) {
	auditRepo := testutil.NewMockAuditLogRepository()
	svc := NewAuditService(auditRepo)

	long := strings.Repeat("项", 80)
	resourceID := uuid.New()
	svc.Log(Actor{}, domain.ActionCreateProject, "project", &resourceID, &long, nil)

	require.Len(t, auditRepo.Entries, 1)
	got := *auditRepo.Entries[0].ResourceName
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 50, utf8.RuneCountInString(got))
}

func TestAuditService_Log_SwallowsStoreFailure(t *testing.T) {
	auditRepo := testutil.NewMockAuditLogRepository()
	auditRepo.InsertFn = func(entry *domain.AuditLog) (*domain.AuditLog, error) {
		return nil, errors.New("audit store unavailable")
	}
	svc := NewAuditService(auditRepo)

	resourceID := uuid.New()
	name := "Project"
	// Must not panic or propagate the failure
	svc.Log(Actor{}, domain.ActionDeleteProject, "project", &resourceID, &name, nil)
}

func TestAuditService_ListAuditLogs_FiltersAndTotal(t *testing.T) {
	auditRepo := testutil.NewMockAuditLogRepository()
	svc := NewAuditService(auditRepo)

	alice := uuid.New()
	bob := uuid.New()
	for i := 0; i < 3; i++ {
		id := uuid.New()
		svc.Log(Actor{UserID: &alice}, domain.ActionCreateTask, "task", &id, nil, nil)
	}
	id := uuid.New()
	svc.Log(Actor{UserID: &bob}, domain.ActionDeleteTask, "task", &id, nil, nil)

	logs, total, err := svc.ListAuditLogs(&domain.AuditLogFilters{UserID: &alice})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, logs, 3)

	action := domain.ActionDeleteTask
	logs, total, err = svc.ListAuditLogs(&domain.AuditLogFilters{ActionType: &action})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, logs, 1)
	assert.Equal(t, bob, *logs[0].UserID)
}
