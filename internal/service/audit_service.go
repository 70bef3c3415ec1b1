package service

import (
	"github.com/dvrhm/protrack/protrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Actor identifies the requesting user for audit attribution. Both fields are
// optional; unauthenticated or internal callers leave them nil.
type Actor struct {
	UserID    *uuid.UUID
	IPAddress *string
}

// AuditService appends and queries audit log entries
type AuditService struct {
	auditRepo domain.AuditLogRepository
}

// NewAuditService creates a new AuditService
func NewAuditService(auditRepo domain.AuditLogRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

// maxResourceNameLength bounds the resource_name column
const maxResourceNameLength = 50

// Log appends an audit entry for a completed operation. The append is
// best-effort: it runs after the business mutation has committed, and a
// failure is logged and swallowed so it can never fail the mutation.
func (s *AuditService) Log(actor Actor, actionType, resourceType string, resourceID *uuid.UUID, resourceName *string, details map[string]any) {
	if resourceName != nil {
		// truncate by runes so a multi-byte character is never split
		if runes := []rune(*resourceName); len(runes) > maxResourceNameLength {
			truncated := string(runes[:maxResourceNameLength])
			resourceName = &truncated
		}
	}

	entry := &domain.AuditLog{
		UserID:       actor.UserID,
		ActionType:   actionType,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		ResourceName: resourceName,
		Details:      details,
		IPAddress:    actor.IPAddress,
	}

	if _, err := s.auditRepo.Insert(entry); err != nil {
		log.Warn().
			Err(err).
			Str("action_type", actionType).
			Str("resource_type", resourceType).
			Msg("Failed to append audit log entry")
	}
}

// ListAuditLogs retrieves audit entries matching the filters, newest first,
// along with the total match count
func (s *AuditService) ListAuditLogs(filters *domain.AuditLogFilters) ([]*domain.AuditLog, int64, error) {
	return s.auditRepo.List(filters)
}
