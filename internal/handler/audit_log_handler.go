package handler

import (
	"net/http"
	"time"

	"github.com/dvrhm/protrack/protrack-backend/internal/domain"
	"github.com/dvrhm/protrack/protrack-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AuditLogHandler handles audit log HTTP requests
type AuditLogHandler struct {
	auditService *service.AuditService
}

// NewAuditLogHandler creates a new AuditLogHandler
func NewAuditLogHandler(auditService *service.AuditService) *AuditLogHandler {
	return &AuditLogHandler{auditService: auditService}
}

// AuditLogResponse represents an audit log entry in API responses
type AuditLogResponse struct {
	ID           string         `json:"id"`
	UserID       *string        `json:"userId,omitempty"`
	ActionType   string         `json:"actionType"`
	ResourceType string         `json:"resourceType"`
	ResourceID   *string        `json:"resourceId,omitempty"`
	ResourceName *string        `json:"resourceName,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	Timestamp    string         `json:"timestamp"`
	IPAddress    *string        `json:"ipAddress,omitempty"`
}

// PaginatedAuditLogsResponse represents paginated audit logs in API responses
type PaginatedAuditLogsResponse struct {
	Data       []AuditLogResponse `json:"data"`
	TotalItems int64              `json:"totalItems"`
}

// GetAuditLogs handles GET /api/v1/audit-logs
func (h *AuditLogHandler) GetAuditLogs(c echo.Context) error {
	filters := &domain.AuditLogFilters{}

	if userIDStr := c.QueryParam("userId"); userIDStr != "" {
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			return NewValidationError(c, "Invalid userId", nil)
		}
		filters.UserID = &userID
	}

	if actionType := c.QueryParam("actionType"); actionType != "" {
		filters.ActionType = &actionType
	}

	if resourceType := c.QueryParam("resourceType"); resourceType != "" {
		filters.ResourceType = &resourceType
	}

	if resourceIDStr := c.QueryParam("resourceId"); resourceIDStr != "" {
		resourceID, err := uuid.Parse(resourceIDStr)
		if err != nil {
			return NewValidationError(c, "Invalid resourceId", nil)
		}
		filters.ResourceID = &resourceID
	}

	if startDateStr := c.QueryParam("startDate"); startDateStr != "" {
		parsed, err := time.Parse("2006-01-02", startDateStr)
		if err != nil {
			return NewValidationError(c, "Invalid startDate format (use YYYY-MM-DD)", nil)
		}
		filters.StartDate = &parsed
	}

	if endDateStr := c.QueryParam("endDate"); endDateStr != "" {
		parsed, err := time.Parse("2006-01-02", endDateStr)
		if err != nil {
			return NewValidationError(c, "Invalid endDate format (use YYYY-MM-DD)", nil)
		}
		filters.EndDate = &parsed
	}

	skip, limit, err := parsePaginationParams(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}
	filters.Skip = skip
	filters.Limit = limit

	logs, total, err := h.auditService.ListAuditLogs(filters)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list audit logs")
		return NewInternalError(c, "Failed to list audit logs")
	}

	response := PaginatedAuditLogsResponse{
		Data:       make([]AuditLogResponse, len(logs)),
		TotalItems: total,
	}
	for i, entry := range logs {
		response.Data[i] = toAuditLogResponse(entry)
	}
	return c.JSON(http.StatusOK, response)
}

// Helper function to convert domain.AuditLog to AuditLogResponse
func toAuditLogResponse(entry *domain.AuditLog) AuditLogResponse {
	resp := AuditLogResponse{
		ID:           entry.ID.String(),
		ActionType:   entry.ActionType,
		ResourceType: entry.ResourceType,
		ResourceName: entry.ResourceName,
		Details:      entry.Details,
		Timestamp:    entry.Timestamp.Format(time.RFC3339),
		IPAddress:    entry.IPAddress,
	}
	if entry.UserID != nil {
		userID := entry.UserID.String()
		resp.UserID = &userID
	}
	if entry.ResourceID != nil {
		resourceID := entry.ResourceID.String()
		resp.ResourceID = &resourceID
	}
	return resp
}
