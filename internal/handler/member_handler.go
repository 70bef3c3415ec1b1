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
)

// MemberHandler handles project membership HTTP requests
type MemberHandler struct {
	memberService *service.MemberService
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(memberService *service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// AddMemberRequest represents the add member request body
type AddMemberRequest struct {
	UserID string  `json:"userId"`
	Role   *string `json:"role,omitempty"`
}

// ProjectMemberResponse represents a project member in API responses
type ProjectMemberResponse struct {
	ID         string        `json:"id"`
	ProjectID  string        `json:"projectId"`
	UserID     string        `json:"userId"`
	User       *UserResponse `json:"user,omitempty"`
	Role       *string       `json:"role,omitempty"`
	AssignedAt string        `json:"assignedAt"`
}

// AddMember handles POST /api/v1/projects/:id/members
func (h *MemberHandler) AddMember(c echo.Context) error {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid project ID", nil)
	}

	var req AddMemberRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return NewValidationError(c, "Invalid userId", []ValidationError{
			{Field: "userId", Message: "Must be a valid UUID"},
		})
	}

	member, err := h.memberService.AddMember(projectID, userID, req.Role, requestActor(c))
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return NewNotFoundError(c, "Project not found")
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "userId", Message: "User does not exist"},
			})
		}
		if errors.Is(err, domain.ErrAlreadyMember) {
			return NewConflictError(c, "User is already a member of this project")
		}
		if errors.Is(err, domain.ErrRoleTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "role", Message: "Role must be 50 characters or less"},
			})
		}
		log.Error().Err(err).Str("project_id", projectID.String()).Msg("Failed to add project member")
		return NewInternalError(c, "Failed to add project member")
	}

	log.Info().Str("project_id", projectID.String()).Str("user_id", userID.String()).Msg("Project member added")
	return c.JSON(http.StatusCreated, toMemberResponse(member))
}

// GetMembers handles GET /api/v1/projects/:id/members
func (h *MemberHandler) GetMembers(c echo.Context) error {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid project ID", nil)
	}

	members, err := h.memberService.ListMembers(projectID)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return NewNotFoundError(c, "Project not found")
		}
		log.Error().Err(err).Str("project_id", projectID.String()).Msg("Failed to list project members")
		return NewInternalError(c, "Failed to list project members")
	}

	response := make([]ProjectMemberResponse, len(members))
	for i, member := range members {
		response[i] = toMemberResponse(member)
	}
	return c.JSON(http.StatusOK, response)
}

// RemoveMember handles DELETE /api/v1/projects/:id/members/:userId
func (h *MemberHandler) RemoveMember(c echo.Context) error {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid project ID", nil)
	}
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return NewValidationError(c, "Invalid user ID", nil)
	}

	if err := h.memberService.RemoveMember(projectID, userID, requestActor(c)); err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return NewNotFoundError(c, "Project member not found")
		}
		log.Error().Err(err).Str("project_id", projectID.String()).Str("user_id", userID.String()).Msg("Failed to remove project member")
		return NewInternalError(c, "Failed to remove project member")
	}

	log.Info().Str("project_id", projectID.String()).Str("user_id", userID.String()).Msg("Project member removed")
	return c.NoContent(http.StatusNoContent)
}

func toMemberResponse(member *domain.ProjectMember) ProjectMemberResponse {
	resp := ProjectMemberResponse{
		ID:         member.ID.String(),
		ProjectID:  member.ProjectID.String(),
		UserID:     member.UserID.String(),
		Role:       member.Role,
		AssignedAt: member.AssignedAt.Format(time.RFC3339),
	}
	if member.User != nil {
		user := toUserResponse(member.User)
		resp.User = &user
	}
	return resp
}
