package service

import (
	"github.com/dvrhm/protrack/protrack-backend/internal/domain"
	"github.com/google/uuid"
)

// MemberService manages project team membership
type MemberService struct {
	memberRepo   domain.ProjectMemberRepository
	projectRepo  domain.ProjectRepository
	userRepo     domain.UserRepository
	auditService *AuditService
}

// NewMemberService creates a new MemberService
func NewMemberService(memberRepo domain.ProjectMemberRepository, projectRepo domain.ProjectRepository, userRepo domain.UserRepository, auditService *AuditService) *MemberService {
	return &MemberService{
		memberRepo:   memberRepo,
		projectRepo:  projectRepo,
		userRepo:     userRepo,
		auditService: auditService,
	}
}

// AddMember adds a user to a project's team. The user can be a member of a
// project at most once.
func (s *MemberService) AddMember(projectID, userID uuid.UUID, role *string, actor Actor) (*domain.ProjectMember, error) {
	role = trimmedOrNil(role)
	if role != nil && len(*role) > domain.MaxMemberRoleLength {
		return nil, domain.ErrRoleTooLong
	}

	project, err := s.projectRepo.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	member, err := s.memberRepo.Create(&domain.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	})
	if err != nil {
		return nil, err
	}

	details := map[string]any{"member_name": user.FullName}
	if role != nil {
		details["member_role"] = *role
	}
	s.auditService.Log(actor, domain.ActionAddMember, "project", &project.ID,
		&project.Name, details)

	return member, nil
}

// ListMembers retrieves a project's members in assignment order
func (s *MemberService) ListMembers(projectID uuid.UUID) ([]*domain.ProjectMember, error) {
	if _, err := s.projectRepo.GetByID(projectID); err != nil {
		return nil, err
	}
	return s.memberRepo.ListByProject(projectID)
}

// RemoveMember removes a user from a project's team
func (s *MemberService) RemoveMember(projectID, userID uuid.UUID, actor Actor) error {
	member, err := s.memberRepo.GetByProjectAndUser(projectID, userID)
	if err != nil {
		return err
	}

	if err := s.memberRepo.Delete(projectID, userID); err != nil {
		return err
	}

	memberName := userID.String()
	if member.User != nil {
		memberName = member.User.FullName
	}
	details := map[string]any{"member_name": memberName}
	if project, err := s.projectRepo.GetByID(projectID); err == nil {
		s.auditService.Log(actor, domain.ActionRemoveMember, "project", &project.ID,
			&project.Name, details)
	} else {
		s.auditService.Log(actor, domain.ActionRemoveMember, "project", &projectID, nil, details)
	}

	return nil
}
