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

func newMemberTestService() (*MemberService, *testutil.MockProjectRepository, *testutil.MockUserRepository, *testutil.MockAuditLogRepository) {
	projectRepo := testutil.NewMockProjectRepository()
	userRepo := testutil.NewMockUserRepository()
	memberRepo := testutil.NewMockProjectMemberRepository(userRepo)
	auditRepo := testutil.NewMockAuditLogRepository()
	svc := NewMemberService(memberRepo, projectRepo, userRepo, NewAuditService(auditRepo))
	return svc, projectRepo, userRepo, auditRepo
}

func addUser(userRepo *testutil.MockUserRepository, name string) *domain.User {
	user := &domain.User{Email: strings.ToLower(name) + "@example.com", FullName: name}
	userRepo.AddUser(user)
	return user
}

func TestMemberService_AddMember_Success(t *testing.T) {
	svc, projectRepo, userRepo, auditRepo := newMemberTestService()
	project := addProject(projectRepo, 1000)
	user := addUser(userRepo, "Alice")

	role := "Designer"
	member, err := svc.AddMember(project.ID, user.ID, &role, Actor{})
	require.NoError(t, err)
	assert.Equal(t, project.ID, member.ProjectID)
	assert.Equal(t, user.ID, member.UserID)
	require.NotNil(t, member.Role)
	assert.Equal(t, "Designer", *member.Role)
	require.NotNil(t, member.User)
	assert.Equal(t, "Alice", member.User.FullName)

	require.Len(t, auditRepo.Entries, 1)
	entry := auditRepo.Entries[0]
	assert.Equal(t, domain.ActionAddMember, entry.ActionType)
	assert.Equal(t, "project", entry.ResourceType)
	assert.Equal(t, "Alice", entry.Details["member_name"])
	assert.Equal(t, "Designer", entry.Details["member_role"])
}

func TestMemberService_AddMember_RejectsDuplicate(t *testing.T) {
	svc, projectRepo, userRepo, _ := newMemberTestService()
	project := addProject(projectRepo, 1000)
	user := addUser(userRepo, "Alice")

	_, err := svc.AddMember(project.ID, user.ID, nil, Actor{})
	require.NoError(t, err)

	_, err = svc.AddMember(project.ID, user.ID, nil, Actor{})
	assert.ErrorIs(t, err, domain.ErrAlreadyMember)
}

func TestMemberService_AddMember_ProjectNotFound(t *testing.T) {
	svc, _, userRepo, _ := newMemberTestService()
	user := addUser(userRepo, "Alice")

	_, err := svc.AddMember(uuid.New(), user.ID, nil, Actor{})
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestMemberService_AddMember_UserNotFound(t *testing.T) {
	svc, projectRepo, _, _ := newMemberTestService()
	project := addProject(projectRepo, 1000)

	_, err := svc.AddMember(project.ID, uuid.New(), nil, Actor{})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestMemberService_AddMember_RejectsLongRole(t *testing.T) {
	svc, projectRepo, userRepo, _ := newMemberTestService()
	project := addProject(projectRepo, 1000)
	user := addUser(userRepo, "Alice")

	long := strings.Repeat("r", domain.MaxMemberRoleLength+1)
	_, err := svc.AddMember(project.ID, user.ID, &long, Actor{})
	assert.ErrorIs(t, err, domain.ErrRoleTooLong)
}

func TestMemberService_AddMember_NormalizesBlankRole(t *testing.T) {
	svc, projectRepo, userRepo, _ := newMemberTestService()
	project := addProject(projectRepo, 1000)
	user := addUser(userRepo, "Alice")

	blank := "   "
	member, err := svc.AddMember(project.ID, user.ID, &blank, Actor{})
	require.NoError(t, err)
	assert.Nil(t, member.Role)
}

func TestMemberService_ListMembers_AssignmentOrder(t *testing.T) {
	svc, projectRepo, userRepo, _ := newMemberTestService()
	project := addProject(projectRepo, 1000)
	alice := addUser(userRepo, "Alice")
	bob := addUser(userRepo, "Bob")

	_, err := svc.AddMember(project.ID, alice.ID, nil, Actor{})
	require.NoError(t, err)
	_, err = svc.AddMember(project.ID, bob.ID, nil, Actor{})
	require.NoError(t, err)

	members, err := svc.ListMembers(project.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, alice.ID, members[0].UserID)
	assert.Equal(t, bob.ID, members[1].UserID)
}

func TestMemberService_ListMembers_ProjectNotFound(t *testing.T) {
	svc, _, _, _ := newMemberTestService()

	_, err := svc.ListMembers(uuid.New())
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestMemberService_RemoveMember_Success(t *testing.T) {
	svc, projectRepo, userRepo, auditRepo := newMemberTestService()
	project := addProject(projectRepo, 1000)
	user := addUser(userRepo, "Alice")

	_, err := svc.AddMember(project.ID, user.ID, nil, Actor{})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveMember(project.ID, user.ID, Actor{}))

	members, err := svc.ListMembers(project.ID)
	require.NoError(t, err)
	assert.Empty(t, members)

	require.Len(t, auditRepo.Entries, 2)
	entry := auditRepo.Entries[1]
	assert.Equal(t, domain.ActionRemoveMember, entry.ActionType)
	assert.Equal(t, "Alice", entry.Details["member_name"])
}

func TestMemberService_RemoveMember_NotFound(t *testing.T) {
	svc, projectRepo, userRepo, _ := newMemberTestService()
	project := addProject(projectRepo, 1000)
	user := addUser(userRepo, "Alice")

	err := svc.RemoveMember(project.ID, user.ID, Actor{})
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
}
