package testutil

import (
	"sort"
	"time"

	"github.com/dvrhm/protrack/protrack-backend/internal/domain"
	"github.com/dvrhm/protrack/protrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockProjectRepository is a mock implementation of domain.ProjectRepository
type MockProjectRepository struct {
	Projects map[uuid.UUID]*domain.Project
}

// NewMockProjectRepository creates a new MockProjectRepository
func NewMockProjectRepository() *MockProjectRepository {
	return &MockProjectRepository{
		Projects: make(map[uuid.UUID]*domain.Project),
	}
}

// AddProject adds a project to the mock repository (helper for tests)
func (m *MockProjectRepository) AddProject(project *domain.Project) {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	m.Projects[project.ID] = project
}

// Create creates a new project
func (m *MockProjectRepository) Create(project *domain.Project) (*domain.Project, error) {
	project.ID = uuid.New()
	project.CreatedAt = time.Now().UTC()
	project.UpdatedAt = project.CreatedAt
	m.Projects[project.ID] = project
	return project, nil
}

// GetByID retrieves a project by ID
func (m *MockProjectRepository) GetByID(id uuid.UUID) (*domain.Project, error) {
	if project, ok := m.Projects[id]; ok {
		return project, nil
	}
	return nil, domain.ErrProjectNotFound
}

// List retrieves projects with an optional status filter
func (m *MockProjectRepository) List(filters *domain.ProjectFilters) ([]*domain.Project, error) {
	var projects []*domain.Project
	for _, p := range m.Projects {
		if filters != nil && filters.Status != nil && p.Status != *filters.Status {
			continue
		}
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	var skip, limit int32
	if filters != nil {
		skip, limit = filters.Skip, filters.Limit
	}
	if limit < 1 {
		limit = domain.DefaultListLimit
	}
	return paginate(projects, skip, limit), nil
}

// Update applies the supplied fields to a project
func (m *MockProjectRepository) Update(id uuid.UUID, data *domain.UpdateProjectData) (*domain.Project, error) {
	project, ok := m.Projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	if data.Name != nil {
		project.Name = *data.Name
	}
	if data.Description != nil {
		project.Description = data.Description
	}
	if data.Status != nil {
		project.Status = *data.Status
	}
	if data.StartDate != nil {
		project.StartDate = data.StartDate
	}
	if data.EndDate != nil {
		project.EndDate = data.EndDate
	}
	if data.Budget != nil {
		project.Budget = *data.Budget
	}
	project.UpdatedAt = time.Now().UTC()
	return project, nil
}

// Delete removes a project
func (m *MockProjectRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Projects[id]; !ok {
		return domain.ErrProjectNotFound
	}
	delete(m.Projects, id)
	return nil
}

// Count returns the total number of projects
func (m *MockProjectRepository) Count() (int64, error) {
	return int64(len(m.Projects)), nil
}

// CountByStatus returns project counts grouped by status
func (m *MockProjectRepository) CountByStatus() (*domain.ProjectStatusCounts, error) {
	counts := &domain.ProjectStatusCounts{}
	for _, p := range m.Projects {
		switch p.Status {
		case domain.ProjectStatusPlanning:
			counts.Planning++
		case domain.ProjectStatusInProgress:
			counts.InProgress++
		case domain.ProjectStatusCompleted:
			counts.Completed++
		case domain.ProjectStatusArchived:
			counts.Archived++
		}
	}
	return counts, nil
}

// SumBudgets returns the summed budget and spent across all projects
func (m *MockProjectRepository) SumBudgets() (*domain.BudgetTotals, error) {
	totals := &domain.BudgetTotals{
		TotalBudget: decimal.Zero,
		TotalSpent:  decimal.Zero,
	}
	for _, p := range m.Projects {
		totals.TotalBudget = totals.TotalBudget.Add(p.Budget)
		totals.TotalSpent = totals.TotalSpent.Add(p.Spent)
	}
	return totals, nil
}

// CountOverdue counts overdue projects as of the given date
func (m *MockProjectRepository) CountOverdue(today time.Time) (int64, error) {
	var count int64
	for _, p := range m.Projects {
		if p.IsOverdue(today) {
			count++
		}
	}
	return count, nil
}

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository.
// It shares a MockProjectRepository so that every mutation recomputes the
// owning project's spent total, mirroring the real repository's transaction.
type MockExpenseRepository struct {
	Expenses map[uuid.UUID]*domain.Expense
	projects *MockProjectRepository
	CreateFn func(expense *domain.Expense) (*domain.Expense, error)
}

// NewMockExpenseRepository creates a new MockExpenseRepository bound to the
// given project repository
func NewMockExpenseRepository(projects *MockProjectRepository) *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses: make(map[uuid.UUID]*domain.Expense),
		projects: projects,
	}
}

// Create creates a new expense and recomputes spent
func (m *MockExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	if m.CreateFn != nil {
		return m.CreateFn(expense)
	}
	if _, ok := m.projects.Projects[expense.ProjectID]; !ok {
		return nil, domain.ErrProjectNotFound
	}
	expense.ID = uuid.New()
	expense.CreatedAt = time.Now().UTC()
	expense.UpdatedAt = expense.CreatedAt
	m.Expenses[expense.ID] = expense
	m.recomputeSpent(expense.ProjectID)
	return expense, nil
}

// GetByID retrieves an expense by ID
func (m *MockExpenseRepository) GetByID(id uuid.UUID) (*domain.Expense, error) {
	if expense, ok := m.Expenses[id]; ok {
		return expense, nil
	}
	return nil, domain.ErrExpenseNotFound
}

// Update applies the supplied fields and recomputes spent
func (m *MockExpenseRepository) Update(id uuid.UUID, data *domain.UpdateExpenseData) (*domain.Expense, error) {
	expense, ok := m.Expenses[id]
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}
	if data.Amount != nil {
		expense.Amount = *data.Amount
	}
	if data.Description != nil {
		expense.Description = *data.Description
	}
	if data.ClearCategory {
		expense.Category = nil
	} else if data.Category != nil {
		expense.Category = data.Category
	}
	if data.RecordedAt != nil {
		expense.RecordedAt = *data.RecordedAt
	}
	expense.UpdatedAt = time.Now().UTC()
	m.recomputeSpent(expense.ProjectID)
	return expense, nil
}

// Delete removes an expense and recomputes spent
func (m *MockExpenseRepository) Delete(id uuid.UUID) error {
	expense, ok := m.Expenses[id]
	if !ok {
		return domain.ErrExpenseNotFound
	}
	delete(m.Expenses, id)
	m.recomputeSpent(expense.ProjectID)
	return nil
}

// ListByProject retrieves a project's expenses ordered by recorded_at descending
func (m *MockExpenseRepository) ListByProject(projectID uuid.UUID, skip, limit int32) ([]*domain.Expense, error) {
	var expenses []*domain.Expense
	for _, e := range m.Expenses {
		if e.ProjectID == projectID {
			expenses = append(expenses, e)
		}
	}
	sort.Slice(expenses, func(i, j int) bool {
		return expenses[i].RecordedAt.After(expenses[j].RecordedAt)
	})
	return paginate(expenses, skip, limit), nil
}

// CountByProject returns the number of expenses recorded against a project
func (m *MockExpenseRepository) CountByProject(projectID uuid.UUID) (int64, error) {
	var count int64
	for _, e := range m.Expenses {
		if e.ProjectID == projectID {
			count++
		}
	}
	return count, nil
}

func (m *MockExpenseRepository) recomputeSpent(projectID uuid.UUID) {
	project, ok := m.projects.Projects[projectID]
	if !ok {
		return
	}
	total := decimal.Zero
	for _, e := range m.Expenses {
		if e.ProjectID == projectID {
			total = total.Add(e.Amount)
		}
	}
	project.Spent = total
	project.UpdatedAt = time.Now().UTC()
}

// MockTaskRepository is a mock implementation of domain.TaskRepository
type MockTaskRepository struct {
	Tasks map[uuid.UUID]*domain.Task
}

// NewMockTaskRepository creates a new MockTaskRepository
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{
		Tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// AddTask adds a task to the mock repository (helper for tests)
func (m *MockTaskRepository) AddTask(task *domain.Task) {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	m.Tasks[task.ID] = task
}

// Create creates a new task
func (m *MockTaskRepository) Create(task *domain.Task) (*domain.Task, error) {
	task.ID = uuid.New()
	task.CreatedAt = time.Now().UTC()
	task.UpdatedAt = task.CreatedAt
	m.Tasks[task.ID] = task
	return task, nil
}

// GetByID retrieves a task by ID
func (m *MockTaskRepository) GetByID(id uuid.UUID) (*domain.Task, error) {
	if task, ok := m.Tasks[id]; ok {
		return task, nil
	}
	return nil, domain.ErrTaskNotFound
}

// List retrieves tasks matching the filters
func (m *MockTaskRepository) List(filters *domain.TaskFilters, today time.Time) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for _, t := range m.Tasks {
		if filters != nil {
			if filters.ProjectID != nil && t.ProjectID != *filters.ProjectID {
				continue
			}
			if filters.AssigneeID != nil && (t.AssigneeID == nil || *t.AssigneeID != *filters.AssigneeID) {
				continue
			}
			if filters.Status != nil && t.Status != *filters.Status {
				continue
			}
			if filters.Overdue != nil && t.IsOverdue(today) != *filters.Overdue {
				continue
			}
		}
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	var skip, limit int32
	if filters != nil {
		skip, limit = filters.Skip, filters.Limit
	}
	if limit < 1 {
		limit = domain.DefaultListLimit
	}
	return paginate(tasks, skip, limit), nil
}

// Update applies the supplied fields to a task
func (m *MockTaskRepository) Update(id uuid.UUID, data *domain.UpdateTaskData) (*domain.Task, error) {
	task, ok := m.Tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	if data.Name != nil {
		task.Name = *data.Name
	}
	if data.Description != nil {
		task.Description = data.Description
	}
	if data.Status != nil {
		task.Status = *data.Status
	}
	if data.Priority != nil {
		task.Priority = *data.Priority
	}
	if data.AssigneeID != nil {
		task.AssigneeID = data.AssigneeID
	}
	if data.DueDate != nil {
		task.DueDate = data.DueDate
	}
	if data.ClearCompletedAt {
		task.CompletedAt = nil
	} else if data.CompletedAt != nil {
		task.CompletedAt = data.CompletedAt
	}
	task.UpdatedAt = time.Now().UTC()
	return task, nil
}

// Delete removes a task
func (m *MockTaskRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	return nil
}

// Count returns the total number of tasks
func (m *MockTaskRepository) Count() (int64, error) {
	return int64(len(m.Tasks)), nil
}

// CountOverdue counts overdue tasks as of the given date
func (m *MockTaskRepository) CountOverdue(today time.Time) (int64, error) {
	var count int64
	for _, t := range m.Tasks {
		if t.IsOverdue(today) {
			count++
		}
	}
	return count, nil
}

// CountPendingByAssignee counts a user's open tasks
func (m *MockTaskRepository) CountPendingByAssignee(assigneeID uuid.UUID) (int64, error) {
	var count int64
	for _, t := range m.Tasks {
		if t.AssigneeID == nil || *t.AssigneeID != assigneeID {
			continue
		}
		switch t.Status {
		case domain.TaskStatusTodo, domain.TaskStatusInProgress, domain.TaskStatusInReview:
			count++
		}
	}
	return count, nil
}

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users map[uuid.UUID]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[uuid.UUID]*domain.User),
	}
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.Users[user.ID] = user
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.Users[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// List retrieves all users
func (m *MockUserRepository) List() ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(m.Users))
	for _, u := range m.Users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].FullName < users[j].FullName
	})
	return users, nil
}

// MockProjectMemberRepository is a mock implementation of domain.ProjectMemberRepository.
// It resolves member users through a bound MockUserRepository.
type MockProjectMemberRepository struct {
	Members  map[uuid.UUID]*domain.ProjectMember
	userRepo *MockUserRepository
}

// NewMockProjectMemberRepository creates a new MockProjectMemberRepository
func NewMockProjectMemberRepository(userRepo *MockUserRepository) *MockProjectMemberRepository {
	return &MockProjectMemberRepository{
		Members:  make(map[uuid.UUID]*domain.ProjectMember),
		userRepo: userRepo,
	}
}

// Create adds a membership, rejecting duplicates per project
func (m *MockProjectMemberRepository) Create(member *domain.ProjectMember) (*domain.ProjectMember, error) {
	for _, existing := range m.Members {
		if existing.ProjectID == member.ProjectID && existing.UserID == member.UserID {
			return nil, domain.ErrAlreadyMember
		}
	}
	member.ID = uuid.New()
	member.AssignedAt = time.Now().UTC()
	if user, err := m.userRepo.GetByID(member.UserID); err == nil {
		member.User = user
	}
	m.Members[member.ID] = member
	return member, nil
}

// ListByProject retrieves a project's members in assignment order
func (m *MockProjectMemberRepository) ListByProject(projectID uuid.UUID) ([]*domain.ProjectMember, error) {
	var members []*domain.ProjectMember
	for _, member := range m.Members {
		if member.ProjectID == projectID {
			members = append(members, member)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].AssignedAt.Before(members[j].AssignedAt)
	})
	return members, nil
}

// GetByProjectAndUser retrieves a single membership
func (m *MockProjectMemberRepository) GetByProjectAndUser(projectID, userID uuid.UUID) (*domain.ProjectMember, error) {
	for _, member := range m.Members {
		if member.ProjectID == projectID && member.UserID == userID {
			return member, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

// Delete removes a membership
func (m *MockProjectMemberRepository) Delete(projectID, userID uuid.UUID) error {
	for id, member := range m.Members {
		if member.ProjectID == projectID && member.UserID == userID {
			delete(m.Members, id)
			return nil
		}
	}
	return domain.ErrMemberNotFound
}

// MockDocumentLinkRepository is a mock implementation of domain.DocumentLinkRepository
type MockDocumentLinkRepository struct {
	Links map[uuid.UUID]*domain.DocumentLink
}

// NewMockDocumentLinkRepository creates a new MockDocumentLinkRepository
func NewMockDocumentLinkRepository() *MockDocumentLinkRepository {
	return &MockDocumentLinkRepository{
		Links: make(map[uuid.UUID]*domain.DocumentLink),
	}
}

// Create inserts a document link
func (m *MockDocumentLinkRepository) Create(link *domain.DocumentLink) (*domain.DocumentLink, error) {
	link.ID = uuid.New()
	link.CreatedAt = time.Now().UTC()
	link.UpdatedAt = link.CreatedAt
	m.Links[link.ID] = link
	return link, nil
}

// GetByID retrieves a document link by ID
func (m *MockDocumentLinkRepository) GetByID(id uuid.UUID) (*domain.DocumentLink, error) {
	if link, ok := m.Links[id]; ok {
		return link, nil
	}
	return nil, domain.ErrDocumentLinkNotFound
}

// ListByProject retrieves a project's document links newest first
func (m *MockDocumentLinkRepository) ListByProject(projectID uuid.UUID) ([]*domain.DocumentLink, error) {
	var links []*domain.DocumentLink
	for _, link := range m.Links {
		if link.ProjectID == projectID {
			links = append(links, link)
		}
	}
	sort.Slice(links, func(i, j int) bool {
		return links[i].CreatedAt.After(links[j].CreatedAt)
	})
	return links, nil
}

// Update applies the supplied fields to a document link
func (m *MockDocumentLinkRepository) Update(id uuid.UUID, data *domain.UpdateDocumentLinkData) (*domain.DocumentLink, error) {
	link, ok := m.Links[id]
	if !ok {
		return nil, domain.ErrDocumentLinkNotFound
	}
	if data.Title != nil {
		link.Title = *data.Title
	}
	if data.Description != nil {
		link.Description = data.Description
	}
	link.UpdatedAt = time.Now().UTC()
	return link, nil
}

// Delete removes a document link
func (m *MockDocumentLinkRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Links[id]; !ok {
		return domain.ErrDocumentLinkNotFound
	}
	delete(m.Links, id)
	return nil
}

// MockAuditLogRepository is a mock implementation of domain.AuditLogRepository
type MockAuditLogRepository struct {
	Entries  []*domain.AuditLog
	InsertFn func(entry *domain.AuditLog) (*domain.AuditLog, error)
}

// NewMockAuditLogRepository creates a new MockAuditLogRepository
func NewMockAuditLogRepository() *MockAuditLogRepository {
	return &MockAuditLogRepository{}
}

// Insert appends an audit log entry
func (m *MockAuditLogRepository) Insert(entry *domain.AuditLog) (*domain.AuditLog, error) {
	if m.InsertFn != nil {
		return m.InsertFn(entry)
	}
	entry.ID = uuid.New()
	entry.Timestamp = time.Now().UTC()
	m.Entries = append(m.Entries, entry)
	return entry, nil
}

// List retrieves audit entries matching the filters, newest first
func (m *MockAuditLogRepository) List(filters *domain.AuditLogFilters) ([]*domain.AuditLog, int64, error) {
	var matches []*domain.AuditLog
	for _, e := range m.Entries {
		if filters != nil {
			if filters.UserID != nil && (e.UserID == nil || *e.UserID != *filters.UserID) {
				continue
			}
			if filters.ActionType != nil && e.ActionType != *filters.ActionType {
				continue
			}
			if filters.ResourceType != nil && e.ResourceType != *filters.ResourceType {
				continue
			}
			if filters.ResourceID != nil && (e.ResourceID == nil || *e.ResourceID != *filters.ResourceID) {
				continue
			}
			if filters.StartDate != nil && e.Timestamp.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && e.Timestamp.After(*filters.EndDate) {
				continue
			}
		}
		matches = append(matches, e)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Timestamp.After(matches[j].Timestamp)
	})
	total := int64(len(matches))
	var skip, limit int32
	if filters != nil {
		skip, limit = filters.Skip, filters.Limit
	}
	if limit < 1 {
		limit = domain.DefaultListLimit
	}
	return paginate(matches, skip, limit), total, nil
}

// CapturePublisher records published events for assertions
type CapturePublisher struct {
	Events []websocket.Event
}

// Publish records the event
func (p *CapturePublisher) Publish(event websocket.Event) {
	p.Events = append(p.Events, event)
}

func paginate[T any](items []T, skip, limit int32) []T {
	if skip < 0 {
		skip = 0
	}
	if int(skip) >= len(items) {
		return nil
	}
	items = items[skip:]
	if limit > 0 && int(limit) < len(items) {
		items = items[:limit]
	}
	return items
}
