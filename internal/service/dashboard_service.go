package service

import (
	"time"

	"github.com/dvrhm/protrack/protrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardService is the aggregator: it computes the cross-project/task
// rollup for the dashboard. Every call re-runs the aggregate queries; nothing
// is cached.
type DashboardService struct {
	projectRepo domain.ProjectRepository
	taskRepo    domain.TaskRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(projectRepo domain.ProjectRepository, taskRepo domain.TaskRepository) *DashboardService {
	return &DashboardService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
	}
}

// GetStats computes the dashboard snapshot as of now. userID scopes the
// pending-task count; with no user it reports 0.
func (s *DashboardService) GetStats(userID *uuid.UUID) (*domain.DashboardStats, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	totalProjects, err := s.projectRepo.Count()
	if err != nil {
		return nil, err
	}

	byStatus, err := s.projectRepo.CountByStatus()
	if err != nil {
		return nil, err
	}

	totals, err := s.projectRepo.SumBudgets()
	if err != nil {
		return nil, err
	}

	usageRate := 0.0
	if totals.TotalBudget.IsPositive() {
		usageRate, _ = totals.TotalSpent.Div(totals.TotalBudget).Mul(decimal.NewFromInt(100)).Float64()
	}

	overdueProjects, err := s.projectRepo.CountOverdue(today)
	if err != nil {
		return nil, err
	}

	totalTasks, err := s.taskRepo.Count()
	if err != nil {
		return nil, err
	}

	overdueTasks, err := s.taskRepo.CountOverdue(today)
	if err != nil {
		return nil, err
	}

	var myPendingTasks int64
	if userID != nil {
		myPendingTasks, err = s.taskRepo.CountPendingByAssignee(*userID)
		if err != nil {
			return nil, err
		}
	}

	return &domain.DashboardStats{
		TotalProjects:    totalProjects,
		ProjectsByStatus: *byStatus,
		TotalBudget:      totals.TotalBudget,
		TotalSpent:       totals.TotalSpent,
		BudgetUsageRate:  usageRate,
		OverdueProjects:  overdueProjects,
		TotalTasks:       totalTasks,
		OverdueTasks:     overdueTasks,
		MyPendingTasks:   myPendingTasks,
	}, nil
}
