package handler

import (
	"net/http"

	"github.com/dvrhm/protrack/protrack-backend/internal/domain"
	"github.com/dvrhm/protrack/protrack-backend/internal/middleware"
	"github.com/dvrhm/protrack/protrack-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// DashboardStatsResponse represents the dashboard rollup in API responses
type DashboardStatsResponse struct {
	TotalProjects    int64                      `json:"totalProjects"`
	ProjectsByStatus domain.ProjectStatusCounts `json:"projectsByStatus"`
	TotalBudget      string                     `json:"totalBudget"`
	TotalSpent       string                     `json:"totalSpent"`
	BudgetUsageRate  float64                    `json:"budgetUsageRate"`
	OverdueProjects  int64                      `json:"overdueProjects"`
	TotalTasks       int64                      `json:"totalTasks"`
	OverdueTasks     int64                      `json:"overdueTasks"`
	MyPendingTasks   int64                      `json:"myPendingTasks"`
}

// GetStats handles GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetStats(c echo.Context) error {
	userID := middleware.GetUserID(c)

	stats, err := h.dashboardService.GetStats(userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get dashboard stats")
		return NewInternalError(c, "Failed to get dashboard stats")
	}

	return c.JSON(http.StatusOK, DashboardStatsResponse{
		TotalProjects:    stats.TotalProjects,
		ProjectsByStatus: stats.ProjectsByStatus,
		TotalBudget:      stats.TotalBudget.StringFixed(2),
		TotalSpent:       stats.TotalSpent.StringFixed(2),
		BudgetUsageRate:  stats.BudgetUsageRate,
		OverdueProjects:  stats.OverdueProjects,
		TotalTasks:       stats.TotalTasks,
		OverdueTasks:     stats.OverdueTasks,
		MyPendingTasks:   stats.MyPendingTasks,
	})
}
