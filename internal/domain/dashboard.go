package domain

import "github.com/shopspring/decimal"

// DashboardStats is the point-in-time rollup computed for the dashboard.
// It is recomputed from aggregate queries on every call and never persisted.
type DashboardStats struct {
	TotalProjects    int64               `json:"totalProjects"`
	ProjectsByStatus ProjectStatusCounts `json:"projectsByStatus"`
	TotalBudget      decimal.Decimal     `json:"totalBudget"`
	TotalSpent       decimal.Decimal     `json:"totalSpent"`
	BudgetUsageRate  float64             `json:"budgetUsageRate"`
	OverdueProjects  int64               `json:"overdueProjects"`
	TotalTasks       int64               `json:"totalTasks"`
	OverdueTasks     int64               `json:"overdueTasks"`
	MyPendingTasks   int64               `json:"myPendingTasks"`
}
