package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, projectHandler *ProjectHandler, taskHandler *TaskHandler, expenseHandler *ExpenseHandler, memberHandler *MemberHandler, documentHandler *DocumentHandler, dashboardHandler *DashboardHandler, auditLogHandler *AuditLogHandler, userHandler *UserHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Project routes
	projects := api.Group("/projects")
	projects.POST("", projectHandler.CreateProject)
	projects.GET("", projectHandler.GetProjects)
	projects.GET("/:id", projectHandler.GetProject)
	projects.PUT("/:id", projectHandler.UpdateProject)
	projects.DELETE("/:id", projectHandler.DeleteProject)

	// Per-project expense routes
	projects.POST("/:id/expenses", expenseHandler.CreateExpense)
	projects.GET("/:id/expenses", expenseHandler.GetExpenses)
	projects.GET("/:id/budget-summary", expenseHandler.GetBudgetSummary)

	// Project membership routes
	projects.POST("/:id/members", memberHandler.AddMember)
	projects.GET("/:id/members", memberHandler.GetMembers)
	projects.DELETE("/:id/members/:userId", memberHandler.RemoveMember)

	// Per-project document link routes
	projects.POST("/:id/documents", documentHandler.AddDocumentLink)
	projects.GET("/:id/documents", documentHandler.GetDocumentLinks)

	// Task routes
	tasks := api.Group("/tasks")
	tasks.POST("", taskHandler.CreateTask)
	tasks.GET("", taskHandler.GetTasks)
	tasks.GET("/:id", taskHandler.GetTask)
	tasks.PUT("/:id", taskHandler.UpdateTask)
	tasks.DELETE("/:id", taskHandler.DeleteTask)

	// Expense routes
	expenses := api.Group("/expenses")
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Document link routes
	documents := api.Group("/documents")
	documents.PUT("/:id", documentHandler.UpdateDocumentLink)
	documents.DELETE("/:id", documentHandler.DeleteDocumentLink)

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.GET("/stats", dashboardHandler.GetStats)

	// Audit log routes
	api.GET("/audit-logs", auditLogHandler.GetAuditLogs)

	// User directory routes
	users := api.Group("/users")
	users.GET("", userHandler.GetUsers)
	users.GET("/:id", userHandler.GetUser)

	// WebSocket endpoint for live entity events
	e.GET("/ws", wsHandler.HandleWS)
}
