package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvrhm/protrack/protrack-backend/internal/config"
	"github.com/dvrhm/protrack/protrack-backend/internal/handler"
	"github.com/dvrhm/protrack/protrack-backend/internal/middleware"
	"github.com/dvrhm/protrack/protrack-backend/internal/repository/postgres"
	"github.com/dvrhm/protrack/protrack-backend/internal/service"
	"github.com/dvrhm/protrack/protrack-backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	projectRepo := postgres.NewProjectRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	memberRepo := postgres.NewProjectMemberRepository(pool)
	documentRepo := postgres.NewDocumentLinkRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	auditLogRepo := postgres.NewAuditLogRepository(pool)

	// Initialize WebSocket hub for live entity events
	hub := websocket.NewHub()

	// Initialize services
	auditService := service.NewAuditService(auditLogRepo)
	projectService := service.NewProjectService(projectRepo, auditService, hub)
	taskService := service.NewTaskService(taskRepo, projectRepo, userRepo, auditService, hub)
	expenseService := service.NewExpenseService(expenseRepo, projectRepo, auditService, hub)
	memberService := service.NewMemberService(memberRepo, projectRepo, userRepo, auditService)
	documentService := service.NewDocumentService(documentRepo, projectRepo, auditService)
	dashboardService := service.NewDashboardService(projectRepo, taskRepo)
	userService := service.NewUserService(userRepo)

	// Initialize handlers
	projectHandler := handler.NewProjectHandler(projectService)
	taskHandler := handler.NewTaskHandler(taskService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	memberHandler := handler.NewMemberHandler(memberService)
	documentHandler := handler.NewDocumentHandler(documentService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	auditLogHandler := handler.NewAuditLogHandler(auditService)
	userHandler := handler.NewUserHandler(userService)
	wsHandler := handler.NewWebSocketHandler(hub, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, middleware.HeaderUserID},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Request identity middleware
	e.Use(middleware.Identity())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, projectHandler, taskHandler, expenseHandler, memberHandler, documentHandler, dashboardHandler, auditLogHandler, userHandler, wsHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
