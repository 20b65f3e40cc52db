package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/JulHeg/LeRobotPanorama/docs"
	"github.com/JulHeg/LeRobotPanorama/internal/api/handler"
	"github.com/JulHeg/LeRobotPanorama/internal/api/middleware"
	"github.com/JulHeg/LeRobotPanorama/internal/core/service"
	"github.com/JulHeg/LeRobotPanorama/pkg/config"
)

type Server struct {
	router *gin.Engine
	srv    *http.Server
	config *config.Config
}

// NewServer creates a new API server
func NewServer(
	cfg *config.Config,
	authService *service.AuthService,
	runService *service.RunService,
	logService *service.LogService,
) *Server {
	// Set Gin mode
	if !cfg.IsDevMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandlerMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	runHandler := handler.NewRunHandler(runService)
	logHandler := handler.NewLogHandler(logService)

	// Public routes (no auth required)
	auth := router.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
	}

	// Protected routes (auth required)
	authMiddleware := middleware.AuthMiddleware(authService)

	// Runs
	runs := router.Group("/runs")
	runs.Use(authMiddleware)
	{
		runs.POST("", runHandler.CreateRun)
		runs.GET("", runHandler.ListRuns)
		runs.GET("/:id", runHandler.GetRun)
	}

	// Alternative run endpoint (Python compatibility)
	router.POST("/run", authMiddleware, runHandler.CreateRun)

	// Run status by run ID
	router.GET("/status/:run_id", authMiddleware, runHandler.GetRunByRunID)

	// Logs
	logs := router.Group("/logs")
	logs.Use(authMiddleware)
	{
		logs.GET("", logHandler.ListLogs)
		logs.GET("/latest", logHandler.GetLatestLog)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// API documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	server := &Server{
		router: router,
		config: cfg,
	}

	return server
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.APIHost, s.config.APIPort)

	s.srv = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	// Start with or without SSL
	if s.config.SSLCert != "" && s.config.SSLKey != "" {
		fmt.Printf("Starting HTTPS server on %s\n", addr)
		return s.srv.ListenAndServeTLS(s.config.SSLCert, s.config.SSLKey)
	}

	fmt.Printf("Starting HTTP server on %s\n", addr)
	return s.srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}
