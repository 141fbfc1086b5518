// File: /main.go
package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"fitpulse-api/config"
	"fitpulse-api/database"
	"fitpulse-api/jobs"
	"fitpulse-api/middleware"
	"fitpulse-api/routes"
	"fitpulse-api/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Set Gin mode based on environment
	if cfg.Port == "8080" { // Development
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()

	// Setup CORS middleware
	router.Use(routes.SetupCORS())

	// Request logging middleware
	router.Use(middleware.RequestLogger())

	// Security headers and rate limiting
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RateLimit(300, 30))

	// Recovery middleware
	router.Use(gin.Recovery())

	// Email service
	emailService := services.NewEmailService(cfg)

	// Setup routes
	routes.SetupRoutes(router, db, cfg, emailService)

	// Start background jobs
	cleanupJob := jobs.NewSessionCleanupJob(db,
		10*time.Minute,
		time.Duration(cfg.SessionMaxIdleMinutes)*time.Minute)
	cleanupJob.Start()

	// Start server
	log.Printf("Starting FitPulse API server on port %s", cfg.Port)
	log.Printf("Health check available at: http://localhost:%s/ping", cfg.Port)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
