// File: /routes/routes.go
package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fitpulse-api/config"
	"fitpulse-api/controllers"
	"fitpulse-api/middleware"
	"fitpulse-api/realtime"
	"fitpulse-api/repositories"
	"fitpulse-api/services"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, emailService *services.EmailService) {
	// Repositories
	sessionRepo := repositories.NewSessionRepository(db)
	activityRepo := repositories.NewActivityRepository(db)
	routeRepo := repositories.NewRouteRepository(db)
	challengeRepo := repositories.NewChallengeRepository(db)
	userRepo := repositories.NewUserRepository(db)

	// Services
	challengeService := services.NewChallengeService(challengeRepo, userRepo, emailService)
	sessionService := services.NewSessionService(sessionRepo, activityRepo, challengeService)
	routeGenerator := services.NewRouteGenerator(cfg.MapboxBaseURL, cfg.MapboxToken, time.Duration(cfg.RoutingTimeout)*time.Second)

	// Controllers
	authController := controllers.NewAuthController(db, cfg.JWTSecret, emailService)
	userController := controllers.NewUserController(db)
	sessionController := controllers.NewSessionController(sessionService, userRepo)
	activityController := controllers.NewActivityController(activityRepo)
	routeController := controllers.NewRouteController(routeRepo, routeGenerator)
	challengeController := controllers.NewChallengeController(challengeRepo)

	// Realtime tracking channel
	hub := realtime.NewHub(sessionRepo)
	wsServer := realtime.NewServer(hub, cfg.JWTSecret)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	r.GET("/ws/tracking", wsServer.HandleConnection)

	// API version 1
	v1 := r.Group("/api/v1")

	// Auth routes (public)
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/register", authController.Register)
		auth.POST("/logout", authController.Logout)
	}

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		// User routes
		users := protected.Group("/users")
		{
			users.GET("/profile", userController.GetProfile)
			users.PUT("/profile", userController.UpdateProfile)
			users.GET("/statistics", userController.GetStatistics)
			users.POST("/follow/:id", userController.FollowUser)
			users.DELETE("/follow/:id", userController.UnfollowUser)
			users.GET("/followers", userController.GetFollowers)
			users.GET("/following", userController.GetFollowing)
		}

		// Live session routes
		sessions := protected.Group("/sessions")
		{
			sessions.POST("/start", sessionController.StartSession)
			sessions.PUT("/update", sessionController.UpdateSession)
			sessions.POST("/stop", sessionController.StopSession)
			sessions.POST("/reset", sessionController.ResetSessions)
			sessions.GET("/current", sessionController.GetCurrentSession)
		}

		// Activity routes
		activities := protected.Group("/activities")
		{
			activities.GET("/", activityController.GetActivities)
			activities.GET("/stats", activityController.GetStats)
			activities.GET("/:id", activityController.GetActivity)
			activities.PUT("/:id/archive", activityController.ArchiveActivity)
			activities.PUT("/:id/restore", activityController.RestoreActivity)
		}

		// Route routes
		routeGroup := protected.Group("/routes")
		{
			routeGroup.POST("/generate", routeController.GenerateRoute)
			routeGroup.GET("/", routeController.GetRoutes)
			routeGroup.POST("/", routeController.SaveRoute)
			routeGroup.GET("/:id", routeController.GetRoute)
			routeGroup.DELETE("/:id", routeController.DeleteRoute)
			routeGroup.POST("/:id/use", routeController.UseRoute)
		}

		// Challenge routes
		challenges := protected.Group("/challenges")
		{
			challenges.GET("/", challengeController.GetChallenges)
			challenges.POST("/", challengeController.CreateChallenge)
			challenges.GET("/:id", challengeController.GetChallenge)
			challenges.POST("/:id/join", challengeController.JoinChallenge)
			challenges.DELETE("/:id/leave", challengeController.LeaveChallenge)
			challenges.GET("/:id/progress", challengeController.GetMyProgress)
		}
	}
}
