package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"team-collab-api/internal/activity"
	"team-collab-api/internal/config"
	"team-collab-api/internal/handlers"
	"team-collab-api/internal/middleware"
	"team-collab-api/internal/realtime"
)

// Setup assembles the router: CORS, health probe, public auth endpoints and
// the authenticated API surface.
func Setup(cfg config.Config, db *gorm.DB, hub *realtime.Hub, recorder *activity.Recorder) *gin.Engine {
	router := gin.Default()

	corsCfg := cors.DefaultConfig()
	if origins := cfg.Origins(); len(origins) == 1 && origins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	// Health check endpoint (no auth)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authn := middleware.NewAuthenticator(db)

	authHandler := handlers.NewAuthHandler(db)
	userHandler := handlers.NewUserHandler(db, authn, recorder)
	teamHandler := handlers.NewTeamHandler(db, recorder)
	projectHandler := handlers.NewProjectHandler(db, recorder)
	taskHandler := handlers.NewTaskHandler(db, recorder)
	dashboardHandler := handlers.NewDashboardHandler(db)
	activityHandler := handlers.NewActivityHandler(recorder)
	wsHandler := handlers.NewWSHandler(hub)

	api := router.Group("/api")

	// Public routes (no authentication required)
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)

	// Protected routes (authentication required)
	protected := api.Group("")
	protected.Use(authn.Middleware())
	{
		// User endpoints
		protected.GET("/auth/users", userHandler.List)
		protected.PATCH("/auth/users/:id/role", userHandler.UpdateRole)
		protected.DELETE("/auth/users/:id", userHandler.Delete)

		// Team endpoints
		protected.GET("/teams", teamHandler.List)
		protected.POST("/teams", teamHandler.Create)
		protected.POST("/teams/:id/members", teamHandler.AddMember)
		protected.DELETE("/teams/:id/members/:userId", teamHandler.RemoveMember)

		// Project endpoints
		protected.GET("/projects", projectHandler.List)
		protected.POST("/projects", projectHandler.Create)
		protected.PATCH("/projects/:id", projectHandler.Update)
		protected.DELETE("/projects/:id", projectHandler.Delete)

		// Task endpoints
		protected.GET("/tasks", taskHandler.List)
		protected.GET("/tasks/my", taskHandler.My)
		protected.POST("/tasks", taskHandler.Create)
		protected.PATCH("/tasks/:id", taskHandler.Update)
		protected.PATCH("/tasks/:id/status", taskHandler.UpdateStatus)
		protected.DELETE("/tasks/:id", taskHandler.Delete)

		// Dashboard and activity feed
		protected.GET("/dashboard/stats", dashboardHandler.Stats)
		protected.GET("/activity", activityHandler.List)

		// Live session channel
		protected.GET("/ws", wsHandler.Serve)
	}

	return router
}
