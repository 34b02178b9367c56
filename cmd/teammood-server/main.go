package main

import (
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/teammood/teammood/pkg/teammood/admin"
	"github.com/teammood/teammood/pkg/teammood/auth"
	"github.com/teammood/teammood/pkg/teammood/config"
	"github.com/teammood/teammood/pkg/teammood/database"
	"github.com/teammood/teammood/pkg/teammood/groups"
	"github.com/teammood/teammood/pkg/teammood/logger"
	"github.com/teammood/teammood/pkg/teammood/models"
	"github.com/teammood/teammood/pkg/teammood/voting"

	_ "github.com/teammood/teammood/api/swagger"
)

// @title TeamMood API
// @version 1.0
// @description A team mood voting backend: groups open time-boxed votings and members submit scored votes, optionally anonymous.

// @contact.name TeamMood Support
// @contact.url https://github.com/teammood/teammood

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token. Format: "Bearer {token}"

func main() {
	cfg := config.Load()
	logger.Init(gin.Mode() != gin.ReleaseMode)
	defer logger.Sync()

	// Connect to database
	if err := database.Connect(cfg.DBPath); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := models.AutoMigrate(database.GetDB()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	logger.L.Info("database migrations completed", zap.String("path", cfg.DBPath))

	// Create default admin user if no admin exists
	if err := ensureAdminExists(); err != nil {
		log.Fatalf("Failed to ensure admin user exists: %v", err)
	}

	// Set up Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"service": "teammood",
			})
		})

		// Auth routes (public)
		authHandler := auth.NewHandler(database.GetDB())
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Group routes (protected)
		groupsHandler := groups.NewHandler(database.GetDB())
		groupsGroup := api.Group("/groups")
		groupsHandler.RegisterRoutes(groupsGroup)

		// Voting routes (protected); group-scoped reads share the groups router
		votingHandler := voting.NewHandler(database.GetDB(), cfg.VotingWindow)
		votingHandler.RegisterRoutes(api.Group("/votings"), groupsGroup)

		// Admin routes (admin role required)
		adminHandler := admin.NewHandler(database.GetDB())
		adminHandler.RegisterRoutes(api.Group("/admin"))
	}

	logger.L.Info("starting server",
		zap.String("port", cfg.Port),
		zap.Duration("votingWindow", cfg.VotingWindow))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// ensureAdminExists creates a default admin user if no admin exists in the database.
func ensureAdminExists() error {
	db := database.GetDB()

	// Check if any admin user exists
	var count int64
	if err := db.Model(&models.User{}).Where("system_role = ?", models.SystemRoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil // Admin already exists
	}

	// Create default admin user
	hashedPassword, err := auth.HashPassword("changeme")
	if err != nil {
		return err
	}

	adminUser := models.User{
		Email:        "admin@teammood.local",
		Name:         "Admin",
		PasswordHash: hashedPassword,
		SystemRole:   models.SystemRoleAdmin,
	}
	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Printf("Created default admin user: admin@teammood.local (password: changeme)")
	return nil
}
