package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mike-rowan/fieldserve-api/config"
	"github.com/mike-rowan/fieldserve-api/controllers"
	"github.com/mike-rowan/fieldserve-api/middleware"
	"github.com/mike-rowan/fieldserve-api/services"
)

func main() {
	log.Println("Starting FieldServe API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err := services.InitLogger(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(config.AllModels()...); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Webhook notifier for dispatch events
	services.InitNotificationService(cfg)

	// Redis-backed schedule holds; dispatch still works without them
	if _, err := services.InitScheduleHoldService(cfg); err != nil {
		log.Printf("Schedule hold store unavailable, holds disabled: %v", err)
	}

	// S3-backed job photo storage
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitPhotoService(s3Service)
	} else {
		log.Println("AWS_S3_BUCKET not set, photo uploads disabled")
	}

	router := setupRouter(cfg)

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter configures CORS, auth middleware and all API routes
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)
	}

	authed := v1.Group("")
	authed.Use(middleware.EnsureValidToken(cfg))
	{
		authed.POST("/contractors", controllers.CreateContractor)
		authed.GET("/contractors/me", controllers.GetMyAccount)

		authed.POST("/team", controllers.CreateTeamMember)
		authed.GET("/team", controllers.ListTeamMembers)
		authed.POST("/team/:id/time-off", controllers.AddTimeOff)
		authed.POST("/team/:id/availability", controllers.CheckTechnicianAvailability)

		authed.POST("/dispatch/eligible", controllers.FindEligibleTechnicians)

		authed.POST("/quotes", controllers.CreateQuote)
		authed.POST("/quotes/:id/send", controllers.SendQuote)
		authed.POST("/quotes/:id/accept", controllers.AcceptQuote)

		authed.GET("/jobs/:id", controllers.GetJob)
		authed.PUT("/jobs/:id/status", controllers.TransitionJobStatus)
		authed.POST("/jobs/:id/assign", controllers.AssignJob)
		authed.POST("/jobs/:id/cancel", controllers.CancelJob)
		authed.POST("/jobs/:id/cancellation/approve", controllers.ApproveCancellation)
		authed.POST("/jobs/:id/cancellation/deny", controllers.DenyCancellation)

		authed.POST("/jobs/:id/messages", controllers.SendMessage)
		authed.GET("/jobs/:id/messages", controllers.GetMessages)
		authed.POST("/jobs/:id/photos", controllers.UploadJobPhoto)
		authed.GET("/jobs/:id/photos", controllers.ListJobPhotos)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "FieldServe API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
