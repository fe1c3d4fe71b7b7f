package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/truong-nd12/milktea-order-api/config"
	"github.com/truong-nd12/milktea-order-api/controllers"
	"github.com/truong-nd12/milktea-order-api/middleware"
	"github.com/truong-nd12/milktea-order-api/models"
)

func main() {
	log.Println("Starting Milk Tea Order API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logger for the services layer
	logger, err := config.InitLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize Gin router
	router := gin.Default()
	router.Use(cors.Default())

	// Health check endpoint (unauthenticated)
	router.GET("/api/v1/health", healthCheck)

	// API v1 routes behind JWT validation
	v1 := router.Group("/api/v1")
	v1.Use(middleware.EnsureValidToken(cfg))
	{
		v1.POST("/users", controllers.CreateUser)
		v1.GET("/users/me", controllers.GetCurrentUser)

		v1.POST("/orders", controllers.CreateOrder)
		v1.GET("/orders", controllers.ListOrders)
		v1.GET("/orders/:id", controllers.GetOrder)
		v1.PATCH("/orders/:id/status", controllers.UpdateOrderStatus)

		v1.GET("/analytics/report", controllers.GetReport)
		v1.GET("/analytics/top-selling", controllers.GetTopSellingItems)
	}

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Milk Tea Order API is running",
	})
}
