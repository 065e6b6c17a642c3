package main

import (
	"log"
	"net/http"

	"github.com/mj8star/cn-stock-monitor/internal/api"
	"github.com/mj8star/cn-stock-monitor/internal/config"
	"github.com/mj8star/cn-stock-monitor/internal/database"
	"github.com/mj8star/cn-stock-monitor/internal/provider"
	"github.com/mj8star/cn-stock-monitor/internal/services"
	"github.com/mj8star/cn-stock-monitor/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database; failure here is fatal, everything else is
	// recovered per instrument during sync.
	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}

	st := store.New(db)
	client := provider.NewEastMoneyClient(cfg.ProviderBaseURL)
	syncSvc := services.NewSyncService(st, client, cfg.Instruments, cfg.LookbackDays, cfg.PaceInterval)

	// Initialize Gin router
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	apiGroup := r.Group("/api/v1")
	api.SetupRoutes(apiGroup, st, syncSvc, cfg.Instruments)

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
