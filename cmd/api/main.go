package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"solarcoin-analytics/internal/api/handlers"
	"solarcoin-analytics/internal/api/middleware"
	"solarcoin-analytics/internal/config"
	"solarcoin-analytics/internal/store"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := flag.String("config", "", "Optional path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply middleware
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(middleware.ErrorHandler())

	// Initialize handlers
	datasets := store.New()
	datasetHandler := handlers.NewDatasetHandler(datasets, cfg)
	analyticsHandler := handlers.NewAnalyticsHandler(datasets, cfg)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		api.POST("/datasets", datasetHandler.Upload)
		api.GET("/datasets", datasetHandler.List)
		api.DELETE("/datasets/:id", datasetHandler.Delete)

		api.GET("/datasets/:id/summary", analyticsHandler.Summary)
		api.GET("/datasets/:id/balances", analyticsHandler.Balances)
		api.GET("/datasets/:id/graph", analyticsHandler.Graph)
		api.GET("/datasets/:id/timeline", analyticsHandler.Timeline)
		api.GET("/datasets/:id/transactions", analyticsHandler.Transactions)
		api.GET("/datasets/:id/rankings", analyticsHandler.Rankings)
	}

	// Serve the dashboard bundle from static_dir (if it exists)
	staticDir := cfg.Server.StaticDir
	if _, err := os.Stat(staticDir); err == nil {
		router.Static("/assets", staticDir+"/assets")
		router.StaticFile("/favicon.ico", staticDir+"/favicon.ico")

		// Serve index.html for all non-API routes (SPA routing)
		router.NoRoute(func(c *gin.Context) {
			path := c.Request.URL.Path
			if len(path) >= 4 && path[:4] == "/api" {
				c.JSON(404, gin.H{"error": "Not found"})
			} else {
				c.File(staticDir + "/index.html")
			}
		})
		log.Printf("Serving static files from %s", staticDir)
	} else {
		log.Printf("Static directory %s not found, skipping static file serving", staticDir)
	}

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
