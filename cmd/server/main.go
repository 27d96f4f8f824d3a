package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/greenchainz/greenchainz-api/internal/api"
	"github.com/greenchainz/greenchainz-api/internal/database"
	"github.com/greenchainz/greenchainz-api/internal/logger"
	"github.com/greenchainz/greenchainz-api/internal/middleware"
	"github.com/greenchainz/greenchainz-api/pkg/config"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize configuration
	cfg := config.New()

	// Initialize logging
	log, err := logger.New(cfg.IsDevelopment())
	if err != nil {
		os.Exit(1)
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required", nil)
	}

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal("Failed to run migrations", err)
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r := gin.New()
	r.SetTrustedProxies(cfg.GetTrustedProxies())

	// Add security middleware
	r.Use(middleware.LoggingMiddleware(log))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(cfg))
	r.Use(middleware.InputValidationMiddleware(cfg))

	// Add rate limiting in production
	if cfg.EnableRateLimit {
		r.Use(middleware.RateLimitingMiddleware())
	}

	// Add recovery middleware
	r.Use(gin.Recovery())

	// Setup API routes
	if err := api.SetupRoutes(r, db, cfg, log); err != nil {
		log.Fatal("Failed to setup API routes", err)
	}

	// Start server
	log.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server", err)
	}
}
