package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"explore/internal/cache"
	"explore/internal/config"
	"explore/internal/handler"
	"explore/internal/logger"
	"explore/internal/repository"
	"explore/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Logging.Mode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("thrift explore engine starting",
		"version", Version,
		"build_time", BuildTime,
		"git_commit", GitCommit,
	)

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database connection
	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		zlog.Fatal("failed to connect to database", "error", err)
	}
	defer repo.Close()
	zlog.Info("connected to PostgreSQL")

	// Optional Redis section cache
	sectionCache, err := cache.New(cfg.Redis)
	if err != nil {
		zlog.Warn("section cache unavailable, serving uncached", "error", err)
		sectionCache = nil
	} else if sectionCache != nil {
		defer sectionCache.Close()
		zlog.Info("section cache enabled", "addr", cfg.Redis.Addr, "ttl_seconds", cfg.Redis.TTLSeconds)
	}

	// Initialize services
	exploreService := service.NewExploreService(repo, repo, repo, sectionCache, cfg.Explore, zlog)

	// Initialize handlers
	exploreHandler := handler.NewExploreHandler(exploreService, cfg.Explore.DefaultLimit, cfg.Explore.MaxLimit, zlog)
	feedbackHandler := handler.NewFeedbackHandler(exploreService)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "X-User-ID"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "explore-engine",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/explore/sections", exploreHandler.Sections)
		apiV1.GET("/explore/trending", exploreHandler.Trending)
		apiV1.GET("/explore/for-you", exploreHandler.ForYou)
		apiV1.GET("/explore/new", exploreHandler.New)
		apiV1.GET("/explore/category/:category", exploreHandler.Category)
		apiV1.POST("/explore/feedback", feedbackHandler.Submit)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	zlog.Info("starting server", "addr", addr)

	go func() {
		if err := router.Run(addr); err != nil {
			zlog.Fatal("failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
}
