package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	rateli "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"lifelens/internal/config"
	"lifelens/internal/database"
	"lifelens/internal/handler"
	"lifelens/internal/logger"
	"lifelens/internal/middleware"
	"lifelens/internal/render"
	"lifelens/internal/repository"
	"lifelens/internal/service"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger ---
	log, err := logger.New(logger.FromConfig(*cfg, "lifelens-server"))
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	zap.ReplaceGlobals(log)
	cfg.LogSummary(log)

	// --- External Connections ---
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	redisClient, err := database.ConnectRedis(ctx, cfg, log)
	if err != nil {
		zap.L().Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	var generatorOpts []service.GeneratorOption
	if cfg.ResultsDBEnabled {
		pgPool, err := database.ConnectPostgres(ctx, cfg, log)
		if err != nil {
			zap.L().Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		defer pgPool.Close()
		if err := database.ApplyMigrations(pgPool, log); err != nil {
			zap.L().Fatal("Failed to apply migrations", zap.Error(err))
		}
		generatorOpts = append(generatorOpts, service.WithResultRecorder(repository.NewPgGenerationResultRepository(pgPool, log)))
	}

	// --- Dependency Injection ---
	generator, err := service.NewReportGeneratorFromConfig(ctx, cfg, log, generatorOpts...)
	if err != nil {
		zap.L().Fatal("Failed to create report generator", zap.Error(err))
	}
	reportRepo := repository.NewRedisReportRepository(redisClient, log)
	renderer := render.NewPDFRenderer(cfg.PDFPageWidth, cfg.PDFPageHeight)
	reportSvc := service.NewReportService(generator, reportRepo, renderer, service.ReportTTLs{
		Free:    cfg.FreeReportTTL,
		Premium: cfg.PremiumReportTTL,
	}, log)

	rateLimitStore := rateli.RedisStore(&rateli.RedisOptions{
		RedisClient: redisClient,
		Rate:        time.Minute,
		Limit:       cfg.RateLimitPerMinute,
	})
	rateLimitMiddleware := handler.NewRateLimiter(rateLimitStore, log)

	reportHandler := handler.NewReportHandler(reportSvc, log)

	// --- HTTP Server Setup (Gin) ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(middleware.GinZapLogger(log))
	router.Use(gin.Recovery())

	p := ginprometheus.NewPrometheus("gin")

	corsConfig := cors.DefaultConfig()
	allowedOrigins := cfg.GetAllowedOrigins()
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", middleware.RequestIDHeader}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	reportHandler.RegisterRoutes(router, rateLimitMiddleware)

	// Applied after the routes so every route gets instrumented.
	p.Use(router)

	// --- Start HTTP Server ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
		// Premium generation can take most of the AI timeout per attempt.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: time.Duration(cfg.AIMaxAttempts)*cfg.AITimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	zap.L().Info("Starting HTTP server", zap.String("port", cfg.ServerPort))

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("HTTP Server listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("HTTP Server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("Server exiting")
}
