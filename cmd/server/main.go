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

	"github.com/ikkim/fictionhub-backend/config"
	"github.com/ikkim/fictionhub-backend/internal/app/controller"
	"github.com/ikkim/fictionhub-backend/internal/app/repository"
	"github.com/ikkim/fictionhub-backend/internal/app/service"
	"github.com/ikkim/fictionhub-backend/internal/db"
	"github.com/ikkim/fictionhub-backend/internal/middleware"
	"github.com/ikkim/fictionhub-backend/internal/router"
	"github.com/ikkim/fictionhub-backend/internal/scheduler"
	"github.com/ikkim/fictionhub-backend/internal/storage"
	ws "github.com/ikkim/fictionhub-backend/internal/websocket"
	"github.com/ikkim/fictionhub-backend/pkg/logger"
	"github.com/ikkim/fictionhub-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Server.Environment == config.EnvDevelopment,
	})

	logger.Info("Starting FictionHub Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   cfg.Log.Level,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	if err := db.SeedReferenceData(db.GetDB()); err != nil {
		logger.Warn("Failed to seed reference data", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis 는 선택 사항: 없으면 토큰 블랙리스트 없이, 조회수는 즉시 반영
	if cfg.Redis.Enabled() {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Continuing without Redis", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer func() {
				if err := redis.Close(); err != nil {
					logger.Error("Failed to close Redis connection", err)
				}
			}()
		}
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	hub := ws.NewHub()
	go hub.Run(ctx)

	// Initialize repositories
	gormDB := db.GetDB()
	userRepo := repository.NewUserRepository(gormDB)
	bookRepo := repository.NewBookRepository(gormDB)
	chapterRepo := repository.NewChapterRepository(gormDB)
	commentRepo := repository.NewCommentRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)
	taxonomyRepo := repository.NewTaxonomyRepository(gormDB)
	progressRepo := repository.NewProgressRepository(gormDB)

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	views := service.NewViewCounter(bookRepo, redis.Enabled())
	catalogService := service.NewCatalogService(bookRepo, cfg.Catalog.DefaultPageSize)
	bookService := service.NewBookService(bookRepo, taxonomyRepo, views)
	chapterService := service.NewChapterService(chapterRepo, bookRepo)
	commentService := service.NewCommentService(commentRepo, chapterService, bookRepo, hub)
	reviewService := service.NewReviewService(reviewRepo, bookRepo)
	taxonomyService := service.NewTaxonomyService(taxonomyRepo, bookRepo)
	progressService := service.NewProgressService(progressRepo, bookRepo, chapterRepo)

	controllers := router.Controllers{
		Auth:     controller.NewAuthController(authService),
		Book:     controller.NewBookController(catalogService, bookService),
		Chapter:  controller.NewChapterController(chapterService),
		Comment:  controller.NewCommentController(commentService),
		Review:   controller.NewReviewController(reviewService),
		Taxonomy: controller.NewTaxonomyController(taxonomyService),
		Progress: controller.NewProgressController(progressService),
		Upload:   controller.NewUploadController(storage.NewS3Storage(cfg.S3)),
		Feed:     controller.NewFeedController(chapterService, hub, cfg.CORS.AllowedOrigins),
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	engine := router.NewRouter(controllers, authMiddleware, cfg).Setup()

	var viewFlush *scheduler.ViewFlushScheduler
	if redis.Enabled() {
		viewFlush = scheduler.NewViewFlushScheduler(views, cfg.Scheduler.ViewFlushSchedule)
		if err := viewFlush.Start(); err != nil {
			logger.Fatal("Failed to start view flush scheduler", err)
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	// 웹소켓 연결 종료
	stop()

	if viewFlush != nil {
		viewFlush.Stop()
	}

	logger.Info("Server stopped successfully")
}
