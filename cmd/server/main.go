package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mroshb/sweatcheck/internal/config"
	"github.com/mroshb/sweatcheck/internal/database"
	"github.com/mroshb/sweatcheck/internal/handlers"
	"github.com/mroshb/sweatcheck/internal/middleware"
	"github.com/mroshb/sweatcheck/internal/repositories"
	"github.com/mroshb/sweatcheck/internal/services"
	"github.com/mroshb/sweatcheck/pkg/logger"
	"github.com/mroshb/sweatcheck/pkg/storage"
	"github.com/mroshb/sweatcheck/telegram"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	logger.Init()
	defer logger.Sync()

	logger.Info("Starting SweatCheck...")

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProductionSecurity(); err != nil {
			logger.Fatal("Production security validation failed", err)
		}
		logger.Info("Production security validation passed")
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	if cfg.AdminEmail != "" {
		if err := database.PromoteAdmin(db, cfg.AdminEmail); err != nil {
			logger.Warn("Failed to promote admin", "email", cfg.AdminEmail, "error", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	urlCache, closeCache := openURLCache(ctx, cfg)
	defer closeCache()

	images := services.NewImageService(openObjectStore(cfg), urlCache, cfg.GetSignedURLCacheTTL())

	userRepo := repositories.NewUserRepository(db)
	friendRepo := repositories.NewFriendRepository(db)
	requestRepo := repositories.NewFriendRequestRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	workoutRepo := repositories.NewWorkoutRepository(db)

	userSvc := services.NewUserService(userRepo, cfg.JWTSecret, cfg.GetJWTTTL())
	friendSvc := services.NewFriendService(db, userRepo, friendRepo, requestRepo, notificationRepo)
	notificationSvc := services.NewNotificationService(notificationRepo, userRepo, cfg.NotificationListLimit)
	workoutSvc := services.NewWorkoutService(workoutRepo, images, cfg.FeedLimit)
	reportSvc := services.NewReportService(workoutRepo, cfg.GetReportWindow())

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerUser, cfg.RateLimitPerIP, time.Minute)
	defer limiter.Close()

	handlerMgr := handlers.NewHandlerManager(cfg, userSvc, friendSvc, notificationSvc, workoutSvc, reportSvc, images)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           handlerMgr.Router(limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", srv.Addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", err)
		}
	}()

	var bot *telegram.Bot
	if cfg.BotToken != "" {
		bot, err = telegram.InitBot(cfg, userSvc, friendSvc, notificationSvc)
		if err != nil {
			logger.Error("Failed to initialize bot, continuing without it", "error", err)
		} else {
			logger.Info("Bot started successfully")
		}
	}

	<-ctx.Done()
	logger.Info("Shutting down gracefully...")

	if bot != nil {
		bot.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	if bot != nil {
		if err := bot.Wait(shutdownCtx); err != nil {
			logger.Warn("Bot workers still busy at shutdown", "error", err)
		}
	}
	logger.Info("Server stopped")
}

// openObjectStore returns nil when image storage is not configured, which
// disables uploads.
func openObjectStore(cfg *config.Config) storage.ObjectStore {
	if cfg.CloudinaryURL == "" {
		logger.Warn("CLOUDINARY_URL not set, image uploads disabled")
		return nil
	}
	if cfg.CloudinaryTokenKey == "" {
		logger.Warn("CLOUDINARY_AUTH_TOKEN_KEY not set, signed image links will not expire")
	}
	store, err := storage.NewCloudinaryStore(cfg.CloudinaryURL, cfg.CloudinaryTokenKey, cfg.GetSignedURLTTL())
	if err != nil {
		logger.Error("Failed to initialize image storage, uploads disabled", "error", err)
		return nil
	}
	return store
}

// openURLCache returns a nil cache when redis is not configured or unreachable.
// The returned func releases the connection pool.
func openURLCache(ctx context.Context, cfg *config.Config) (storage.URLCache, func()) {
	if cfg.RedisURL == "" {
		return nil, func() {}
	}
	rdb, err := storage.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn("Redis unavailable, signed URLs will not be cached", "error", err)
		return nil, func() {}
	}
	return storage.NewRedisURLCache(rdb), func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("Failed to close redis client", "error", err)
		}
	}
}
