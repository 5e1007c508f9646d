package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"fezeaixcommission/internal/adapter/api"
	"fezeaixcommission/internal/adapter/api/handler"
	apimiddleware "fezeaixcommission/internal/adapter/api/middleware"
	"fezeaixcommission/internal/adapter/api/router"
	"fezeaixcommission/internal/adapter/repository"
	"fezeaixcommission/internal/domain/entity"
	domainrepo "fezeaixcommission/internal/domain/repository"
	"fezeaixcommission/internal/domain/service"
	"fezeaixcommission/internal/infrastructure/auth"
	"fezeaixcommission/internal/infrastructure/cache"
	"fezeaixcommission/internal/infrastructure/firebase"
	"fezeaixcommission/internal/infrastructure/ratelimit"
	"fezeaixcommission/internal/infrastructure/storage"
	"fezeaixcommission/internal/infrastructure/websocket"
	"fezeaixcommission/internal/usecase"
	"fezeaixcommission/pkg/config"
	"fezeaixcommission/pkg/logger"
	"fezeaixcommission/pkg/response"
)

const (
	storeDriverMemory    = "memory"
	storeDriverFirestore = "firestore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	logger.Configure(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		userRepo       domainrepo.UserRepository
		commissionRepo domainrepo.CommissionRepository
		galleryRepo    domainrepo.GalleryRepository
		fileStorage    service.FileUploadService
	)

	switch cfg.StoreDriver {
	case storeDriverMemory:
		logger.Warn("Using in-memory store; data is lost on restart")
		userRepo = repository.NewMemoryUserRepository()
		commissionRepo = repository.NewMemoryCommissionRepository()
		galleryRepo = repository.NewMemoryGalleryRepository()

	case storeDriverFirestore:
		firebaseApp, credentials, err := firebase.NewApp(ctx, cfg)
		if err != nil {
			logger.Error("Failed to initialize Firebase: %v", err)
			os.Exit(1)
		}

		firestoreClient, err := firebase.NewFirestoreClient(ctx, firebaseApp)
		if err != nil {
			logger.Error("Failed to create Firestore client: %v", err)
			os.Exit(1)
		}
		defer firestoreClient.Close()

		userRepo = repository.NewFirestoreUserRepository(firestoreClient)
		commissionRepo = repository.NewFirestoreCommissionRepository(firestoreClient)
		galleryRepo = repository.NewFirestoreGalleryRepository(firestoreClient)

		if cfg.StorageBucket != "" {
			storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, cfg.CORSOrigins, credentials)
			if err != nil {
				logger.Error("Failed to initialize Cloud Storage: %v", err)
				os.Exit(1)
			}
			defer storageClient.Close()
			fileStorage = storageClient
		}

	default:
		logger.Error("Unknown STORE_DRIVER %q", cfg.StoreDriver)
		os.Exit(1)
	}

	if fileStorage == nil {
		logger.Warn("No storage bucket configured; gallery uploads are disabled")
	}

	viewedRepo := repository.NewMemoryViewedStateRepository()
	ledgerName := "memory"
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Error("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		viewedRepo = repository.NewRedisViewedStateRepository(redisClient)
		ledgerName = "redis"
	}

	tokenManager := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.JWTExpiry)*time.Second)

	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine(ctx.Done())

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	authUseCase := usecase.NewAuthUseCase(userRepo, tokenManager, cfg.AdminUsername)
	commissionUseCase := usecase.NewCommissionUseCase(commissionRepo, entity.DefaultCatalog, cfg.AdminUsername, rateLimiter)
	ledgerUseCase := usecase.NewLedgerUseCase(commissionRepo, viewedRepo, cfg.AdminUsername, wsManager)
	notificationUseCase := usecase.NewNotificationUseCase(commissionRepo, ledgerUseCase, cfg.AdminUsername, cfg.ResubscribeDelay)
	galleryUseCase := usecase.NewGalleryUseCase(galleryRepo, fileStorage)

	handler.Setup(authUseCase, commissionUseCase, ledgerUseCase, galleryUseCase)
	handler.SetupWebSocketHandler(wsManager, notificationUseCase, cfg.CORSOrigins)
	handler.SetupHealthHandler(cfg.StoreDriver, ledgerName)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Device-ID"},
	}))

	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if respErr := response.Error(c, err); respErr != nil {
			logger.Error("Failed to write error response: %v", respErr)
		}
	}

	authMiddleware := apimiddleware.NewAuthMiddleware(tokenManager)
	adminMiddleware := apimiddleware.NewAdminMiddleware()

	router.Setup(e, authMiddleware, adminMiddleware, rateLimiter)

	go func() {
		logger.Info("Starting server on port %s (store=%s, ledger=%s)...", cfg.ServerPort, cfg.StoreDriver, ledgerName)
		if err := e.Start(":" + cfg.ServerPort); err != nil {
			logger.Info("Server stopped: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
}
