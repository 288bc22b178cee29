package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/foodshare/foodshare-backend/internal/config"
	"github.com/foodshare/foodshare-backend/internal/db"
	"github.com/foodshare/foodshare-backend/internal/goroutine"
	httpHandlers "github.com/foodshare/foodshare-backend/internal/http/handlers"
	httpRouter "github.com/foodshare/foodshare-backend/internal/http/router"
	"github.com/foodshare/foodshare-backend/internal/logger"
	"github.com/foodshare/foodshare-backend/internal/repository"
	"github.com/foodshare/foodshare-backend/internal/service"
	"github.com/foodshare/foodshare-backend/internal/storage"
	"github.com/foodshare/foodshare-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	photoStorage, err := storage.NewPhotoStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	listingRepo := repository.NewListingRepository(dbConn)
	feedbackRepo := repository.NewFeedbackRepository(dbConn)
	complaintRepo := repository.NewComplaintRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)
	mediaRepo := repository.NewMediaRepository(dbConn)

	// Вебсокеты.
	hub := ws.NewHub()
	goroutine.SafeGo(hub.Run)

	// Сервисы.
	notificationService := service.NewNotificationService(notificationRepo, hub)
	authService := service.NewAuthService(userRepo, tokenManager)
	listingService := service.NewListingService(listingRepo, notificationService)
	requestService := service.NewRequestService(listingRepo, notificationService)
	contactService := service.NewContactService(listingRepo, userRepo)
	feedbackService := service.NewFeedbackService(feedbackRepo, listingRepo, notificationService)
	complaintService := service.NewComplaintService(complaintRepo, userRepo, notificationService)
	profileService := service.NewProfileService(userRepo, feedbackRepo)
	seedService := service.NewSeedService(userRepo, listingRepo)

	// Фоновый перевод просроченных объявлений в expired.
	goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
		runExpirySweeper(ctx, listingService, cfg.ExpirySweepInterval)
	})

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	profileHandler := httpHandlers.NewProfileHandler(profileService)
	listingHandler := httpHandlers.NewListingHandler(listingService, contactService)
	requestHandler := httpHandlers.NewRequestHandler(requestService)
	feedbackHandler := httpHandlers.NewFeedbackHandler(feedbackService)
	complaintHandler := httpHandlers.NewComplaintHandler(complaintService)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	mediaHandler := httpHandlers.NewMediaHandler(mediaRepo, photoStorage)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)
	seedHandler := httpHandlers.NewSeedHandler(seedService)

	engine := httpRouter.SetupRouter(
		cfg,
		authHandler,
		profileHandler,
		listingHandler,
		requestHandler,
		feedbackHandler,
		complaintHandler,
		notificationHandler,
		mediaHandler,
		wsHandler,
		healthHandler,
		seedHandler,
		tokenManager,
	)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// runExpirySweeper периодически переводит просроченные объявления в
// expired. Ленивый перевод при чтении остаётся основным механизмом,
// свипер закрывает объявления, которые никто не открывает.
func runExpirySweeper(ctx context.Context, listings *service.ListingService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			n, err := listings.SweepExpired(sweepCtx)
			cancel()
			if err != nil {
				logger.Log.Errorf("main: ошибка фонового перевода в expired: %v", err)
				continue
			}
			if n > 0 {
				logger.Log.WithField("count", n).Info("main: объявления переведены в expired")
			}
		}
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
