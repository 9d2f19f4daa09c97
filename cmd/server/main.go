package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pavelgrishin/worklink-backend/internal/config"
	"github.com/pavelgrishin/worklink-backend/internal/db"
	"github.com/pavelgrishin/worklink-backend/internal/gateway"
	"github.com/pavelgrishin/worklink-backend/internal/goroutine"
	httpHandlers "github.com/pavelgrishin/worklink-backend/internal/http/handlers"
	httpRouter "github.com/pavelgrishin/worklink-backend/internal/http/router"
	"github.com/pavelgrishin/worklink-backend/internal/logger"
	"github.com/pavelgrishin/worklink-backend/internal/repository"
	"github.com/pavelgrishin/worklink-backend/internal/service"
	"github.com/pavelgrishin/worklink-backend/internal/storage"
	"github.com/pavelgrishin/worklink-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
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

	// Вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	fileStorage, err := storage.NewFileStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	checkout := gateway.NewCheckoutClient(cfg.StripeSecretKey, cfg.GatewayTimeout)

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	jobRepo := repository.NewJobRepository(dbConn)
	applicationRepo := repository.NewApplicationRepository(dbConn)
	transactionRepo := repository.NewTransactionRepository(dbConn)
	reviewRepo := repository.NewReviewRepository(dbConn)
	messageRepo := repository.NewMessageRepository(dbConn)
	mediaRepo := repository.NewMediaRepository(dbConn)

	// Вебсокеты.
	hub := ws.NewHub()
	goroutine.SafeGo(hub.Run)

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	userService := service.NewUserService(userRepo)
	jobService := service.NewJobService(jobRepo, applicationRepo, transactionRepo, mediaRepo, fileStorage)
	escrowService := service.NewEscrowService(transactionRepo)
	paymentService := service.NewPaymentService(transactionRepo, checkout, cfg.HostingURL)
	reviewService := service.NewReviewService(reviewRepo, jobRepo, applicationRepo, transactionRepo)
	messageService := service.NewMessageService(messageRepo, userRepo, hub)
	mediaService := service.NewMediaService(mediaRepo, jobRepo, fileStorage)

	// HTTP хэндлеры.
	handlers := httpRouter.Handlers{
		Auth:    httpHandlers.NewAuthHandler(authService),
		User:    httpHandlers.NewUserHandler(userService, reviewService),
		Job:     httpHandlers.NewJobHandler(jobService),
		Payment: httpHandlers.NewPaymentHandler(paymentService, escrowService),
		Review:  httpHandlers.NewReviewHandler(reviewService),
		Message: httpHandlers.NewMessageHandler(messageService),
		Media:   httpHandlers.NewMediaHandler(mediaService),
		WS:      httpHandlers.NewWSHandler(hub, cfg.AllowedOrigins),
		Health:  httpHandlers.NewHealthHandler(dbConn),
	}

	engine := httpRouter.SetupRouter(cfg, handlers, tokenManager)

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

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
