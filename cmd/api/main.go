package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/hazzlo/hazzlo-server/internal/api/http"
	"github.com/hazzlo/hazzlo-server/internal/api/http/handlers"
	"github.com/hazzlo/hazzlo-server/internal/archive"
	"github.com/hazzlo/hazzlo-server/internal/auth"
	"github.com/hazzlo/hazzlo-server/internal/config"
	"github.com/hazzlo/hazzlo-server/internal/events"
	"github.com/hazzlo/hazzlo-server/internal/observability"
	"github.com/hazzlo/hazzlo-server/internal/persistence"
	"github.com/hazzlo/hazzlo-server/internal/realtime"
	"github.com/hazzlo/hazzlo-server/internal/repository"
	"github.com/hazzlo/hazzlo-server/internal/service"
	"github.com/hazzlo/hazzlo-server/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	professionalRepo := repository.NewProfessionalRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	serviceRepo := repository.NewServiceRepository(pool)
	portfolioRepo := repository.NewPortfolioRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	requestRepo := repository.NewServiceRequestRepository(pool)
	reportRepo := repository.NewReportRepository(pool)
	actionRepo := repository.NewAdminActionRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	conversationRepo := repository.NewConversationRepository(pool)
	moderatorRepo := repository.NewModeratorRepository(pool)
	supportRepo := repository.NewSupportRepository(pool)
	verificationRepo := repository.NewVerificationRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	txRunner := service.NewTxRunner(pool)
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	userHub := realtime.NewHub("users", logger)
	moderatorHub := realtime.NewHub("moderators", logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	denylist := auth.NewRedisDenylist(redis.Client)
	mailer := service.NewLogMailer(cfg.Notification.EmailFrom, logger)
	archiver := archive.NewFileArchiver(cfg.Archive.Dir, logger)

	authService := service.NewAuthService(userRepo, moderatorRepo, professionalRepo,
		resetRepo, tokens, denylist, mailer, cfg.Auth, logger)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, userHub, logger)
	professionalService := service.NewProfessionalService(professionalRepo, portfolioRepo, verificationRepo, logger)
	catalogService := service.NewCatalogService(categoryRepo, serviceRepo, professionalRepo, logger)
	reviewService := service.NewReviewService(reviewRepo, professionalRepo, txRunner, dispatcher, logger)
	requestService := service.NewRequestService(requestRepo, professionalRepo, dispatcher, logger)
	chatService := service.NewChatService(conversationRepo, professionalRepo, userRepo, userHub, dispatcher, logger)
	reportService := service.NewReportService(reportRepo, professionalRepo, conversationRepo, dispatcher, logger)
	supportService := service.NewSupportService(supportRepo, userHub, moderatorHub, archiver, dispatcher, logger)
	adminService := service.NewAdminService(txRunner, userRepo, professionalRepo, reviewRepo,
		reportRepo, moderatorRepo, verificationRepo, actionRepo, notificationRepo, supportRepo,
		notificationService, supportService, dispatcher, metrics, cfg.Auth, logger)

	notificationWorker := worker.NewNotificationWorker(notificationService, logger)
	notificationWorker.Register(dispatcher)

	authMiddleware := auth.NewAuthMiddleware(tokens, userRepo, moderatorRepo, denylist)
	chatSocket := realtime.NewChatHandler(userHub, moderatorHub, chatService, logger)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Professionals:  handlers.NewProfessionalsHandler(professionalService, catalogService, reviewService),
		Catalog:        handlers.NewCatalogHandler(catalogService),
		Reviews:        handlers.NewReviewsHandler(reviewService),
		Reports:        handlers.NewReportsHandler(reportService),
		Requests:       handlers.NewRequestsHandler(requestService),
		Conversations:  handlers.NewConversationsHandler(chatService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Support:        handlers.NewSupportHandler(supportService),
		Moderator:      handlers.NewModeratorHandler(authService, supportService),
		Admin:          handlers.NewAdminHandler(adminService, catalogService, supportService),
		ChatSocket:     chatSocket,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
