package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/xyzesther/CommunityAssist/internal/api/http"
	"github.com/xyzesther/CommunityAssist/internal/api/http/handlers"
	"github.com/xyzesther/CommunityAssist/internal/auth"
	"github.com/xyzesther/CommunityAssist/internal/config"
	"github.com/xyzesther/CommunityAssist/internal/events"
	"github.com/xyzesther/CommunityAssist/internal/observability"
	"github.com/xyzesther/CommunityAssist/internal/persistence"
	"github.com/xyzesther/CommunityAssist/internal/repository"
	"github.com/xyzesther/CommunityAssist/internal/service"
	"github.com/xyzesther/CommunityAssist/internal/worker"
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

	var locker persistence.Locker = persistence.NoopLocker{}
	if err := redis.Ping(ctx); err != nil {
		logger.Warn("scheduling lock disabled; relying on database constraint alone", zap.Error(err))
	} else {
		locker = persistence.NewRequestLocker(redis.Client, cfg.Redis.LockTTL())
	}

	store := repository.NewStore(pg.PoolHandle())
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	userService := service.NewUserService(store)
	requestService := service.NewRequestService(store, dispatcher)
	appointmentService := service.NewAppointmentService(store, locker, dispatcher)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	verifier := auth.NewTokenVerifier(cfg.Auth)
	authMiddleware := auth.NewMiddleware(verifier)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(userService),
		Requests:       handlers.NewRequestsHandler(requestService),
		Appointments:   handlers.NewAppointmentsHandler(appointmentService),
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
