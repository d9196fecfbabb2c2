package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/hotelops/housekeeping/internal/api/http"
	"github.com/hotelops/housekeeping/internal/api/http/handlers"
	"github.com/hotelops/housekeeping/internal/auth"
	"github.com/hotelops/housekeeping/internal/config"
	"github.com/hotelops/housekeeping/internal/events"
	"github.com/hotelops/housekeeping/internal/observability"
	"github.com/hotelops/housekeeping/internal/persistence"
	"github.com/hotelops/housekeeping/internal/service"
	"github.com/hotelops/housekeeping/internal/worker"
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

	loc, err := cfg.App.Location()
	if err != nil {
		logger.Fatal("invalid time zone", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := persistence.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer store.Close()

	if cfg.Postgres.RunMigrations || cfg.Store.Driver == config.StoreDriverSQLite {
		if err := store.Migrate(ctx); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewRedisDispatcher(events.NewInMemoryDispatcher(), redis.ClientHandle(), cfg.Events.Channel)
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification))

	requestService := service.NewRequestService(service.RequestDependencies{
		RequestRepo: store.Requests,
		UserRepo:    store.Users,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	reporter := worker.NewBacklogReporter(requestService, logger, loc)
	if err := reporter.Start(ctx, time.Duration(cfg.Worker.BacklogReportMinutes)*time.Minute); err != nil {
		logger.Warn("backlog reporter not started", zap.Error(err))
	}
	defer reporter.Stop()

	userService := service.NewUserService(store.Users)
	authService := service.NewAuthService(cfg.Auth, store.Users)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), store.Users)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	dependencies := map[string]handlers.Pinger{store.Driver(): store}
	if redis != nil {
		dependencies["redis"] = redis
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies, metrics),
		Requests:       handlers.NewRequestsHandler(requestService, logger),
		Users:          handlers.NewUsersHandler(userService, logger),
		Assignments:    handlers.NewAssignmentsHandler(requestService, logger),
		Striper:        handlers.NewStriperHandler(requestService, logger),
		Views:          handlers.NewViewsHandler(requestService, loc),
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
