package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/station-console/internal/api/http"
	"github.com/spec-kit/station-console/internal/api/http/handlers"
	"github.com/spec-kit/station-console/internal/authority"
	"github.com/spec-kit/station-console/internal/config"
	"github.com/spec-kit/station-console/internal/loginform"
	"github.com/spec-kit/station-console/internal/nav"
	"github.com/spec-kit/station-console/internal/observability"
	"github.com/spec-kit/station-console/internal/session"
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

	metrics := observability.NewMetrics()

	var storage session.Storage
	var redisStorage *session.RedisStorage
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		redisStorage = session.NewRedisStorage(cfg.Redis, logger)
		defer redisStorage.Close()
		storage = redisStorage
	default:
		storage = session.NewFileStorage(cfg.Session.StateFile)
	}

	authorityClient := authority.NewClient(cfg.Authority, logger)

	store, err := session.NewStore(ctx, authorityClient, storage, logger)
	if err != nil {
		logger.Fatal("failed to init session store", zap.Error(err))
	}

	menu := nav.DefaultMenu()
	guard := nav.NewGuard(store.Current, cfg.Console.LoginPath, nav.MenuPaths(menu), metrics, logger)

	intent := &nav.Intent{}
	form := loginform.NewController(store, intent.Set, cfg.Console, logger)
	defer form.Close()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, redisStorage, metrics),
		Session: handlers.NewSessionHandler(form, store, intent, metrics, cfg.Console.LoginPath),
		Shell:   handlers.NewShellHandler(store, menu),
		Guard:   guard,
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
