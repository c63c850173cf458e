package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/piresc/intranet-notify/internal/pkg/config"
	"github.com/piresc/intranet-notify/internal/pkg/database"
	"github.com/piresc/intranet-notify/internal/pkg/health"
	"github.com/piresc/intranet-notify/internal/pkg/logger"
	"github.com/piresc/intranet-notify/internal/pkg/middleware"
	"github.com/piresc/intranet-notify/internal/pkg/models"
	natspkg "github.com/piresc/intranet-notify/internal/pkg/nats"
	nrpkg "github.com/piresc/intranet-notify/internal/pkg/newrelic"
	"github.com/piresc/intranet-notify/internal/pkg/retry"
	"github.com/piresc/intranet-notify/internal/pkg/server"
	"github.com/piresc/intranet-notify/internal/pkg/session"
	"github.com/piresc/intranet-notify/internal/pkg/websocket"
	"github.com/piresc/intranet-notify/services/notify"
	"github.com/piresc/intranet-notify/services/notify/handler"
	httpHandler "github.com/piresc/intranet-notify/services/notify/handler/http"
	natsHandler "github.com/piresc/intranet-notify/services/notify/handler/nats"
	"github.com/piresc/intranet-notify/services/notify/repository"
	"github.com/piresc/intranet-notify/services/notify/usecase"
)

func main() {
	appName := "notify-service"
	configPath := "config/notify.env"
	configs, err := config.InitConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize New Relic and Zap logger
	nrApp := nrpkg.InitNewRelic(configs)

	zapLogger, err := logger.InitZapLoggerFromConfig(configs, nrApp)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	defer zapLogger.Close()

	logger.SetGlobalLogger(zapLogger)

	logger.Info("Starting application",
		logger.String("app", appName),
		logger.String("version", configs.App.Version),
		logger.String("environment", configs.App.Environment),
	)

	components := server.NewShutdownManager(zapLogger)
	healthService := health.NewHealthService(3 * time.Second)

	// User store, optionally behind a cache
	userRepo := initUserRepo(configs, components, healthService)

	// Session cookies issued by the intranet web layer
	extractor, err := session.NewExtractor(configs.Session.Secret,
		session.WithMaxAge(configs.Session.MaxAge),
		session.WithUnverifiedFallback(configs.Session.AllowUnverified),
	)
	if err != nil {
		zapLogger.Fatal("Failed to create session extractor", logger.Err(err))
	}
	if configs.Session.AllowUnverified {
		logger.Warn("Unverified session cookies are accepted when no signer profile matches")
	}

	// Connection registry and fan-out
	registry := websocket.NewRegistry()
	broadcaster := websocket.NewBroadcaster(registry, configs.WebSocket.WriteWait)

	notifyUC := usecase.NewNotifyUC(userRepo, extractor, broadcaster, registry, configs)

	wsManager := websocket.NewManager(registry, notifyUC, configs.WebSocket, configs.Session.CookieName)
	components.Register("websocket", wsManager.Shutdown)

	// Optional NATS ingress
	if configs.NATS.Enabled {
		initNATS(configs, notifyUC, nrApp, components, healthService)
	}

	e := echo.New()
	e.HideBanner = true

	if nrApp != nil {
		e.Use(nrecho.Middleware(nrApp))
	}
	e.Use(middleware.RequestContextMiddleware(appName))
	e.Use(logger.ZapEchoMiddleware(zapLogger))
	e.Use(middleware.PanicRecoveryWithZapMiddleware(zapLogger))

	health.RegisterHealthEndpoints(e, appName, healthService)

	notifyHandler := httpHandler.NewNotifyHandler(notifyUC)
	handler.NewHandler(notifyHandler, wsManager, configs).RegisterRoutes(e)

	if nrApp != nil {
		components.Register("newrelic", func(context.Context) error {
			nrApp.Shutdown(10 * time.Second)
			return nil
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.NewGracefulServer(e, zapLogger, configs.Server, components).Run(ctx); err != nil {
		zapLogger.Fatal("Server exited with error", logger.Err(err))
	}

	logger.Info("Server exiting gracefully")
	_ = zapLogger.Sync()
}

func initUserRepo(configs *models.Config, components *server.ShutdownManager, healthService *health.HealthService) notify.UserRepo {
	var userRepo notify.UserRepo

	switch configs.Database.Driver {
	case "postgres":
		postgresClient, err := retry.Connect(context.Background(), retry.DefaultConfig(), "postgres", func() (*database.PostgresClient, error) {
			return database.NewPostgresClient(configs.Database)
		})
		if err != nil {
			logger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
		}
		components.Register("postgres", func(context.Context) error {
			return postgresClient.Close()
		})
		userRepo = repository.NewPostgresUserRepo(postgresClient.GetDB())
	default:
		mongoClient, err := retry.Connect(context.Background(), retry.DefaultConfig(), "mongo", func() (*database.MongoClient, error) {
			return database.NewMongoClient(configs.Mongo)
		})
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", logger.Err(err))
		}
		components.Register("mongo", mongoClient.Close)
		userRepo = repository.NewMongoUserRepo(mongoClient.Collection(configs.Mongo.UserCollection))
	}
	healthService.AddChecker("users", health.CheckerFunc(userRepo.Ping))

	var cache notify.UserCache
	switch configs.Cache.Driver {
	case "redis":
		redisClient, err := retry.Connect(context.Background(), retry.DefaultConfig(), "redis", func() (*database.RedisClient, error) {
			return database.NewRedisClient(configs.Redis)
		})
		if err != nil {
			logger.Fatal("Failed to connect to Redis", logger.Err(err))
		}
		components.Register("redis", func(context.Context) error {
			return redisClient.Close()
		})
		healthService.AddChecker("redis", health.CheckerFunc(redisClient.Ping))
		cache = repository.NewRedisUserCache(redisClient, configs.Cache.TTL)
	case "memory":
		cache = repository.NewMemoryUserCache(configs.Cache.TTL)
	default:
		return userRepo
	}

	logger.Info("User cache enabled",
		logger.String("driver", configs.Cache.Driver),
		logger.Duration("ttl", configs.Cache.TTL))
	return repository.NewCachedUserRepo(userRepo, cache)
}

func initNATS(configs *models.Config, notifyUC notify.NotifyUC, nrApp *newrelic.Application, components *server.ShutdownManager, healthService *health.HealthService) {
	natsClient, err := retry.Connect(context.Background(), retry.DefaultConfig(), "nats", func() (*natspkg.Client, error) {
		return natspkg.NewClient(configs.NATS.URL, configs.App.Name)
	})
	if err != nil {
		logger.Fatal("Failed to connect to NATS", logger.Err(err))
	}

	consumers := natsHandler.NewNatsHandler(notifyUC, natsClient, nrApp)
	if err := consumers.InitNATSConsumers(); err != nil {
		logger.Fatal("Failed to initialize NATS consumers", logger.Err(err))
	}

	healthService.AddChecker("nats", health.CheckerFunc(natsClient.Ping))
	components.Register("nats", func(context.Context) error {
		consumers.Close()
		natsClient.Close()
		return nil
	})
}
