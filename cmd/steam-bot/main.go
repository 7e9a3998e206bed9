package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	tele "gopkg.in/telebot.v3"

	"github.com/umanagarjuna/steam-bot/internal/bot/cache"
	"github.com/umanagarjuna/steam-bot/internal/bot/config"
	"github.com/umanagarjuna/steam-bot/internal/bot/domain"
	"github.com/umanagarjuna/steam-bot/internal/bot/events"
	"github.com/umanagarjuna/steam-bot/internal/bot/format"
	"github.com/umanagarjuna/steam-bot/internal/bot/handler"
	"github.com/umanagarjuna/steam-bot/internal/bot/metrics"
	"github.com/umanagarjuna/steam-bot/internal/bot/remote"
	"github.com/umanagarjuna/steam-bot/internal/bot/repository"
	"github.com/umanagarjuna/steam-bot/internal/bot/service"
	"github.com/umanagarjuna/steam-bot/internal/bot/steam"
	"github.com/umanagarjuna/steam-bot/internal/bot/tasks"
	"github.com/umanagarjuna/steam-bot/pkg/secret"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		panic(err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	logger, err := newLogger(cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsCollector := metrics.NewPrometheusMetrics(registry)

	supervisor := tasks.NewSupervisor(logger, metricsCollector, cfg.Tasks.Timeout)

	// Initialize Redis
	var redisClient *redis.Client
	if cfg.Cache.Backend == config.BackendRedis || cfg.Preferences.Backend == config.BackendRedis {
		redisClient = initRedis(cfg.Redis)
		defer redisClient.Close()
	}

	// Initialize response cache
	var store cache.Store
	switch cfg.Cache.Backend {
	case config.BackendMemory:
		memory := cache.NewMemoryStore(time.Minute)
		defer memory.Close()
		store = memory
	default:
		store = cache.NewRedisStore(redisClient)
	}

	upstream := remote.NewClient(remote.Config{
		Timeout:   cfg.Steam.Timeout,
		UserAgent: cfg.Steam.UserAgent,
	}, metricsCollector, logger)
	responses := cache.NewResponseCache(upstream, store, supervisor, metricsCollector, logger, cache.Config{
		TTL:          cfg.Cache.TTL,
		SingleFlight: cfg.Cache.SingleFlight,
	})
	steamClient := steam.NewClient(responses, cfg.Steam.StoreURL, cfg.Steam.APIURL)

	// Initialize preference store
	repo, closeRepo, err := initRepository(ctx, cfg, redisClient)
	if err != nil {
		logger.Fatal("Failed to initialize preference store", zap.Error(err))
	}
	defer closeRepo()
	preferences := service.NewPreferenceService(repo, logger)

	// Initialize Kafka publisher
	publisher, err := initPublisher(cfg.Kafka)
	if err != nil {
		logger.Fatal("Failed to initialize event publisher", zap.Error(err))
	}
	defer publisher.Close()

	// Initialize bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: &tele.LongPoller{Timeout: cfg.Telegram.PollTimeout},
		OnError: func(err error, c tele.Context) {
			logger.Error("Update handler failed", zap.Error(err))
		},
	})
	if err != nil {
		logger.Fatal("Failed to initialize bot", zap.Error(err))
	}

	app := handler.NewApp(
		handler.NewTelegramTransport(bot, logger),
		steamClient,
		preferences,
		format.NewFormatter(cfg.Steam.StoreURL),
		supervisor,
		publisher,
		metricsCollector,
		logger,
		handler.Config{
			AdminID:   cfg.Telegram.AdminID,
			NewsCount: cfg.Steam.NewsCount,
		},
	)
	handler.RegisterTelegram(ctx, bot, app)

	pingers := map[string]handler.Pinger{
		"cache":       store,
		"preferences": repo,
	}

	// Start servers
	errChan := make(chan error, 2)

	// Start HTTP server
	ops := handler.NewOpsServer(pingers, registry, logger)
	if cfg.Telegram.Mode == config.ModeWebhook {
		if cfg.Telegram.WebhookSecret == "" {
			generated, err := secret.Generate(secret.DefaultLength)
			if err != nil {
				logger.Fatal("Failed to generate webhook secret", zap.Error(err))
			}
			cfg.Telegram.WebhookSecret = generated
			logger.Info("Using a generated webhook secret")
		}
		ops.WithWebhook(bot, cfg.Telegram.WebhookSecret)
	}
	srv := &http.Server{
		Addr:    cfg.Server.HTTPPort,
		Handler: handler.NewOpsRouter(ops),
	}
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Start gRPC health server
	var grpcServer *grpc.Server
	if cfg.Server.GRPCPort != "" {
		lis, err := net.Listen("tcp", cfg.Server.GRPCPort)
		if err != nil {
			logger.Fatal("Failed to listen", zap.Error(err), zap.String("port", cfg.Server.GRPCPort))
		}

		grpcServer = grpc.NewServer()
		healthServer := handler.NewHealthServer(pingers, handler.DefaultHealthInterval, logger)
		healthServer.Register(grpcServer)
		go healthServer.Run(ctx)

		go func() {
			logger.Info("Starting gRPC server", zap.String("port", cfg.Server.GRPCPort))
			if err := grpcServer.Serve(lis); err != nil {
				errChan <- fmt.Errorf("gRPC server error: %w", err)
			}
		}()
	}

	// Start receiving updates
	switch cfg.Telegram.Mode {
	case config.ModeWebhook:
		endpoint := strings.TrimRight(cfg.Telegram.WebhookURL, "/") + "/telegram/" + cfg.Telegram.WebhookSecret
		if err := bot.SetWebhook(&tele.Webhook{Endpoint: &tele.WebhookEndpoint{PublicURL: endpoint}}); err != nil {
			logger.Fatal("Failed to set webhook", zap.Error(err))
		}
		logger.Info("Receiving updates via webhook")
	default:
		if err := bot.RemoveWebhook(); err != nil {
			logger.Warn("Failed to remove webhook", zap.Error(err))
		}
		go bot.Start()
		logger.Info("Receiving updates via long polling", zap.Duration("timeout", cfg.Telegram.PollTimeout))
	}

	// Wait for shutdown signal
	select {
	case err := <-errChan:
		logger.Error("Server error", zap.Error(err))
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	if cfg.Telegram.Mode != config.ModeWebhook {
		bot.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", zap.Error(err))
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	supervisor.Wait()

	logger.Info("Bot stopped")
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	if cfg.Development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func initDB(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

func initRepository(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (repository.Repository, func(), error) {
	if cfg.Preferences.Backend != config.BackendPostgres {
		return repository.NewRedisRepository(redisClient), func() {}, nil
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	repo := repository.NewPostgresRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return repo, func() { db.Close() }, nil
}

func initPublisher(cfg config.KafkaConfig) (domain.EventPublisher, error) {
	if !cfg.Enabled {
		return events.NoopPublisher{}, nil
	}
	return events.NewKafkaPublisher(cfg.Brokers, cfg.Topic)
}
