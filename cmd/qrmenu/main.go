package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"

	_ "github.com/tair/qr-order/docs"
	"github.com/tair/qr-order/internal/config"
	"github.com/tair/qr-order/internal/inventory/cache"
	"github.com/tair/qr-order/internal/notifier"
	"github.com/tair/qr-order/internal/schema"
	"github.com/tair/qr-order/internal/server"
	"github.com/tair/qr-order/kafka"
	"github.com/tair/qr-order/pkg/database"
	"github.com/tair/qr-order/pkg/grpchealth"
	"github.com/tair/qr-order/pkg/logger"
	"github.com/tair/qr-order/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("qrmenu", true)
		logger.Logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)
	for _, w := range cfg.Warnings {
		logger.Logger.Warn().Msg(w)
	}

	logger.Logger.Info().
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Str("quantity_policy", string(cfg.QuantityPolicy)).
		Msg("Starting qrmenu service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(tracing.Config{
			ServiceName:    cfg.ServiceName,
			JaegerEndpoint: cfg.JaegerEndpoint,
		})
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Tracing disabled")
		} else {
			defer shutdownTracer(tp)
		}
	}

	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	if err := schema.Migrate(db); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	menuCache, closeCache := newMenuCache(ctx, cfg)
	defer closeCache()

	// a nil *kafka.Publisher must not reach the hub as a non-nil interface
	var forwarder notifier.Forwarder
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Kafka unavailable, order events stay in-process")
		} else {
			defer publisher.Close()
			forwarder = publisher
		}
	}

	srv, err := server.InitializeServer(cfg, db, menuCache, forwarder)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize server")
	}

	health := grpchealth.NewServer(cfg.ServiceName)
	go health.Watch(ctx, 10*time.Second, func(ctx context.Context) error {
		return sqlDB.PingContext(ctx)
	})
	go serveGRPC(health, cfg.GRPCPort)

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           srv.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Str("swagger", "/swagger/index.html").
			Msg("HTTP server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down server...")

	// end event streams first so Shutdown does not wait on them
	srv.Hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	health.GRPC.GracefulStop()

	logger.Logger.Info().Msg("Server stopped")
}

func newMenuCache(ctx context.Context, cfg *config.Config) (cache.MenuCache, func()) {
	if cfg.RedisAddr == "" {
		logger.Logger.Info().Msg("REDIS_ADDR not set, menu cache disabled")
		return cache.NopMenuCache{}, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, menu cache disabled")
		_ = client.Close()
		return cache.NopMenuCache{}, func() {}
	}

	logger.Logger.Info().
		Str("addr", cfg.RedisAddr).
		Dur("ttl", cfg.MenuCacheTTL).
		Msg("Menu cache enabled")
	return cache.NewRedisMenuCache(client, cfg.MenuCacheTTL), func() { _ = client.Close() }
}

func serveGRPC(health *grpchealth.Server, port string) {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		logger.Logger.Fatal().Err(err).Str("port", port).Msg("Failed to listen for gRPC")
	}
	logger.Logger.Info().Str("port", port).Msg("gRPC health server started")
	if err := health.GRPC.Serve(lis); err != nil {
		logger.Logger.Error().Err(err).Msg("gRPC server stopped")
	}
}

func shutdownTracer(tp trace.TracerProvider) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tracing.Shutdown(ctx, tp); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
	}
}
