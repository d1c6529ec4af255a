package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"example.com/signup/internal/api"
	"example.com/signup/internal/config"
	"example.com/signup/internal/domain"
	"example.com/signup/internal/events"
	"example.com/signup/internal/logging"
	"example.com/signup/internal/persistence/memory"
	"example.com/signup/internal/persistence/postgres"
	httptransport "example.com/signup/internal/transport/http"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var registry domain.Registry
	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			logger.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer pool.Close()

		pg := postgres.NewRegistry(pool)
		if err := pg.Seed(ctx, domain.SeedActivities()); err != nil {
			logger.Fatal("failed to seed activity directory", zap.Error(err))
		}
		registry = pg
		logger.Info("using postgres registry")
	} else {
		registry = memory.NewRegistry()
		logger.Info("using in-memory registry")
	}

	var publisher events.Publisher = events.Nop{}
	var kafkaPublisher *events.KafkaPublisher
	if cfg.EventsEnabled() {
		kafkaPublisher = events.NewKafkaPublisher(events.KafkaPublisherConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.EventTopic,
			QueueSize:    cfg.EventQueueSize,
			WriteTimeout: cfg.EventWriteTimeout,
		}, logger)
		publisher = kafkaPublisher
		logger.Info("roster events enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.EventTopic))
	}

	service := domain.NewService(registry, publisher, logger)
	handler := api.NewHandler(service)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	wrapped := httptransport.Chain(mux,
		httptransport.Recover(logger),
		httptransport.RequestID,
		httptransport.AccessLog(logger),
	)

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, wrapped)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("signup service listening", zap.String("address", cfg.HTTPAddress))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}

	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Warn("event publisher close failed", zap.Error(err))
		}
	}
}
