package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpAdapter "github.com/iho/gopay/internal/adapter/http"
	"github.com/iho/gopay/internal/adapter/http/handler"
	"github.com/iho/gopay/internal/adapter/kafka"
	postgresRepo "github.com/iho/gopay/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gopay/internal/adapter/repository/redis"
	"github.com/iho/gopay/internal/infrastructure/config"
	"github.com/iho/gopay/internal/infrastructure/logger"
	"github.com/iho/gopay/internal/infrastructure/metrics"
	"github.com/iho/gopay/internal/infrastructure/postgres"
	"github.com/iho/gopay/internal/infrastructure/redis"
	"github.com/iho/gopay/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	m := metrics.New()

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	kafkaAuth := kafka.Auth{
		SASLUsername:  cfg.KafkaSASLUsername,
		SASLPassword:  cfg.KafkaSASLPassword,
		SASLMechanism: cfg.KafkaSASLMechanism,
		TLSEnabled:    cfg.KafkaTLSEnabled,
	}

	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:      cfg.KafkaBrokers,
		Topic:        cfg.KafkaValidationTopic,
		WriteTimeout: cfg.KafkaWriteTimeout,
		Auth:         kafkaAuth,
	}, logger.Component(log, "kafka-publisher"), m)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create kafka publisher")
	}
	defer publisher.Close()

	// Initialize repositories and use case
	retrier := postgresRepo.NewRetrier(logger.Component(log, "postgres"))
	transactionRepo := postgresRepo.NewTransactionRepository(pool, retrier)
	transactionCache := redisRepo.NewTransactionCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	transactionUC := usecase.NewTransactionUseCase(
		transactionRepo,
		publisher,
		idGen,
		transactionCache,
		cfg.TransactionCacheTTL,
		logger.Component(log, "usecase"),
		m,
	)

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaStatusTopic,
		GroupID: cfg.KafkaGroupID,
		Auth:    kafkaAuth,
	}, transactionUC, logger.Component(log, "kafka-consumer"), m)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create kafka consumer")
	}

	consumerCtx, stopConsumer := context.WithCancel(ctx)
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		if err := consumer.Run(consumerCtx); err != nil {
			log.Error().Err(err).Msg("kafka consumer terminated")
		}
	}()

	// Create router and server
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TransactionHandler: handler.NewTransactionHandler(transactionUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		Metrics:            m,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	// Stop the consumer after the API: in-flight requests may still be
	// publishing, and the consumer finishes its current message before
	// exiting.
	stopConsumer()
	if err := consumer.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close kafka consumer")
	}
	<-consumerDone

	log.Info().Msg("server stopped")
}
