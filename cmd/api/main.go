// @title                       Order Service API
// @version                     1.0
// @description                 Accounts, catalog, orders and passive payment records.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	_ "github.com/99minutos/order-service/docs"
	"github.com/99minutos/order-service/internal/api"
	"github.com/99minutos/order-service/internal/api/handler"
	"github.com/99minutos/order-service/internal/core/ports"
	"github.com/99minutos/order-service/internal/core/service"
	mongostore "github.com/99minutos/order-service/internal/infrastructure/db/mongo"
	"github.com/99minutos/order-service/internal/infrastructure/db/postgres"
	redisstore "github.com/99minutos/order-service/internal/infrastructure/db/redis"
	"github.com/99minutos/order-service/internal/infrastructure/messaging/kafka"
	"github.com/99minutos/order-service/internal/infrastructure/queue"
	"github.com/99minutos/order-service/internal/pkg/config"
	"github.com/99minutos/order-service/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "order-service: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; real deployments use the environment.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "order-service",
	})

	decimal.MarshalJSONWithoutQuotes = true

	// --- Stores ---
	db, err := postgres.Connect(ctx, postgres.Config{
		URL:             cfg.Postgres.URL,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	mongoClient, mongoDB, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	userRepo := postgres.NewUserRepository(db)
	productRepo := postgres.NewProductRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	paymentRepo := mongostore.NewPaymentRepository(mongoDB)
	eventRepo := mongostore.NewEventRepository(mongoDB)

	if err := paymentRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("payment indexes: %w", err)
	}
	if err := eventRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("event indexes: %w", err)
	}

	// --- Event relay ---
	var publisher ports.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kp := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kp.Close()
		publisher = kp
	} else {
		log.Warn().Msg("KAFKA_BROKERS not set, order events go to the audit log only")
	}

	relay := service.NewEventRelay(publisher, eventRepo, log)
	dispatcher := queue.NewDispatcher(cfg.EventWorkers, relay, log)
	// Workers outlive the signal context so queued events drain on shutdown.
	dispatcher.Start(context.WithoutCancel(ctx))

	// --- Services ---
	tokens := service.NewTokenService(cfg.JWTSecret)
	guard := service.NewGuard(userRepo, log)
	authService := service.NewAuthService(userRepo, tokens, log)
	productService := service.NewProductService(productRepo, redisstore.NewProductCache(rdb), cfg.Redis.ProductCacheTTL, log)
	orderService := service.NewOrderService(orderRepo, productRepo, guard, dispatcher, log)
	paymentService := service.NewPaymentService(paymentRepo, orderRepo, guard, log)

	if cfg.Admin.Email != "" {
		if _, err := authService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return err
		}
	}

	e := api.NewRouter(api.Deps{
		Log:            log,
		Debug:          cfg.IsDevelopment(),
		RequestTimeout: cfg.RequestTimeout,
		Tokens:         tokens,
		Guard:          guard,
		Auth:           authService,
		Products:       productService,
		Orders:         orderService,
		Payments:       paymentService,
		HealthChecks: []handler.DependencyCheck{
			handler.PostgresCheck(db),
			handler.MongoCheck(mongoDB),
			handler.RedisCheck(rdb),
		},
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("http server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return shutdown(e.Shutdown, dispatcher, cfg.ShutdownTimeout, log)
	})

	return g.Wait()
}

func shutdown(stopHTTP func(context.Context) error, dispatcher *queue.Dispatcher, timeout time.Duration, log zerolog.Logger) error {
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := stopHTTP(ctx)
	if err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}

	dispatcher.Close()
	log.Info().Msg("event dispatcher drained")
	return err
}
