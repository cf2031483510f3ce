package di

import (
	"context"
	"fmt"

	"github.com/ArachnoVa-id/roetix-reservation/internal/gateway"
	"github.com/ArachnoVa-id/roetix-reservation/internal/handler"
	"github.com/ArachnoVa-id/roetix-reservation/internal/metrics"
	"github.com/ArachnoVa-id/roetix-reservation/internal/repository"
	"github.com/ArachnoVa-id/roetix-reservation/internal/service"
	"github.com/ArachnoVa-id/roetix-reservation/internal/worker"
	"github.com/ArachnoVa-id/roetix-reservation/pkg/config"
	"github.com/ArachnoVa-id/roetix-reservation/pkg/database"
	"github.com/ArachnoVa-id/roetix-reservation/pkg/kafka"
	"github.com/ArachnoVa-id/roetix-reservation/pkg/logger"
	"github.com/ArachnoVa-id/roetix-reservation/pkg/redis"
)

// Container holds all dependencies for the reservation service
type Container struct {
	Config *config.Config

	// Infrastructure
	DB        *database.PostgresDB
	Redis     *redis.Client
	Publisher service.NotificationPublisher

	// Repositories
	TxManager  *repository.TxManager
	SeatRepo   repository.SeatRepository
	TicketRepo repository.TicketRepository
	OrderRepo  repository.OrderRepository
	LineRepo   repository.TicketOrderRepository
	HoldRepo   repository.SeatTransactionRepository
	AuditRepo  repository.SeatTransactionLogRepository
	SweepLock  repository.SweepLocker

	// Collaborators
	Gateway gateway.PaymentGateway

	// Services
	SeatService  service.SeatService
	OrderService service.OrderService
	HoldService  service.SeatTransactionService

	// Workers
	TransactionSweeper *worker.TransactionSweeper
	OrderSweeper       *worker.OrderSweeper

	// Handlers
	SeatHandler   *handler.SeatHandler
	OrderHandler  *handler.OrderHandler
	HoldHandler   *handler.HoldHandler
	HealthHandler *handler.HealthHandler
}

// NewContainer builds the full dependency graph from configuration
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	if err := metrics.Init(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxOpenConns),
		MinConns:        int32(cfg.Database.MaxIdleConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		MaxRetries:      3,
		EnableTracing:   cfg.OTel.Enabled,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	c.DB = db

	redisClient, err := redis.NewClient(ctx, &redis.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		MaxRetries:   3,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.Redis = redisClient

	c.Publisher = service.NewNoOpNotificationPublisher()
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
			Brokers:  cfg.Kafka.Brokers,
			ClientID: cfg.Kafka.ClientID,
		})
		if err != nil {
			redisClient.Close()
			db.Close()
			return nil, fmt.Errorf("failed to connect to kafka: %w", err)
		}
		c.Publisher = service.NewKafkaNotificationPublisher(producer)
	}

	pool := db.Pool()
	c.TxManager = repository.NewTxManager(pool)
	c.SeatRepo = repository.NewPostgresSeatRepository(pool)
	c.TicketRepo = repository.NewPostgresTicketRepository(pool)
	c.OrderRepo = repository.NewPostgresOrderRepository(pool)
	c.LineRepo = repository.NewPostgresTicketOrderRepository(pool)
	c.HoldRepo = repository.NewPostgresSeatTransactionRepository(pool)
	c.AuditRepo = repository.NewPostgresSeatTransactionLogRepository(pool)
	c.SweepLock = repository.NewRedisSweepLockRepository(redisClient)

	paymentGateway, err := gateway.New(&gateway.Config{
		Provider:  cfg.Gateway.Provider,
		BaseURL:   cfg.Gateway.BaseURL,
		ServerKey: cfg.Gateway.ServerKey,
		Timeout:   cfg.Gateway.Timeout,
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to build payment gateway: %w", err)
	}
	c.Gateway = paymentGateway

	c.SeatService = service.NewSeatService(c.SeatRepo, c.Publisher)
	c.OrderService = service.NewOrderService(
		&service.OrderServiceConfig{OrderTTL: cfg.Reservation.OrderTTL},
		c.TxManager,
		c.OrderRepo,
		c.LineRepo,
		c.TicketRepo,
		c.SeatRepo,
		c.Gateway,
		c.Publisher,
	)
	c.HoldService = service.NewSeatTransactionService(
		&service.SeatTransactionServiceConfig{HoldTTL: cfg.Reservation.HoldTTL},
		c.TxManager,
		c.HoldRepo,
		c.SeatRepo,
		c.AuditRepo,
		c.Publisher,
	)

	c.TransactionSweeper = worker.NewTransactionSweeper(c.HoldService, c.SweepLock, &worker.TransactionSweeperConfig{
		SweepInterval: cfg.Reservation.HoldSweepInterval,
		BatchSize:     cfg.Reservation.SweepBatchSize,
		LockTTL:       cfg.Reservation.SweepLockTTL,
	})
	c.OrderSweeper = worker.NewOrderSweeper(c.OrderService, c.SweepLock, &worker.OrderSweeperConfig{
		SweepDelay: cfg.Reservation.OrderSweepDelay,
		BatchSize:  cfg.Reservation.SweepBatchSize,
		LockTTL:    cfg.Reservation.SweepLockTTL,
	})

	c.SeatHandler = handler.NewSeatHandler(c.SeatService)
	c.OrderHandler = handler.NewOrderHandler(c.OrderService)
	c.HoldHandler = handler.NewHoldHandler(c.HoldService)
	c.HealthHandler = handler.NewHealthHandler(c.DB, c.Redis)

	return c, nil
}

// Close releases all infrastructure resources in reverse build order
func (c *Container) Close() {
	log := logger.Get()

	if c.Publisher != nil {
		c.Publisher.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn(fmt.Sprintf("Failed to close redis: %v", err))
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
