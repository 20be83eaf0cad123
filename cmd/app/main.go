package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aircompany/bookingflow/config"
	"github.com/aircompany/bookingflow/internal/bootstrap"
	"github.com/aircompany/bookingflow/internal/cache"
	"github.com/aircompany/bookingflow/internal/document"
	"github.com/aircompany/bookingflow/internal/domain"
	"github.com/aircompany/bookingflow/internal/kafka"
	"github.com/aircompany/bookingflow/internal/logger"
	"github.com/aircompany/bookingflow/internal/remote"
	"github.com/aircompany/bookingflow/internal/repository"
	"github.com/aircompany/bookingflow/internal/service/payment"
	"github.com/aircompany/bookingflow/internal/service/search"
	"github.com/aircompany/bookingflow/internal/service/tickets"
	"github.com/aircompany/bookingflow/internal/service/workflow"
	"github.com/aircompany/bookingflow/internal/validate"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog := logger.Init()
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		zlog.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.LocationsCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	remoteClient := remote.NewHTTPClient(cfg.Remote, zlog)
	recordRepo := repository.NewBookingRecordRepository(pool)

	orchestrator := payment.NewOrchestrator(
		remoteClient,
		recordRepo,
		redisCache,
		producer,
		cfg.Kafka.BookingEventsTopic,
		time.Duration(cfg.Booking.SubmissionLockTTL)*time.Second,
		zlog,
	)
	sessions := workflow.NewSessionManager()
	controller := workflow.NewController(
		sessions,
		orchestrator,
		remoteClient,
		validate.Policy{
			MinAgeYears: cfg.Booking.MinPassengerAgeYears,
			MaxAgeYears: cfg.Booking.MaxPassengerAgeYears,
		},
		domain.Money(cfg.Booking.PremiumSurchargeCents),
		zlog,
	)
	sessionMaxAge := time.Duration(cfg.Booking.SessionMaxAgeMinutes) * time.Minute
	go func() {
		pruneTicker := time.NewTicker(sessionMaxAge / 4)
		defer pruneTicker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-pruneTicker.C:
				if dropped := sessions.PruneExpired(time.Now(), sessionMaxAge); dropped > 0 {
					zlog.Info("pruned abandoned booking sessions", zap.Int("count", dropped))
				}
			}
		}
	}()

	searchService := search.NewSearchService(remoteClient, redisCache, zlog)
	ticketService := tickets.NewTicketService(recordRepo, remoteClient, producer, cfg.Kafka.BookingEventsTopic, zlog)
	documents := document.NewGenerator(zlog)

	if err := bootstrap.Run(ctx, cfg, searchService, controller, ticketService, documents); err != nil {
		zlog.Fatal("server error", zap.Error(err))
	}
}
