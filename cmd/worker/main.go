package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aircompany/bookingflow/config"
	"github.com/aircompany/bookingflow/internal/email"
	"github.com/aircompany/bookingflow/internal/kafka"
	"github.com/aircompany/bookingflow/internal/logger"
	"github.com/aircompany/bookingflow/internal/remote"
	"github.com/aircompany/bookingflow/internal/repository"
	"github.com/aircompany/bookingflow/internal/service/tickets"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		zlog.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	remoteClient := remote.NewHTTPClient(cfg.Remote, zlog)
	recordRepo := repository.NewBookingRecordRepository(pool)
	reconciler := tickets.NewReconciler(recordRepo, remoteClient, producer, cfg.Kafka.BookingEventsTopic, zlog)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.BookingEventsTopic)
	defer consumer.Close()

	emailSender := email.NewSender(zlog)

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				zlog.Warn("decode event", zap.Error(err))
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil {
			zlog.Warn("consumer stopped", zap.Error(err))
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.ReconcileSweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			n, err := reconciler.Sweep(ctx)
			if err != nil {
				zlog.Error("reconciliation sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				zlog.Info("reconciled simulated bookings", zap.Int("count", n))
			}
		case s := <-sig:
			zlog.Info("shutting down", zap.String("signal", s.String()))
			return
		}
	}
}
