package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/unclebandit/fellowship-comms/internal/config"
	"github.com/unclebandit/fellowship-comms/internal/db"
	"github.com/unclebandit/fellowship-comms/internal/logging"
	"github.com/unclebandit/fellowship-comms/internal/queue"
	"github.com/unclebandit/fellowship-comms/internal/repository"
	"github.com/unclebandit/fellowship-comms/internal/service"
	"github.com/unclebandit/fellowship-comms/internal/sms"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := logging.InitLogger(cfg.Env+"-worker", cfg.LogDir)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	if err := cfg.RequireDatabase(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}
	if cfg.AMQPURL == "" {
		logger.Fatal("AMQP_URL is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	q, err := queue.DialAMQP(cfg.AMQPURL, logger)
	if err != nil {
		logger.Fatal("failed to connect to broker", zap.Error(err))
	}
	defer q.Close()

	worker := service.NewWorker(
		&repository.OutboundMessageRepository{DB: conn},
		&repository.CommunicationRepository{DB: conn},
		sms.NewMockSender(cfg.SMSFrom, 0.1, logger),
		logger,
	)

	if err := q.Subscribe(cfg.SendQueue, func(body []byte) error {
		return worker.Handle(ctx, body)
	}); err != nil {
		logger.Fatal("failed to register consumer", zap.Error(err))
	}

	logger.Info("worker running, waiting for messages", zap.String("queue", cfg.SendQueue))
	<-ctx.Done()
	logger.Info("worker stopping")
}
