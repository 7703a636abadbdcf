// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/fellowship-comms/internal/config"
	"github.com/unclebandit/fellowship-comms/internal/controller"
	"github.com/unclebandit/fellowship-comms/internal/db"
	"github.com/unclebandit/fellowship-comms/internal/handler"
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

	logger, err := logging.InitLogger(cfg.Env, cfg.LogDir)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	applied, err := db.Migrate(ctx, conn)
	if err != nil {
		return err
	}
	logger.Info("connected to database", zap.Strings("migrations_applied", applied))

	memberRepo := &repository.MemberRepository{DB: conn}
	communicationRepo := &repository.CommunicationRepository{DB: conn}
	outboundRepo := &repository.OutboundMessageRepository{DB: conn}
	sender := sms.NewMockSender(cfg.SMSFrom, 0.1, logger)

	// Without a broker the worker runs in-process on the in-memory queue.
	var q queue.Queue
	if cfg.AMQPURL != "" {
		amqpQueue, err := queue.DialAMQP(cfg.AMQPURL, logger)
		if err != nil {
			return err
		}
		defer amqpQueue.Close()
		q = amqpQueue
	} else {
		memQueue := queue.NewInMemoryQueue(logger)
		worker := service.NewWorker(outboundRepo, communicationRepo, sender, logger)
		if err := memQueue.Subscribe(cfg.SendQueue, func(body []byte) error {
			return worker.Handle(context.Background(), body)
		}); err != nil {
			return err
		}
		q = memQueue
		logger.Warn("AMQP_URL not set, sending in-process")
	}

	links := service.Links{Ballot: cfg.BallotLink, Register: cfg.RegisterLink}

	campaignService := &service.CampaignService{
		Store:     communicationRepo,
		Lister:    communicationRepo,
		Members:   memberRepo,
		Links:     links,
		UnitPrice: cfg.SMSUnitPrice,
		Logger:    logger,
	}
	dispatchService := &service.DispatchService{
		Communications: communicationRepo,
		Tracker:        communicationRepo,
		Outbound:       outboundRepo,
		Members:        memberRepo,
		Queue:          q,
		Topic:          cfg.SendQueue,
		Links:          links,
		Logger:         logger,
	}

	router := controller.NewRouter(controller.Routes{
		Communications: &controller.CommunicationController{
			CampaignService: campaignService,
			DispatchService: dispatchService,
			Logger:          logger,
		},
		Members:   &handler.MemberHandler{Members: memberRepo, Logger: logger},
		SMS:       &handler.SMSHandler{Sender: sender, Logger: logger},
		Features:  cfg.Features,
		JWTSecret: []byte(cfg.JWTSecret),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", zap.String("addr", cfg.HTTPAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
