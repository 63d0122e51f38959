package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dzmb1k/niaspo-kurs/internal/api"
	"github.com/dzmb1k/niaspo-kurs/internal/config"
	"github.com/dzmb1k/niaspo-kurs/internal/infrastructure/auth"
	"github.com/dzmb1k/niaspo-kurs/internal/infrastructure/gateway"
	"github.com/dzmb1k/niaspo-kurs/internal/infrastructure/postgres"
	redisinfra "github.com/dzmb1k/niaspo-kurs/internal/infrastructure/redis"
	"github.com/dzmb1k/niaspo-kurs/internal/usecase"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.New()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pgPool, err := postgres.Connect(ctx, postgres.Config{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		DBName:   cfg.Postgres.DBName,
	})
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pgPool.Close()

	redisClient, err := redisinfra.NewClient(ctx, redisinfra.Config{
		Addr: cfg.Redis.Addr,
	})
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(pgPool)
	ticketRepo := postgres.NewTicketRepository(pgPool)
	paymentRepo := postgres.NewPaymentRepository(pgPool)
	outboxRepo := postgres.NewOutboxRepository(pgPool)
	txManager := postgres.NewTxManager(pgPool)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	gw := gateway.NewSimulated(cfg.Payments.GatewaySuccessRate, time.Now().UnixNano())

	// Usecases
	usecases := api.Usecases{
		Register:       usecase.NewRegister(userRepo),
		Login:          usecase.NewLogin(userRepo, tokens),
		CreateTicket:   usecase.NewCreateTicket(txManager, ticketRepo, outboxRepo),
		ProcessPayment: usecase.NewProcessPayment(txManager, ticketRepo, paymentRepo, outboxRepo, gw),
		ListTickets:    usecase.NewListTickets(ticketRepo),
		ListPayments:   usecase.NewListPayments(paymentRepo),
		GetTicket:      usecase.NewGetTicket(ticketRepo),
		GetPayment:     usecase.NewGetPayment(paymentRepo),
		ValidateTicket: usecase.NewValidateTicket(ticketRepo),
	}

	handlers := api.NewHandlers(usecases)
	apiHandler := api.NewRouter(handlers, tokens, redisClient)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: apiHandler,
	}

	go func() {
		logger.Info("server starting", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exiting")
}
