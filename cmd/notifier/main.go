package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dzmb1k/niaspo-kurs/internal/config"
	domainEvent "github.com/dzmb1k/niaspo-kurs/internal/domain/event"
	"github.com/dzmb1k/niaspo-kurs/internal/domain/outbox"
	"github.com/dzmb1k/niaspo-kurs/internal/infrastructure/kafka"
	"github.com/dzmb1k/niaspo-kurs/internal/infrastructure/postgres"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var notificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "citypass_notifier_notifications_sent_total",
	Help: "The total number of notifications sent by event type",
}, []string{"event_type"})

const consumerName = "notifier"

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

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info("notifier metrics listening on :9094")
		http.ListenAndServe(":9094", mux)
	}()

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

	inboxRepo := postgres.NewInboxRepository(pgPool)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID)
	defer consumer.Close()

	logger.Info("notifier started", "consumer", consumerName, "group_id", cfg.Kafka.GroupID)

	for {
		msg, err := consumer.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			logger.Error("failed to fetch message", "error", err)
			time.Sleep(1 * time.Second)
			continue
		}

		var envelope domainEvent.Message
		if err := json.Unmarshal(msg.Value, &envelope); err != nil {
			logger.Error("failed to unmarshal message, skipping", "error", err)
			if err := consumer.CommitMessages(ctx, msg); err != nil {
				logger.Error("failed to commit message", "error", err)
			}
			continue
		}

		tx, err := pgPool.Begin(ctx)
		if err != nil {
			logger.Error("failed to begin transaction", "error", err)
			continue
		}

		isNew, err := inboxRepo.SaveIfNotExists(ctx, tx, consumerName, envelope.ID, envelope.Type, envelope.CorrelationID)
		if err != nil {
			logger.Error("failed to dedup event", "event_id", envelope.ID, "error", err)
			_ = tx.Rollback(ctx)
			continue
		}

		if isNew {
			sendNotification(logger, envelope)
			notificationsSent.WithLabelValues(envelope.Type).Inc()
		} else {
			logger.Info("duplicate event, skipping", "event_id", envelope.ID)
		}

		if err := tx.Commit(ctx); err != nil {
			logger.Error("failed to commit transaction", "error", err)
			continue
		}

		if err := consumer.CommitMessages(ctx, msg); err != nil {
			logger.Error("failed to commit message", "error", err)
		}
	}

	logger.Info("notifier exited")
}

// sendNotification stands in for a real mail sender: the dev
// environment only logs what would be delivered.
func sendNotification(logger *slog.Logger, envelope domainEvent.Message) {
	var n domainEvent.Notification
	if err := json.Unmarshal(envelope.Payload, &n); err != nil {
		logger.Error("invalid notification payload", "event_id", envelope.ID, "error", err)
		return
	}

	switch envelope.Type {
	case outbox.EventTicketCreated:
		logger.Info("sending 'Ticket Created' email", "user_id", n.UserID, "ticket_id", n.TicketID)
	case outbox.EventPaymentCompleted:
		logger.Info("sending 'Payment Successful' email", "user_id", n.UserID, "payment_id", n.PaymentID)
	case outbox.EventPaymentFailed:
		logger.Info("sending 'Payment Failed' email", "user_id", n.UserID, "payment_id", n.PaymentID)
	default:
		logger.Warn("unknown event type", "type", envelope.Type, "event_id", envelope.ID)
	}
}
