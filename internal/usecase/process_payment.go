package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dzmb1k/niaspo-kurs/internal/domain/event"
	"github.com/dzmb1k/niaspo-kurs/internal/domain/outbox"
	"github.com/dzmb1k/niaspo-kurs/internal/domain/payment"
	"github.com/dzmb1k/niaspo-kurs/internal/domain/ticket"
	"github.com/dzmb1k/niaspo-kurs/internal/infrastructure/gateway"
	"github.com/dzmb1k/niaspo-kurs/internal/infrastructure/postgres"

	"github.com/google/uuid"
)

type ProcessPayment struct {
	txManager   postgres.Transactor
	ticketRepo  *postgres.TicketRepository
	paymentRepo *postgres.PaymentRepository
	outboxRepo  *postgres.OutboxRepository
	gw          gateway.Gateway
}

func NewProcessPayment(
	txManager postgres.Transactor,
	ticketRepo *postgres.TicketRepository,
	paymentRepo *postgres.PaymentRepository,
	outboxRepo *postgres.OutboxRepository,
	gw gateway.Gateway,
) *ProcessPayment {
	return &ProcessPayment{
		txManager:   txManager,
		ticketRepo:  ticketRepo,
		paymentRepo: paymentRepo,
		outboxRepo:  outboxRepo,
		gw:          gw,
	}
}

type ProcessPaymentParams struct {
	UserID        string `json:"user_id"`
	TicketID      string `json:"ticket_id"`
	PaymentMethod string `json:"payment_method"`
}

// Execute charges the gateway for the ticket's price and records the
// outcome. A declined charge cancels the ticket in the same transaction
// (the compensation half of the purchase saga) and returns
// ErrPaymentDeclined; an approved charge activates it and attaches the
// QR code. Both outcomes emit an outbox event.
func (uc *ProcessPayment) Execute(ctx context.Context, params ProcessPaymentParams) (*payment.Payment, error) {
	t, err := uc.ticketRepo.GetByID(ctx, params.TicketID)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if t == nil {
		return nil, ErrTicketNotFound
	}
	if t.UserID != params.UserID {
		return nil, ErrNotOwner
	}

	result, err := uc.gw.Charge(ctx, t.Price, params.PaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("charge gateway: %w", err)
	}

	p := &payment.Payment{
		ID:            uuid.New().String(),
		TicketID:      t.ID,
		UserID:        params.UserID,
		Amount:        t.Price,
		PaymentMethod: params.PaymentMethod,
		TransactionID: result.TransactionID,
		CreatedAt:     time.Now(),
	}

	ticketStatus := ticket.StatusActive
	qrCode := fmt.Sprintf("QR_%s_%s", t.ID, result.TransactionID)
	eventType := outbox.EventPaymentCompleted
	p.Status = payment.StatusCompleted

	if !result.Approved {
		ticketStatus = ticket.StatusCancelled
		qrCode = ""
		eventType = outbox.EventPaymentFailed
		p.Status = payment.StatusFailed
	}

	payload, err := json.Marshal(event.Notification{
		UserID:    params.UserID,
		TicketID:  t.ID,
		PaymentID: p.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal notification: %w", err)
	}

	outboxEvent := &outbox.Event{
		ID:            uuid.New().String(),
		EventType:     eventType,
		Payload:       payload,
		Status:        "new",
		CorrelationID: t.ID,
		Producer:      "citypass-api",
		CreatedAt:     time.Now(),
	}

	err = uc.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.paymentRepo.Create(txCtx, p); err != nil {
			return err
		}
		if err := uc.ticketRepo.SetStatus(txCtx, t.ID, ticketStatus, qrCode); err != nil {
			return err
		}
		return uc.outboxRepo.Create(txCtx, outboxEvent)
	})
	if err != nil {
		return nil, fmt.Errorf("transaction failed: %w", err)
	}

	if !result.Approved {
		return p, ErrPaymentDeclined
	}

	return p, nil
}
