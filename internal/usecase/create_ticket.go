package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dzmb1k/niaspo-kurs/internal/domain/event"
	"github.com/dzmb1k/niaspo-kurs/internal/domain/outbox"
	"github.com/dzmb1k/niaspo-kurs/internal/domain/ticket"
	"github.com/dzmb1k/niaspo-kurs/internal/infrastructure/postgres"

	"github.com/google/uuid"
)

type CreateTicket struct {
	txManager  postgres.Transactor
	ticketRepo *postgres.TicketRepository
	outboxRepo *postgres.OutboxRepository
}

func NewCreateTicket(
	txManager postgres.Transactor,
	ticketRepo *postgres.TicketRepository,
	outboxRepo *postgres.OutboxRepository,
) *CreateTicket {
	return &CreateTicket{
		txManager:  txManager,
		ticketRepo: ticketRepo,
		outboxRepo: outboxRepo,
	}
}

type CreateTicketParams struct {
	UserID     string `json:"user_id"`
	TicketType string `json:"ticket_type"`
	Route      string `json:"route"`
}

// Execute creates a pending ticket priced by type. The ticket row and
// the TicketCreated outbox event commit atomically; activation happens
// later, when the payment for it completes.
func (uc *CreateTicket) Execute(ctx context.Context, params CreateTicketParams) (*ticket.Ticket, error) {
	validUntil := time.Now().Add(ticket.ValidityFor(params.TicketType))

	newTicket := &ticket.Ticket{
		ID:         uuid.New().String(),
		UserID:     params.UserID,
		TicketType: params.TicketType,
		Route:      params.Route,
		Price:      ticket.PriceFor(params.TicketType),
		Status:     ticket.StatusPending,
		CreatedAt:  time.Now(),
		ValidUntil: &validUntil,
	}

	payload, err := json.Marshal(event.Notification{
		UserID:   newTicket.UserID,
		TicketID: newTicket.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal notification: %w", err)
	}

	outboxEvent := &outbox.Event{
		ID:            uuid.New().String(),
		EventType:     outbox.EventTicketCreated,
		Payload:       payload,
		Status:        "new",
		CorrelationID: newTicket.ID,
		Producer:      "citypass-api",
		CreatedAt:     time.Now(),
	}

	err = uc.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.ticketRepo.Create(txCtx, newTicket); err != nil {
			return err
		}
		return uc.outboxRepo.Create(txCtx, outboxEvent)
	})
	if err != nil {
		return nil, fmt.Errorf("transaction failed: %w", err)
	}

	return newTicket, nil
}
