package usecase

import (
	"context"
	"fmt"

	"github.com/dzmb1k/niaspo-kurs/internal/domain/ticket"
	"github.com/dzmb1k/niaspo-kurs/internal/infrastructure/postgres"
)

type GetTicket struct {
	ticketRepo *postgres.TicketRepository
}

func NewGetTicket(ticketRepo *postgres.TicketRepository) *GetTicket {
	return &GetTicket{ticketRepo: ticketRepo}
}

func (uc *GetTicket) Execute(ctx context.Context, userID, ticketID string) (*ticket.Ticket, error) {
	t, err := uc.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if t == nil || t.UserID != userID {
		// Hide ownership mismatches behind not-found.
		return nil, ErrTicketNotFound
	}
	return t, nil
}
