package usecase

import (
	"context"
	"fmt"

	"github.com/dzmb1k/niaspo-kurs/internal/domain/ticket"
	"github.com/dzmb1k/niaspo-kurs/internal/infrastructure/postgres"
)

type ListTickets struct {
	ticketRepo *postgres.TicketRepository
}

func NewListTickets(ticketRepo *postgres.TicketRepository) *ListTickets {
	return &ListTickets{ticketRepo: ticketRepo}
}

func (uc *ListTickets) Execute(ctx context.Context, userID string) ([]*ticket.Ticket, error) {
	tickets, err := uc.ticketRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}
