package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dzmb1k/niaspo-kurs/internal/domain/ticket"
	"github.com/dzmb1k/niaspo-kurs/internal/infrastructure/postgres"
)

type ValidateTicket struct {
	ticketRepo *postgres.TicketRepository
}

func NewValidateTicket(ticketRepo *postgres.TicketRepository) *ValidateTicket {
	return &ValidateTicket{ticketRepo: ticketRepo}
}

type ValidateResult struct {
	Valid    bool   `json:"valid"`
	Reason   string `json:"reason,omitempty"`
	TicketID string `json:"ticket_id,omitempty"`
}

// Execute is called by validator terminals at the turnstile. An active
// in-validity ticket is consumed (marked used); a stale one is marked
// expired on the spot.
func (uc *ValidateTicket) Execute(ctx context.Context, ticketID string) (*ValidateResult, error) {
	t, err := uc.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if t == nil {
		return nil, ErrTicketNotFound
	}

	if t.Status != ticket.StatusActive {
		return &ValidateResult{Valid: false, Reason: "Ticket not active"}, nil
	}

	if t.ValidUntil != nil && t.ValidUntil.Before(time.Now()) {
		if err := uc.ticketRepo.SetStatus(ctx, t.ID, ticket.StatusExpired, ""); err != nil {
			return nil, err
		}
		return &ValidateResult{Valid: false, Reason: "Ticket expired"}, nil
	}

	if err := uc.ticketRepo.SetStatus(ctx, t.ID, ticket.StatusUsed, ""); err != nil {
		return nil, err
	}

	return &ValidateResult{Valid: true, TicketID: t.ID}, nil
}
