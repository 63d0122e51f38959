package postgres

import (
	"context"
	"fmt"

	"github.com/dzmb1k/niaspo-kurs/internal/domain/ticket"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepository struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	const sql = `
		INSERT INTO tickets (
			id, user_id, ticket_type, route, price,
			status, qr_code, created_at, valid_until
		)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9)
	`

	_, err := writeExecutor(ctx, r.pool).Exec(ctx, sql,
		t.ID, t.UserID, t.TicketType, t.Route, t.Price,
		t.Status, t.QRCode, t.CreatedAt, t.ValidUntil)
	if err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}

	return nil
}

// SetStatus updates the ticket status, optionally attaching a QR code
// (empty string leaves the column untouched).
func (r *TicketRepository) SetStatus(ctx context.Context, id, status, qrCode string) error {
	const sql = `
		UPDATE tickets
		SET status = $2, qr_code = COALESCE(NULLIF($3, ''), qr_code), updated_at = NOW()
		WHERE id = $1
	`

	tag, err := writeExecutor(ctx, r.pool).Exec(ctx, sql, id, status, qrCode)
	if err != nil {
		return fmt.Errorf("update ticket status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ticket not found")
	}

	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id string) (*ticket.Ticket, error) {
	const sql = `
		SELECT id, user_id, ticket_type, route, price,
			status, COALESCE(qr_code, ''), created_at, valid_until
		FROM tickets
		WHERE id = $1
	`

	var t ticket.Ticket
	err := r.pool.QueryRow(ctx, sql, id).Scan(
		&t.ID, &t.UserID, &t.TicketType, &t.Route, &t.Price,
		&t.Status, &t.QRCode, &t.CreatedAt, &t.ValidUntil,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get ticket by id: %w", err)
	}
	return &t, nil
}

func (r *TicketRepository) ListByUserID(ctx context.Context, userID string) ([]*ticket.Ticket, error) {
	const sql = `
		SELECT id, user_id, ticket_type, route, price,
			status, COALESCE(qr_code, ''), created_at, valid_until
		FROM tickets
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*ticket.Ticket
	for rows.Next() {
		t := &ticket.Ticket{}
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.TicketType, &t.Route, &t.Price,
			&t.Status, &t.QRCode, &t.CreatedAt, &t.ValidUntil,
		); err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}

	return tickets, nil
}
