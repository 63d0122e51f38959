package postgres

import (
	"context"
	"fmt"

	"github.com/dzmb1k/niaspo-kurs/internal/domain/payment"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	const sql = `
		INSERT INTO payments (
			id, ticket_id, user_id, amount, status,
			payment_method, transaction_id, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)
	`

	_, err := writeExecutor(ctx, r.pool).Exec(ctx, sql,
		p.ID, p.TicketID, p.UserID, p.Amount, p.Status,
		p.PaymentMethod, p.TransactionID, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*payment.Payment, error) {
	const sql = `
		SELECT id, ticket_id, user_id, amount, status,
			payment_method, COALESCE(transaction_id, ''), created_at
		FROM payments
		WHERE id = $1
	`

	var p payment.Payment
	err := r.pool.QueryRow(ctx, sql, id).Scan(
		&p.ID, &p.TicketID, &p.UserID, &p.Amount, &p.Status,
		&p.PaymentMethod, &p.TransactionID, &p.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment by id: %w", err)
	}
	return &p, nil
}

func (r *PaymentRepository) ListByUserID(ctx context.Context, userID string) ([]*payment.Payment, error) {
	const sql = `
		SELECT id, ticket_id, user_id, amount, status,
			payment_method, COALESCE(transaction_id, ''), created_at
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []*payment.Payment
	for rows.Next() {
		p := &payment.Payment{}
		if err := rows.Scan(
			&p.ID, &p.TicketID, &p.UserID, &p.Amount, &p.Status,
			&p.PaymentMethod, &p.TransactionID, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}

	return payments, nil
}
