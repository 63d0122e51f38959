package postgres

import (
	"context"
	"fmt"

	"github.com/dzmb1k/niaspo-kurs/internal/domain/outbox"

	"github.com/jackc/pgx/v5/pgxpool"
)

type OutboxRepository struct {
	pool *pgxpool.Pool
}

func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: pool}
}

func (r *OutboxRepository) Create(ctx context.Context, e *outbox.Event) error {
	const sql = `
		INSERT INTO outbox (id, event_type, payload, status, correlation_id, producer, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, NOW())
	`

	_, err := writeExecutor(ctx, r.pool).Exec(ctx, sql,
		e.ID, e.EventType, e.Payload, e.Status, e.CorrelationID, e.Producer, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}

	return nil
}

// FetchBatch claims up to limit unpublished events. FOR UPDATE SKIP
// LOCKED keeps concurrent pollers from claiming the same rows.
func (r *OutboxRepository) FetchBatch(ctx context.Context, limit int) ([]*outbox.Event, error) {
	const sql = `
		WITH claimed_events AS (
			SELECT id
			FROM outbox
			WHERE status = 'new'
			ORDER BY created_at ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		UPDATE outbox
		SET status = 'processing', updated_at = NOW()
		WHERE id IN (SELECT id FROM claimed_events)
		RETURNING
			id, event_type, payload, status,
			COALESCE(correlation_id::text, ''),
			producer, created_at, updated_at
	`

	rows, err := r.pool.Query(ctx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var events []*outbox.Event
	for rows.Next() {
		e := &outbox.Event{}
		if err := rows.Scan(&e.ID, &e.EventType, &e.Payload, &e.Status,
			&e.CorrelationID, &e.Producer, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}

	return events, nil
}

func (r *OutboxRepository) MarkProcessed(ctx context.Context, ids []string) error {
	const sql = `
		UPDATE outbox
		SET status = 'processed', updated_at = NOW()
		WHERE id = ANY($1)
	`
	_, err := r.pool.Exec(ctx, sql, ids)
	if err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}
	return nil
}

// MarkFailed returns events to 'new' so the next poll retries them.
func (r *OutboxRepository) MarkFailed(ctx context.Context, ids []string) error {
	const sql = `
		UPDATE outbox
		SET status = 'new', updated_at = NOW()
		WHERE id = ANY($1)
	`
	_, err := r.pool.Exec(ctx, sql, ids)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	return nil
}
