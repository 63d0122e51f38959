package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InboxRepository struct {
	pool *pgxpool.Pool
}

func NewInboxRepository(pool *pgxpool.Pool) *InboxRepository {
	return &InboxRepository{pool: pool}
}

// SaveIfNotExists returns true if the event was saved (is new), false
// if this consumer already processed it.
func (r *InboxRepository) SaveIfNotExists(ctx context.Context, tx pgx.Tx, consumer, eventID, eventType, correlationID string) (bool, error) {
	const query = `
		INSERT INTO inbox_events (consumer, event_id, event_type, correlation_id, processed_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NOW())
		ON CONFLICT (consumer, event_id) DO NOTHING
	`

	tag, err := tx.Exec(ctx, query, consumer, eventID, eventType, correlationID)
	if err != nil {
		return false, fmt.Errorf("insert inbox event: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
