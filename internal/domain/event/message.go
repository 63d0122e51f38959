package event

import (
	"encoding/json"
	"time"
)

// Message is the envelope published to Kafka. Payload is kept as the
// raw JSON produced by the originating service.
type Message struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	CorrelationID string          `json:"correlation_id"`
	Producer      string          `json:"producer"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// Notification is the payload shape shared by all notification events.
// TicketID or PaymentID may be empty depending on the event type.
type Notification struct {
	UserID    string `json:"user_id"`
	TicketID  string `json:"ticket_id,omitempty"`
	PaymentID string `json:"payment_id,omitempty"`
}
