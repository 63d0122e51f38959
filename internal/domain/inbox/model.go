package inbox

import "time"

// Event records a consumed notification for deduplication (inbox
// pattern): the notifier stores processed event IDs per consumer name.
type Event struct {
	Consumer      string    `json:"consumer"`
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	CorrelationID string    `json:"correlation_id"`
	ProcessedAt   time.Time `json:"processed_at"`
}
