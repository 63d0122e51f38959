package payment

import "time"

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

const (
	MethodCard      = "card"
	MethodApplePay  = "apple_pay"
	MethodGooglePay = "google_pay"
)

// Payment is a charge against exactly one ticket. Amount is copied from
// the ticket at charge time, never taken from the request.
type Payment struct {
	ID            string    `json:"id"`
	TicketID      string    `json:"ticket_id"`
	UserID        string    `json:"-"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	TransactionID string    `json:"transaction_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
