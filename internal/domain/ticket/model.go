package ticket

import "time"

// Ticket statuses. A ticket is created pending and becomes active only
// after its payment completes; a declined payment cancels it.
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusUsed      = "used"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"
)

const (
	TypeSingle  = "single"
	TypeDaily   = "daily"
	TypeWeekly  = "weekly"
	TypeMonthly = "monthly"
)

type Ticket struct {
	ID         string     `json:"id"`
	UserID     string     `json:"-"`
	TicketType string     `json:"ticket_type"`
	Route      string     `json:"route"`
	Price      float64    `json:"price"`
	Status     string     `json:"status"`
	QRCode     string     `json:"qr_code,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`
}

var prices = map[string]float64{
	TypeSingle:  50,
	TypeDaily:   150,
	TypeWeekly:  500,
	TypeMonthly: 1500,
}

var validity = map[string]time.Duration{
	TypeSingle:  2 * time.Hour,
	TypeDaily:   24 * time.Hour,
	TypeWeekly:  7 * 24 * time.Hour,
	TypeMonthly: 30 * 24 * time.Hour,
}

// PriceFor returns the fare for a ticket type. Unknown types fall back
// to the single-ride fare.
func PriceFor(ticketType string) float64 {
	if p, ok := prices[ticketType]; ok {
		return p
	}
	return prices[TypeSingle]
}

// ValidityFor returns how long a ticket of the given type stays valid
// after purchase. Unknown types get the single-ride window.
func ValidityFor(ticketType string) time.Duration {
	if d, ok := validity[ticketType]; ok {
		return d
	}
	return validity[TypeSingle]
}
