package tui

import (
	"fmt"
	"time"
)

// Display labels for wire enums. Unknown values render as-is so new
// server-side values degrade to their raw name instead of breaking the
// client.

var ticketTypeLabels = map[string]string{
	"single":  "Single ride",
	"daily":   "Day pass",
	"weekly":  "Week pass",
	"monthly": "Month pass",
}

var paymentMethodLabels = map[string]string{
	"card":       "Bank card",
	"apple_pay":  "Apple Pay",
	"google_pay": "Google Pay",
}

var statusLabels = map[string]string{
	"active":    "Active",
	"used":      "Used",
	"pending":   "Pending payment",
	"expired":   "Expired",
	"completed": "Completed",
	"failed":    "Failed",
	"cancelled": "Cancelled",
}

func ticketTypeLabel(ticketType string) string {
	if label, ok := ticketTypeLabels[ticketType]; ok {
		return label
	}
	return ticketType
}

func paymentMethodLabel(method string) string {
	if label, ok := paymentMethodLabels[method]; ok {
		return label
	}
	return method
}

func statusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

func formatPrice(amount float64) string {
	return fmt.Sprintf("%.0f ₽", amount)
}

func formatDate(t time.Time) string {
	return t.Local().Format("02.01.2006")
}

func formatDateTime(t time.Time) string {
	return t.Local().Format("02.01.2006 15:04")
}
