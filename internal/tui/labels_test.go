package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKnownEnumLabels(t *testing.T) {
	assert.Equal(t, "Single ride", ticketTypeLabel("single"))
	assert.Equal(t, "Month pass", ticketTypeLabel("monthly"))
	assert.Equal(t, "Apple Pay", paymentMethodLabel("apple_pay"))
	assert.Equal(t, "Pending payment", statusLabel("pending"))
	assert.Equal(t, "Cancelled", statusLabel("cancelled"))
}

func TestUnknownEnumValuesPassThrough(t *testing.T) {
	assert.Equal(t, "hoverboard", ticketTypeLabel("hoverboard"))
	assert.Equal(t, "crypto", paymentMethodLabel("crypto"))
	assert.Equal(t, "quarantined", statusLabel("quarantined"))
	assert.Equal(t, "", statusLabel(""))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "50 ₽", formatPrice(50))
	assert.Equal(t, "1500 ₽", formatPrice(1500))
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2025, 3, 9, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, ts.Local().Format("02.01.2006"), formatDate(ts))
}
