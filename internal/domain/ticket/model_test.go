package ticket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPriceFor(t *testing.T) {
	assert.Equal(t, 50.0, PriceFor(TypeSingle))
	assert.Equal(t, 150.0, PriceFor(TypeDaily))
	assert.Equal(t, 500.0, PriceFor(TypeWeekly))
	assert.Equal(t, 1500.0, PriceFor(TypeMonthly))
}

func TestPriceForUnknownTypeFallsBackToSingle(t *testing.T) {
	assert.Equal(t, PriceFor(TypeSingle), PriceFor("quarterly"))
	assert.Equal(t, PriceFor(TypeSingle), PriceFor(""))
}

func TestValidityFor(t *testing.T) {
	assert.Equal(t, 2*time.Hour, ValidityFor(TypeSingle))
	assert.Equal(t, 24*time.Hour, ValidityFor(TypeDaily))
	assert.Equal(t, 7*24*time.Hour, ValidityFor(TypeWeekly))
	assert.Equal(t, 30*24*time.Hour, ValidityFor(TypeMonthly))
	assert.Equal(t, ValidityFor(TypeSingle), ValidityFor("quarterly"))
}
