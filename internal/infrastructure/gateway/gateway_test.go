package gateway

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var txnPattern = regexp.MustCompile(`^TXN_[A-Z0-9]{12}$`)

func TestChargeAlwaysApproves(t *testing.T) {
	g := NewSimulated(1.0, 1)

	for i := 0; i < 20; i++ {
		res, err := g.Charge(context.Background(), 50, "card")
		require.NoError(t, err)
		assert.True(t, res.Approved)
		assert.Regexp(t, txnPattern, res.TransactionID)
	}
}

func TestChargeAlwaysDeclines(t *testing.T) {
	g := NewSimulated(0, 1)

	for i := 0; i < 20; i++ {
		res, err := g.Charge(context.Background(), 50, "card")
		require.NoError(t, err)
		assert.False(t, res.Approved)
		assert.Regexp(t, txnPattern, res.TransactionID, "declined charges still get a transaction id")
	}
}

func TestTransactionIDsAreUnique(t *testing.T) {
	g := NewSimulated(0.8, 42)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		res, err := g.Charge(context.Background(), 50, "card")
		require.NoError(t, err)
		assert.False(t, seen[res.TransactionID])
		seen[res.TransactionID] = true
	}
}
