package gateway

import (
	"context"
	"math/rand"
	"strings"
	"sync"
)

// Result of a charge attempt. A declined charge is not an error: the
// gateway answered, it just said no.
type Result struct {
	TransactionID string
	Approved      bool
}

// Gateway is the payment-provider boundary. The only implementation is
// the simulator below; a real provider would live behind this interface.
type Gateway interface {
	Charge(ctx context.Context, amount float64, method string) (Result, error)
}

const txnAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Simulated approves charges with a fixed probability and mints TXN_
// transaction IDs, matching the behavior of the dev environment.
type Simulated struct {
	successRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulated(successRate float64, seed int64) *Simulated {
	return &Simulated{
		successRate: successRate,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (g *Simulated) Charge(ctx context.Context, amount float64, method string) (Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var sb strings.Builder
	sb.WriteString("TXN_")
	for i := 0; i < 12; i++ {
		sb.WriteByte(txnAlphabet[g.rng.Intn(len(txnAlphabet))])
	}

	return Result{
		TransactionID: sb.String(),
		Approved:      g.rng.Float64() < g.successRate,
	}, nil
}
