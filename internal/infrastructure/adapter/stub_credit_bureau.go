package adapter

import (
	"context"
	"fmt"
	"sync"
)

// StubCreditBureauClient is a development/test adapter with a fixed score
// book. Customers not in the book get an error, which the engine treats as
// bureau-unavailable and falls back to the score on file.
// It implements port.CreditBureauClient.
type StubCreditBureauClient struct {
	mu     sync.RWMutex
	scores map[string]int
}

// NewStubCreditBureauClient creates a stub with the given score book. A nil
// book is allowed; every pull then fails over to the profile score.
func NewStubCreditBureauClient(scores map[string]int) *StubCreditBureauClient {
	if scores == nil {
		scores = make(map[string]int)
	}
	return &StubCreditBureauClient{scores: scores}
}

// SetScore pins a score for a customer.
func (c *StubCreditBureauClient) SetScore(customerID string, score int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scores[customerID] = score
}

// GetCreditScore returns the pinned score for the customer.
func (c *StubCreditBureauClient) GetCreditScore(_ context.Context, customerID string) (int, error) {
	if customerID == "" {
		return 0, fmt.Errorf("customer ID is required")
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	score, ok := c.scores[customerID]
	if !ok {
		return 0, fmt.Errorf("no bureau record for customer %s", customerID)
	}
	return score, nil
}
