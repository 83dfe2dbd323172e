package adapter

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand"
	"time"
)

// Bureau identifies a credit bureau provider.
type Bureau string

const (
	BureauCIBIL    Bureau = "CIBIL"
	BureauExperian Bureau = "EXPERIAN"
	BureauCRIF     Bureau = "CRIF"
)

// CreditBureauConfig holds configuration for the credit bureau adapter.
type CreditBureauConfig struct {
	// PrimaryBureau is the preferred bureau for score pulls.
	PrimaryBureau Bureau
	// BaseURL is the base URL for the bureau API.
	BaseURL string
	// APIKey is the authentication credential for the bureau API.
	APIKey string
	// TimeoutSeconds is the HTTP client timeout.
	TimeoutSeconds int
	// MaxRetries is the maximum number of retry attempts on transient failures.
	MaxRetries int
	// RetryBackoffMs is the base backoff duration in milliseconds between retries.
	RetryBackoffMs int
}

// DefaultCreditBureauConfig returns sensible defaults for development.
func DefaultCreditBureauConfig() CreditBureauConfig {
	return CreditBureauConfig{
		PrimaryBureau:  BureauCIBIL,
		BaseURL:        "https://api.creditbureau.example.com",
		APIKey:         "dev-api-key",
		TimeoutSeconds: 10,
		MaxRetries:     3,
		RetryBackoffMs: 200,
	}
}

// ScorePull is a parsed score response from a bureau.
type ScorePull struct {
	Bureau     Bureau
	CustomerID string
	Score      int
	ScoreModel string
	PulledAt   time.Time
	Inquiries  int
	DerogCount int
}

// BureauHTTPClient makes score requests against a bureau API. It exists so
// tests can substitute canned responses.
type BureauHTTPClient interface {
	FetchScore(ctx context.Context, bureau Bureau, customerID string) (ScorePull, error)
}

// CreditBureauAdapter implements port.CreditBureauClient. With a real
// BureauHTTPClient it calls the bureau API with retries; without one it
// returns deterministic simulated scores, which is what development and the
// demo environment run on.
type CreditBureauAdapter struct {
	config CreditBureauConfig
	client BureauHTTPClient // nil = simulated responses
}

// NewCreditBureauAdapter creates a new adapter. A nil client selects the
// simulated mode.
func NewCreditBureauAdapter(config CreditBureauConfig, client BureauHTTPClient) *CreditBureauAdapter {
	return &CreditBureauAdapter{
		config: config,
		client: client,
	}
}

// GetCreditScore retrieves the customer's bureau score.
func (a *CreditBureauAdapter) GetCreditScore(ctx context.Context, customerID string) (int, error) {
	if customerID == "" {
		return 0, fmt.Errorf("customer ID is required")
	}

	if a.client != nil {
		pull, err := a.fetchWithRetry(ctx, customerID)
		if err != nil {
			return 0, fmt.Errorf("credit bureau request failed: %w", err)
		}
		return pull.Score, nil
	}

	return a.simulateScorePull(customerID).Score, nil
}

// GetScorePull retrieves the full pull, with inquiry and derogatory counts.
// Not part of the minimal port; the review tooling uses it.
func (a *CreditBureauAdapter) GetScorePull(ctx context.Context, customerID string) (ScorePull, error) {
	if customerID == "" {
		return ScorePull{}, fmt.Errorf("customer ID is required")
	}

	if a.client != nil {
		return a.fetchWithRetry(ctx, customerID)
	}

	return a.simulateScorePull(customerID), nil
}

// fetchWithRetry calls the bureau API with exponential backoff.
func (a *CreditBureauAdapter) fetchWithRetry(ctx context.Context, customerID string) (ScorePull, error) {
	var lastErr error

	for attempt := 0; attempt <= a.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(a.config.RetryBackoffMs) * time.Millisecond * (1 << uint(attempt-1))
			jitter := time.Duration(rand.Int63n(int64(backoff) / 2))
			select {
			case <-ctx.Done():
				return ScorePull{}, ctx.Err()
			case <-time.After(backoff + jitter):
			}
		}

		pull, err := a.client.FetchScore(ctx, a.config.PrimaryBureau, customerID)
		if err == nil {
			return pull, nil
		}
		lastErr = err
	}

	return ScorePull{}, fmt.Errorf("exhausted %d retries: %w", a.config.MaxRetries, lastErr)
}

// simulateScorePull derives a reproducible score in the 300..900 band from
// the customer ID hash.
func (a *CreditBureauAdapter) simulateScorePull(customerID string) ScorePull {
	h := sha256.Sum256([]byte(customerID))
	score := 300 + int(binary.BigEndian.Uint32(h[:4])%601)

	scoreModel := "CIBIL-TransUnion-3"
	if a.config.PrimaryBureau != BureauCIBIL {
		scoreModel = string(a.config.PrimaryBureau) + "-v2"
	}

	return ScorePull{
		Bureau:     a.config.PrimaryBureau,
		CustomerID: customerID,
		Score:      score,
		ScoreModel: scoreModel,
		PulledAt:   time.Now().UTC(),
		Inquiries:  int(binary.BigEndian.Uint16(h[4:6]) % 10),
		DerogCount: int(binary.BigEndian.Uint16(h[6:8]) % 5),
	}
}
