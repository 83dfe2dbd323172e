package pipeline

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrSessionNotFound is returned for unknown or expired conversation IDs.
var ErrSessionNotFound = errors.New("conversation session not found")

// Session is the explicit per-conversation state. It is owned by the
// orchestrator and passed into stages by value; stages never share ambient
// state.
type Session struct {
	ID         string
	CustomerID string

	// Parsed so far across turns.
	RequestedAmount decimal.Decimal
	TenureMonths    int

	// Flow flags.
	ReadyToProcess     bool
	AwaitingSalarySlip bool

	// Last terminal outcome, if any.
	LastDecision  string
	ApplicationID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasParsedRequest reports whether both amount and tenure are known.
func (s Session) HasParsedRequest() bool {
	return s.RequestedAmount.GreaterThan(decimal.Zero) && s.TenureMonths > 0
}

// SessionStore keeps live conversations in memory. The demo flow has no
// durability requirement for chat state; decisions themselves are persisted
// downstream.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewSessionStore returns an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]Session)}
}

// Create starts a session for a customer and returns it.
func (st *SessionStore) Create(customerID string) Session {
	now := time.Now().UTC()
	s := Session{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get returns a session by ID.
func (st *SessionStore) Get(id string) (Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

// Save stores an updated session.
func (st *SessionStore) Save(s Session) {
	s.UpdatedAt = time.Now().UTC()
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
}
