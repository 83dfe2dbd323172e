package port

import (
	"context"
	"errors"

	"github.com/quickcash/loan-origination/internal/domain/event"
	"github.com/quickcash/loan-origination/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	// ErrCustomerNotFound is returned when no profile exists for an ID.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrApplicationNotFound is returned when no booked application exists
	// for an ID.
	ErrApplicationNotFound = errors.New("loan application not found")

	// ErrNoIncomeFound is returned by extractors when a document yields no
	// usable income figure.
	ErrNoIncomeFound = errors.New("no income figure found in document")
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// CustomerRepository retrieves pre-approved customer profiles.
type CustomerRepository interface {
	FindByID(ctx context.Context, id string) (model.CustomerProfile, error)
	FindByPhone(ctx context.Context, phone string) (model.CustomerProfile, error)
}

// LoanApplicationRepository persists and retrieves booked applications.
// Applications are insert-only; decisions are never amended in place.
type LoanApplicationRepository interface {
	Insert(ctx context.Context, app model.LoanApplication) error
	FindByID(ctx context.Context, id string) (model.LoanApplication, error)
	FindByCustomerID(ctx context.Context, customerID string) ([]model.LoanApplication, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// External service ports
// ---------------------------------------------------------------------------

// CreditBureauClient refreshes credit scores from an external bureau.
type CreditBureauClient interface {
	GetCreditScore(ctx context.Context, customerID string) (int, error)
}

// IncomeExtractor pulls a monthly income figure out of an uploaded salary
// slip. Returns ErrNoIncomeFound when nothing usable is in the document.
type IncomeExtractor interface {
	Extract(ctx context.Context, doc model.Document) (model.Extraction, error)
}

// CRMClient reports identity document status for a customer.
type CRMClient interface {
	GetKYCStatus(ctx context.Context, customerID string) (model.KYCStatus, error)
}

// ReviewStore archives decision snapshots for manual review.
type ReviewStore interface {
	Save(ctx context.Context, snap model.ReviewSnapshot) (string, error)
	Get(ctx context.Context, snapshotID string) (model.ReviewSnapshot, error)
}
