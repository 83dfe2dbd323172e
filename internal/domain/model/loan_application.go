package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quickcash/loan-origination/internal/domain/event"
	"github.com/quickcash/loan-origination/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// LoanApplication aggregate root
// ---------------------------------------------------------------------------

// LoanApplication is the booked record of an approved request. It is an
// immutable aggregate; every mutation returns a new copy. Rejections and
// document requests are never booked, so the aggregate has no pre-approval
// states.
type LoanApplication struct {
	id            string
	customerID    string
	amount        decimal.Decimal
	tenureMonths  int
	interestRate  float64
	monthlyEMI    decimal.Decimal
	processingFee decimal.Decimal
	approvalType  string
	creditScore   int
	status        valueobject.ApplicationStatus
	createdAt     time.Time
	updatedAt     time.Time
	domainEvents  []event.DomainEvent
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewLoanApplication books an approved offer and emits
// LoanApplicationApproved.
func NewLoanApplication(
	customerID string,
	terms LoanTerms,
	approvalType string,
	creditScore int,
	now time.Time,
) (LoanApplication, error) {
	if terms.ApplicationID == "" {
		return LoanApplication{}, errors.New("application ID is required")
	}
	if customerID == "" {
		return LoanApplication{}, errors.New("customer ID is required")
	}
	if terms.Amount.LessThanOrEqual(decimal.Zero) {
		return LoanApplication{}, errors.New("amount must be positive")
	}
	if terms.TenureMonths <= 0 {
		return LoanApplication{}, errors.New("tenure months must be positive")
	}

	app := LoanApplication{
		id:            terms.ApplicationID,
		customerID:    customerID,
		amount:        terms.Amount,
		tenureMonths:  terms.TenureMonths,
		interestRate:  terms.InterestRate,
		monthlyEMI:    terms.MonthlyEMI,
		processingFee: terms.ProcessingFee,
		approvalType:  approvalType,
		creditScore:   creditScore,
		status:        valueobject.ApplicationStatusApproved,
		createdAt:     now,
		updatedAt:     now,
	}

	approved := event.NewLoanApplicationApproved(
		terms.ApplicationID, customerID,
		terms.Amount, terms.TenureMonths,
		terms.InterestRate, terms.MonthlyEMI,
		approvalType, creditScore,
	)
	app.domainEvents = append(app.domainEvents, approved)
	return app, nil
}

// ReconstructLoanApplication rebuilds an aggregate from persistence without
// side-effects.
func ReconstructLoanApplication(
	id, customerID string,
	amount decimal.Decimal,
	tenureMonths int,
	interestRate float64,
	monthlyEMI, processingFee decimal.Decimal,
	approvalType string,
	creditScore int,
	status valueobject.ApplicationStatus,
	createdAt, updatedAt time.Time,
) LoanApplication {
	return LoanApplication{
		id:            id,
		customerID:    customerID,
		amount:        amount,
		tenureMonths:  tenureMonths,
		interestRate:  interestRate,
		monthlyEMI:    monthlyEMI,
		processingFee: processingFee,
		approvalType:  approvalType,
		creditScore:   creditScore,
		status:        status,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions (each returns a new copy)
// ---------------------------------------------------------------------------

// IssueSanctionLetter transitions APPROVED -> LETTER_ISSUED and emits
// SanctionLetterIssued.
func (a LoanApplication) IssueSanctionLetter(now time.Time) (LoanApplication, error) {
	if !a.status.Equal(valueobject.ApplicationStatusApproved) {
		return a, valueobject.ErrInvalidStatusTransition
	}
	next := a
	next.status = valueobject.ApplicationStatusLetterIssued
	next.updatedAt = now
	next.domainEvents = copyEvents(a.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewSanctionLetterIssued(a.id, a.customerID))
	return next, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (a LoanApplication) ID() string                            { return a.id }
func (a LoanApplication) CustomerID() string                    { return a.customerID }
func (a LoanApplication) Amount() decimal.Decimal               { return a.amount }
func (a LoanApplication) TenureMonths() int                     { return a.tenureMonths }
func (a LoanApplication) InterestRate() float64                 { return a.interestRate }
func (a LoanApplication) MonthlyEMI() decimal.Decimal           { return a.monthlyEMI }
func (a LoanApplication) ProcessingFee() decimal.Decimal        { return a.processingFee }
func (a LoanApplication) ApprovalType() string                  { return a.approvalType }
func (a LoanApplication) CreditScore() int                      { return a.creditScore }
func (a LoanApplication) Status() valueobject.ApplicationStatus { return a.status }
func (a LoanApplication) CreatedAt() time.Time                  { return a.createdAt }
func (a LoanApplication) UpdatedAt() time.Time                  { return a.updatedAt }
func (a LoanApplication) DomainEvents() []event.DomainEvent     { return a.domainEvents }

// TotalRepayment is the undiscounted sum of all instalments.
func (a LoanApplication) TotalRepayment() decimal.Decimal {
	return a.monthlyEMI.Mul(decimal.NewFromInt(int64(a.tenureMonths)))
}

// ClearEvents returns a copy with an empty event list (call after publishing).
func (a LoanApplication) ClearEvents() LoanApplication {
	next := a
	next.domainEvents = nil
	return next
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if len(src) == 0 {
		return nil
	}
	dst := make([]event.DomainEvent, len(src))
	copy(dst, src)
	return dst
}
