package event

import (
	"github.com/shopspring/decimal"

	"github.com/quickcash/loan-origination/internal/events"
)

// DomainEvent is an alias for the shared events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// ---------------------------------------------------------------------------
// Underwriting events
// ---------------------------------------------------------------------------

// LoanApplicationApproved is raised when underwriting approves a request and
// the application is booked.
type LoanApplicationApproved struct {
	events.BaseEvent
	CustomerID   string          `json:"customer_id"`
	Amount       decimal.Decimal `json:"amount"`
	TenureMonths int             `json:"tenure_months"`
	InterestRate float64         `json:"interest_rate"`
	MonthlyEMI   decimal.Decimal `json:"monthly_emi"`
	ApprovalType string          `json:"approval_type"`
	CreditScore  int             `json:"credit_score"`
}

func NewLoanApplicationApproved(
	applicationID, customerID string,
	amount decimal.Decimal, tenureMonths int,
	interestRate float64, monthlyEMI decimal.Decimal,
	approvalType string, creditScore int,
) LoanApplicationApproved {
	return LoanApplicationApproved{
		BaseEvent:    events.NewBaseEvent("origination.loan_application.approved", applicationID, "LoanApplication"),
		CustomerID:   customerID,
		Amount:       amount,
		TenureMonths: tenureMonths,
		InterestRate: interestRate,
		MonthlyEMI:   monthlyEMI,
		ApprovalType: approvalType,
		CreditScore:  creditScore,
	}
}

// LoanApplicationRejected is raised when underwriting terminally rejects a
// request. Rejections are not booked, so the customer is the aggregate.
type LoanApplicationRejected struct {
	events.BaseEvent
	Amount  decimal.Decimal `json:"amount"`
	Reasons []string        `json:"reasons"`
}

func NewLoanApplicationRejected(customerID string, amount decimal.Decimal, reasons []string) LoanApplicationRejected {
	return LoanApplicationRejected{
		BaseEvent: events.NewBaseEvent("origination.loan_application.rejected", customerID, "Customer"),
		Amount:    amount,
		Reasons:   reasons,
	}
}

// SalarySlipRequested is raised when underwriting cannot resolve an income
// figure and asks the customer for proof.
type SalarySlipRequested struct {
	events.BaseEvent
	Amount decimal.Decimal `json:"amount"`
}

func NewSalarySlipRequested(customerID string, amount decimal.Decimal) SalarySlipRequested {
	return SalarySlipRequested{
		BaseEvent: events.NewBaseEvent("origination.salary_slip.requested", customerID, "Customer"),
		Amount:    amount,
	}
}

// ManualReviewFlagged is raised when anomaly detection routes an otherwise
// approved request to a human underwriter.
type ManualReviewFlagged struct {
	events.BaseEvent
	CustomerID string   `json:"customer_id"`
	Anomalies  []string `json:"anomalies"`
	SnapshotID string   `json:"snapshot_id,omitempty"`
}

func NewManualReviewFlagged(applicationID, customerID string, anomalies []string, snapshotID string) ManualReviewFlagged {
	return ManualReviewFlagged{
		BaseEvent:  events.NewBaseEvent("origination.manual_review.flagged", applicationID, "LoanApplication"),
		CustomerID: customerID,
		Anomalies:  anomalies,
		SnapshotID: snapshotID,
	}
}

// SanctionLetterIssued is raised when a sanction letter is rendered for a
// booked application.
type SanctionLetterIssued struct {
	events.BaseEvent
	CustomerID string `json:"customer_id"`
}

func NewSanctionLetterIssued(applicationID, customerID string) SanctionLetterIssued {
	return SanctionLetterIssued{
		BaseEvent:  events.NewBaseEvent("origination.sanction_letter.issued", applicationID, "LoanApplication"),
		CustomerID: customerID,
	}
}
