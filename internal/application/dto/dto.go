package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// DocumentPayload is an uploaded salary slip.
type DocumentPayload struct {
	Name    string `json:"name"`
	Content []byte `json:"content"`
}

// EvaluateApplicationRequest carries everything one underwriting pass needs.
// All income fields are optional; zero means the source is absent.
type EvaluateApplicationRequest struct {
	CustomerID      string          `json:"customer_id"`
	RequestedAmount decimal.Decimal `json:"requested_amount"`
	TenureMonths    int             `json:"tenure_months"`

	DocMonthlySalary      decimal.Decimal  `json:"doc_monthly_salary,omitempty"`
	DocConfidence         float64          `json:"doc_confidence,omitempty"`
	DocEvidenceText       string           `json:"doc_evidence_text,omitempty"`
	ExplicitMonthlySalary decimal.Decimal  `json:"explicit_monthly_salary,omitempty"`
	DBEstimateMonthly     decimal.Decimal  `json:"db_estimate_monthly,omitempty"`
	SalarySlip            *DocumentPayload `json:"salary_slip,omitempty"`
}

// GetApplicationRequest identifies a booked application to retrieve.
type GetApplicationRequest struct {
	ApplicationID   string `json:"application_id"`
	IncludeSchedule bool   `json:"include_schedule,omitempty"`
}

// IssueSanctionLetterRequest identifies a booked application to letter.
type IssueSanctionLetterRequest struct {
	ApplicationID string `json:"application_id"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// AnomalyResponse is one advisory finding on the income evidence.
type AnomalyResponse struct {
	Type       string          `json:"type"`
	DocValue   decimal.Decimal `json:"doc_value,omitempty"`
	DBValue    decimal.Decimal `json:"db_value,omitempty"`
	Ratio      float64         `json:"ratio,omitempty"`
	Confidence float64         `json:"confidence,omitempty"`
	Detail     string          `json:"detail,omitempty"`
}

// LoanTermsResponse is the priced offer attached to an approval.
type LoanTermsResponse struct {
	ApplicationID string          `json:"application_id"`
	Amount        decimal.Decimal `json:"amount"`
	InterestRate  float64         `json:"interest_rate"`
	TenureMonths  int             `json:"tenure_months"`
	MonthlyEMI    decimal.Decimal `json:"monthly_emi"`
	ProcessingFee decimal.Decimal `json:"processing_fee"`
}

// UnderwritingDecisionResponse is the external representation of one
// underwriting pass.
type UnderwritingDecisionResponse struct {
	Decision            string             `json:"decision"`
	Reasons             []string           `json:"reasons,omitempty"`
	Message             string             `json:"message"`
	ApprovalType        string             `json:"approval_type,omitempty"`
	InterestRate        float64            `json:"interest_rate,omitempty"`
	MonthlyEMI          decimal.Decimal    `json:"monthly_emi,omitempty"`
	EMIToIncomeRatio    float64            `json:"emi_to_income_ratio,omitempty"`
	IncomeMonthly       decimal.Decimal    `json:"income_monthly,omitempty"`
	IncomeProvenance    string             `json:"income_provenance"`
	CreditScoreUsed     int                `json:"credit_score_used,omitempty"`
	RequiresIncomeDoc   bool               `json:"requires_income_doc"`
	Anomalies           []AnomalyResponse  `json:"anomalies,omitempty"`
	FlagForManualReview bool               `json:"flag_for_manual_review"`
	ReviewSnapshotID    string             `json:"review_snapshot_id,omitempty"`
	Terms               *LoanTermsResponse `json:"terms,omitempty"`
	EvaluatedAt         time.Time          `json:"evaluated_at"`
}

// RepaymentEntryResponse represents one repayment schedule entry.
type RepaymentEntryResponse struct {
	Period           int             `json:"period"`
	DueDate          time.Time       `json:"due_date"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         decimal.Decimal `json:"interest"`
	Total            decimal.Decimal `json:"total"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// LoanApplicationResponse is the external representation of a booked
// application.
type LoanApplicationResponse struct {
	ID             string                   `json:"id"`
	CustomerID     string                   `json:"customer_id"`
	Amount         decimal.Decimal          `json:"amount"`
	TenureMonths   int                      `json:"tenure_months"`
	InterestRate   float64                  `json:"interest_rate"`
	MonthlyEMI     decimal.Decimal          `json:"monthly_emi"`
	ProcessingFee  decimal.Decimal          `json:"processing_fee"`
	TotalRepayment decimal.Decimal          `json:"total_repayment"`
	ApprovalType   string                   `json:"approval_type"`
	CreditScore    int                      `json:"credit_score"`
	Status         string                   `json:"status"`
	Schedule       []RepaymentEntryResponse `json:"schedule,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

// SanctionLetterResponse is the rendered offer document.
type SanctionLetterResponse struct {
	ApplicationID  string          `json:"application_id"`
	CustomerName   string          `json:"customer_name"`
	Amount         decimal.Decimal `json:"amount"`
	InterestRate   float64         `json:"interest_rate"`
	TenureMonths   int             `json:"tenure_months"`
	MonthlyEMI     decimal.Decimal `json:"monthly_emi"`
	ProcessingFee  decimal.Decimal `json:"processing_fee"`
	TotalInterest  decimal.Decimal `json:"total_interest"`
	TotalRepayment decimal.Decimal `json:"total_repayment"`
	Body           string          `json:"body"`
	IssuedAt       time.Time       `json:"issued_at"`
	ValidUntil     time.Time       `json:"valid_until"`
}
