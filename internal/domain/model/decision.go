package model

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quickcash/loan-origination/internal/domain/valueobject"
)

// Approval types distinguish how an approval was earned.
const (
	ApprovalTypeIncomeChecked = "income_check_passed"
	ApprovalTypeInstant       = "instant"
)

// Anomaly types emitted by anomaly detection.
const (
	AnomalySalaryMismatch   = "salary_mismatch"
	AnomalyLowOCRConfidence = "low_ocr_confidence"
)

// Anomaly is an advisory finding about the income evidence. Anomalies never
// change the decision on their own; they flag it for a human.
type Anomaly struct {
	Type       string
	DocValue   decimal.Decimal
	DBValue    decimal.Decimal
	Ratio      float64
	Confidence float64
	Detail     string
}

// LoanTerms is the priced offer attached to an approval.
type LoanTerms struct {
	ApplicationID string
	Amount        decimal.Decimal
	InterestRate  float64
	TenureMonths  int
	MonthlyEMI    decimal.Decimal
	ProcessingFee decimal.Decimal
}

// UnderwritingDecision is the full outcome of one evaluation. Terms is
// non-nil exactly when the decision is approved. EMIToIncomeRatio is
// populated only when income evidence was resolved.
type UnderwritingDecision struct {
	Decision            valueobject.Decision
	Reasons             []valueobject.ReasonCode
	Message             string
	ApprovalType        string
	InterestRate        float64
	MonthlyEMI          decimal.Decimal
	EMIToIncomeRatio    float64
	IncomeEvidence      IncomeEvidence
	CreditScoreUsed     int
	RequiresIncomeDoc   bool
	Anomalies           []Anomaly
	FlagForManualReview bool
	Terms               *LoanTerms
	EvaluatedAt         time.Time
}

// Approved reports whether underwriting approved the request, regardless of
// any manual-review flag.
func (d UnderwritingDecision) Approved() bool {
	return d.Decision.Equal(valueobject.DecisionApproved)
}

// AnomalyTypes returns the anomaly type names in detection order.
func (d UnderwritingDecision) AnomalyTypes() []string {
	if len(d.Anomalies) == 0 {
		return nil
	}
	types := make([]string, len(d.Anomalies))
	for i, a := range d.Anomalies {
		types[i] = a.Type
	}
	return types
}

// NewApplicationID mints a human-quotable application reference. Millisecond
// timestamps keep references sortable; the suffix disambiguates bursts.
func NewApplicationID(now time.Time) string {
	return fmt.Sprintf("LOAN%d%03d", now.UnixMilli(), rand.Intn(1000))
}
