package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SanctionLetter is the rendered offer document for a booked application.
type SanctionLetter struct {
	ApplicationID  string
	CustomerName   string
	Amount         decimal.Decimal
	InterestRate   float64
	TenureMonths   int
	MonthlyEMI     decimal.Decimal
	ProcessingFee  decimal.Decimal
	TotalInterest  decimal.Decimal
	TotalRepayment decimal.Decimal
	Body           string
	IssuedAt       time.Time
	ValidUntil     time.Time
}

// ReviewSnapshot captures everything a human underwriter needs to revisit a
// flagged decision. Saved best effort; losing a snapshot never fails the
// customer-facing flow.
type ReviewSnapshot struct {
	SnapshotID    string          `json:"snapshot_id"`
	ApplicationID string          `json:"application_id,omitempty"`
	CustomerID    string          `json:"customer_id"`
	Decision      string          `json:"decision"`
	Reasons       []string        `json:"reasons,omitempty"`
	Anomalies     []AnomalyRecord `json:"anomalies"`
	Income        IncomeRecord    `json:"income"`
	Terms         *TermsRecord    `json:"terms,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// AnomalyRecord is the serialized form of an Anomaly.
type AnomalyRecord struct {
	Type       string  `json:"type"`
	DocValue   string  `json:"doc_value,omitempty"`
	DBValue    string  `json:"db_value,omitempty"`
	Ratio      float64 `json:"ratio,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Detail     string  `json:"detail,omitempty"`
}

// IncomeRecord is the serialized form of resolved income evidence.
type IncomeRecord struct {
	MonthlyAmount string  `json:"monthly_amount"`
	Provenance    string  `json:"provenance"`
	Confidence    float64 `json:"confidence,omitempty"`
	EvidenceText  string  `json:"evidence_text,omitempty"`
}

// TermsRecord is the serialized form of priced loan terms.
type TermsRecord struct {
	Amount        string  `json:"amount"`
	InterestRate  float64 `json:"interest_rate"`
	TenureMonths  int     `json:"tenure_months"`
	MonthlyEMI    string  `json:"monthly_emi"`
	ProcessingFee string  `json:"processing_fee"`
}

// NewReviewSnapshot freezes a decision for manual review.
func NewReviewSnapshot(snapshotID string, d UnderwritingDecision, customerID string, now time.Time) ReviewSnapshot {
	snap := ReviewSnapshot{
		SnapshotID: snapshotID,
		CustomerID: customerID,
		Decision:   d.Decision.String(),
		CreatedAt:  now,
		Income: IncomeRecord{
			MonthlyAmount: d.IncomeEvidence.MonthlyAmount.String(),
			Provenance:    d.IncomeEvidence.Provenance.String(),
			Confidence:    d.IncomeEvidence.Confidence,
			EvidenceText:  d.IncomeEvidence.EvidenceText,
		},
	}
	for _, r := range d.Reasons {
		snap.Reasons = append(snap.Reasons, r.String())
	}
	for _, a := range d.Anomalies {
		snap.Anomalies = append(snap.Anomalies, AnomalyRecord{
			Type:       a.Type,
			DocValue:   a.DocValue.String(),
			DBValue:    a.DBValue.String(),
			Ratio:      a.Ratio,
			Confidence: a.Confidence,
			Detail:     a.Detail,
		})
	}
	if d.Terms != nil {
		snap.ApplicationID = d.Terms.ApplicationID
		snap.Terms = &TermsRecord{
			Amount:        d.Terms.Amount.String(),
			InterestRate:  d.Terms.InterestRate,
			TenureMonths:  d.Terms.TenureMonths,
			MonthlyEMI:    d.Terms.MonthlyEMI.String(),
			ProcessingFee: d.Terms.ProcessingFee.String(),
		}
	}
	return snap
}
