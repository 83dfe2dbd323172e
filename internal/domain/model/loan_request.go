package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

const defaultTenureMonths = 36

// LoanRequest is the input to an underwriting evaluation. Income fields are
// optional; each corresponds to one source in the resolver's trust order,
// and a zero value means the source is absent.
type LoanRequest struct {
	CustomerID      string
	RequestedAmount decimal.Decimal
	TenureMonths    int

	// Structured figure read directly from an uploaded salary slip.
	DocMonthlySalary decimal.Decimal
	DocConfidence    float64
	DocEvidenceText  string

	// Figure the customer typed into the conversation.
	ExplicitMonthlySalary decimal.Decimal

	// Raw slip for OCR extraction when no structured figure came with it.
	SalarySlip *Document

	// Estimate carried on the loan request record itself, distinct from
	// the customer profile's annual income.
	DBEstimateMonthly decimal.Decimal
}

// LoanRequestBuilder assembles a LoanRequest from untrusted channel input.
// Every setter coerces its argument and silently drops figures that cannot
// be used, so a fully defaulted request is still evaluable.
type LoanRequestBuilder struct {
	req LoanRequest
}

// NewLoanRequestBuilder starts a request for the given customer.
func NewLoanRequestBuilder(customerID string) *LoanRequestBuilder {
	return &LoanRequestBuilder{req: LoanRequest{
		CustomerID:   strings.TrimSpace(customerID),
		TenureMonths: defaultTenureMonths,
	}}
}

// Amount sets the requested principal. Non-positive amounts are dropped.
func (b *LoanRequestBuilder) Amount(v decimal.Decimal) *LoanRequestBuilder {
	if v.GreaterThan(decimal.Zero) {
		b.req.RequestedAmount = v
	}
	return b
}

// Tenure sets the repayment term. Out-of-range terms fall back to the
// 36 month default.
func (b *LoanRequestBuilder) Tenure(months int) *LoanRequestBuilder {
	if months > 0 && months <= 360 {
		b.req.TenureMonths = months
	}
	return b
}

// DocumentSalary records a structured salary figure that arrived with an
// uploaded slip, together with the reader's confidence.
func (b *LoanRequestBuilder) DocumentSalary(monthly decimal.Decimal, confidence float64, evidence string) *LoanRequestBuilder {
	if monthly.GreaterThan(decimal.Zero) {
		b.req.DocMonthlySalary = monthly
		b.req.DocConfidence = confidence
		b.req.DocEvidenceText = evidence
	}
	return b
}

// ExplicitSalary records a monthly salary the customer stated directly.
func (b *LoanRequestBuilder) ExplicitSalary(monthly decimal.Decimal) *LoanRequestBuilder {
	if monthly.GreaterThan(decimal.Zero) {
		b.req.ExplicitMonthlySalary = monthly
	}
	return b
}

// SalarySlip attaches a raw document for OCR extraction.
func (b *LoanRequestBuilder) SalarySlip(doc Document) *LoanRequestBuilder {
	if len(doc.Content) > 0 {
		b.req.SalarySlip = &doc
	}
	return b
}

// DBEstimate records a monthly income estimate already attached to the
// request record.
func (b *LoanRequestBuilder) DBEstimate(monthly decimal.Decimal) *LoanRequestBuilder {
	if monthly.GreaterThan(decimal.Zero) {
		b.req.DBEstimateMonthly = monthly
	}
	return b
}

// Build returns the assembled request.
func (b *LoanRequestBuilder) Build() LoanRequest { return b.req }

// CoerceAmount parses a free-text money figure. It strips currency symbols,
// commas and whitespace, and refuses strings that look like phone numbers
// rather than amounts.
func CoerceAmount(s string) (decimal.Decimal, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.':
			return r
		default:
			return -1
		}
	}, s)
	if cleaned == "" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(cleaned)
	if err != nil || v.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, false
	}
	// Ten or more digits before the point is a phone number, not money.
	intDigits := len(v.BigInt().String())
	if intDigits >= 10 {
		return decimal.Zero, false
	}
	return v, true
}
