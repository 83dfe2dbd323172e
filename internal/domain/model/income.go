package model

import (
	"github.com/shopspring/decimal"

	"github.com/quickcash/loan-origination/internal/domain/valueobject"
)

// IncomeEvidence is the outcome of income resolution: one monthly figure,
// the source it was taken from, and how much the source is trusted.
type IncomeEvidence struct {
	MonthlyAmount decimal.Decimal
	Provenance    valueobject.IncomeProvenance
	Confidence    float64
	EvidenceText  string
}

// MissingIncome is the evidence returned when no source yielded a figure.
func MissingIncome() IncomeEvidence {
	return IncomeEvidence{Provenance: valueobject.ProvenanceMissing}
}

// Known reports whether a usable monthly figure was resolved.
func (e IncomeEvidence) Known() bool {
	return !e.Provenance.Equal(valueobject.ProvenanceMissing) &&
		e.MonthlyAmount.GreaterThan(decimal.Zero)
}

// Extraction is a raw income figure pulled out of an uploaded document
// before it is promoted to evidence.
type Extraction struct {
	MonthlyAmount decimal.Decimal
	Confidence    float64
	EvidenceText  string
}

// Document is an uploaded salary slip in whatever form the channel
// delivered it.
type Document struct {
	Name    string
	Content []byte
}

// Text returns the document body as text for extraction.
func (d Document) Text() string { return string(d.Content) }
