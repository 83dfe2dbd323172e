package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// IncomeProvenance – immutable value object
// ---------------------------------------------------------------------------

// IncomeProvenance records which source a monthly income figure was resolved
// from. Sources form a strict trust order; the resolver always prefers the
// highest-trust source that is actually present.
type IncomeProvenance struct {
	value string
}

const (
	provenanceDocProvided      = "doc_provided"
	provenanceExplicitProvided = "explicit_provided"
	provenanceOCRExtracted     = "ocr_extracted"
	provenanceDBEstimate       = "db_estimate"
	provenanceDBDerived        = "db_derived"
	provenanceMissing          = "missing"
	provenanceInstantNoDoc     = "instant_no_doc"
)

var (
	ProvenanceDocProvided      = IncomeProvenance{value: provenanceDocProvided}
	ProvenanceExplicitProvided = IncomeProvenance{value: provenanceExplicitProvided}
	ProvenanceOCRExtracted     = IncomeProvenance{value: provenanceOCRExtracted}
	ProvenanceDBEstimate       = IncomeProvenance{value: provenanceDBEstimate}
	ProvenanceDBDerived        = IncomeProvenance{value: provenanceDBDerived}
	ProvenanceMissing          = IncomeProvenance{value: provenanceMissing}

	// ProvenanceInstantNoDoc marks an approval granted without any income
	// figure: the amount sat within the pre-approved limit, so no proof
	// was asked for. It is never produced by income resolution itself.
	ProvenanceInstantNoDoc = IncomeProvenance{value: provenanceInstantNoDoc}
)

var validProvenances = map[string]IncomeProvenance{
	provenanceDocProvided:      ProvenanceDocProvided,
	provenanceExplicitProvided: ProvenanceExplicitProvided,
	provenanceOCRExtracted:     ProvenanceOCRExtracted,
	provenanceDBEstimate:       ProvenanceDBEstimate,
	provenanceDBDerived:        ProvenanceDBDerived,
	provenanceMissing:          ProvenanceMissing,
	provenanceInstantNoDoc:     ProvenanceInstantNoDoc,
}

// NewIncomeProvenance creates an IncomeProvenance from a raw string.
func NewIncomeProvenance(s string) (IncomeProvenance, error) {
	v, ok := validProvenances[s]
	if !ok {
		return IncomeProvenance{}, fmt.Errorf("invalid income provenance: %q", s)
	}
	return v, nil
}

// String returns the string representation of the provenance.
func (p IncomeProvenance) String() string { return p.value }

// IsZero returns true if the provenance has not been initialised.
func (p IncomeProvenance) IsZero() bool { return p.value == "" }

// Equal returns true when both provenances carry the same value.
func (p IncomeProvenance) Equal(other IncomeProvenance) bool { return p.value == other.value }

// IsDocumentBacked reports whether the figure came from an uploaded salary
// slip, either structured or OCR extracted.
func (p IncomeProvenance) IsDocumentBacked() bool {
	return p.value == provenanceDocProvided || p.value == provenanceOCRExtracted
}
