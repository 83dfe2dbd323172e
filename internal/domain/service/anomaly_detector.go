package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/quickcash/loan-origination/internal/domain/model"
)

// ---------------------------------------------------------------------------
// AnomalyDetector – advisory checks on income evidence
// ---------------------------------------------------------------------------

// AnomalyDetector inspects resolved income evidence against the profile on
// file. Findings are advisory only; the engine keeps its decision and routes
// flagged approvals to a human.
type AnomalyDetector struct {
	cfg AnomalyConfig
}

// AnomalyConfig holds the detector thresholds.
type AnomalyConfig struct {
	// MismatchRatio flags document income that is this many times larger
	// or smaller than the profile figure. Inclusive.
	MismatchRatio float64
	// MinConfidence flags extractions whose reader confidence is below
	// this value.
	MinConfidence float64
}

// DefaultAnomalyConfig returns the standard thresholds.
func DefaultAnomalyConfig() AnomalyConfig {
	return AnomalyConfig{
		MismatchRatio: 3.0,
		MinConfidence: 0.45,
	}
}

// NewAnomalyDetector creates a detector with the given thresholds.
func NewAnomalyDetector(cfg AnomalyConfig) *AnomalyDetector {
	return &AnomalyDetector{cfg: cfg}
}

// Inspect compares document-backed evidence with the profile-derived salary
// and checks extraction confidence. dbMonthly may be zero when the profile
// has no income on file; the mismatch check needs both sides.
func (d *AnomalyDetector) Inspect(evidence model.IncomeEvidence, dbMonthly decimal.Decimal) []model.Anomaly {
	var anomalies []model.Anomaly

	if evidence.Provenance.IsDocumentBacked() &&
		evidence.MonthlyAmount.GreaterThan(decimal.Zero) &&
		dbMonthly.GreaterThan(decimal.Zero) {
		doc := evidence.MonthlyAmount.InexactFloat64()
		db := dbMonthly.InexactFloat64()
		ratio := doc / db
		if ratio < 1 {
			ratio = db / doc
		}
		if ratio >= d.cfg.MismatchRatio {
			anomalies = append(anomalies, model.Anomaly{
				Type:     model.AnomalySalaryMismatch,
				DocValue: evidence.MonthlyAmount,
				DBValue:  dbMonthly,
				Ratio:    ratio,
				Detail:   fmt.Sprintf("document salary differs %.1fx from salary on file", ratio),
			})
		}
	}

	if evidence.Confidence > 0 && evidence.Confidence < d.cfg.MinConfidence {
		anomalies = append(anomalies, model.Anomaly{
			Type:       model.AnomalyLowOCRConfidence,
			DocValue:   evidence.MonthlyAmount,
			Confidence: evidence.Confidence,
			Detail:     fmt.Sprintf("extraction confidence %.2f below %.2f", evidence.Confidence, d.cfg.MinConfidence),
		})
	}

	return anomalies
}
