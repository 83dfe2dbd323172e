package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/quickcash/loan-origination/internal/domain/model"
	"github.com/quickcash/loan-origination/internal/domain/port"
	"github.com/quickcash/loan-origination/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// IncomeResolver – picks one monthly income figure from competing sources
// ---------------------------------------------------------------------------

// IncomeResolver walks the income sources in strict trust order and returns
// the first that yields a positive figure:
//
//	1. structured figure from an uploaded slip
//	2. figure the customer stated explicitly
//	3. OCR extraction from a raw slip
//	4. estimate on the request record
//	5. monthly figure derived from the profile's annual income
//
// When every source is empty the evidence is marked missing; the engine
// decides what that means, not the resolver.
type IncomeResolver struct {
	extractor port.IncomeExtractor
	logger    *slog.Logger
}

// NewIncomeResolver returns a resolver. The extractor may be nil, in which
// case raw slips are skipped.
func NewIncomeResolver(extractor port.IncomeExtractor, logger *slog.Logger) *IncomeResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &IncomeResolver{extractor: extractor, logger: logger}
}

// Resolve returns the highest-trust income evidence available for the
// request. profile may be nil when the customer is unknown.
func (r *IncomeResolver) Resolve(ctx context.Context, req model.LoanRequest, profile *model.CustomerProfile) model.IncomeEvidence {
	if req.DocMonthlySalary.GreaterThan(decimal.Zero) {
		return model.IncomeEvidence{
			MonthlyAmount: req.DocMonthlySalary,
			Provenance:    valueobject.ProvenanceDocProvided,
			Confidence:    req.DocConfidence,
			EvidenceText:  req.DocEvidenceText,
		}
	}

	if req.ExplicitMonthlySalary.GreaterThan(decimal.Zero) {
		return model.IncomeEvidence{
			MonthlyAmount: req.ExplicitMonthlySalary,
			Provenance:    valueobject.ProvenanceExplicitProvided,
		}
	}

	if req.SalarySlip != nil && r.extractor != nil {
		ex, err := r.extractor.Extract(ctx, *req.SalarySlip)
		switch {
		case err == nil && ex.MonthlyAmount.GreaterThan(decimal.Zero):
			return model.IncomeEvidence{
				MonthlyAmount: ex.MonthlyAmount,
				Provenance:    valueobject.ProvenanceOCRExtracted,
				Confidence:    ex.Confidence,
				EvidenceText:  ex.EvidenceText,
			}
		case err != nil && !errors.Is(err, port.ErrNoIncomeFound):
			r.logger.Warn("income extraction failed, falling through",
				slog.String("customer_id", req.CustomerID),
				slog.String("error", err.Error()))
		}
	}

	if req.DBEstimateMonthly.GreaterThan(decimal.Zero) {
		return model.IncomeEvidence{
			MonthlyAmount: req.DBEstimateMonthly,
			Provenance:    valueobject.ProvenanceDBEstimate,
		}
	}

	if profile != nil {
		if monthly := profile.MonthlyIncome(); monthly.GreaterThan(decimal.Zero) {
			return model.IncomeEvidence{
				MonthlyAmount: monthly,
				Provenance:    valueobject.ProvenanceDBDerived,
			}
		}
	}

	return model.MissingIncome()
}
