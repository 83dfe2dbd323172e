package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quickcash/loan-origination/internal/domain/model"
	"github.com/quickcash/loan-origination/internal/domain/port"
	"github.com/quickcash/loan-origination/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// UnderwritingEngine – rule-based credit decisioning
// ---------------------------------------------------------------------------

// EngineConfig carries the decisioning thresholds.
type EngineConfig struct {
	MinCreditScore int
	// CapMultiple bounds the request at a multiple of the pre-approved limit.
	CapMultiple int64
	// EMIIncomeCap is the largest acceptable instalment-to-income ratio.
	EMIIncomeCap float64
	// BureauTimeout bounds the optional credit score refresh.
	BureauTimeout time.Duration
}

// DefaultEngineConfig returns the standard thresholds: score 700, twice the
// pre-approved limit, instalment at half of monthly income.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MinCreditScore: 700,
		CapMultiple:    2,
		EMIIncomeCap:   0.5,
		BureauTimeout:  5 * time.Second,
	}
}

// UnderwritingEngine runs the decision gates in fixed order and never
// short-circuits into anything the order does not allow: an earlier gate's
// rejection wins outright, a later gate never runs after one fires.
type UnderwritingEngine struct {
	afford   *AffordabilityCalculator
	resolver *IncomeResolver
	detector *AnomalyDetector
	bureau   port.CreditBureauClient
	cfg      EngineConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewUnderwritingEngine returns an engine. bureau may be nil, in which case
// the score on the profile is used as-is.
func NewUnderwritingEngine(
	afford *AffordabilityCalculator,
	resolver *IncomeResolver,
	detector *AnomalyDetector,
	bureau port.CreditBureauClient,
	cfg EngineConfig,
	logger *slog.Logger,
) *UnderwritingEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &UnderwritingEngine{
		afford:   afford,
		resolver: resolver,
		detector: detector,
		bureau:   bureau,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Evaluate runs one underwriting pass. profile is nil when no customer
// record was found; that is itself the first gate, not an error.
func (e *UnderwritingEngine) Evaluate(ctx context.Context, req model.LoanRequest, profile *model.CustomerProfile) model.UnderwritingDecision {
	now := e.now()
	d := model.UnderwritingDecision{
		IncomeEvidence: model.MissingIncome(),
		EvaluatedAt:    now,
	}

	if profile == nil {
		d.Decision = valueobject.DecisionRejected
		d.Reasons = []valueobject.ReasonCode{valueobject.ReasonCustomerNotFound}
		d.Message = fmt.Sprintf("no customer record found for %q, registration is required before applying", req.CustomerID)
		return d
	}

	score := e.refreshedScore(ctx, *profile)
	d.CreditScoreUsed = score
	d.RequiresIncomeDoc = req.RequestedAmount.GreaterThan(profile.PreApprovedLimit)

	if score < e.cfg.MinCreditScore {
		d.Decision = valueobject.DecisionRejected
		d.Reasons = []valueobject.ReasonCode{valueobject.ReasonCreditScoreBelowMin}
		d.Message = fmt.Sprintf("credit score %d is below the minimum %d", score, e.cfg.MinCreditScore)
		return d
	}

	rate := e.afford.RateFor(req.RequestedAmount, profile.PreApprovedLimit)
	emi := e.afford.EMI(req.RequestedAmount, rate, req.TenureMonths)
	d.InterestRate = rate
	d.MonthlyEMI = emi

	if profile.HasPreApprovedLimit() {
		maxAmount := profile.PreApprovedLimit.Mul(decimal.NewFromInt(e.cfg.CapMultiple))
		if req.RequestedAmount.GreaterThan(maxAmount) {
			d.Decision = valueobject.DecisionRejected
			d.Reasons = []valueobject.ReasonCode{valueobject.ReasonAmountExceedsCap}
			d.Message = fmt.Sprintf("requested amount %s exceeds %dx the pre-approved limit %s",
				req.RequestedAmount.StringFixed(0), e.cfg.CapMultiple, profile.PreApprovedLimit.StringFixed(0))
			return d
		}
	}

	evidence := e.resolver.Resolve(ctx, req, profile)
	d.IncomeEvidence = evidence

	if !evidence.Known() {
		if d.RequiresIncomeDoc {
			d.Decision = valueobject.DecisionNeedsSalarySlip
			d.Reasons = []valueobject.ReasonCode{valueobject.ReasonSalarySlipRequired}
			d.Message = "a salary slip is required to verify income for this amount"
			return d
		}
		// Within the pre-approved limit no proof is needed. The
		// provenance marks the skipped income check on the record.
		d.IncomeEvidence.Provenance = valueobject.ProvenanceInstantNoDoc
		return e.approve(d, req, profile, rate, emi, model.ApprovalTypeInstant)
	}

	ratio, _ := e.afford.EMIToIncomeRatio(emi, evidence.MonthlyAmount)
	d.EMIToIncomeRatio = ratio

	half := evidence.MonthlyAmount.Mul(decimal.NewFromFloat(e.cfg.EMIIncomeCap))
	if emi.GreaterThan(half) {
		d.Decision = valueobject.DecisionRejected
		d.Reasons = []valueobject.ReasonCode{valueobject.ReasonEMIExceedsHalfSalary}
		d.Message = fmt.Sprintf("monthly instalment %s exceeds half of monthly income %s",
			emi.StringFixed(0), evidence.MonthlyAmount.StringFixed(0))
		return d
	}

	return e.approve(d, req, profile, rate, emi, model.ApprovalTypeIncomeChecked)
}

func (e *UnderwritingEngine) approve(
	d model.UnderwritingDecision,
	req model.LoanRequest,
	profile *model.CustomerProfile,
	rate float64,
	emi decimal.Decimal,
	approvalType string,
) model.UnderwritingDecision {
	d.Decision = valueobject.DecisionApproved
	d.ApprovalType = approvalType
	d.Terms = &model.LoanTerms{
		ApplicationID: model.NewApplicationID(d.EvaluatedAt),
		Amount:        req.RequestedAmount,
		InterestRate:  rate,
		TenureMonths:  req.TenureMonths,
		MonthlyEMI:    emi,
		ProcessingFee: e.afford.FeeFor(rate),
	}
	d.Message = fmt.Sprintf("approved at %.1f%% for %d months, monthly instalment %s",
		rate, req.TenureMonths, emi.StringFixed(0))

	// Anomalies never overturn the approval; they route it to a human.
	d.Anomalies = e.detector.Inspect(d.IncomeEvidence, profile.MonthlyIncome())
	d.FlagForManualReview = len(d.Anomalies) > 0
	if d.FlagForManualReview {
		e.logger.Info("approval flagged for manual review",
			slog.String("customer_id", req.CustomerID),
			slog.Any("anomalies", d.AnomalyTypes()))
	}
	return d
}

// refreshedScore asks the bureau for a current score, falling back to the
// profile's score on any failure.
func (e *UnderwritingEngine) refreshedScore(ctx context.Context, profile model.CustomerProfile) int {
	if e.bureau == nil {
		return profile.CreditScore
	}
	ctx, cancel := context.WithTimeout(ctx, e.cfg.BureauTimeout)
	defer cancel()

	score, err := e.bureau.GetCreditScore(ctx, profile.ID)
	if err != nil {
		e.logger.Warn("credit bureau refresh failed, using score on file",
			slog.String("customer_id", profile.ID),
			slog.Int("score_on_file", profile.CreditScore),
			slog.String("error", err.Error()))
		return profile.CreditScore
	}
	return score
}
