package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/quickcash/loan-origination/internal/application/dto"
	"github.com/quickcash/loan-origination/internal/domain/event"
	"github.com/quickcash/loan-origination/internal/domain/model"
	"github.com/quickcash/loan-origination/internal/domain/port"
	"github.com/quickcash/loan-origination/internal/domain/service"
	"github.com/quickcash/loan-origination/internal/domain/valueobject"
)

// EvaluateApplicationUseCase runs one underwriting pass: customer lookup,
// the decision engine, booking of clean approvals, and event publication.
// Flagged approvals are converted to manual review here so every surface
// reports the same terminal decision.
type EvaluateApplicationUseCase struct {
	customers    port.CustomerRepository
	applications port.LoanApplicationRepository
	publisher    port.EventPublisher
	reviews      port.ReviewStore
	engine       *service.UnderwritingEngine
	logger       *slog.Logger
	now          func() time.Time
}

// NewEvaluateApplicationUseCase wires dependencies. reviews may be nil, in
// which case flagged decisions are still converted but not archived.
func NewEvaluateApplicationUseCase(
	customers port.CustomerRepository,
	applications port.LoanApplicationRepository,
	publisher port.EventPublisher,
	reviews port.ReviewStore,
	engine *service.UnderwritingEngine,
	logger *slog.Logger,
) *EvaluateApplicationUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &EvaluateApplicationUseCase{
		customers:    customers,
		applications: applications,
		publisher:    publisher,
		reviews:      reviews,
		engine:       engine,
		logger:       logger,
		now:          time.Now,
	}
}

// Execute evaluates a request and applies the decision's side effects.
func (uc *EvaluateApplicationUseCase) Execute(
	ctx context.Context,
	req dto.EvaluateApplicationRequest,
) (dto.UnderwritingDecisionResponse, error) {
	now := uc.now().UTC()

	// 1. Load the profile. Absence is a decision input, not an error.
	var profile *model.CustomerProfile
	found, err := uc.customers.FindByID(ctx, req.CustomerID)
	switch {
	case err == nil:
		profile = &found
	case errors.Is(err, port.ErrCustomerNotFound):
	default:
		return dto.UnderwritingDecisionResponse{}, fmt.Errorf("load customer: %w", err)
	}

	// 2. Assemble the request and evaluate.
	decision := uc.engine.Evaluate(ctx, buildLoanRequest(req), profile)
	resp := toDecisionResponse(decision)

	// 3. Apply side effects for the decision.
	switch {
	case decision.Approved() && !decision.FlagForManualReview:
		app, err := model.NewLoanApplication(
			req.CustomerID, *decision.Terms, decision.ApprovalType, decision.CreditScoreUsed, now,
		)
		if err != nil {
			return dto.UnderwritingDecisionResponse{}, fmt.Errorf("book application: %w", err)
		}
		if err := uc.applications.Insert(ctx, app); err != nil {
			return dto.UnderwritingDecisionResponse{}, fmt.Errorf("insert application: %w", err)
		}
		uc.publish(ctx, app.DomainEvents()...)

	case decision.Approved() && decision.FlagForManualReview:
		// Approval stands in the decision model, but the customer-facing
		// outcome is a manual review with the offer withheld.
		snapshotID := uc.archiveForReview(ctx, decision, req.CustomerID, now)
		resp.Decision = valueobject.DecisionManualReview.String()
		resp.Message = "application routed to manual review"
		resp.ReviewSnapshotID = snapshotID
		resp.Terms = nil
		uc.publish(ctx, event.NewManualReviewFlagged(
			decision.Terms.ApplicationID, req.CustomerID, decision.AnomalyTypes(), snapshotID,
		))

	case decision.Decision.Equal(valueobject.DecisionNeedsSalarySlip):
		uc.publish(ctx, event.NewSalarySlipRequested(req.CustomerID, req.RequestedAmount))

	default:
		uc.publish(ctx, event.NewLoanApplicationRejected(
			req.CustomerID, req.RequestedAmount, resp.Reasons,
		))
	}

	return resp, nil
}

// archiveForReview snapshots the decision for a human underwriter. Losing
// the snapshot never fails the customer-facing flow.
func (uc *EvaluateApplicationUseCase) archiveForReview(
	ctx context.Context,
	decision model.UnderwritingDecision,
	customerID string,
	now time.Time,
) string {
	if uc.reviews == nil {
		return ""
	}
	snap := model.NewReviewSnapshot(uuid.New().String(), decision, customerID, now)
	id, err := uc.reviews.Save(ctx, snap)
	if err != nil {
		uc.logger.Error("review snapshot not saved",
			slog.String("customer_id", customerID),
			slog.String("error", err.Error()))
		return ""
	}
	return id
}

// publish sends events best effort. Decisions must hold even when the
// broker is down.
func (uc *EvaluateApplicationUseCase) publish(ctx context.Context, evs ...event.DomainEvent) {
	if uc.publisher == nil || len(evs) == 0 {
		return
	}
	if err := uc.publisher.Publish(ctx, evs...); err != nil {
		uc.logger.Error("event publish failed", slog.String("error", err.Error()))
	}
}

func buildLoanRequest(req dto.EvaluateApplicationRequest) model.LoanRequest {
	b := model.NewLoanRequestBuilder(req.CustomerID).
		Amount(req.RequestedAmount).
		Tenure(req.TenureMonths).
		DocumentSalary(req.DocMonthlySalary, req.DocConfidence, req.DocEvidenceText).
		ExplicitSalary(req.ExplicitMonthlySalary).
		DBEstimate(req.DBEstimateMonthly)
	if req.SalarySlip != nil {
		b.SalarySlip(model.Document{Name: req.SalarySlip.Name, Content: req.SalarySlip.Content})
	}
	return b.Build()
}

func toDecisionResponse(d model.UnderwritingDecision) dto.UnderwritingDecisionResponse {
	resp := dto.UnderwritingDecisionResponse{
		Decision:            d.Decision.String(),
		Message:             d.Message,
		ApprovalType:        d.ApprovalType,
		InterestRate:        d.InterestRate,
		MonthlyEMI:          d.MonthlyEMI,
		EMIToIncomeRatio:    d.EMIToIncomeRatio,
		IncomeMonthly:       d.IncomeEvidence.MonthlyAmount,
		IncomeProvenance:    d.IncomeEvidence.Provenance.String(),
		CreditScoreUsed:     d.CreditScoreUsed,
		RequiresIncomeDoc:   d.RequiresIncomeDoc,
		FlagForManualReview: d.FlagForManualReview,
		EvaluatedAt:         d.EvaluatedAt,
	}
	for _, r := range d.Reasons {
		resp.Reasons = append(resp.Reasons, r.String())
	}
	for _, a := range d.Anomalies {
		resp.Anomalies = append(resp.Anomalies, dto.AnomalyResponse{
			Type:       a.Type,
			DocValue:   a.DocValue,
			DBValue:    a.DBValue,
			Ratio:      a.Ratio,
			Confidence: a.Confidence,
			Detail:     a.Detail,
		})
	}
	if d.Terms != nil {
		resp.Terms = &dto.LoanTermsResponse{
			ApplicationID: d.Terms.ApplicationID,
			Amount:        d.Terms.Amount,
			InterestRate:  d.Terms.InterestRate,
			TenureMonths:  d.Terms.TenureMonths,
			MonthlyEMI:    d.Terms.MonthlyEMI,
			ProcessingFee: d.Terms.ProcessingFee,
		}
	}
	return resp
}
