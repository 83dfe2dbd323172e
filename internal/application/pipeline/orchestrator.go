package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/quickcash/loan-origination/internal/application/dto"
	"github.com/quickcash/loan-origination/internal/application/usecase"
)

// ---------------------------------------------------------------------------
// Orchestrator – sales -> verification -> underwriting -> sanction
// ---------------------------------------------------------------------------

// TurnResult is what one conversation turn produces for the channel layer.
type TurnResult struct {
	SessionID          string                            `json:"session_id"`
	Stage              string                            `json:"stage"`
	Message            string                            `json:"message"`
	Offer              *Offer                            `json:"offer,omitempty"`
	EstimatedEMI       decimal.Decimal                   `json:"estimated_emi,omitempty"`
	Verification       *VerificationResult               `json:"verification,omitempty"`
	Decision           *dto.UnderwritingDecisionResponse `json:"decision,omitempty"`
	Letter             *dto.SanctionLetterResponse       `json:"letter,omitempty"`
	AwaitingSalarySlip bool                              `json:"awaiting_salary_slip"`
}

// Stage names reported to the channel layer.
const (
	StageSales        = "sales"
	StageVerification = "verification"
	StageUnderwriting = "underwriting"
	StageSanction     = "sanction"
)

// Orchestrator drives the conversational origination flow. All state lives
// in explicit Session values; the stages and the engine stay stateless
// between calls.
type Orchestrator struct {
	sessions     *SessionStore
	sales        *SalesStage
	verification *VerificationStage
	evaluate     *usecase.EvaluateApplicationUseCase
	letters      *usecase.IssueSanctionLetterUseCase
	logger       *slog.Logger
}

// NewOrchestrator wires the stages.
func NewOrchestrator(
	sessions *SessionStore,
	sales *SalesStage,
	verification *VerificationStage,
	evaluate *usecase.EvaluateApplicationUseCase,
	letters *usecase.IssueSanctionLetterUseCase,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		sessions:     sessions,
		sales:        sales,
		verification: verification,
		evaluate:     evaluate,
		letters:      letters,
		logger:       logger,
	}
}

// StartConversation opens a session for a customer.
func (o *Orchestrator) StartConversation(ctx context.Context, customerID string) (TurnResult, error) {
	session := o.sessions.Create(customerID)
	res, err := o.sales.Quote(ctx, session, "")
	if err != nil {
		return TurnResult{}, err
	}
	return TurnResult{
		SessionID: session.ID,
		Stage:     StageSales,
		Message:   res.Message,
		Offer:     res.Offer,
	}, nil
}

// HandleMessage advances a conversation one turn.
func (o *Orchestrator) HandleMessage(ctx context.Context, sessionID, text string) (TurnResult, error) {
	session, err := o.sessions.Get(sessionID)
	if err != nil {
		return TurnResult{}, err
	}

	if session.AwaitingSalarySlip {
		return TurnResult{
			SessionID:          session.ID,
			Stage:              StageUnderwriting,
			Message:            "please upload your salary slip to continue with this application",
			AwaitingSalarySlip: true,
		}, nil
	}

	sales, err := o.sales.Quote(ctx, session, text)
	if err != nil {
		return TurnResult{}, err
	}

	session.RequestedAmount = sales.RequestedAmount
	session.TenureMonths = sales.RequestedTenure
	session.ReadyToProcess = sales.ReadyToProcess
	o.sessions.Save(session)

	// A parsed request plus an explicit go-ahead starts processing. The
	// go-ahead may arrive in a later turn than the figures.
	shouldProcess := session.HasParsedRequest() &&
		(sales.AutoStart || (session.ReadyToProcess && HasConfirmation(text)))
	if !shouldProcess {
		return TurnResult{
			SessionID:    session.ID,
			Stage:        StageSales,
			Message:      sales.Message,
			Offer:        sales.Offer,
			EstimatedEMI: sales.EstimatedEMI,
		}, nil
	}

	return o.process(ctx, session, nil)
}

// SubmitSalarySlip attaches an income document and re-runs the decision.
func (o *Orchestrator) SubmitSalarySlip(ctx context.Context, sessionID string, doc dto.DocumentPayload) (TurnResult, error) {
	session, err := o.sessions.Get(sessionID)
	if err != nil {
		return TurnResult{}, err
	}
	if !session.HasParsedRequest() {
		return TurnResult{
			SessionID: session.ID,
			Stage:     StageSales,
			Message:   "tell me the loan amount and tenure first, then upload the slip",
		}, nil
	}
	return o.process(ctx, session, &doc)
}

// process runs verification, underwriting, and sanction for a confirmed
// request. slip is non-nil on the re-submission path.
func (o *Orchestrator) process(ctx context.Context, session Session, slip *dto.DocumentPayload) (TurnResult, error) {
	verification, err := o.verification.Verify(ctx, session.CustomerID)
	if err != nil {
		return TurnResult{}, fmt.Errorf("verification stage: %w", err)
	}
	if !verification.Passed() {
		return TurnResult{
			SessionID:    session.ID,
			Stage:        StageVerification,
			Message:      verification.Message,
			Verification: &verification,
		}, nil
	}

	req := dto.EvaluateApplicationRequest{
		CustomerID:      session.CustomerID,
		RequestedAmount: session.RequestedAmount,
		TenureMonths:    session.TenureMonths,
		SalarySlip:      slip,
	}
	decision, err := o.evaluate.Execute(ctx, req)
	if err != nil {
		return TurnResult{}, fmt.Errorf("underwriting stage: %w", err)
	}

	result := TurnResult{
		SessionID:    session.ID,
		Stage:        StageUnderwriting,
		Message:      decision.Message,
		Verification: &verification,
		Decision:     &decision,
	}

	session.LastDecision = decision.Decision
	session.AwaitingSalarySlip = decision.Decision == "needs_salary_slip"
	result.AwaitingSalarySlip = session.AwaitingSalarySlip

	if decision.Decision == "approved" && decision.Terms != nil {
		session.ApplicationID = decision.Terms.ApplicationID
		letter, lerr := o.letters.Execute(ctx, dto.IssueSanctionLetterRequest{
			ApplicationID: decision.Terms.ApplicationID,
		})
		if lerr != nil {
			// The approval holds; the letter can be re-issued later.
			o.logger.Error("sanction letter generation failed",
				slog.String("application_id", decision.Terms.ApplicationID),
				slog.String("error", lerr.Error()))
			result.Message = decision.Message + " Your sanction letter will follow shortly."
		} else {
			result.Stage = StageSanction
			result.Letter = &letter
			result.Message = fmt.Sprintf(
				"Congratulations! Your loan %s is approved. Your sanction letter is ready.",
				letter.ApplicationID,
			)
		}
	}

	o.sessions.Save(session)
	return result, nil
}
