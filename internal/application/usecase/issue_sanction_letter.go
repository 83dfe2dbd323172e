package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quickcash/loan-origination/internal/application/dto"
	"github.com/quickcash/loan-origination/internal/domain/model"
	"github.com/quickcash/loan-origination/internal/domain/port"
)

// LetterRenderer produces the sanction letter document for a booked
// application.
type LetterRenderer interface {
	Render(app model.LoanApplication, customer model.CustomerProfile, now time.Time) model.SanctionLetter
}

// IssueSanctionLetterUseCase renders the offer document for a booked
// application and records the issuance.
type IssueSanctionLetterUseCase struct {
	applications port.LoanApplicationRepository
	customers    port.CustomerRepository
	renderer     LetterRenderer
	publisher    port.EventPublisher
	logger       *slog.Logger
	now          func() time.Time
}

// NewIssueSanctionLetterUseCase wires dependencies.
func NewIssueSanctionLetterUseCase(
	applications port.LoanApplicationRepository,
	customers port.CustomerRepository,
	renderer LetterRenderer,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *IssueSanctionLetterUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &IssueSanctionLetterUseCase{
		applications: applications,
		customers:    customers,
		renderer:     renderer,
		publisher:    publisher,
		logger:       logger,
		now:          time.Now,
	}
}

// Execute renders a sanction letter for the application.
func (uc *IssueSanctionLetterUseCase) Execute(
	ctx context.Context,
	req dto.IssueSanctionLetterRequest,
) (dto.SanctionLetterResponse, error) {
	now := uc.now().UTC()

	app, err := uc.applications.FindByID(ctx, req.ApplicationID)
	if err != nil {
		return dto.SanctionLetterResponse{}, fmt.Errorf("find application: %w", err)
	}
	customer, err := uc.customers.FindByID(ctx, app.CustomerID())
	if err != nil {
		return dto.SanctionLetterResponse{}, fmt.Errorf("load customer: %w", err)
	}

	issued, err := app.IssueSanctionLetter(now)
	if err != nil {
		return dto.SanctionLetterResponse{}, fmt.Errorf("issue letter: %w", err)
	}

	letter := uc.renderer.Render(issued, customer, now)

	if uc.publisher != nil {
		if perr := uc.publisher.Publish(ctx, issued.DomainEvents()...); perr != nil {
			uc.logger.Error("event publish failed", slog.String("error", perr.Error()))
		}
	}

	return toLetterResponse(letter), nil
}

func toLetterResponse(letter model.SanctionLetter) dto.SanctionLetterResponse {
	return dto.SanctionLetterResponse{
		ApplicationID:  letter.ApplicationID,
		CustomerName:   letter.CustomerName,
		Amount:         letter.Amount,
		InterestRate:   letter.InterestRate,
		TenureMonths:   letter.TenureMonths,
		MonthlyEMI:     letter.MonthlyEMI,
		ProcessingFee:  letter.ProcessingFee,
		TotalInterest:  letter.TotalInterest,
		TotalRepayment: letter.TotalRepayment,
		Body:           letter.Body,
		IssuedAt:       letter.IssuedAt,
		ValidUntil:     letter.ValidUntil,
	}
}
