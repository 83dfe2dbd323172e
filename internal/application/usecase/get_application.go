package usecase

import (
	"context"
	"fmt"

	"github.com/quickcash/loan-origination/internal/application/dto"
	"github.com/quickcash/loan-origination/internal/domain/model"
	"github.com/quickcash/loan-origination/internal/domain/port"
)

// GetApplicationUseCase retrieves a booked application, optionally with its
// repayment schedule expanded.
type GetApplicationUseCase struct {
	applications port.LoanApplicationRepository
}

// NewGetApplicationUseCase wires dependencies.
func NewGetApplicationUseCase(applications port.LoanApplicationRepository) *GetApplicationUseCase {
	return &GetApplicationUseCase{applications: applications}
}

// Execute loads an application by ID.
func (uc *GetApplicationUseCase) Execute(
	ctx context.Context,
	req dto.GetApplicationRequest,
) (dto.LoanApplicationResponse, error) {
	app, err := uc.applications.FindByID(ctx, req.ApplicationID)
	if err != nil {
		return dto.LoanApplicationResponse{}, fmt.Errorf("find application: %w", err)
	}

	resp := toApplicationResponse(app)
	if req.IncludeSchedule {
		schedule := model.GenerateRepaymentSchedule(model.LoanTerms{
			ApplicationID: app.ID(),
			Amount:        app.Amount(),
			InterestRate:  app.InterestRate(),
			TenureMonths:  app.TenureMonths(),
			MonthlyEMI:    app.MonthlyEMI(),
		}, app.CreatedAt())
		resp.Schedule = toScheduleResponse(schedule)
	}
	return resp, nil
}

func toApplicationResponse(app model.LoanApplication) dto.LoanApplicationResponse {
	return dto.LoanApplicationResponse{
		ID:             app.ID(),
		CustomerID:     app.CustomerID(),
		Amount:         app.Amount(),
		TenureMonths:   app.TenureMonths(),
		InterestRate:   app.InterestRate(),
		MonthlyEMI:     app.MonthlyEMI(),
		ProcessingFee:  app.ProcessingFee(),
		TotalRepayment: app.TotalRepayment(),
		ApprovalType:   app.ApprovalType(),
		CreditScore:    app.CreditScore(),
		Status:         app.Status().String(),
		CreatedAt:      app.CreatedAt(),
		UpdatedAt:      app.UpdatedAt(),
	}
}

func toScheduleResponse(schedule []model.RepaymentEntry) []dto.RepaymentEntryResponse {
	out := make([]dto.RepaymentEntryResponse, 0, len(schedule))
	for _, e := range schedule {
		out = append(out, dto.RepaymentEntryResponse{
			Period:           e.Period,
			DueDate:          e.DueDate,
			Principal:        e.Principal,
			Interest:         e.Interest,
			Total:            e.Total,
			RemainingBalance: e.RemainingBalance,
		})
	}
	return out
}
