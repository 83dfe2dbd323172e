package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/quickcash/loan-origination/internal/application/dto"
	"github.com/quickcash/loan-origination/internal/application/usecase"
	"github.com/quickcash/loan-origination/internal/domain/model"
	"github.com/quickcash/loan-origination/internal/domain/port"
	"github.com/quickcash/loan-origination/internal/domain/valueobject"
)

// OriginationHandler exposes underwriting operations over gRPC.
type OriginationHandler struct {
	UnimplementedUnderwritingServiceServer

	evaluate *usecase.EvaluateApplicationUseCase
	getApp   *usecase.GetApplicationUseCase
	letters  *usecase.IssueSanctionLetterUseCase
}

// NewOriginationHandler creates the handler with its use-case dependencies.
func NewOriginationHandler(
	evaluate *usecase.EvaluateApplicationUseCase,
	getApp *usecase.GetApplicationUseCase,
	letters *usecase.IssueSanctionLetterUseCase,
) *OriginationHandler {
	return &OriginationHandler{
		evaluate: evaluate,
		getApp:   getApp,
		letters:  letters,
	}
}

// Underwrite runs one decision pass for a customer.
func (h *OriginationHandler) Underwrite(ctx context.Context, req *UnderwriteRequest) (*UnderwriteResponse, error) {
	if req.CustomerID == "" {
		return nil, status.Error(codes.InvalidArgument, "customer_id is required")
	}
	amount, ok := model.CoerceAmount(req.RequestedAmount)
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "invalid requested_amount: %q", req.RequestedAmount)
	}

	in := dto.EvaluateApplicationRequest{
		CustomerID:      req.CustomerID,
		RequestedAmount: amount,
		TenureMonths:    req.TenureMonths,
	}
	if req.ExplicitMonthlySalary != "" {
		salary, ok := model.CoerceAmount(req.ExplicitMonthlySalary)
		if !ok {
			return nil, status.Errorf(codes.InvalidArgument, "invalid explicit_monthly_salary: %q", req.ExplicitMonthlySalary)
		}
		in.ExplicitMonthlySalary = salary
	}
	if len(req.SalarySlipContent) > 0 {
		in.SalarySlip = &dto.DocumentPayload{
			Name:    req.SalarySlipName,
			Content: req.SalarySlipContent,
		}
	}

	decision, err := h.evaluate.Execute(ctx, in)
	if err != nil {
		return nil, toStatus(err)
	}
	return &UnderwriteResponse{Decision: decision}, nil
}

// GetApplication retrieves a booked application.
func (h *OriginationHandler) GetApplication(ctx context.Context, req *GetApplicationRequest) (*GetApplicationResponse, error) {
	if req.ApplicationID == "" {
		return nil, status.Error(codes.InvalidArgument, "application_id is required")
	}

	app, err := h.getApp.Execute(ctx, dto.GetApplicationRequest{
		ApplicationID:   req.ApplicationID,
		IncludeSchedule: req.IncludeSchedule,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &GetApplicationResponse{Application: app}, nil
}

// IssueSanctionLetter renders the letter for a booked application.
func (h *OriginationHandler) IssueSanctionLetter(ctx context.Context, req *IssueSanctionLetterRequest) (*IssueSanctionLetterResponse, error) {
	if req.ApplicationID == "" {
		return nil, status.Error(codes.InvalidArgument, "application_id is required")
	}

	letter, err := h.letters.Execute(ctx, dto.IssueSanctionLetterRequest{
		ApplicationID: req.ApplicationID,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &IssueSanctionLetterResponse{Letter: letter}, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, port.ErrApplicationNotFound), errors.Is(err, port.ErrCustomerNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, valueobject.ErrInvalidStatusTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
