package grpc

// proto.go defines the gRPC server interface derived from
// quickcash/origination/v1/origination.proto. This file serves as a stand-in
// for buf-generated code; the service runs it over the registered JSON codec.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/quickcash/loan-origination/internal/application/dto"
)

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

// UnderwriteRequest asks for one underwriting pass. Amounts travel as
// strings to avoid float drift on the wire.
type UnderwriteRequest struct {
	CustomerID            string `json:"customer_id"`
	RequestedAmount       string `json:"requested_amount"`
	TenureMonths          int    `json:"tenure_months"`
	ExplicitMonthlySalary string `json:"explicit_monthly_salary,omitempty"`
	SalarySlipName        string `json:"salary_slip_name,omitempty"`
	SalarySlipContent     []byte `json:"salary_slip_content,omitempty"`
}

// UnderwriteResponse carries the decision.
type UnderwriteResponse struct {
	Decision dto.UnderwritingDecisionResponse `json:"decision"`
}

// GetApplicationRequest identifies a booked application.
type GetApplicationRequest struct {
	ApplicationID   string `json:"application_id"`
	IncludeSchedule bool   `json:"include_schedule,omitempty"`
}

// GetApplicationResponse carries the booked application.
type GetApplicationResponse struct {
	Application dto.LoanApplicationResponse `json:"application"`
}

// IssueSanctionLetterRequest asks for a letter on a booked application.
type IssueSanctionLetterRequest struct {
	ApplicationID string `json:"application_id"`
}

// IssueSanctionLetterResponse carries the rendered letter.
type IssueSanctionLetterResponse struct {
	Letter dto.SanctionLetterResponse `json:"letter"`
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// UnderwritingServiceServer is the server API for UnderwritingService.
// It mirrors the proto-generated interface from
// quickcash.origination.v1.UnderwritingService.
type UnderwritingServiceServer interface {
	Underwrite(context.Context, *UnderwriteRequest) (*UnderwriteResponse, error)
	GetApplication(context.Context, *GetApplicationRequest) (*GetApplicationResponse, error)
	IssueSanctionLetter(context.Context, *IssueSanctionLetterRequest) (*IssueSanctionLetterResponse, error)
	mustEmbedUnimplementedUnderwritingServiceServer()
}

// UnimplementedUnderwritingServiceServer provides forward-compatible default
// implementations.
type UnimplementedUnderwritingServiceServer struct{}

func (UnimplementedUnderwritingServiceServer) Underwrite(context.Context, *UnderwriteRequest) (*UnderwriteResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Underwrite not implemented")
}
func (UnimplementedUnderwritingServiceServer) GetApplication(context.Context, *GetApplicationRequest) (*GetApplicationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetApplication not implemented")
}
func (UnimplementedUnderwritingServiceServer) IssueSanctionLetter(context.Context, *IssueSanctionLetterRequest) (*IssueSanctionLetterResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method IssueSanctionLetter not implemented")
}
func (UnimplementedUnderwritingServiceServer) mustEmbedUnimplementedUnderwritingServiceServer() {}

// RegisterUnderwritingServiceServer registers the server implementation.
func RegisterUnderwritingServiceServer(s *grpclib.Server, srv UnderwritingServiceServer) {
	s.RegisterService(&_UnderwritingService_serviceDesc, srv) //nolint:revive // gRPC handler registration
}

//nolint:revive // gRPC handler registration
var _UnderwritingService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: "quickcash.origination.v1.UnderwritingService",
	HandlerType: (*UnderwritingServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "Underwrite", Handler: _UnderwritingService_Underwrite_Handler},                   //nolint:revive // gRPC handler registration
		{MethodName: "GetApplication", Handler: _UnderwritingService_GetApplication_Handler},           //nolint:revive // gRPC handler registration
		{MethodName: "IssueSanctionLetter", Handler: _UnderwritingService_IssueSanctionLetter_Handler}, //nolint:revive // gRPC handler registration
	},
	Streams: []grpclib.StreamDesc{},
}

//nolint:revive,errcheck // gRPC handler registration
func _UnderwritingService_Underwrite_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(UnderwriteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UnderwritingServiceServer).Underwrite(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/quickcash.origination.v1.UnderwritingService/Underwrite",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(UnderwritingServiceServer).Underwrite(ctx, req.(*UnderwriteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _UnderwritingService_GetApplication_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetApplicationRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UnderwritingServiceServer).GetApplication(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/quickcash.origination.v1.UnderwritingService/GetApplication",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(UnderwritingServiceServer).GetApplication(ctx, req.(*GetApplicationRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _UnderwritingService_IssueSanctionLetter_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(IssueSanctionLetterRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UnderwritingServiceServer).IssueSanctionLetter(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/quickcash.origination.v1.UnderwritingService/IssueSanctionLetter",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(UnderwritingServiceServer).IssueSanctionLetter(ctx, req.(*IssueSanctionLetterRequest))
	}
	return interceptor(ctx, in, info, handler)
}
