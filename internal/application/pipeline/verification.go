package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quickcash/loan-origination/internal/domain/port"
)

// ---------------------------------------------------------------------------
// Verification stage – identity document checks
// ---------------------------------------------------------------------------

// Verification statuses.
const (
	VerificationPassed   = "passed"
	VerificationPartial  = "partial"
	VerificationNotFound = "customer_not_found"
)

// VerificationResult summarises the KYC position for a customer.
// CustomerNotFound is an explicit outcome, not an error.
type VerificationResult struct {
	Status       string
	VerifiedDocs []string
	MissingDocs  []string
	Message      string
}

// Passed reports whether the pipeline may proceed to underwriting.
// Partial verification proceeds too; only an unknown customer stops here.
func (r VerificationResult) Passed() bool { return r.Status != VerificationNotFound }

// VerificationStage checks identity documents against the CRM.
type VerificationStage struct {
	customers port.CustomerRepository
	crm       port.CRMClient
	logger    *slog.Logger
}

// NewVerificationStage wires dependencies. crm may be nil, in which case
// document status is treated as unknown and verification reports partial.
func NewVerificationStage(customers port.CustomerRepository, crm port.CRMClient, logger *slog.Logger) *VerificationStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &VerificationStage{customers: customers, crm: crm, logger: logger}
}

// Verify runs the KYC check for a customer.
func (v *VerificationStage) Verify(ctx context.Context, customerID string) (VerificationResult, error) {
	_, err := v.customers.FindByID(ctx, customerID)
	switch {
	case errors.Is(err, port.ErrCustomerNotFound):
		return VerificationResult{
			Status:  VerificationNotFound,
			Message: "we could not find your customer record",
		}, nil
	case err != nil:
		return VerificationResult{}, fmt.Errorf("load customer: %w", err)
	}

	if v.crm == nil {
		return VerificationResult{
			Status:  VerificationPartial,
			Message: "document status unavailable, verification will complete later",
		}, nil
	}

	kyc, err := v.crm.GetKYCStatus(ctx, customerID)
	if err != nil {
		// CRM outage degrades to partial; the decision engine does not
		// depend on it.
		v.logger.Warn("kyc lookup failed",
			slog.String("customer_id", customerID),
			slog.String("error", err.Error()))
		return VerificationResult{
			Status:  VerificationPartial,
			Message: "document status unavailable, verification will complete later",
		}, nil
	}

	result := VerificationResult{MissingDocs: kyc.MissingDocuments()}
	if kyc.PANVerified {
		result.VerifiedDocs = append(result.VerifiedDocs, "pan")
	}
	if kyc.AadhaarVerified {
		result.VerifiedDocs = append(result.VerifiedDocs, "aadhaar")
	}

	if kyc.Verified() {
		result.Status = VerificationPassed
		result.Message = "identity documents verified"
	} else {
		result.Status = VerificationPartial
		result.Message = fmt.Sprintf("pending documents: %s", strings.Join(result.MissingDocs, ", "))
	}
	return result, nil
}
