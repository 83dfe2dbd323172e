package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// Decision – immutable value object
// ---------------------------------------------------------------------------

// Decision represents the terminal outcome of an underwriting evaluation.
type Decision struct {
	value string
}

const (
	decisionApproved        = "approved"
	decisionRejected        = "rejected"
	decisionNeedsSalarySlip = "needs_salary_slip"
	decisionManualReview    = "manual_review_required"
)

var (
	DecisionApproved        = Decision{value: decisionApproved}
	DecisionRejected        = Decision{value: decisionRejected}
	DecisionNeedsSalarySlip = Decision{value: decisionNeedsSalarySlip}
	DecisionManualReview    = Decision{value: decisionManualReview}
)

var validDecisions = map[string]Decision{
	decisionApproved:        DecisionApproved,
	decisionRejected:        DecisionRejected,
	decisionNeedsSalarySlip: DecisionNeedsSalarySlip,
	decisionManualReview:    DecisionManualReview,
}

// NewDecision creates a Decision from a raw string.
func NewDecision(s string) (Decision, error) {
	v, ok := validDecisions[s]
	if !ok {
		return Decision{}, fmt.Errorf("invalid underwriting decision: %q", s)
	}
	return v, nil
}

// String returns the string representation of the decision.
func (d Decision) String() string { return d.value }

// IsZero returns true if the decision has not been initialised.
func (d Decision) IsZero() bool { return d.value == "" }

// Equal returns true when both decisions carry the same value.
func (d Decision) Equal(other Decision) bool { return d.value == other.value }

// IsTerminalRejection reports whether the decision closes the application
// without any further action available to the customer.
func (d Decision) IsTerminalRejection() bool { return d.value == decisionRejected }

// ---------------------------------------------------------------------------
// Reason codes
// ---------------------------------------------------------------------------

// ReasonCode is a machine-readable cause attached to a rejection or a
// document request. Codes are stable API surface and must not be renamed.
type ReasonCode string

const (
	ReasonCustomerNotFound     ReasonCode = "customer_not_found"
	ReasonCreditScoreBelowMin  ReasonCode = "credit_score_below_700"
	ReasonAmountExceedsCap     ReasonCode = "amount_exceeds_two_times_preapproved"
	ReasonEMIExceedsHalfSalary ReasonCode = "emi_exceeds_50_percent_of_salary"
	ReasonSalarySlipRequired   ReasonCode = "salary_slip_required"
)

// String returns the string representation of the reason code.
func (r ReasonCode) String() string { return string(r) }
