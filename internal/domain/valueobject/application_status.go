package valueobject

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// ApplicationStatus – immutable value object
// ---------------------------------------------------------------------------

// ApplicationStatus represents the lifecycle stage of a booked loan
// application. Only approved applications are booked, so the lifecycle
// starts at APPROVED.
type ApplicationStatus struct {
	value string
}

const (
	appStatusApproved     = "APPROVED"
	appStatusLetterIssued = "LETTER_ISSUED"
)

var (
	ApplicationStatusApproved     = ApplicationStatus{value: appStatusApproved}
	ApplicationStatusLetterIssued = ApplicationStatus{value: appStatusLetterIssued}
)

var validApplicationStatuses = map[string]ApplicationStatus{
	appStatusApproved:     ApplicationStatusApproved,
	appStatusLetterIssued: ApplicationStatusLetterIssued,
}

// NewApplicationStatus creates an ApplicationStatus from a raw string.
func NewApplicationStatus(s string) (ApplicationStatus, error) {
	v, ok := validApplicationStatuses[s]
	if !ok {
		return ApplicationStatus{}, fmt.Errorf("invalid application status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s ApplicationStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s ApplicationStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s ApplicationStatus) Equal(other ApplicationStatus) bool { return s.value == other.value }

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
