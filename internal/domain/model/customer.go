package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerProfile is the read model underwriting works from. It mirrors the
// CRM record for a pre-approved customer.
type CustomerProfile struct {
	ID               string
	Name             string
	Phone            string
	Email            string
	City             string
	EmploymentType   string
	AnnualIncome     decimal.Decimal
	CreditScore      int
	PreApprovedLimit decimal.Decimal
	CreatedAt        time.Time
}

var twelve = decimal.NewFromInt(12)

// MonthlyIncome derives a monthly salary from the declared annual income.
// Returns zero when no annual income is on file.
func (c CustomerProfile) MonthlyIncome() decimal.Decimal {
	if c.AnnualIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return c.AnnualIncome.Div(twelve)
}

// HasPreApprovedLimit reports whether the customer carries a usable
// pre-approved limit.
func (c CustomerProfile) HasPreApprovedLimit() bool {
	return c.PreApprovedLimit.GreaterThan(decimal.Zero)
}
