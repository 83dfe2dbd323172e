package service

import (
	"math"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// AffordabilityCalculator – EMI maths and pricing
// ---------------------------------------------------------------------------

// RatePolicy prices a request against the customer's pre-approved limit.
type RatePolicy struct {
	BaseRate       float64
	AboveLimitRate float64
	AboveLimitFee  decimal.Decimal
}

// DefaultRatePolicy returns the standard two-tier pricing: 12% within the
// pre-approved limit, 14% plus a flat fee above it.
func DefaultRatePolicy() RatePolicy {
	return RatePolicy{
		BaseRate:       12.0,
		AboveLimitRate: 14.0,
		AboveLimitFee:  decimal.NewFromInt(5000),
	}
}

// AffordabilityCalculator computes instalments and affordability ratios.
type AffordabilityCalculator struct {
	policy RatePolicy
}

// NewAffordabilityCalculator returns a calculator with the given policy.
func NewAffordabilityCalculator(policy RatePolicy) *AffordabilityCalculator {
	return &AffordabilityCalculator{policy: policy}
}

// RateFor selects the annual interest rate for a request. Requests above
// the pre-approved limit price at the higher tier; customers with no limit
// on file price at the base tier.
func (c *AffordabilityCalculator) RateFor(requested, preApprovedLimit decimal.Decimal) float64 {
	if preApprovedLimit.GreaterThan(decimal.Zero) && requested.GreaterThan(preApprovedLimit) {
		return c.policy.AboveLimitRate
	}
	return c.policy.BaseRate
}

// FeeFor returns the processing fee for a given annual rate. Only the
// above-limit tier carries a fee.
func (c *AffordabilityCalculator) FeeFor(annualRate float64) decimal.Decimal {
	if annualRate > c.policy.BaseRate {
		return c.policy.AboveLimitFee
	}
	return decimal.Zero
}

// EMI computes the fixed monthly instalment for a principal at an annual
// percentage rate over termMonths, rounded UP to the next whole unit.
// Rounding up means the quoted instalment always covers the exact figure,
// so an affordability check against it can never under-admit.
//
//	r   = annualRate / 12 / 100
//	EMI = P * r * (1+r)^n / ((1+r)^n - 1)
func (c *AffordabilityCalculator) EMI(principal decimal.Decimal, annualRate float64, termMonths int) decimal.Decimal {
	if termMonths <= 0 || principal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	if annualRate == 0 {
		return principal.Div(decimal.NewFromInt(int64(termMonths))).Ceil()
	}

	// float64 carries the power computation; money stays decimal.
	monthlyRate := annualRate / 12.0 / 100.0
	factor := math.Pow(1+monthlyRate, float64(termMonths))
	raw := principal.InexactFloat64() * monthlyRate * factor / (factor - 1)
	return decimal.NewFromFloat(raw).Ceil()
}

// EMIToIncomeRatio returns instalment divided by monthly income. The second
// return is false when income is not positive.
func (c *AffordabilityCalculator) EMIToIncomeRatio(emi, monthlyIncome decimal.Decimal) (float64, bool) {
	if monthlyIncome.LessThanOrEqual(decimal.Zero) {
		return 0, false
	}
	return emi.Div(monthlyIncome).InexactFloat64(), true
}
