package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RepaymentEntry is one period in a repayment schedule.
type RepaymentEntry struct {
	DueDate          time.Time
	Principal        decimal.Decimal
	Interest         decimal.Decimal
	Total            decimal.Decimal
	RemainingBalance decimal.Decimal
	Period           int
}

// GenerateRepaymentSchedule expands priced loan terms into a fixed-payment
// schedule, one entry per month starting one month after startDate.
//
// The instalment is taken from the terms rather than recomputed, so the
// schedule always agrees with the figure quoted to the customer; the last
// period absorbs the rounding drift so the balance lands exactly on zero.
func GenerateRepaymentSchedule(terms LoanTerms, startDate time.Time) []RepaymentEntry {
	if terms.TenureMonths <= 0 || terms.Amount.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	monthlyRate := decimal.NewFromFloat(terms.InterestRate / 12.0 / 100.0)
	instalment := terms.MonthlyEMI

	schedule := make([]RepaymentEntry, 0, terms.TenureMonths)
	remaining := terms.Amount

	for period := 1; period <= terms.TenureMonths; period++ {
		dueDate := startDate.AddDate(0, period, 0)

		interest := remaining.Mul(monthlyRate).Round(2)
		principalPart := instalment.Sub(interest)
		total := instalment

		// Last period: pay off whatever remains, rounding drift included.
		if period == terms.TenureMonths || principalPart.GreaterThan(remaining) {
			principalPart = remaining
			total = principalPart.Add(interest)
		}

		remaining = remaining.Sub(principalPart)
		if remaining.LessThan(decimal.Zero) {
			remaining = decimal.Zero
		}

		schedule = append(schedule, RepaymentEntry{
			Period:           period,
			DueDate:          dueDate,
			Principal:        principalPart,
			Interest:         interest,
			Total:            total,
			RemainingBalance: remaining,
		})

		if remaining.IsZero() && period < terms.TenureMonths {
			break
		}
	}

	return schedule
}

// TotalInterest sums the interest column of a schedule.
func TotalInterest(schedule []RepaymentEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range schedule {
		total = total.Add(e.Interest)
	}
	return total
}
