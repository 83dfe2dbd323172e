package letter

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quickcash/loan-origination/internal/domain/model"
)

// Letters stay valid for 30 days from issue.
const validityDays = 30

// Renderer produces the plain-text sanction letter. It implements
// usecase.LetterRenderer.
type Renderer struct {
	lenderName string
}

// NewRenderer creates a renderer. An empty lenderName selects the default
// letterhead.
func NewRenderer(lenderName string) *Renderer {
	if lenderName == "" {
		lenderName = "QuickCash NBFC Ltd."
	}
	return &Renderer{lenderName: lenderName}
}

// Render assembles the letter from the booked application. Total interest is
// the instalment sum less the principal; total payable adds the processing
// fee back on top.
func (r *Renderer) Render(app model.LoanApplication, customer model.CustomerProfile, now time.Time) model.SanctionLetter {
	totalRepayment := app.TotalRepayment()
	totalInterest := totalRepayment.Sub(app.Amount())
	totalPayable := totalRepayment.Add(app.ProcessingFee())

	var b strings.Builder
	fmt.Fprintf(&b, "%s\nSANCTION LETTER\n\n", r.lenderName)
	fmt.Fprintf(&b, "Date: %s\n", now.Format("02 Jan 2006"))
	fmt.Fprintf(&b, "Application ID: %s\n\n", app.ID())
	fmt.Fprintf(&b, "Dear %s,\n\n", customer.Name)
	fmt.Fprintf(&b, "We are pleased to sanction your personal loan on the following terms:\n\n")
	fmt.Fprintf(&b, "  Loan Amount:       Rs. %s\n", rupees(app.Amount()))
	fmt.Fprintf(&b, "  Interest Rate:     %.1f%% per annum\n", app.InterestRate())
	fmt.Fprintf(&b, "  Tenure:            %d months\n", app.TenureMonths())
	fmt.Fprintf(&b, "  Monthly EMI:       Rs. %s\n", rupees(app.MonthlyEMI()))
	fmt.Fprintf(&b, "  Processing Fee:    Rs. %s\n", rupees(app.ProcessingFee()))
	fmt.Fprintf(&b, "  Total Interest:    Rs. %s\n", rupees(totalInterest))
	fmt.Fprintf(&b, "  Total Payable:     Rs. %s\n\n", rupees(totalPayable))
	fmt.Fprintf(&b, "This sanction is valid until %s. Disbursal is subject to\n", now.AddDate(0, 0, validityDays).Format("02 Jan 2006"))
	fmt.Fprintf(&b, "execution of the loan agreement and standard verification.\n\n")
	fmt.Fprintf(&b, "Warm regards,\n%s\n", r.lenderName)

	return model.SanctionLetter{
		ApplicationID:  app.ID(),
		CustomerName:   customer.Name,
		Amount:         app.Amount(),
		InterestRate:   app.InterestRate(),
		TenureMonths:   app.TenureMonths(),
		MonthlyEMI:     app.MonthlyEMI(),
		ProcessingFee:  app.ProcessingFee(),
		TotalInterest:  totalInterest,
		TotalRepayment: totalRepayment,
		Body:           b.String(),
		IssuedAt:       now,
		ValidUntil:     now.AddDate(0, 0, validityDays),
	}
}

// rupees renders an amount with Indian digit grouping: the last three digits
// group together, then pairs.
func rupees(v decimal.Decimal) string {
	s := v.StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) > 3 {
		head, tail := s[:len(s)-3], s[len(s)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		s = strings.Join(append(groups, tail), ",")
	}
	if neg {
		s = "-" + s
	}
	return s
}
