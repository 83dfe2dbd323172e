package pipeline

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quickcash/loan-origination/internal/domain/port"
	"github.com/quickcash/loan-origination/internal/domain/service"
)

// ---------------------------------------------------------------------------
// Sales stage – free-text quoting
// ---------------------------------------------------------------------------

// Offer is the pre-approved proposition shown before any application.
type Offer struct {
	MaxAmount    decimal.Decimal `json:"max_amount"`
	InterestRate float64         `json:"interest_rate"`
	TenureMonths []int           `json:"tenure_months"`
}

// SalesResult is one quoting turn.
type SalesResult struct {
	Message              string
	Offer                *Offer
	RequestedAmount      decimal.Decimal
	RequestedTenure      int
	EstimatedEMI         decimal.Decimal
	RequiresConfirmation bool
	ReadyToProcess       bool
	AutoStart            bool
}

var (
	reLakh   = regexp.MustCompile(`([\d.]+)\s*(?:lakh|lakhs|lac|lacs)`)
	reCrore  = regexp.MustCompile(`([\d.]+)\s*(?:crore|crores)`)
	reDigits = regexp.MustCompile(`(\d{4,})`)
	reKSuf   = regexp.MustCompile(`([\d.]+)\s*k\b`)

	reYears  = regexp.MustCompile(`(\d+)\s*years?`)
	reMonths = regexp.MustCompile(`(\d+)\s*months?`)
	reMo     = regexp.MustCompile(`(\d+)\s*mo`)
)

var confirmTokens = []string{
	"start", "proceed", "start application", "yes start", "apply", "process",
	"submit", "go ahead", "confirm", "lets do it", "let's do it", "sounds good",
	"i'm in", "i am in", "ok do it", "do it", "start now",
}

// ParseAmount pulls a loan amount out of free text. Understands lakh/lac and
// crore multipliers, "25k" shorthand, and plain figures of four digits or
// more. Returns zero when nothing parses.
func ParseAmount(text string) decimal.Decimal {
	t := strings.ToLower(strings.ReplaceAll(text, ",", ""))
	if t == "" {
		return decimal.Zero
	}
	if m := reLakh.FindStringSubmatch(t); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return decimal.NewFromFloat(v * 100_000).Truncate(0)
		}
	}
	if m := reCrore.FindStringSubmatch(t); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return decimal.NewFromFloat(v * 10_000_000).Truncate(0)
		}
	}
	if m := reDigits.FindStringSubmatch(t); m != nil {
		if v, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			return decimal.NewFromInt(v)
		}
	}
	if m := reKSuf.FindStringSubmatch(t); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return decimal.NewFromFloat(v * 1000).Truncate(0)
		}
	}
	return decimal.Zero
}

// ParseTenureMonths pulls a repayment term out of free text. "N years" is
// converted to months; "N mo" shorthand is accepted. Returns zero when
// nothing parses.
func ParseTenureMonths(text string) int {
	t := strings.ToLower(text)
	if m := reYears.FindStringSubmatch(t); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			return v * 12
		}
	}
	if m := reMonths.FindStringSubmatch(t); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			return v
		}
	}
	if m := reMo.FindStringSubmatch(t); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			return v
		}
	}
	return 0
}

// HasConfirmation reports whether the text contains an explicit go-ahead.
func HasConfirmation(text string) bool {
	t := strings.ToLower(text)
	for _, tok := range confirmTokens {
		if strings.Contains(t, tok) {
			return true
		}
	}
	return false
}

// SalesStage quotes offers and parses loan parameters from conversation.
type SalesStage struct {
	customers port.CustomerRepository
	afford    *service.AffordabilityCalculator
}

// NewSalesStage wires dependencies.
func NewSalesStage(customers port.CustomerRepository, afford *service.AffordabilityCalculator) *SalesStage {
	return &SalesStage{customers: customers, afford: afford}
}

const displayRate = 12.0

// Quote runs one sales turn against the session's accumulated request.
func (s *SalesStage) Quote(ctx context.Context, session Session, text string) (SalesResult, error) {
	res := SalesResult{
		RequestedAmount: session.RequestedAmount,
		RequestedTenure: session.TenureMonths,
	}

	if amount := ParseAmount(text); amount.GreaterThan(decimal.Zero) {
		res.RequestedAmount = amount
	}
	if tenure := ParseTenureMonths(text); tenure > 0 {
		res.RequestedTenure = tenure
	}

	profile, err := s.customers.FindByID(ctx, session.CustomerID)
	switch {
	case err == nil:
		res.Offer = &Offer{
			MaxAmount:    profile.PreApprovedLimit,
			InterestRate: displayRate,
			TenureMonths: []int{12, 24, 36},
		}
	case errors.Is(err, port.ErrCustomerNotFound):
	default:
		return SalesResult{}, fmt.Errorf("load customer: %w", err)
	}

	haveBoth := res.RequestedAmount.GreaterThan(decimal.Zero) && res.RequestedTenure > 0
	if !haveBoth {
		res.Message = s.clarifyingPrompt(res)
		return res, nil
	}

	res.EstimatedEMI = s.afford.EMI(res.RequestedAmount, displayRate, res.RequestedTenure)
	res.RequiresConfirmation = true
	res.ReadyToProcess = true
	res.AutoStart = HasConfirmation(text)

	msg := fmt.Sprintf("You are looking at a loan of Rs. %s for %d months at %.1f%% annual interest.",
		groupAmount(res.RequestedAmount), res.RequestedTenure, displayRate)
	if res.EstimatedEMI.GreaterThan(decimal.Zero) {
		msg += fmt.Sprintf(" Your estimated EMI will be around Rs. %s per month.", groupAmount(res.EstimatedEMI))
	}
	if res.AutoStart {
		msg += " Proceeding with the application now."
	} else {
		msg += " Reply with \"start application\" or \"proceed\" to continue, or change the amount or tenure."
	}
	res.Message = msg
	return res, nil
}

func (s *SalesStage) clarifyingPrompt(res SalesResult) string {
	switch {
	case res.RequestedAmount.GreaterThan(decimal.Zero):
		return "Thanks. What tenure would you prefer, in months or years?"
	case res.RequestedTenure > 0:
		return "Thanks. How much would you like to borrow?"
	default:
		return "Hi! Could you tell me the loan amount you need and how long you would like to repay it?"
	}
}

// groupAmount renders a decimal with thousands separators for messages.
func groupAmount(v decimal.Decimal) string {
	s := v.StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
