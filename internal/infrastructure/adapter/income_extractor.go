package adapter

import (
	"context"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quickcash/loan-origination/internal/domain/model"
	"github.com/quickcash/loan-origination/internal/domain/port"
)

// Salary slips arrive as free text from the OCR layer. The extractor works
// line-oriented: a salary keyword next to a figure is the strongest signal,
// an annual figure can be divided down, and the largest number on the page
// is the guess of last resort.

var (
	reNumber     = regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)`)
	reAnnualHint = regexp.MustCompile(`(?i)per\s+annum|annual|p\.?a\.?\b`)
)

var salaryKeywords = []string{
	"net salary",
	"net pay",
	"take home",
	"take-home",
	"monthly salary",
	"salary credited",
	"gross salary",
	"salary",
	"pay",
}

// ExtractorConfig holds the heuristic confidences and plausibility floors.
type ExtractorConfig struct {
	KeywordConfidence float64
	AnnualConfidence  float64
	LargestConfidence float64

	// Figures below MinMonthly are treated as line items, not a salary.
	MinMonthly int64
	// Annual figures below MinAnnual are more likely monthly already.
	MinAnnual int64
}

// DefaultExtractorConfig returns the standard heuristic parameters.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		KeywordConfidence: 0.75,
		AnnualConfidence:  0.45,
		LargestConfidence: 0.35,
		MinMonthly:        1_000,
		MinAnnual:         50_000,
	}
}

// HeuristicIncomeExtractor implements port.IncomeExtractor over plain-text
// document content.
type HeuristicIncomeExtractor struct {
	cfg ExtractorConfig
}

// NewHeuristicIncomeExtractor creates the extractor with the given
// parameters.
func NewHeuristicIncomeExtractor(cfg ExtractorConfig) *HeuristicIncomeExtractor {
	return &HeuristicIncomeExtractor{cfg: cfg}
}

// Extract pulls a monthly salary figure out of the document text. It returns
// port.ErrNoIncomeFound when no plausible figure is present.
func (e *HeuristicIncomeExtractor) Extract(_ context.Context, doc model.Document) (model.Extraction, error) {
	text := doc.Text()
	if strings.TrimSpace(text) == "" {
		return model.Extraction{}, port.ErrNoIncomeFound
	}

	if ex, ok := e.keywordLine(text); ok {
		return ex, nil
	}
	if ex, ok := e.annualFigure(text); ok {
		return ex, nil
	}
	if ex, ok := e.largestFigure(text); ok {
		return ex, nil
	}
	return model.Extraction{}, port.ErrNoIncomeFound
}

// keywordLine finds the first line pairing a salary keyword with a figure.
func (e *HeuristicIncomeExtractor) keywordLine(text string) (model.Extraction, bool) {
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		matched := false
		for _, kw := range salaryKeywords {
			if strings.Contains(lower, kw) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		amount, ok := largestNumberIn(line)
		if !ok || amount.LessThan(decimal.NewFromInt(e.cfg.MinMonthly)) {
			continue
		}
		return model.Extraction{
			MonthlyAmount: amount,
			Confidence:    e.cfg.KeywordConfidence,
			EvidenceText:  strings.TrimSpace(line),
		}, true
	}
	return model.Extraction{}, false
}

// annualFigure divides an annual amount down to monthly when the text says
// the figure is per annum.
func (e *HeuristicIncomeExtractor) annualFigure(text string) (model.Extraction, bool) {
	if !reAnnualHint.MatchString(text) {
		return model.Extraction{}, false
	}
	amount, ok := largestNumberIn(text)
	if !ok || amount.LessThan(decimal.NewFromInt(e.cfg.MinAnnual)) {
		return model.Extraction{}, false
	}
	return model.Extraction{
		MonthlyAmount: amount.Div(decimal.NewFromInt(12)).Round(2),
		Confidence:    e.cfg.AnnualConfidence,
		EvidenceText:  "annual figure divided by 12",
	}, true
}

// largestFigure falls back to the biggest number on the page.
func (e *HeuristicIncomeExtractor) largestFigure(text string) (model.Extraction, bool) {
	amount, ok := largestNumberIn(text)
	if !ok || amount.LessThan(decimal.NewFromInt(e.cfg.MinMonthly)) {
		return model.Extraction{}, false
	}
	return model.Extraction{
		MonthlyAmount: amount,
		Confidence:    e.cfg.LargestConfidence,
		EvidenceText:  "largest figure on document",
	}, true
}

func largestNumberIn(s string) (decimal.Decimal, bool) {
	var best decimal.Decimal
	found := false
	for _, m := range reNumber.FindAllString(s, -1) {
		v, err := decimal.NewFromString(strings.ReplaceAll(m, ",", ""))
		if err != nil {
			continue
		}
		if !found || v.GreaterThan(best) {
			best = v
			found = true
		}
	}
	return best, found
}
