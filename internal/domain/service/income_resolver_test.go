package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/quickcash/loan-origination/internal/domain/model"
	"github.com/quickcash/loan-origination/internal/domain/port"
	"github.com/quickcash/loan-origination/internal/domain/service"
	"github.com/quickcash/loan-origination/internal/domain/valueobject"
)

type extractorFunc func(ctx context.Context, doc model.Document) (model.Extraction, error)

func (f extractorFunc) Extract(ctx context.Context, doc model.Document) (model.Extraction, error) {
	return f(ctx, doc)
}

func profileWithAnnual(annual int64) *model.CustomerProfile {
	return &model.CustomerProfile{
		ID:           "CUST001",
		AnnualIncome: decimal.NewFromInt(annual),
	}
}

func TestIncomeResolver_DocProvidedWinsOverEverything(t *testing.T) {
	resolver := service.NewIncomeResolver(nil, nil)

	req := model.NewLoanRequestBuilder("CUST001").
		DocumentSalary(decimal.NewFromInt(72_000), 0.8, "net pay 72,000").
		ExplicitSalary(decimal.NewFromInt(60_000)).
		DBEstimate(decimal.NewFromInt(55_000)).
		Build()

	ev := resolver.Resolve(context.Background(), req, profileWithAnnual(845_519))

	assert.True(t, ev.Known())
	assert.True(t, ev.MonthlyAmount.Equal(decimal.NewFromInt(72_000)))
	assert.True(t, ev.Provenance.Equal(valueobject.ProvenanceDocProvided))
	assert.Equal(t, 0.8, ev.Confidence)
}

func TestIncomeResolver_ExplicitBeatsExtraction(t *testing.T) {
	extractor := extractorFunc(func(context.Context, model.Document) (model.Extraction, error) {
		t.Fatal("extractor must not be consulted when an explicit figure exists")
		return model.Extraction{}, nil
	})
	resolver := service.NewIncomeResolver(extractor, nil)

	req := model.NewLoanRequestBuilder("CUST001").
		ExplicitSalary(decimal.NewFromInt(60_000)).
		SalarySlip(model.Document{Name: "slip.txt", Content: []byte("Net Salary: 58,000")}).
		Build()

	ev := resolver.Resolve(context.Background(), req, nil)

	assert.True(t, ev.MonthlyAmount.Equal(decimal.NewFromInt(60_000)))
	assert.True(t, ev.Provenance.Equal(valueobject.ProvenanceExplicitProvided))
}

func TestIncomeResolver_ExtractionUsedWhenNoDirectFigure(t *testing.T) {
	extractor := extractorFunc(func(context.Context, model.Document) (model.Extraction, error) {
		return model.Extraction{
			MonthlyAmount: decimal.NewFromInt(58_000),
			Confidence:    0.75,
			EvidenceText:  "Net Salary: 58,000",
		}, nil
	})
	resolver := service.NewIncomeResolver(extractor, nil)

	req := model.NewLoanRequestBuilder("CUST001").
		SalarySlip(model.Document{Name: "slip.txt", Content: []byte("Net Salary: 58,000")}).
		DBEstimate(decimal.NewFromInt(55_000)).
		Build()

	ev := resolver.Resolve(context.Background(), req, nil)

	assert.True(t, ev.MonthlyAmount.Equal(decimal.NewFromInt(58_000)))
	assert.True(t, ev.Provenance.Equal(valueobject.ProvenanceOCRExtracted))
	assert.Equal(t, 0.75, ev.Confidence)
}

func TestIncomeResolver_ExtractionFailureFallsThrough(t *testing.T) {
	extractor := extractorFunc(func(context.Context, model.Document) (model.Extraction, error) {
		return model.Extraction{}, port.ErrNoIncomeFound
	})
	resolver := service.NewIncomeResolver(extractor, nil)

	req := model.NewLoanRequestBuilder("CUST001").
		SalarySlip(model.Document{Name: "slip.txt", Content: []byte("illegible")}).
		DBEstimate(decimal.NewFromInt(55_000)).
		Build()

	ev := resolver.Resolve(context.Background(), req, nil)

	assert.True(t, ev.MonthlyAmount.Equal(decimal.NewFromInt(55_000)))
	assert.True(t, ev.Provenance.Equal(valueobject.ProvenanceDBEstimate))
}

func TestIncomeResolver_DerivesFromProfileLast(t *testing.T) {
	resolver := service.NewIncomeResolver(nil, nil)

	req := model.NewLoanRequestBuilder("CUST001").Build()
	ev := resolver.Resolve(context.Background(), req, profileWithAnnual(845_519))

	assert.True(t, ev.Known())
	assert.True(t, ev.Provenance.Equal(valueobject.ProvenanceDBDerived))
	// 845519 / 12
	assert.InDelta(t, 70_459.9, ev.MonthlyAmount.InexactFloat64(), 0.1)
}

func TestIncomeResolver_NothingAvailable(t *testing.T) {
	resolver := service.NewIncomeResolver(nil, nil)

	req := model.NewLoanRequestBuilder("CUST001").Build()

	t.Run("nil profile", func(t *testing.T) {
		ev := resolver.Resolve(context.Background(), req, nil)
		assert.False(t, ev.Known())
		assert.True(t, ev.Provenance.Equal(valueobject.ProvenanceMissing))
	})

	t.Run("profile without income", func(t *testing.T) {
		ev := resolver.Resolve(context.Background(), req, &model.CustomerProfile{ID: "CUST001"})
		assert.False(t, ev.Known())
	})
}
