package model_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/quickcash/loan-origination/internal/domain/model"
)

func TestCoerceAmount(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want int64
		ok   bool
	}{
		{"plain number", "300000", 300_000, true},
		{"indian grouping", "3,00,000", 300_000, true},
		{"currency prefix", "Rs. 50000", 50_000, true},
		{"embedded in text", "i need 250000 please", 250_000, true},
		{"phone number rejected", "9876543210", 0, false},
		{"empty", "", 0, false},
		{"no digits", "three lakh", 0, false},
		{"zero rejected", "0", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := model.CoerceAmount(tc.in)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.True(t, got.Equal(decimal.NewFromInt(tc.want)), "got %s", got)
			}
		})
	}
}

func TestLoanRequestBuilder_Defaults(t *testing.T) {
	req := model.NewLoanRequestBuilder(" CUST001 ").Build()

	assert.Equal(t, "CUST001", req.CustomerID)
	assert.Equal(t, 36, req.TenureMonths)
	assert.True(t, req.RequestedAmount.IsZero())
	assert.Nil(t, req.SalarySlip)
}

func TestLoanRequestBuilder_DropsUnusableFigures(t *testing.T) {
	req := model.NewLoanRequestBuilder("CUST001").
		Amount(decimal.NewFromInt(-100)).
		Tenure(-6).
		Tenure(600).
		ExplicitSalary(decimal.Zero).
		DocumentSalary(decimal.Zero, 0.9, "blank").
		SalarySlip(model.Document{Name: "empty.txt"}).
		Build()

	assert.True(t, req.RequestedAmount.IsZero())
	assert.Equal(t, 36, req.TenureMonths)
	assert.True(t, req.ExplicitMonthlySalary.IsZero())
	assert.True(t, req.DocMonthlySalary.IsZero())
	assert.Nil(t, req.SalarySlip)
}

func TestLoanRequestBuilder_CollectsAllSources(t *testing.T) {
	req := model.NewLoanRequestBuilder("CUST001").
		Amount(decimal.NewFromInt(300_000)).
		Tenure(24).
		DocumentSalary(decimal.NewFromInt(72_000), 0.8, "net pay 72,000").
		ExplicitSalary(decimal.NewFromInt(70_000)).
		SalarySlip(model.Document{Name: "slip.txt", Content: []byte("Net Salary: 72,000")}).
		DBEstimate(decimal.NewFromInt(68_000)).
		Build()

	assert.True(t, req.RequestedAmount.Equal(decimal.NewFromInt(300_000)))
	assert.Equal(t, 24, req.TenureMonths)
	assert.True(t, req.DocMonthlySalary.Equal(decimal.NewFromInt(72_000)))
	assert.Equal(t, 0.8, req.DocConfidence)
	assert.True(t, req.ExplicitMonthlySalary.Equal(decimal.NewFromInt(70_000)))
	assert.NotNil(t, req.SalarySlip)
	assert.True(t, req.DBEstimateMonthly.Equal(decimal.NewFromInt(68_000)))
}
