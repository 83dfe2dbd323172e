package pipeline_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickcash/loan-origination/internal/application/pipeline"
	"github.com/quickcash/loan-origination/internal/domain/model"
	"github.com/quickcash/loan-origination/internal/domain/port"
	"github.com/quickcash/loan-origination/internal/domain/service"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"i need 3 lakh", 300_000},
		{"2.5 lakhs please", 250_000},
		{"1 lac", 100_000},
		{"0.5 crore", 5_000_000},
		{"give me 250000", 250_000},
		{"2,50,000", 250_000},
		{"25k", 25_000},
		{"need a loan", 0},
		{"", 0},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got := pipeline.ParseAmount(tc.in)
			assert.True(t, got.Equal(decimal.NewFromInt(tc.want)), "got %s", got)
		})
	}
}

func TestParseTenureMonths(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"2 years", 24},
		{"1 year", 12},
		{"18 months", 18},
		{"6 mo", 6},
		{"soon", 0},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, pipeline.ParseTenureMonths(tc.in))
		})
	}
}

func TestHasConfirmation(t *testing.T) {
	assert.True(t, pipeline.HasConfirmation("ok, proceed"))
	assert.True(t, pipeline.HasConfirmation("Start application"))
	assert.True(t, pipeline.HasConfirmation("let's do it"))
	assert.False(t, pipeline.HasConfirmation("what is the interest rate?"))
}

type stubCustomers struct {
	profile model.CustomerProfile
	found   bool
}

func (s *stubCustomers) FindByID(_ context.Context, _ string) (model.CustomerProfile, error) {
	if !s.found {
		return model.CustomerProfile{}, port.ErrCustomerNotFound
	}
	return s.profile, nil
}

func (s *stubCustomers) FindByPhone(_ context.Context, _ string) (model.CustomerProfile, error) {
	return model.CustomerProfile{}, port.ErrCustomerNotFound
}

func newSalesStage(customers port.CustomerRepository) *pipeline.SalesStage {
	return pipeline.NewSalesStage(customers, service.NewAffordabilityCalculator(service.DefaultRatePolicy()))
}

func TestSalesStage_ClarifiesWhenIncomplete(t *testing.T) {
	stage := newSalesStage(&stubCustomers{})
	session := pipeline.NewSessionStore().Create("CUST001")

	res, err := stage.Quote(context.Background(), session, "i want 3 lakh")
	require.NoError(t, err)

	assert.True(t, res.RequestedAmount.Equal(decimal.NewFromInt(300_000)))
	assert.Zero(t, res.RequestedTenure)
	assert.False(t, res.ReadyToProcess)
	assert.Contains(t, res.Message, "tenure")
}

func TestSalesStage_QuotesWhenComplete(t *testing.T) {
	customers := &stubCustomers{
		found: true,
		profile: model.CustomerProfile{
			ID:               "CUST001",
			PreApprovedLimit: decimal.NewFromInt(247_314),
		},
	}
	stage := newSalesStage(customers)
	session := pipeline.NewSessionStore().Create("CUST001")

	res, err := stage.Quote(context.Background(), session, "3 lakh for 2 years")
	require.NoError(t, err)

	assert.True(t, res.RequestedAmount.Equal(decimal.NewFromInt(300_000)))
	assert.Equal(t, 24, res.RequestedTenure)
	assert.True(t, res.RequiresConfirmation)
	assert.True(t, res.ReadyToProcess)
	assert.False(t, res.AutoStart)
	require.NotNil(t, res.Offer)
	assert.True(t, res.Offer.MaxAmount.Equal(decimal.NewFromInt(247_314)))
	// 300k over 24 months at the 12% display rate.
	assert.True(t, res.EstimatedEMI.Equal(decimal.NewFromInt(14_123)), "got %s", res.EstimatedEMI)
}

func TestSalesStage_AutoStartOnInlineConfirmation(t *testing.T) {
	stage := newSalesStage(&stubCustomers{})
	session := pipeline.NewSessionStore().Create("CUST001")

	res, err := stage.Quote(context.Background(), session, "3 lakh for 24 months, go ahead")
	require.NoError(t, err)

	assert.True(t, res.ReadyToProcess)
	assert.True(t, res.AutoStart)
}

func TestSalesStage_KeepsEarlierTurnFigures(t *testing.T) {
	stage := newSalesStage(&stubCustomers{})
	store := pipeline.NewSessionStore()
	session := store.Create("CUST001")
	session.RequestedAmount = decimal.NewFromInt(300_000)
	store.Save(session)
	session, _ = store.Get(session.ID)

	res, err := stage.Quote(context.Background(), session, "2 years")
	require.NoError(t, err)

	assert.True(t, res.RequestedAmount.Equal(decimal.NewFromInt(300_000)))
	assert.Equal(t, 24, res.RequestedTenure)
	assert.True(t, res.ReadyToProcess)
}
