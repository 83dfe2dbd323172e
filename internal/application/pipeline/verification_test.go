package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickcash/loan-origination/internal/application/pipeline"
	"github.com/quickcash/loan-origination/internal/domain/model"
)

type crmFunc func(ctx context.Context, customerID string) (model.KYCStatus, error)

func (f crmFunc) GetKYCStatus(ctx context.Context, customerID string) (model.KYCStatus, error) {
	return f(ctx, customerID)
}

func TestVerificationStage_Passed(t *testing.T) {
	crm := crmFunc(func(_ context.Context, id string) (model.KYCStatus, error) {
		return model.KYCStatus{
			CustomerID:      id,
			PANVerified:     true,
			AadhaarVerified: true,
			CheckedAt:       time.Now(),
		}, nil
	})
	stage := pipeline.NewVerificationStage(&fixtureCustomers{profiles: scenarioProfiles()}, crm, nil)

	res, err := stage.Verify(context.Background(), "CUST001")
	require.NoError(t, err)

	assert.Equal(t, pipeline.VerificationPassed, res.Status)
	assert.ElementsMatch(t, []string{"pan", "aadhaar"}, res.VerifiedDocs)
	assert.Empty(t, res.MissingDocs)
	assert.True(t, res.Passed())
}

func TestVerificationStage_PartialProceeds(t *testing.T) {
	crm := crmFunc(func(_ context.Context, id string) (model.KYCStatus, error) {
		return model.KYCStatus{CustomerID: id, PANVerified: true}, nil
	})
	stage := pipeline.NewVerificationStage(&fixtureCustomers{profiles: scenarioProfiles()}, crm, nil)

	res, err := stage.Verify(context.Background(), "CUST001")
	require.NoError(t, err)

	assert.Equal(t, pipeline.VerificationPartial, res.Status)
	assert.Equal(t, []string{"aadhaar"}, res.MissingDocs)
	assert.True(t, res.Passed(), "partial verification must not block the flow")
}

func TestVerificationStage_CRMOutageDegrades(t *testing.T) {
	crm := crmFunc(func(context.Context, string) (model.KYCStatus, error) {
		return model.KYCStatus{}, errors.New("crm unreachable")
	})
	stage := pipeline.NewVerificationStage(&fixtureCustomers{profiles: scenarioProfiles()}, crm, nil)

	res, err := stage.Verify(context.Background(), "CUST001")
	require.NoError(t, err)

	assert.Equal(t, pipeline.VerificationPartial, res.Status)
	assert.True(t, res.Passed())
}

func TestVerificationStage_NilCRM(t *testing.T) {
	stage := pipeline.NewVerificationStage(&fixtureCustomers{profiles: scenarioProfiles()}, nil, nil)

	res, err := stage.Verify(context.Background(), "CUST001")
	require.NoError(t, err)
	assert.Equal(t, pipeline.VerificationPartial, res.Status)
}

func TestVerificationStage_UnknownCustomer(t *testing.T) {
	stage := pipeline.NewVerificationStage(&fixtureCustomers{profiles: scenarioProfiles()}, nil, nil)

	res, err := stage.Verify(context.Background(), "GHOST")
	require.NoError(t, err)

	assert.Equal(t, pipeline.VerificationNotFound, res.Status)
	assert.False(t, res.Passed())
}
