package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickcash/loan-origination/internal/application/dto"
	"github.com/quickcash/loan-origination/internal/application/usecase"
	"github.com/quickcash/loan-origination/internal/domain/event"
	"github.com/quickcash/loan-origination/internal/domain/model"
	"github.com/quickcash/loan-origination/internal/domain/port"
	"github.com/quickcash/loan-origination/internal/domain/service"
)

// --- Mock implementations ---

type mockCustomerRepository struct {
	findByIDFunc func(ctx context.Context, id string) (model.CustomerProfile, error)
}

func (m *mockCustomerRepository) FindByID(ctx context.Context, id string) (model.CustomerProfile, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.CustomerProfile{}, port.ErrCustomerNotFound
}

func (m *mockCustomerRepository) FindByPhone(_ context.Context, _ string) (model.CustomerProfile, error) {
	return model.CustomerProfile{}, port.ErrCustomerNotFound
}

type mockApplicationRepository struct {
	insertFunc func(ctx context.Context, app model.LoanApplication) error
	inserted   []model.LoanApplication
}

func (m *mockApplicationRepository) Insert(ctx context.Context, app model.LoanApplication) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, app)
	}
	m.inserted = append(m.inserted, app)
	return nil
}

func (m *mockApplicationRepository) FindByID(_ context.Context, id string) (model.LoanApplication, error) {
	for _, app := range m.inserted {
		if app.ID() == id {
			return app, nil
		}
	}
	return model.LoanApplication{}, port.ErrApplicationNotFound
}

func (m *mockApplicationRepository) FindByCustomerID(_ context.Context, customerID string) ([]model.LoanApplication, error) {
	var out []model.LoanApplication
	for _, app := range m.inserted {
		if app.CustomerID() == customerID {
			out = append(out, app)
		}
	}
	return out, nil
}

type mockEventPublisher struct {
	publishFunc func(ctx context.Context, evts ...event.DomainEvent) error
	published   []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.published = append(m.published, evts...)
	return nil
}

type mockReviewStore struct {
	saved []model.ReviewSnapshot
}

func (m *mockReviewStore) Save(_ context.Context, snap model.ReviewSnapshot) (string, error) {
	m.saved = append(m.saved, snap)
	return snap.SnapshotID, nil
}

func (m *mockReviewStore) Get(_ context.Context, snapshotID string) (model.ReviewSnapshot, error) {
	for _, s := range m.saved {
		if s.SnapshotID == snapshotID {
			return s, nil
		}
	}
	return model.ReviewSnapshot{}, fmt.Errorf("snapshot not found")
}

// --- Helpers ---

func newTestEngine() *service.UnderwritingEngine {
	return service.NewUnderwritingEngine(
		service.NewAffordabilityCalculator(service.DefaultRatePolicy()),
		service.NewIncomeResolver(nil, nil),
		service.NewAnomalyDetector(service.DefaultAnomalyConfig()),
		nil,
		service.DefaultEngineConfig(),
		nil,
	)
}

func customerFixture() model.CustomerProfile {
	return model.CustomerProfile{
		ID:               "CUST001",
		Name:             "Ravi Kumar",
		AnnualIncome:     decimal.NewFromInt(845_519),
		CreditScore:      780,
		PreApprovedLimit: decimal.NewFromInt(247_314),
	}
}

// --- Tests ---

func TestEvaluateApplication_ApprovalIsBookedAndPublished(t *testing.T) {
	customers := &mockCustomerRepository{
		findByIDFunc: func(_ context.Context, _ string) (model.CustomerProfile, error) {
			return customerFixture(), nil
		},
	}
	apps := &mockApplicationRepository{}
	publisher := &mockEventPublisher{}

	uc := usecase.NewEvaluateApplicationUseCase(customers, apps, publisher, nil, newTestEngine(), nil)

	resp, err := uc.Execute(context.Background(), dto.EvaluateApplicationRequest{
		CustomerID:       "CUST001",
		RequestedAmount:  decimal.NewFromInt(300_000),
		TenureMonths:     24,
		DocMonthlySalary: decimal.NewFromInt(72_000),
		DocConfidence:    0.8,
	})
	require.NoError(t, err)

	assert.Equal(t, "approved", resp.Decision)
	assert.Equal(t, 14.0, resp.InterestRate)
	require.NotNil(t, resp.Terms)

	require.Len(t, apps.inserted, 1)
	assert.Equal(t, resp.Terms.ApplicationID, apps.inserted[0].ID())

	require.Len(t, publisher.published, 1)
	assert.Equal(t, "origination.loan_application.approved", publisher.published[0].EventType())
}

func TestEvaluateApplication_UnknownCustomerIsADecisionNotAnError(t *testing.T) {
	uc := usecase.NewEvaluateApplicationUseCase(
		&mockCustomerRepository{}, &mockApplicationRepository{}, &mockEventPublisher{}, nil, newTestEngine(), nil,
	)

	resp, err := uc.Execute(context.Background(), dto.EvaluateApplicationRequest{
		CustomerID:      "GHOST",
		RequestedAmount: decimal.NewFromInt(100_000),
		TenureMonths:    24,
	})
	require.NoError(t, err)

	assert.Equal(t, "rejected", resp.Decision)
	assert.Equal(t, []string{"customer_not_found"}, resp.Reasons)
}

func TestEvaluateApplication_RepositoryFailurePropagates(t *testing.T) {
	customers := &mockCustomerRepository{
		findByIDFunc: func(_ context.Context, _ string) (model.CustomerProfile, error) {
			return model.CustomerProfile{}, errors.New("connection refused")
		},
	}
	uc := usecase.NewEvaluateApplicationUseCase(
		customers, &mockApplicationRepository{}, &mockEventPublisher{}, nil, newTestEngine(), nil,
	)

	_, err := uc.Execute(context.Background(), dto.EvaluateApplicationRequest{
		CustomerID:      "CUST001",
		RequestedAmount: decimal.NewFromInt(100_000),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load customer")
}

func TestEvaluateApplication_FlaggedApprovalBecomesManualReview(t *testing.T) {
	customers := &mockCustomerRepository{
		findByIDFunc: func(_ context.Context, _ string) (model.CustomerProfile, error) {
			c := customerFixture()
			c.AnnualIncome = decimal.NewFromInt(600_000) // 50k monthly on file
			return c, nil
		},
	}
	apps := &mockApplicationRepository{}
	publisher := &mockEventPublisher{}
	reviews := &mockReviewStore{}

	uc := usecase.NewEvaluateApplicationUseCase(customers, apps, publisher, reviews, newTestEngine(), nil)

	resp, err := uc.Execute(context.Background(), dto.EvaluateApplicationRequest{
		CustomerID:       "CUST001",
		RequestedAmount:  decimal.NewFromInt(100_000),
		TenureMonths:     24,
		DocMonthlySalary: decimal.NewFromInt(300_000),
		DocConfidence:    0.8,
	})
	require.NoError(t, err)

	assert.Equal(t, "manual_review_required", resp.Decision)
	assert.True(t, resp.FlagForManualReview)
	assert.Nil(t, resp.Terms, "offer is withheld pending review")
	require.Len(t, resp.Anomalies, 1)
	assert.Equal(t, model.AnomalySalaryMismatch, resp.Anomalies[0].Type)

	// Nothing is booked; the snapshot and event carry the context instead.
	assert.Empty(t, apps.inserted)
	require.Len(t, reviews.saved, 1)
	assert.Equal(t, resp.ReviewSnapshotID, reviews.saved[0].SnapshotID)
	require.Len(t, publisher.published, 1)
	assert.Equal(t, "origination.manual_review.flagged", publisher.published[0].EventType())
}

func TestEvaluateApplication_NeedsSalarySlipPublishesRequest(t *testing.T) {
	customers := &mockCustomerRepository{
		findByIDFunc: func(_ context.Context, _ string) (model.CustomerProfile, error) {
			return model.CustomerProfile{
				ID:               "CUST002",
				CreditScore:      720,
				PreApprovedLimit: decimal.NewFromInt(100_000),
			}, nil
		},
	}
	publisher := &mockEventPublisher{}
	uc := usecase.NewEvaluateApplicationUseCase(
		customers, &mockApplicationRepository{}, publisher, nil, newTestEngine(), nil,
	)

	resp, err := uc.Execute(context.Background(), dto.EvaluateApplicationRequest{
		CustomerID:      "CUST002",
		RequestedAmount: decimal.NewFromInt(150_000),
		TenureMonths:    12,
	})
	require.NoError(t, err)

	assert.Equal(t, "needs_salary_slip", resp.Decision)
	require.Len(t, publisher.published, 1)
	assert.Equal(t, "origination.salary_slip.requested", publisher.published[0].EventType())
}

func TestEvaluateApplication_PublisherFailureDoesNotFailDecision(t *testing.T) {
	customers := &mockCustomerRepository{
		findByIDFunc: func(_ context.Context, _ string) (model.CustomerProfile, error) {
			return customerFixture(), nil
		},
	}
	publisher := &mockEventPublisher{
		publishFunc: func(_ context.Context, _ ...event.DomainEvent) error {
			return errors.New("broker down")
		},
	}
	uc := usecase.NewEvaluateApplicationUseCase(
		customers, &mockApplicationRepository{}, publisher, nil, newTestEngine(), nil,
	)

	resp, err := uc.Execute(context.Background(), dto.EvaluateApplicationRequest{
		CustomerID:       "CUST001",
		RequestedAmount:  decimal.NewFromInt(200_000),
		TenureMonths:     24,
		DocMonthlySalary: decimal.NewFromInt(72_000),
		DocConfidence:    0.8,
	})
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Decision)
}

func TestEvaluateApplication_InsertFailurePropagates(t *testing.T) {
	customers := &mockCustomerRepository{
		findByIDFunc: func(_ context.Context, _ string) (model.CustomerProfile, error) {
			return customerFixture(), nil
		},
	}
	apps := &mockApplicationRepository{
		insertFunc: func(_ context.Context, _ model.LoanApplication) error {
			return errors.New("duplicate key")
		},
	}
	uc := usecase.NewEvaluateApplicationUseCase(
		customers, apps, &mockEventPublisher{}, nil, newTestEngine(), nil,
	)

	_, err := uc.Execute(context.Background(), dto.EvaluateApplicationRequest{
		CustomerID:       "CUST001",
		RequestedAmount:  decimal.NewFromInt(200_000),
		TenureMonths:     24,
		DocMonthlySalary: decimal.NewFromInt(72_000),
		DocConfidence:    0.8,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert application")
}
