package rest_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickcash/loan-origination/internal/application/dto"
	"github.com/quickcash/loan-origination/internal/application/pipeline"
	"github.com/quickcash/loan-origination/internal/application/usecase"
	"github.com/quickcash/loan-origination/internal/domain/service"
	"github.com/quickcash/loan-origination/internal/infrastructure/letter"
	"github.com/quickcash/loan-origination/internal/infrastructure/persistence/memory"
	"github.com/quickcash/loan-origination/internal/presentation/rest"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	customers := memory.NewCustomerRepository()
	customers.Seed(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	apps := memory.NewLoanApplicationRepository()

	afford := service.NewAffordabilityCalculator(service.DefaultRatePolicy())
	engine := service.NewUnderwritingEngine(
		afford,
		service.NewIncomeResolver(nil, nil),
		service.NewAnomalyDetector(service.DefaultAnomalyConfig()),
		nil,
		service.DefaultEngineConfig(),
		nil,
	)

	evaluateUC := usecase.NewEvaluateApplicationUseCase(customers, apps, nil, nil, engine, nil)
	getAppUC := usecase.NewGetApplicationUseCase(apps)
	letterUC := usecase.NewIssueSanctionLetterUseCase(apps, customers, letter.NewRenderer(""), nil, nil)

	orchestrator := pipeline.NewOrchestrator(
		pipeline.NewSessionStore(),
		pipeline.NewSalesStage(customers, afford),
		pipeline.NewVerificationStage(customers, nil, nil),
		evaluateUC,
		letterUC,
		nil,
	)

	mux := http.NewServeMux()
	handler := rest.NewOriginationHandler(orchestrator, evaluateUC, getAppUC, letterUC, nil, nil, nil)
	handler.RegisterRoutes(mux)
	return mux
}

func postUnderwrite(t *testing.T, mux *http.ServeMux, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/underwrite", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestUnderwrite_ToleratesFormattedAmount(t *testing.T) {
	mux := newTestMux(t)

	rec := postUnderwrite(t, mux,
		`{"customer_id":"CUST1001","requested_amount":"Rs. 2,00,000","tenure_months":24}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var decision dto.UnderwritingDecisionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decision))
	assert.Equal(t, "approved", decision.Decision)
	assert.Equal(t, 12.0, decision.InterestRate)
}

func TestUnderwrite_RejectsPhoneNumberAsAmount(t *testing.T) {
	mux := newTestMux(t)

	// Ten digits reads as a phone number, not a principal.
	rec := postUnderwrite(t, mux,
		`{"customer_id":"CUST1001","requested_amount":"9812001001","tenure_months":24}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnderwrite_RejectsUnparseableAmount(t *testing.T) {
	mux := newTestMux(t)

	rec := postUnderwrite(t, mux,
		`{"customer_id":"CUST1001","requested_amount":"call me back","tenure_months":24}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnderwrite_RejectsMalformedSalary(t *testing.T) {
	mux := newTestMux(t)

	rec := postUnderwrite(t, mux,
		`{"customer_id":"CUST1001","requested_amount":"200000","tenure_months":24,"explicit_monthly_salary":"n/a"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
