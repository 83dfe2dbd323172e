package pipeline_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickcash/loan-origination/internal/application/dto"
	"github.com/quickcash/loan-origination/internal/application/pipeline"
	"github.com/quickcash/loan-origination/internal/application/usecase"
	"github.com/quickcash/loan-origination/internal/domain/event"
	"github.com/quickcash/loan-origination/internal/domain/model"
	"github.com/quickcash/loan-origination/internal/domain/port"
	"github.com/quickcash/loan-origination/internal/domain/service"
)

// --- Test fixtures ---

type fixtureCustomers struct {
	profiles map[string]model.CustomerProfile
}

func (f *fixtureCustomers) FindByID(_ context.Context, id string) (model.CustomerProfile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return model.CustomerProfile{}, port.ErrCustomerNotFound
	}
	return p, nil
}

func (f *fixtureCustomers) FindByPhone(_ context.Context, _ string) (model.CustomerProfile, error) {
	return model.CustomerProfile{}, port.ErrCustomerNotFound
}

type memoryApplications struct {
	mu   sync.Mutex
	apps map[string]model.LoanApplication
}

func newMemoryApplications() *memoryApplications {
	return &memoryApplications{apps: make(map[string]model.LoanApplication)}
}

func (m *memoryApplications) Insert(_ context.Context, app model.LoanApplication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apps[app.ID()] = app
	return nil
}

func (m *memoryApplications) FindByID(_ context.Context, id string) (model.LoanApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[id]
	if !ok {
		return model.LoanApplication{}, port.ErrApplicationNotFound
	}
	return app, nil
}

func (m *memoryApplications) FindByCustomerID(_ context.Context, customerID string) ([]model.LoanApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.LoanApplication
	for _, app := range m.apps {
		if app.CustomerID() == customerID {
			out = append(out, app)
		}
	}
	return out, nil
}

type sinkPublisher struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (s *sinkPublisher) Publish(_ context.Context, evs ...event.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evs...)
	return nil
}

type stubCRM struct {
	status model.KYCStatus
}

func (s *stubCRM) GetKYCStatus(_ context.Context, customerID string) (model.KYCStatus, error) {
	st := s.status
	st.CustomerID = customerID
	return st, nil
}

type plainRenderer struct{}

func (plainRenderer) Render(app model.LoanApplication, customer model.CustomerProfile, now time.Time) model.SanctionLetter {
	schedule := model.GenerateRepaymentSchedule(model.LoanTerms{
		ApplicationID: app.ID(),
		Amount:        app.Amount(),
		InterestRate:  app.InterestRate(),
		TenureMonths:  app.TenureMonths(),
		MonthlyEMI:    app.MonthlyEMI(),
	}, now)
	return model.SanctionLetter{
		ApplicationID:  app.ID(),
		CustomerName:   customer.Name,
		Amount:         app.Amount(),
		InterestRate:   app.InterestRate(),
		TenureMonths:   app.TenureMonths(),
		MonthlyEMI:     app.MonthlyEMI(),
		ProcessingFee:  app.ProcessingFee(),
		TotalInterest:  model.TotalInterest(schedule),
		TotalRepayment: app.TotalRepayment(),
		Body:           "sanction letter",
		IssuedAt:       now,
		ValidUntil:     now.AddDate(0, 0, 30),
	}
}

type stubExtractor struct {
	extraction model.Extraction
	err        error
}

func (s *stubExtractor) Extract(_ context.Context, _ model.Document) (model.Extraction, error) {
	return s.extraction, s.err
}

type harness struct {
	orchestrator *pipeline.Orchestrator
	apps         *memoryApplications
	publisher    *sinkPublisher
}

func newHarness(t *testing.T, profiles map[string]model.CustomerProfile, extractor port.IncomeExtractor) *harness {
	t.Helper()

	customers := &fixtureCustomers{profiles: profiles}
	apps := newMemoryApplications()
	publisher := &sinkPublisher{}

	calc := service.NewAffordabilityCalculator(service.DefaultRatePolicy())
	engine := service.NewUnderwritingEngine(
		calc,
		service.NewIncomeResolver(extractor, nil),
		service.NewAnomalyDetector(service.DefaultAnomalyConfig()),
		nil,
		service.DefaultEngineConfig(),
		nil,
	)

	evaluate := usecase.NewEvaluateApplicationUseCase(customers, apps, publisher, nil, engine, nil)
	letters := usecase.NewIssueSanctionLetterUseCase(apps, customers, plainRenderer{}, publisher, nil)

	crm := &stubCRM{status: model.KYCStatus{PANVerified: true, AadhaarVerified: true}}
	orchestrator := pipeline.NewOrchestrator(
		pipeline.NewSessionStore(),
		pipeline.NewSalesStage(customers, calc),
		pipeline.NewVerificationStage(customers, crm, nil),
		evaluate,
		letters,
		nil,
	)
	return &harness{orchestrator: orchestrator, apps: apps, publisher: publisher}
}

func scenarioProfiles() map[string]model.CustomerProfile {
	return map[string]model.CustomerProfile{
		"CUST001": {
			ID:               "CUST001",
			Name:             "Ravi Kumar",
			City:             "Bengaluru",
			AnnualIncome:     decimal.NewFromInt(845_519),
			CreditScore:      780,
			PreApprovedLimit: decimal.NewFromInt(247_314),
		},
	}
}

// --- Tests ---

func TestOrchestrator_FullApprovalFlow(t *testing.T) {
	h := newHarness(t, scenarioProfiles(), nil)
	ctx := context.Background()

	start, err := h.orchestrator.StartConversation(ctx, "CUST001")
	require.NoError(t, err)
	require.NotEmpty(t, start.SessionID)
	assert.Equal(t, pipeline.StageSales, start.Stage)

	// First turn quotes; no processing without a go-ahead.
	quote, err := h.orchestrator.HandleMessage(ctx, start.SessionID, "i need 2 lakh for 2 years")
	require.NoError(t, err)
	assert.Equal(t, pipeline.StageSales, quote.Stage)
	assert.Nil(t, quote.Decision)

	// The confirmation turn runs the pipeline end to end.
	final, err := h.orchestrator.HandleMessage(ctx, start.SessionID, "proceed")
	require.NoError(t, err)

	assert.Equal(t, pipeline.StageSanction, final.Stage)
	require.NotNil(t, final.Decision)
	assert.Equal(t, "approved", final.Decision.Decision)
	assert.Equal(t, 12.0, final.Decision.InterestRate)
	require.NotNil(t, final.Letter)
	assert.Equal(t, "Ravi Kumar", final.Letter.CustomerName)
	assert.False(t, final.Letter.TotalRepayment.IsZero())

	// The approval was booked and lettered.
	app, err := h.apps.FindByID(ctx, final.Letter.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, "CUST001", app.CustomerID())
}

func TestOrchestrator_InlineConfirmationSkipsExtraTurn(t *testing.T) {
	h := newHarness(t, scenarioProfiles(), nil)
	ctx := context.Background()

	start, err := h.orchestrator.StartConversation(ctx, "CUST001")
	require.NoError(t, err)

	final, err := h.orchestrator.HandleMessage(ctx, start.SessionID, "2 lakh for 24 months, go ahead")
	require.NoError(t, err)

	require.NotNil(t, final.Decision)
	assert.Equal(t, "approved", final.Decision.Decision)
}

func TestOrchestrator_SalarySlipRoundTrip(t *testing.T) {
	extractor := &stubExtractor{extraction: model.Extraction{
		MonthlyAmount: decimal.NewFromInt(72_000),
		Confidence:    0.75,
		EvidenceText:  "Net Salary: 72,000",
	}}
	profiles := scenarioProfiles()
	profile := profiles["CUST001"]
	profile.AnnualIncome = decimal.Zero // nothing on file, slip becomes the only source
	profiles["CUST001"] = profile

	h := newHarness(t, profiles, extractor)
	ctx := context.Background()

	start, err := h.orchestrator.StartConversation(ctx, "CUST001")
	require.NoError(t, err)

	// Above the limit with no income evidence: the flow parks on a slip.
	asked, err := h.orchestrator.HandleMessage(ctx, start.SessionID, "3 lakh for 2 years, proceed")
	require.NoError(t, err)
	require.NotNil(t, asked.Decision)
	assert.Equal(t, "needs_salary_slip", asked.Decision.Decision)
	assert.True(t, asked.AwaitingSalarySlip)

	// Chatting while parked keeps pointing at the upload.
	nudge, err := h.orchestrator.HandleMessage(ctx, start.SessionID, "ok")
	require.NoError(t, err)
	assert.True(t, nudge.AwaitingSalarySlip)
	assert.Contains(t, nudge.Message, "salary slip")

	// The upload re-runs the decision with the document as evidence.
	final, err := h.orchestrator.SubmitSalarySlip(ctx, start.SessionID, dto.DocumentPayload{
		Name:    "slip.txt",
		Content: []byte("Net Salary: 72,000"),
	})
	require.NoError(t, err)

	require.NotNil(t, final.Decision)
	assert.Equal(t, "approved", final.Decision.Decision)
	assert.Equal(t, "ocr_extracted", final.Decision.IncomeProvenance)
	assert.Equal(t, 14.0, final.Decision.InterestRate)
	require.NotNil(t, final.Letter)
}

func TestOrchestrator_UnknownCustomerStopsAtVerification(t *testing.T) {
	h := newHarness(t, scenarioProfiles(), nil)
	ctx := context.Background()

	start, err := h.orchestrator.StartConversation(ctx, "GHOST")
	require.NoError(t, err)

	res, err := h.orchestrator.HandleMessage(ctx, start.SessionID, "1 lakh for 12 months, proceed")
	require.NoError(t, err)

	assert.Equal(t, pipeline.StageVerification, res.Stage)
	require.NotNil(t, res.Verification)
	assert.Equal(t, pipeline.VerificationNotFound, res.Verification.Status)
	assert.Nil(t, res.Decision)
}

func TestOrchestrator_UnknownSession(t *testing.T) {
	h := newHarness(t, scenarioProfiles(), nil)

	_, err := h.orchestrator.HandleMessage(context.Background(), "no-such-session", "hello")
	assert.ErrorIs(t, err, pipeline.ErrSessionNotFound)
}
