package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/quickcash/loan-origination/internal/application/dto"
	"github.com/quickcash/loan-origination/internal/application/pipeline"
	"github.com/quickcash/loan-origination/internal/application/usecase"
	"github.com/quickcash/loan-origination/internal/domain/model"
	"github.com/quickcash/loan-origination/internal/domain/port"
	"github.com/quickcash/loan-origination/internal/domain/valueobject"
	"github.com/quickcash/loan-origination/internal/observability"
)

// OriginationHandler exposes the conversational flow and the direct
// underwriting operations over HTTP.
type OriginationHandler struct {
	orchestrator *pipeline.Orchestrator
	evaluate     *usecase.EvaluateApplicationUseCase
	getApp       *usecase.GetApplicationUseCase
	letters      *usecase.IssueSanctionLetterUseCase
	reviews      port.ReviewStore
	metrics      *observability.OriginationMetrics
	logger       *slog.Logger
}

// NewOriginationHandler creates the handler. metrics and reviews may be nil.
func NewOriginationHandler(
	orchestrator *pipeline.Orchestrator,
	evaluate *usecase.EvaluateApplicationUseCase,
	getApp *usecase.GetApplicationUseCase,
	letters *usecase.IssueSanctionLetterUseCase,
	reviews port.ReviewStore,
	metrics *observability.OriginationMetrics,
	logger *slog.Logger,
) *OriginationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OriginationHandler{
		orchestrator: orchestrator,
		evaluate:     evaluate,
		getApp:       getApp,
		letters:      letters,
		reviews:      reviews,
		metrics:      metrics,
		logger:       logger,
	}
}

// RegisterRoutes attaches the API routes to the given mux.
func (h *OriginationHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/conversations", h.startConversation)
	mux.HandleFunc("POST /v1/conversations/{id}/messages", h.handleMessage)
	mux.HandleFunc("POST /v1/conversations/{id}/salary-slip", h.submitSalarySlip)
	mux.HandleFunc("POST /v1/underwrite", h.underwrite)
	mux.HandleFunc("GET /v1/applications/{id}", h.getApplication)
	mux.HandleFunc("POST /v1/applications/{id}/sanction-letter", h.issueSanctionLetter)
	mux.HandleFunc("GET /v1/reviews/{id}", h.getReviewSnapshot)
}

type startConversationRequest struct {
	CustomerID string `json:"customer_id"`
}

func (h *OriginationHandler) startConversation(w http.ResponseWriter, r *http.Request) {
	var req startConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.CustomerID == "" {
		writeError(w, http.StatusBadRequest, "customer_id is required")
		return
	}

	res, err := h.orchestrator.StartConversation(r.Context(), req.CustomerID)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

type messageRequest struct {
	Text string `json:"text"`
}

func (h *OriginationHandler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	started := time.Now()
	res, err := h.orchestrator.HandleMessage(r.Context(), r.PathValue("id"), req.Text)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.recordDecision(r, res.Decision, started)
	writeJSON(w, http.StatusOK, res)
}

func (h *OriginationHandler) submitSalarySlip(w http.ResponseWriter, r *http.Request) {
	var doc dto.DocumentPayload
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(doc.Content) == 0 {
		writeError(w, http.StatusBadRequest, "document content is required")
		return
	}

	started := time.Now()
	res, err := h.orchestrator.SubmitSalarySlip(r.Context(), r.PathValue("id"), doc)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.recordDecision(r, res.Decision, started)
	writeJSON(w, http.StatusOK, res)
}

type underwriteRequest struct {
	CustomerID            string               `json:"customer_id"`
	RequestedAmount       string               `json:"requested_amount"`
	TenureMonths          int                  `json:"tenure_months"`
	ExplicitMonthlySalary string               `json:"explicit_monthly_salary,omitempty"`
	SalarySlip            *dto.DocumentPayload `json:"salary_slip,omitempty"`
}

func (h *OriginationHandler) underwrite(w http.ResponseWriter, r *http.Request) {
	var req underwriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.CustomerID == "" {
		writeError(w, http.StatusBadRequest, "customer_id is required")
		return
	}
	amount, ok := model.CoerceAmount(req.RequestedAmount)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid requested_amount")
		return
	}

	in := dto.EvaluateApplicationRequest{
		CustomerID:      req.CustomerID,
		RequestedAmount: amount,
		TenureMonths:    req.TenureMonths,
		SalarySlip:      req.SalarySlip,
	}
	if req.ExplicitMonthlySalary != "" {
		salary, ok := model.CoerceAmount(req.ExplicitMonthlySalary)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid explicit_monthly_salary")
			return
		}
		in.ExplicitMonthlySalary = salary
	}

	started := time.Now()
	decision, err := h.evaluate.Execute(r.Context(), in)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.recordDecision(r, &decision, started)
	writeJSON(w, http.StatusOK, decision)
}

func (h *OriginationHandler) getApplication(w http.ResponseWriter, r *http.Request) {
	app, err := h.getApp.Execute(r.Context(), dto.GetApplicationRequest{
		ApplicationID:   r.PathValue("id"),
		IncludeSchedule: r.URL.Query().Get("include_schedule") == "true",
	})
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *OriginationHandler) issueSanctionLetter(w http.ResponseWriter, r *http.Request) {
	letter, err := h.letters.Execute(r.Context(), dto.IssueSanctionLetterRequest{
		ApplicationID: r.PathValue("id"),
	})
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordLetterIssued(r.Context())
	}
	writeJSON(w, http.StatusOK, letter)
}

func (h *OriginationHandler) getReviewSnapshot(w http.ResponseWriter, r *http.Request) {
	if h.reviews == nil {
		writeError(w, http.StatusNotFound, "review store not configured")
		return
	}
	snap, err := h.reviews.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "review snapshot not found")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *OriginationHandler) recordDecision(r *http.Request, decision *dto.UnderwritingDecisionResponse, started time.Time) {
	if h.metrics == nil || decision == nil {
		return
	}
	h.metrics.RecordDecision(r.Context(), decision.Decision, time.Since(started).Seconds())
	for _, a := range decision.Anomalies {
		h.metrics.RecordAnomaly(r.Context(), a.Type)
	}
}

func (h *OriginationHandler) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, pipeline.ErrSessionNotFound),
		errors.Is(err, port.ErrApplicationNotFound),
		errors.Is(err, port.ErrCustomerNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, valueobject.ErrInvalidStatusTransition):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
