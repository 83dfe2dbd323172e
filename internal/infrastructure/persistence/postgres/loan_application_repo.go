package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/quickcash/loan-origination/internal/domain/model"
	"github.com/quickcash/loan-origination/internal/domain/port"
	"github.com/quickcash/loan-origination/internal/domain/valueobject"
)

// LoanApplicationRepo implements port.LoanApplicationRepository.
type LoanApplicationRepo struct {
	pool *pgxpool.Pool
}

// NewLoanApplicationRepo creates a new repository backed by PostgreSQL.
func NewLoanApplicationRepo(pool *pgxpool.Pool) *LoanApplicationRepo {
	return &LoanApplicationRepo{pool: pool}
}

// Insert books a new application. Applications are insert-only; lifecycle
// changes travel on the event stream.
func (r *LoanApplicationRepo) Insert(ctx context.Context, app model.LoanApplication) error {
	query := `
		INSERT INTO loan_applications (
			id, customer_id, amount, tenure_months, interest_rate,
			monthly_emi, processing_fee, approval_type, credit_score,
			status, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`
	_, err := r.pool.Exec(ctx, query,
		app.ID(), app.CustomerID(),
		app.Amount(), app.TenureMonths(), app.InterestRate(),
		app.MonthlyEMI(), app.ProcessingFee(),
		app.ApprovalType(), app.CreditScore(),
		app.Status().String(), app.CreatedAt(), app.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("insert loan application: %w", err)
	}
	return nil
}

// FindByID retrieves a single application.
func (r *LoanApplicationRepo) FindByID(ctx context.Context, id string) (model.LoanApplication, error) {
	query := `
		SELECT id, customer_id, amount, tenure_months, interest_rate,
		       monthly_emi, processing_fee, approval_type, credit_score,
		       status, created_at, updated_at
		FROM loan_applications
		WHERE id = $1
	`
	app, err := scanApplication(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.LoanApplication{}, port.ErrApplicationNotFound
	}
	return app, err
}

// FindByCustomerID retrieves all applications for a customer, newest first.
func (r *LoanApplicationRepo) FindByCustomerID(ctx context.Context, customerID string) ([]model.LoanApplication, error) {
	query := `
		SELECT id, customer_id, amount, tenure_months, interest_rate,
		       monthly_emi, processing_fee, approval_type, credit_score,
		       status, created_at, updated_at
		FROM loan_applications
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("query loan applications: %w", err)
	}
	defer rows.Close()

	var result []model.LoanApplication
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, app)
	}
	return result, rows.Err()
}

// ---------------------------------------------------------------------------
// scan helpers
// ---------------------------------------------------------------------------

type scannable interface {
	Scan(dest ...any) error
}

func scanApplication(s scannable) (model.LoanApplication, error) {
	var (
		id, customerID            string
		amount                    decimal.Decimal
		tenureMonths              int
		interestRate              float64
		monthlyEMI, processingFee decimal.Decimal
		approvalType              string
		creditScore               int
		statusStr                 string
		createdAt, updatedAt      time.Time
	)

	err := s.Scan(
		&id, &customerID,
		&amount, &tenureMonths, &interestRate,
		&monthlyEMI, &processingFee,
		&approvalType, &creditScore,
		&statusStr, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.LoanApplication{}, err
		}
		return model.LoanApplication{}, fmt.Errorf("scan loan application: %w", err)
	}

	status, err := valueobject.NewApplicationStatus(statusStr)
	if err != nil {
		return model.LoanApplication{}, fmt.Errorf("parse status: %w", err)
	}

	return model.ReconstructLoanApplication(
		id, customerID,
		amount, tenureMonths, interestRate,
		monthlyEMI, processingFee,
		approvalType, creditScore,
		status, createdAt, updatedAt,
	), nil
}
