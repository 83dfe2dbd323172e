package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quickcash/loan-origination/internal/domain/model"
	"github.com/quickcash/loan-origination/internal/domain/port"
)

// CustomerRepo implements port.CustomerRepository.
type CustomerRepo struct {
	pool *pgxpool.Pool
}

// NewCustomerRepo creates a new repository backed by PostgreSQL.
func NewCustomerRepo(pool *pgxpool.Pool) *CustomerRepo {
	return &CustomerRepo{pool: pool}
}

const customerColumns = `
	id, name, phone, email, city, employment_type,
	annual_income, credit_score, pre_approved_limit, created_at
`

// FindByID retrieves a customer profile.
func (r *CustomerRepo) FindByID(ctx context.Context, id string) (model.CustomerProfile, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// FindByPhone retrieves a customer profile by phone number.
func (r *CustomerRepo) FindByPhone(ctx context.Context, phone string) (model.CustomerProfile, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE phone = $1`
	return r.scanOne(ctx, query, phone)
}

func (r *CustomerRepo) scanOne(ctx context.Context, query string, args ...any) (model.CustomerProfile, error) {
	var profile model.CustomerProfile
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&profile.ID, &profile.Name, &profile.Phone, &profile.Email,
		&profile.City, &profile.EmploymentType,
		&profile.AnnualIncome, &profile.CreditScore,
		&profile.PreApprovedLimit, &profile.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.CustomerProfile{}, port.ErrCustomerNotFound
	}
	if err != nil {
		return model.CustomerProfile{}, fmt.Errorf("scan customer: %w", err)
	}
	return profile, nil
}
