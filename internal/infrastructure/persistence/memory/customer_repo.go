package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quickcash/loan-origination/internal/domain/model"
	"github.com/quickcash/loan-origination/internal/domain/port"
)

// CustomerRepository is an in-memory port.CustomerRepository for development
// and tests.
type CustomerRepository struct {
	mu      sync.RWMutex
	byID    map[string]model.CustomerProfile
	byPhone map[string]string
}

// NewCustomerRepository creates an empty repository.
func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{
		byID:    make(map[string]model.CustomerProfile),
		byPhone: make(map[string]string),
	}
}

// Put inserts or replaces a profile.
func (r *CustomerRepository) Put(profile model.CustomerProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[profile.ID] = profile
	if profile.Phone != "" {
		r.byPhone[profile.Phone] = profile.ID
	}
}

// FindByID implements port.CustomerRepository.
func (r *CustomerRepository) FindByID(_ context.Context, id string) (model.CustomerProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.byID[id]
	if !ok {
		return model.CustomerProfile{}, port.ErrCustomerNotFound
	}
	return profile, nil
}

// FindByPhone implements port.CustomerRepository.
func (r *CustomerRepository) FindByPhone(_ context.Context, phone string) (model.CustomerProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byPhone[phone]
	if !ok {
		return model.CustomerProfile{}, port.ErrCustomerNotFound
	}
	return r.byID[id], nil
}

// ScoreBook returns each customer's score on file, for wiring the stub
// bureau in demo mode.
func (r *CustomerRepository) ScoreBook() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	book := make(map[string]int, len(r.byID))
	for id, profile := range r.byID {
		book[id] = profile.CreditScore
	}
	return book
}

// Seed loads the demo customer book. Pre-approved limits follow the book's
// seeding rule: 30% of annual income scaled by score relative to 800.
func (r *CustomerRepository) Seed(now time.Time) {
	type seedRow struct {
		id, name, phone, email, city, employment string
		annualIncome                             int64
		creditScore                              int
	}
	rows := []seedRow{
		{"CUST1001", "Ravi Kumar", "+919812001001", "ravi.kumar@example.com", "Bengaluru", "salaried", 845_519, 780},
		{"CUST1002", "Priya Sharma", "+919812001002", "priya.sharma@example.com", "Mumbai", "salaried", 612_000, 742},
		{"CUST1003", "Amit Patel", "+919812001003", "amit.patel@example.com", "Ahmedabad", "self_employed", 1_240_000, 701},
		{"CUST1004", "Sunita Reddy", "+919812001004", "sunita.reddy@example.com", "Hyderabad", "salaried", 456_000, 655},
		{"CUST1005", "Vikram Singh", "+919812001005", "vikram.singh@example.com", "Delhi", "self_employed", 2_100_000, 810},
		{"CUST1006", "Anjali Nair", "+919812001006", "anjali.nair@example.com", "Kochi", "salaried", 380_000, 590},
	}
	for _, row := range rows {
		annual := decimal.NewFromInt(row.annualIncome)
		limit := annual.
			Mul(decimal.NewFromFloat(0.3)).
			Mul(decimal.NewFromInt(int64(row.creditScore))).
			Div(decimal.NewFromInt(800)).
			Round(0)
		r.Put(model.CustomerProfile{
			ID:               row.id,
			Name:             row.name,
			Phone:            row.phone,
			Email:            row.email,
			City:             row.city,
			EmploymentType:   row.employment,
			AnnualIncome:     annual,
			CreditScore:      row.creditScore,
			PreApprovedLimit: limit,
			CreatedAt:        now,
		})
	}
}
