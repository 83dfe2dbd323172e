package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/quickcash/loan-origination/internal/domain/model"
	"github.com/quickcash/loan-origination/internal/domain/port"
)

// LoanApplicationRepository is an in-memory port.LoanApplicationRepository.
type LoanApplicationRepository struct {
	mu   sync.RWMutex
	apps map[string]model.LoanApplication
}

// NewLoanApplicationRepository creates an empty repository.
func NewLoanApplicationRepository() *LoanApplicationRepository {
	return &LoanApplicationRepository{apps: make(map[string]model.LoanApplication)}
}

// Insert implements port.LoanApplicationRepository.
func (r *LoanApplicationRepository) Insert(_ context.Context, app model.LoanApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps[app.ID()] = app
	return nil
}

// FindByID implements port.LoanApplicationRepository.
func (r *LoanApplicationRepository) FindByID(_ context.Context, id string) (model.LoanApplication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.apps[id]
	if !ok {
		return model.LoanApplication{}, port.ErrApplicationNotFound
	}
	return app, nil
}

// FindByCustomerID implements port.LoanApplicationRepository. Results come
// back newest first.
func (r *LoanApplicationRepository) FindByCustomerID(_ context.Context, customerID string) ([]model.LoanApplication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.LoanApplication
	for _, app := range r.apps {
		if app.CustomerID() == customerID {
			out = append(out, app)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return out, nil
}
