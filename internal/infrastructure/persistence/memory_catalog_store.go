package persistence

import (
	"context"
	"slices"
	"sync"

	"github.com/invoicer/backend/internal/domain/catalog"
	"github.com/invoicer/backend/internal/domain/partner"
)

// MemoryCatalogStore keeps catalogs in process memory. It backs tests, the
// CLI and the redis fallback.
type MemoryCatalogStore struct {
	mu        sync.RWMutex
	companies map[string]catalog.Company
}

// NewMemoryCatalogStore creates a store pre-populated with companies
func NewMemoryCatalogStore(companies map[string]catalog.Company) *MemoryCatalogStore {
	s := &MemoryCatalogStore{companies: make(map[string]catalog.Company, len(companies))}
	for id, c := range companies {
		s.companies[id] = clone(c)
	}
	return s
}

func clone(c catalog.Company) catalog.Company {
	c.Items = slices.Clone(c.Items)
	c.Customers = slices.Clone(c.Customers)
	c.Profile.PaymentMethods = slices.Clone(c.Profile.PaymentMethods)
	return c
}

func (s *MemoryCatalogStore) get(companyID string) (catalog.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.companies[companyID]
	if !ok {
		return catalog.Company{}, catalog.ErrCompanyNotFound
	}
	return clone(c), nil
}

// GetBusinessProfile implements catalog.Store
func (s *MemoryCatalogStore) GetBusinessProfile(_ context.Context, companyID string) (*catalog.BusinessProfile, error) {
	c, err := s.get(companyID)
	if err != nil {
		return nil, err
	}
	p := c.Profile
	p.CompanyID = companyID
	return &p, nil
}

// GetItems implements catalog.Store
func (s *MemoryCatalogStore) GetItems(_ context.Context, companyID string) ([]catalog.Item, error) {
	c, err := s.get(companyID)
	if err != nil {
		return nil, err
	}
	return c.Items, nil
}

// GetCustomers implements catalog.Store
func (s *MemoryCatalogStore) GetCustomers(_ context.Context, companyID string) ([]partner.Customer, error) {
	c, err := s.get(companyID)
	if err != nil {
		return nil, err
	}
	return c.Customers, nil
}

// PutItem implements catalog.Store
func (s *MemoryCatalogStore) PutItem(_ context.Context, companyID string, item catalog.Item) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companies[companyID]
	if !ok {
		return false, catalog.ErrCompanyNotFound
	}
	for _, existing := range c.Items {
		if catalog.SameName(existing.Name, item.Name) {
			return false, nil
		}
	}
	c.Items = append(slices.Clone(c.Items), item)
	s.companies[companyID] = c
	return true, nil
}

// PutCompany implements catalog.Seeder
func (s *MemoryCatalogStore) PutCompany(_ context.Context, companyID string, company catalog.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[companyID] = clone(company)
	return nil
}

var (
	_ catalog.Store  = (*MemoryCatalogStore)(nil)
	_ catalog.Seeder = (*MemoryCatalogStore)(nil)
)
