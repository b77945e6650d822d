package catalog

import (
	"context"
	"fmt"

	"github.com/invoicer/backend/internal/domain/partner"
)

// Store is the key-value catalog collaborator.
// Implementations wrap connectivity failures with shared.ErrCatalogUnavailable
// and report missing companies with ErrCompanyNotFound.
type Store interface {
	// GetBusinessProfile returns the company header fields
	GetBusinessProfile(ctx context.Context, companyID string) (*BusinessProfile, error)

	// GetItems returns every catalog item of the company
	GetItems(ctx context.Context, companyID string) ([]Item, error)

	// GetCustomers returns the customer list in stored order
	GetCustomers(ctx context.Context, companyID string) ([]partner.Customer, error)

	// PutItem adds an item. It reports false without error when an item with the
	// same name already exists, which makes repeated writes a no-op.
	PutItem(ctx context.Context, companyID string, item Item) (bool, error)
}

// Seeder replaces a company's stored data wholesale
type Seeder interface {
	PutCompany(ctx context.Context, companyID string, company Company) error
}

// LoadSnapshot reads the profile, items and customers of one company
func LoadSnapshot(ctx context.Context, store Store, companyID string) (*Snapshot, error) {
	profile, err := store.GetBusinessProfile(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load business profile: %w", err)
	}
	items, err := store.GetItems(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	customers, err := store.GetCustomers(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}
	return NewSnapshot(*profile, items, customers), nil
}
