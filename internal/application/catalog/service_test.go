package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicer/backend/internal/domain/catalog"
	"github.com/invoicer/backend/internal/domain/invoice"
	"github.com/invoicer/backend/internal/domain/partner"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/invoicer/backend/internal/domain/shared/valueobject"
	"github.com/invoicer/backend/internal/infrastructure/persistence"
	"github.com/invoicer/backend/internal/infrastructure/printing"
)

func newStore(t *testing.T) *persistence.MemoryCatalogStore {
	t.Helper()
	logo, err := catalog.NewItem("Logo Design", decimal.NewFromInt(300), decimal.NewFromInt(21))
	require.NoError(t, err)
	return persistence.NewMemoryCatalogStore(map[string]catalog.Company{
		"1": {
			Profile: catalog.BusinessProfile{
				Name:    "ABC Solutions",
				Address: "123 Business Street, Cityville",
				Contact: "contact@abcsolutions.com",
			},
			Items:     []catalog.Item{logo},
			Customers: []partner.Customer{{Name: "XYZ Enterprises", Address: "456 Client Avenue", Contact: "billing@xyz.com"}},
		},
	})
}

func input(name, price, rate string) invoice.ItemInput {
	p, err := valueobject.ParseAmount(price)
	if err != nil {
		panic(err)
	}
	r, err := valueobject.ParseAmount(rate)
	if err != nil {
		panic(err)
	}
	return invoice.ItemInput{ItemName: name, UnitPrice: p, TaxRate: r}
}

type unavailableStore struct {
	catalog.Store
}

func (unavailableStore) GetBusinessProfile(context.Context, string) (*catalog.BusinessProfile, error) {
	return nil, fmt.Errorf("%w: connection refused", shared.ErrCatalogUnavailable)
}

func TestService_GetCompany(t *testing.T) {
	svc := NewService(newStore(t), nil, "memory", nil)

	company, err := svc.GetCompany(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "1", company.Profile.CompanyID)
	assert.Equal(t, "ABC Solutions", company.Profile.Name)
	require.Len(t, company.Items, 1)
	assert.Equal(t, "Logo Design", company.Items[0].Name)

	resp := ToCompanyResponse(company)
	assert.Equal(t, "ABC Solutions", resp.Name)
	require.Len(t, resp.Customers, 1)
	assert.Equal(t, "XYZ Enterprises", resp.Customers[0].Name)

	_, err = svc.GetCompany(context.Background(), "2")
	assert.ErrorIs(t, err, catalog.ErrCompanyNotFound)
}

func TestService_CompanyMarkdown(t *testing.T) {
	svc := NewService(newStore(t), nil, "memory", nil)

	md, err := svc.CompanyMarkdown(context.Background(), "1")
	require.NoError(t, err)
	assert.Contains(t, md, "**Name**: ABC Solutions")
	assert.Contains(t, md, "| Logo Design | €300.00 |")
	assert.Contains(t, md, "**Customer 1**: XYZ Enterprises")

	md, err = svc.CompanyMarkdown(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, printing.CompanyNotFoundMarkdown, md)

	_, err = NewService(unavailableStore{}, nil, "redis", nil).CompanyMarkdown(context.Background(), "1")
	assert.ErrorIs(t, err, shared.ErrCatalogUnavailable)
}

func TestService_ConfirmItems(t *testing.T) {
	ctx := context.Background()

	t.Run("saves new names and skips stored ones", func(t *testing.T) {
		store := newStore(t)
		svc := NewService(store, nil, "memory", nil)

		resp, err := svc.ConfirmItems(ctx, "1", ConfirmItemsRequest{Items: []invoice.ItemInput{
			input("hosting fees", "19.99", "0"),
			input("  logo design ", "250", "21"),
		}})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.BatchID)
		assert.Equal(t, []string{"Hosting Fee"}, resp.Saved)
		assert.Equal(t, []string{"Logo Design"}, resp.Skipped)

		items, err := store.GetItems(ctx, "1")
		require.NoError(t, err)
		assert.Len(t, items, 2)
		assert.True(t, items[0].UnitPrice.Equal(decimal.NewFromInt(300)), "stored price must not be overwritten")
	})

	t.Run("is idempotent", func(t *testing.T) {
		svc := NewService(newStore(t), nil, "memory", nil)
		req := ConfirmItemsRequest{Items: []invoice.ItemInput{input("SEO Audit", "400", "20")}}

		first, err := svc.ConfirmItems(ctx, "1", req)
		require.NoError(t, err)
		second, err := svc.ConfirmItems(ctx, "1", req)
		require.NoError(t, err)

		assert.Equal(t, []string{"SEO Audit"}, first.Saved)
		assert.Empty(t, second.Saved)
		assert.Equal(t, []string{"SEO Audit"}, second.Skipped)
	})

	tests := []struct {
		name    string
		company string
		items   []invoice.ItemInput
		code    string
	}{
		{name: "no items", company: "1", code: "INVALID_INPUT"},
		{name: "missing price", company: "1", items: []invoice.ItemInput{input("SEO Audit", "", "20")}, code: "INCOMPLETE_ITEM"},
		{name: "rate above 100", company: "1", items: []invoice.ItemInput{input("SEO Audit", "10", "120")}, code: "INVALID_TAX_RATE"},
		{name: "unknown company", company: "7", items: []invoice.ItemInput{input("SEO Audit", "10", "20")}, code: "COMPANY_NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newStore(t), nil, "memory", nil)
			_, err := svc.ConfirmItems(ctx, tt.company, ConfirmItemsRequest{Items: tt.items})
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.code, de.Code)
		})
	}
}
