package persistence

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/invoicer/backend/internal/domain/catalog"
	"github.com/invoicer/backend/internal/domain/partner"
)

func testItem(t *testing.T, name, price, rate string) catalog.Item {
	t.Helper()
	it, err := catalog.NewItem(name, decimal.RequireFromString(price), decimal.RequireFromString(rate))
	require.NoError(t, err)
	return it
}

func testCompany(t *testing.T) catalog.Company {
	t.Helper()
	return catalog.Company{
		Profile: catalog.BusinessProfile{
			Name:           "ABC Solutions",
			Address:        "1 Main Street, Dublin",
			Contact:        "billing@abc.example",
			PaymentTerms:   "Net 14 days",
			PaymentMethods: []string{"Bank Transfer", "PayPal"},
		},
		Items: []catalog.Item{
			testItem(t, "Web Development Service", "50", "10"),
			testItem(t, "Logo Design", "300", "21"),
		},
		Customers: []partner.Customer{
			{Name: "XYZ Enterprises", Address: "2 High Road", Contact: "ap@xyz.example"},
			{Name: "Acme Corp", Address: "3 Low Road", Contact: "ap@acme.example"},
		},
	}
}
