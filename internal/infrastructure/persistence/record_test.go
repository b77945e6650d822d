package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyRecord_Fields(t *testing.T) {
	fields, err := NewCompanyRecord(testCompany(t)).Fields()
	require.NoError(t, err)

	assert.Equal(t, "ABC Solutions", fields[fieldBusinessName])
	assert.JSONEq(t,
		`[{"item_name":"Web Development Service","unit_price":50,"tax_rate":10},
		  {"item_name":"Logo Design","unit_price":300,"tax_rate":21}]`,
		fields[fieldItemList].(string))
	assert.JSONEq(t, `["Bank Transfer","PayPal"]`, fields[fieldPaymentMethods].(string))
	assert.NotContains(t, fields, fieldBankDetails)
}

func TestCompanyRecord_Company(t *testing.T) {
	var rec CompanyRecord
	require.NoError(t, json.Unmarshal([]byte(`{
		"business_name": "ABC Solutions",
		"item_list": [{"item_name": "hosting fees", "unit_price": "19.99", "tax_rate": 0}],
		"customer_list": [{"customer_name": "XYZ Enterprises"}]
	}`), &rec))

	c, err := rec.Company("1")
	require.NoError(t, err)
	assert.Equal(t, "1", c.Profile.CompanyID)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "Hosting Fee", c.Items[0].Name)
	assert.Equal(t, "19.99", c.Items[0].UnitPrice.String())
	assert.Equal(t, "XYZ Enterprises", c.Customers[0].Name)
}

func TestCompanyRecord_InvalidItem(t *testing.T) {
	rec := CompanyRecord{ItemList: []itemRecord{{ItemName: " "}}}
	_, err := rec.Company("1")
	assert.Error(t, err)
}

func TestParsePaymentMethods(t *testing.T) {
	assert.Nil(t, parsePaymentMethods(""))
	assert.Equal(t, []string{"Card", "Cash"}, parsePaymentMethods(`["Card","Cash"]`))
	assert.Equal(t, []string{"Card", "Cash"}, parsePaymentMethods("Card, Cash ,"))
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"1": {"business_name": "ABC Solutions", "item_list": [], "customer_list": []},
		"2": {"business_name": "Other Co", "item_list": [{"item_name": "Audit", "unit_price": 900, "tax_rate": 23}], "customer_list": []}
	}`), 0o600))

	data, err := LoadSeedFile(path)
	require.NoError(t, err)
	companies, err := data.Companies()
	require.NoError(t, err)
	assert.Len(t, companies, 2)
	assert.Equal(t, "Audit", companies["2"].Items[0].Name)

	_, err = LoadSeedFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
