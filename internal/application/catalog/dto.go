package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/invoicer/backend/internal/domain/catalog"
	"github.com/invoicer/backend/internal/domain/invoice"
)

// ConfirmItemsRequest lists New items the user confirmed for the catalog
type ConfirmItemsRequest struct {
	Items []invoice.ItemInput `json:"items" binding:"required,min=1"`
}

// ConfirmItemsResponse reports which names were written and which already existed
type ConfirmItemsResponse struct {
	BatchID string   `json:"batch_id"`
	Saved   []string `json:"saved"`
	Skipped []string `json:"skipped"`
}

// CompanyResponse is the JSON view of a company
type CompanyResponse struct {
	CompanyID      string             `json:"company_id"`
	Name           string             `json:"business_name"`
	Address        string             `json:"business_address"`
	Contact        string             `json:"business_contact"`
	PaymentTerms   string             `json:"payment_terms,omitempty"`
	PaymentMethods []string           `json:"payment_methods,omitempty"`
	BankDetails    string             `json:"bank_details,omitempty"`
	Items          []ItemResponse     `json:"item_list"`
	Customers      []CustomerResponse `json:"customer_list"`
}

// ItemResponse is the JSON view of a catalog item
type ItemResponse struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
}

// CustomerResponse is the JSON view of a customer
type CustomerResponse struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Contact string `json:"contact"`
}

// ToCompanyResponse converts a company aggregate
func ToCompanyResponse(c *catalog.Company) CompanyResponse {
	resp := CompanyResponse{
		CompanyID:      c.Profile.CompanyID,
		Name:           c.Profile.Name,
		Address:        c.Profile.Address,
		Contact:        c.Profile.Contact,
		PaymentTerms:   c.Profile.PaymentTerms,
		PaymentMethods: c.Profile.PaymentMethods,
		BankDetails:    c.Profile.BankDetails,
		Items:          make([]ItemResponse, 0, len(c.Items)),
		Customers:      make([]CustomerResponse, 0, len(c.Customers)),
	}
	for _, it := range c.Items {
		resp.Items = append(resp.Items, ItemResponse{Name: it.Name, UnitPrice: it.UnitPrice, TaxRate: it.TaxRate})
	}
	for _, cu := range c.Customers {
		resp.Customers = append(resp.Customers, CustomerResponse{Name: cu.Name, Address: cu.Address, Contact: cu.Contact})
	}
	return resp
}
