package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/invoicer/backend/internal/domain/catalog"
	"github.com/invoicer/backend/internal/domain/partner"
)

// Hash field names of a company record
const (
	fieldBusinessName    = "business_name"
	fieldBusinessAddress = "business_address"
	fieldBusinessContact = "business_contact"
	fieldPaymentTerms    = "payment_terms"
	fieldPaymentMethods  = "payment_methods"
	fieldBankDetails     = "bank_details"
	fieldItemList        = "item_list"
	fieldCustomerList    = "customer_list"
)

// number stores a decimal as a bare JSON number and reads numbers or numeric strings
type number struct{ decimal.Decimal }

func (n number) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}

func (n *number) UnmarshalJSON(data []byte) error {
	return n.Decimal.UnmarshalJSON(data)
}

type itemRecord struct {
	ItemName  string `json:"item_name"`
	UnitPrice number `json:"unit_price"`
	TaxRate   number `json:"tax_rate"`
}

type customerRecord struct {
	CustomerName    string `json:"customer_name"`
	CustomerAddress string `json:"customer_address"`
	CustomerContact string `json:"customer_contact"`
}

// CompanyRecord is the stored shape of one company, shared by the redis hash
// layout and the JSON seed file.
type CompanyRecord struct {
	BusinessName    string           `json:"business_name"`
	BusinessAddress string           `json:"business_address"`
	BusinessContact string           `json:"business_contact"`
	PaymentTerms    string           `json:"payment_terms,omitempty"`
	PaymentMethods  []string         `json:"payment_methods,omitempty"`
	BankDetails     string           `json:"bank_details,omitempty"`
	ItemList        []itemRecord     `json:"item_list"`
	CustomerList    []customerRecord `json:"customer_list"`
}

func toItemRecords(items []catalog.Item) []itemRecord {
	out := make([]itemRecord, 0, len(items))
	for _, it := range items {
		out = append(out, itemRecord{ItemName: it.Name, UnitPrice: number{it.UnitPrice}, TaxRate: number{it.TaxRate}})
	}
	return out
}

func fromItemRecords(records []itemRecord) ([]catalog.Item, error) {
	out := make([]catalog.Item, 0, len(records))
	for _, r := range records {
		it, err := catalog.NewItem(r.ItemName, r.UnitPrice.Decimal, r.TaxRate.Decimal)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", r.ItemName, err)
		}
		out = append(out, it)
	}
	return out, nil
}

func toCustomerRecords(customers []partner.Customer) []customerRecord {
	out := make([]customerRecord, 0, len(customers))
	for _, c := range customers {
		out = append(out, customerRecord{CustomerName: c.Name, CustomerAddress: c.Address, CustomerContact: c.Contact})
	}
	return out
}

func fromCustomerRecords(records []customerRecord) []partner.Customer {
	out := make([]partner.Customer, 0, len(records))
	for _, r := range records {
		out = append(out, partner.Customer{Name: r.CustomerName, Address: r.CustomerAddress, Contact: r.CustomerContact})
	}
	return out
}

// NewCompanyRecord converts a domain company into its stored shape
func NewCompanyRecord(c catalog.Company) CompanyRecord {
	return CompanyRecord{
		BusinessName:    c.Profile.Name,
		BusinessAddress: c.Profile.Address,
		BusinessContact: c.Profile.Contact,
		PaymentTerms:    c.Profile.PaymentTerms,
		PaymentMethods:  c.Profile.PaymentMethods,
		BankDetails:     c.Profile.BankDetails,
		ItemList:        toItemRecords(c.Items),
		CustomerList:    toCustomerRecords(c.Customers),
	}
}

// Company converts the record back into the domain shape
func (r CompanyRecord) Company(companyID string) (catalog.Company, error) {
	items, err := fromItemRecords(r.ItemList)
	if err != nil {
		return catalog.Company{}, err
	}
	return catalog.Company{
		Profile:   r.profile(companyID),
		Items:     items,
		Customers: fromCustomerRecords(r.CustomerList),
	}, nil
}

func (r CompanyRecord) profile(companyID string) catalog.BusinessProfile {
	return catalog.BusinessProfile{
		CompanyID:      companyID,
		Name:           r.BusinessName,
		Address:        r.BusinessAddress,
		Contact:        r.BusinessContact,
		PaymentTerms:   r.PaymentTerms,
		PaymentMethods: r.PaymentMethods,
		BankDetails:    r.BankDetails,
	}
}

// Fields flattens the record into hash fields; lists become JSON strings.
func (r CompanyRecord) Fields() (map[string]any, error) {
	items, err := json.Marshal(r.ItemList)
	if err != nil {
		return nil, err
	}
	customers, err := json.Marshal(r.CustomerList)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{
		fieldBusinessName:    r.BusinessName,
		fieldBusinessAddress: r.BusinessAddress,
		fieldBusinessContact: r.BusinessContact,
		fieldItemList:        string(items),
		fieldCustomerList:    string(customers),
	}
	if r.PaymentTerms != "" {
		fields[fieldPaymentTerms] = r.PaymentTerms
	}
	if len(r.PaymentMethods) > 0 {
		methods, err := json.Marshal(r.PaymentMethods)
		if err != nil {
			return nil, err
		}
		fields[fieldPaymentMethods] = string(methods)
	}
	if r.BankDetails != "" {
		fields[fieldBankDetails] = r.BankDetails
	}
	return fields, nil
}

// parsePaymentMethods accepts either a JSON array or a comma separated list
func parsePaymentMethods(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var methods []string
	if strings.HasPrefix(raw, "[") && json.Unmarshal([]byte(raw), &methods) == nil {
		return methods
	}
	for _, m := range strings.Split(raw, ",") {
		if m = strings.TrimSpace(m); m != "" {
			methods = append(methods, m)
		}
	}
	return methods
}

// SeedData maps company IDs to their records
type SeedData map[string]CompanyRecord

// LoadSeedFile reads a JSON seed file of the form {"<company id>": {...}}.
func LoadSeedFile(path string) (SeedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var data SeedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return data, nil
}

// Companies converts every record, failing on the first invalid one
func (d SeedData) Companies() (map[string]catalog.Company, error) {
	out := make(map[string]catalog.Company, len(d))
	for id, rec := range d {
		c, err := rec.Company(id)
		if err != nil {
			return nil, fmt.Errorf("company %s: %w", id, err)
		}
		out[id] = c
	}
	return out, nil
}
