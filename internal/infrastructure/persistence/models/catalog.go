package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invoicer/backend/internal/domain/catalog"
	"github.com/invoicer/backend/internal/domain/partner"
)

// CompanyModel stores the business profile. The company ID is the natural key.
type CompanyModel struct {
	ID             string   `gorm:"type:varchar(64);primaryKey"`
	Name           string   `gorm:"type:varchar(200);not null"`
	Address        string   `gorm:"type:text"`
	Contact        string   `gorm:"type:varchar(200)"`
	PaymentTerms   string   `gorm:"type:varchar(200)"`
	PaymentMethods []string `gorm:"type:text;serializer:json"`
	BankDetails    string   `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the model to a business profile
func (m *CompanyModel) ToDomain() *catalog.BusinessProfile {
	return &catalog.BusinessProfile{
		CompanyID:      m.ID,
		Name:           m.Name,
		Address:        m.Address,
		Contact:        m.Contact,
		PaymentTerms:   m.PaymentTerms,
		PaymentMethods: m.PaymentMethods,
		BankDetails:    m.BankDetails,
	}
}

// CompanyModelFromDomain builds a model from a profile
func CompanyModelFromDomain(companyID string, p catalog.BusinessProfile) *CompanyModel {
	return &CompanyModel{
		ID:             companyID,
		Name:           p.Name,
		Address:        p.Address,
		Contact:        p.Contact,
		PaymentTerms:   p.PaymentTerms,
		PaymentMethods: p.PaymentMethods,
		BankDetails:    p.BankDetails,
	}
}

// CatalogItemModel is one billable item. NameKey enforces per-company name uniqueness.
type CatalogItemModel struct {
	BaseModel
	CompanyID string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_catalog_item_company_name,priority:1"`
	NameKey   string          `gorm:"type:varchar(200);not null;uniqueIndex:idx_catalog_item_company_name,priority:2"`
	Name      string          `gorm:"type:varchar(200);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRate   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (CatalogItemModel) TableName() string {
	return "catalog_items"
}

// ItemNameKey is the stored uniqueness key of an item name; it matches catalog lookups.
func ItemNameKey(name string) string {
	return catalog.Key(name)
}

// ToDomain converts the model to a catalog item
func (m *CatalogItemModel) ToDomain() (catalog.Item, error) {
	return catalog.NewItem(m.Name, m.UnitPrice, m.TaxRate)
}

// CatalogItemModelFromDomain builds a model for companyID
func CatalogItemModelFromDomain(companyID string, it catalog.Item) *CatalogItemModel {
	return &CatalogItemModel{
		CompanyID: companyID,
		NameKey:   ItemNameKey(it.Name),
		Name:      it.Name,
		UnitPrice: it.UnitPrice,
		TaxRate:   it.TaxRate,
	}
}

// CustomerModel is one customer. Position preserves list order, which decides the default customer.
type CustomerModel struct {
	BaseModel
	CompanyID string `gorm:"type:varchar(64);not null;index:idx_customer_company_position,priority:1"`
	Position  int    `gorm:"not null;default:0;index:idx_customer_company_position,priority:2"`
	Name      string `gorm:"type:varchar(200);not null"`
	Address   string `gorm:"type:text"`
	Contact   string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the model to a customer
func (m *CustomerModel) ToDomain() partner.Customer {
	return partner.Customer{Name: m.Name, Address: m.Address, Contact: m.Contact}
}

// CustomerModelFromDomain builds a model at the given list position
func CustomerModelFromDomain(companyID string, position int, c partner.Customer) *CustomerModel {
	return &CustomerModel{
		CompanyID: companyID,
		Position:  position,
		Name:      c.Name,
		Address:   c.Address,
		Contact:   c.Contact,
	}
}

// All returns every catalog model for AutoMigrate
func All() []any {
	return []any{&CompanyModel{}, &CatalogItemModel{}, &CustomerModel{}, &InvoiceSequenceModel{}}
}

// InvoiceSequenceModel holds the last issued invoice sequence per company and year
type InvoiceSequenceModel struct {
	CompanyID string `gorm:"type:varchar(64);primaryKey"`
	Year      int    `gorm:"primaryKey;autoIncrement:false"`
	LastValue int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (InvoiceSequenceModel) TableName() string {
	return "invoice_sequences"
}
