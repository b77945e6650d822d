package catalog

import (
	"fmt"
	"strings"

	"github.com/invoicer/backend/internal/domain/partner"
	"github.com/invoicer/backend/internal/domain/shared"
)

// ErrCompanyNotFound is returned when no profile exists for a company ID
var ErrCompanyNotFound = shared.NewDomainError("COMPANY_NOT_FOUND", "Company does not exist")

// BusinessProfile is the invoicing company's header data
type BusinessProfile struct {
	CompanyID      string
	Name           string
	Address        string
	Contact        string
	PaymentTerms   string
	PaymentMethods []string
	BankDetails    string
}

// PaymentTermsLine renders the terms shown on the invoice, e.g.
// "Net 14 days | Accepted methods: Bank Transfer, PayPal".
func (p BusinessProfile) PaymentTermsLine(dueDays int) string {
	terms := strings.TrimSpace(p.PaymentTerms)
	if terms == "" {
		terms = fmt.Sprintf("Net %d days", dueDays)
	}
	parts := []string{terms}
	if len(p.PaymentMethods) > 0 && !strings.Contains(terms, "Accepted methods") {
		parts = append(parts, "Accepted methods: "+strings.Join(p.PaymentMethods, ", "))
	}
	if bank := strings.TrimSpace(p.BankDetails); bank != "" {
		parts = append(parts, "Bank details: "+bank)
	}
	return strings.Join(parts, " | ")
}

// Company aggregates everything stored for one company ID
type Company struct {
	Profile   BusinessProfile
	Items     []Item
	Customers []partner.Customer
}

// Snapshot is a read-only view of a company's catalog used for one computation
type Snapshot struct {
	Profile   BusinessProfile
	Index     *Index
	Customers []partner.Customer
}

// NewSnapshot builds a snapshot from stored data
func NewSnapshot(profile BusinessProfile, items []Item, customers []partner.Customer) *Snapshot {
	return &Snapshot{
		Profile:   profile,
		Index:     NewIndex(items),
		Customers: customers,
	}
}
