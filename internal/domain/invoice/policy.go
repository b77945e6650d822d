package invoice

import "github.com/invoicer/backend/internal/domain/shared/valueobject"

// Policy carries the configurable defaults applied while assembling invoices
type Policy struct {
	DueDays         int
	DefaultCurrency valueobject.Currency
	NumberPrefix    string
	DefaultNotes    string
}

// DefaultPolicy returns the stock defaults
func DefaultPolicy() Policy {
	return Policy{
		DueDays:         DefaultDueDays,
		DefaultCurrency: valueobject.DefaultCurrency,
		NumberPrefix:    "INV-",
		DefaultNotes:    "Thank you for your business!",
	}
}

func (p Policy) currency() valueobject.Currency {
	if p.DefaultCurrency == "" {
		return valueobject.DefaultCurrency
	}
	return p.DefaultCurrency
}
