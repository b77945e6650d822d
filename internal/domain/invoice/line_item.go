package invoice

import (
	"github.com/invoicer/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Origin tells where a line item's prices came from
type Origin string

const (
	// OriginKnown lines were matched in the catalog
	OriginKnown Origin = "known"
	// OriginNew lines have no catalog match and carry placeholders
	OriginNew Origin = "new"
	// OriginSupplied lines had no catalog match but the user supplied the prices
	OriginSupplied Origin = "supplied"
)

// LineItem is a resolved invoice line. UnitPrice, TaxRate and TotalPrice are
// either all resolved or all placeholders.
type LineItem struct {
	ItemName   string               `json:"item_name"`
	Quantity   valueobject.Quantity `json:"quantity"`
	UnitPrice  valueobject.Amount   `json:"unit_price"`
	TaxRate    valueobject.Amount   `json:"tax_rate"`
	TotalPrice valueobject.Amount   `json:"total_price"`
	Origin     Origin               `json:"-"`
}

func pricedLine(name string, qty valueobject.Quantity, unitPrice, taxRate decimal.Decimal, origin Origin) LineItem {
	return LineItem{
		ItemName:   name,
		Quantity:   qty,
		UnitPrice:  valueobject.NewAmount(unitPrice),
		TaxRate:    valueobject.NewAmount(taxRate),
		TotalPrice: valueobject.NewAmount(qty.Decimal().Mul(unitPrice)),
		Origin:     origin,
	}
}

func placeholderLine(name string, qty valueobject.Quantity) LineItem {
	return LineItem{
		ItemName:   name,
		Quantity:   qty,
		UnitPrice:  valueobject.PlaceholderAmount(),
		TaxRate:    valueobject.PlaceholderAmount(),
		TotalPrice: valueobject.PlaceholderAmount(),
		Origin:     OriginNew,
	}
}

// IsComplete reports whether every monetary field is resolved
func (l LineItem) IsComplete() bool {
	return !l.UnitPrice.IsPlaceholder() && !l.TaxRate.IsPlaceholder() && !l.TotalPrice.IsPlaceholder()
}

// IsUniform reports whether the monetary fields are all resolved or all placeholders
func (l LineItem) IsUniform() bool {
	p := l.UnitPrice.IsPlaceholder()
	return l.TaxRate.IsPlaceholder() == p && l.TotalPrice.IsPlaceholder() == p
}
