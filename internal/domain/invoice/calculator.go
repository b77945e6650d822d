package invoice

import (
	"github.com/invoicer/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// outputPlaces is the fractional precision of emitted aggregates
const outputPlaces = 2

// Totals are the document-level aggregates. They are all resolved or all placeholders.
type Totals struct {
	Subtotal valueobject.Amount
	Tax      valueobject.Amount
	TotalDue valueobject.Amount
}

// PlaceholderTotals returns unresolved aggregates
func PlaceholderTotals() Totals {
	p := valueobject.PlaceholderAmount()
	return Totals{Subtotal: p, Tax: p, TotalDue: p}
}

// IsPlaceholder reports whether the aggregates are unresolved
func (t Totals) IsPlaceholder() bool {
	return t.TotalDue.IsPlaceholder()
}

// Calculator computes invoice aggregates from resolved lines
type Calculator struct {
	tax TaxStrategy
}

// NewCalculator creates a calculator; a nil strategy means tax-inclusive prices
func NewCalculator(tax TaxStrategy) *Calculator {
	if tax == nil {
		tax = InclusiveTax{}
	}
	return &Calculator{tax: tax}
}

// TaxMode returns the name of the tax strategy in use
func (c *Calculator) TaxMode() string {
	return c.tax.Name()
}

// Calculate sums line totals and their tax components. When any line is New
// or incomplete no aggregate is computed and all three are placeholders.
//
// Sums are kept at full precision; total due and tax are rounded once and the
// subtotal is derived from them so that total_due == subtotal + tax exactly.
func (c *Calculator) Calculate(lines []LineItem) Totals {
	for _, l := range lines {
		if l.Origin == OriginNew || !l.IsComplete() {
			return PlaceholderTotals()
		}
	}
	total := decimal.Zero
	tax := decimal.Zero
	for _, l := range lines {
		lineTotal, _ := l.TotalPrice.Decimal()
		rate, _ := l.TaxRate.Decimal()
		total = total.Add(lineTotal)
		tax = tax.Add(c.tax.ItemTax(lineTotal, rate))
	}
	totalDue := total.Round(outputPlaces)
	taxDue := tax.Round(outputPlaces)
	return Totals{
		Subtotal: valueobject.NewAmount(totalDue.Sub(taxDue)),
		Tax:      valueobject.NewAmount(taxDue),
		TotalDue: valueobject.NewAmount(totalDue),
	}
}

// ItemTax returns the tax component of one complete line
func (c *Calculator) ItemTax(l LineItem) (decimal.Decimal, bool) {
	if !l.IsComplete() {
		return decimal.Zero, false
	}
	total, _ := l.TotalPrice.Decimal()
	rate, _ := l.TaxRate.Decimal()
	return c.tax.ItemTax(total, rate), true
}
