package invoice

import "github.com/shopspring/decimal"

var (
	hundred      = decimal.NewFromInt(100)
	divPrecision = int32(16)
)

// Tax mode names
const (
	TaxModeInclusive = "inclusive"
	TaxModeGross     = "gross"
)

// TaxStrategy splits a line's tax-inclusive total into its tax component
type TaxStrategy interface {
	Name() string
	ItemTax(total, ratePercent decimal.Decimal) decimal.Decimal
}

// InclusiveTax back-calculates tax contained in the price:
// tax = total - total / (1 + rate/100).
type InclusiveTax struct{}

func (InclusiveTax) Name() string { return TaxModeInclusive }

func (InclusiveTax) ItemTax(total, ratePercent decimal.Decimal) decimal.Decimal {
	if ratePercent.IsZero() {
		return decimal.Zero
	}
	factor := decimal.NewFromInt(1).Add(ratePercent.Div(hundred))
	net := total.DivRound(factor, divPrecision)
	return total.Sub(net)
}

// GrossRateTax applies the rate to the listed total: tax = total * rate/100.
type GrossRateTax struct{}

func (GrossRateTax) Name() string { return TaxModeGross }

func (GrossRateTax) ItemTax(total, ratePercent decimal.Decimal) decimal.Decimal {
	return total.Mul(ratePercent).Div(hundred)
}
