package invoice

import (
	"testing"

	"github.com/invoicer/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculator_Inclusive(t *testing.T) {
	snap := testSnapshot()
	calc := NewCalculator(nil)
	assert.Equal(t, TaxModeInclusive, calc.TaxMode())

	t.Run("back-calculates tax from inclusive prices", func(t *testing.T) {
		c := Classify([]CandidateItem{{RawName: "Web Development Service", Quantity: qty("50")}}, snap.Index)
		totals := calc.Calculate(c.Lines)
		assert.Equal(t, "2500.00", totals.TotalDue.String())
		assert.Equal(t, "2272.73", totals.Subtotal.String())
		assert.Equal(t, "227.27", totals.Tax.String())
	})

	t.Run("total due equals subtotal plus tax", func(t *testing.T) {
		c := Classify([]CandidateItem{
			{RawName: "Web Development Service", Quantity: qty("7")},
			{RawName: "Logo Design", Quantity: qty("3")},
			{RawName: "Hosting Fee", Quantity: qty("13")},
		}, snap.Index)
		totals := calc.Calculate(c.Lines)
		sub, _ := totals.Subtotal.Decimal()
		tax, _ := totals.Tax.Decimal()
		due, _ := totals.TotalDue.Decimal()
		assert.True(t, due.Equal(sub.Add(tax)), "%s != %s + %s", due, sub, tax)
		assert.Equal(t, "1509.87", totals.TotalDue.String())
	})

	t.Run("zero tax rate contributes no tax", func(t *testing.T) {
		c := Classify([]CandidateItem{{RawName: "Hosting Fee", Quantity: qty("2")}}, snap.Index)
		totals := calc.Calculate(c.Lines)
		assert.Equal(t, "0.00", totals.Tax.String())
		assert.Equal(t, "39.98", totals.Subtotal.String())
	})
}

func TestCalculator_Gross(t *testing.T) {
	snap := testSnapshot()
	calc := NewCalculator(GrossRateTax{})

	c := Classify([]CandidateItem{
		{RawName: "Web Development Service", Quantity: qty("50")},
		{RawName: "Logo Design", Quantity: qty("2")},
	}, snap.Index)
	totals := calc.Calculate(c.Lines)

	// tax == sum(quantity * unit_price * tax_rate / 100)
	expectedTax := decimal.Zero
	for _, l := range c.Lines {
		p, _ := l.UnitPrice.Decimal()
		r, _ := l.TaxRate.Decimal()
		expectedTax = expectedTax.Add(l.Quantity.Decimal().Mul(p).Mul(r).Div(decimal.NewFromInt(100)))
	}
	tax, _ := totals.Tax.Decimal()
	assert.True(t, tax.Sub(expectedTax).Abs().LessThanOrEqual(decimal.RequireFromString("0.005")))
	assert.Equal(t, "376.00", totals.Tax.String())
	assert.Equal(t, "3100.00", totals.TotalDue.String())
	assert.Equal(t, "2724.00", totals.Subtotal.String())
}

func TestCalculator_PlaceholderShortCircuit(t *testing.T) {
	snap := testSnapshot()
	calc := NewCalculator(nil)

	t.Run("one new item degrades all aggregates", func(t *testing.T) {
		c := Classify([]CandidateItem{
			{RawName: "Web Development Service", Quantity: qty("50")},
			{RawName: "Logo Design"},
			{RawName: "Custom AI Integration"},
		}, snap.Index)
		totals := calc.Calculate(c.Lines)
		assert.True(t, totals.IsPlaceholder())
		assert.True(t, totals.Subtotal.IsPlaceholder())
		assert.True(t, totals.Tax.IsPlaceholder())
		assert.True(t, totals.TotalDue.IsPlaceholder())
	})

	t.Run("incomplete line without new origin also degrades", func(t *testing.T) {
		lines := []LineItem{{
			ItemName:   "Odd",
			Quantity:   valueobject.One(),
			UnitPrice:  valueobject.NewAmount(decimal.NewFromInt(1)),
			TaxRate:    valueobject.PlaceholderAmount(),
			TotalPrice: valueobject.NewAmount(decimal.NewFromInt(1)),
			Origin:     OriginSupplied,
		}}
		assert.True(t, calc.Calculate(lines).IsPlaceholder())
	})

	t.Run("supplied items are computed like known ones", func(t *testing.T) {
		c := Classify([]CandidateItem{{RawName: "Custom AI Integration"}}, snap.Index)
		c, _ = ApplyItemInputs(c, []ItemInput{{
			ItemName:  "Custom AI Integration",
			UnitPrice: valueobject.NewAmount(decimal.NewFromInt(1200)),
			TaxRate:   valueobject.NewAmount(decimal.NewFromInt(20)),
		}})
		totals := calc.Calculate(c.Lines)
		require.False(t, totals.IsPlaceholder())
		assert.Equal(t, "1200.00", totals.TotalDue.String())
		assert.Equal(t, "200.00", totals.Tax.String())
		assert.Equal(t, "1000.00", totals.Subtotal.String())
	})
}

func TestCalculator_ItemTax(t *testing.T) {
	calc := NewCalculator(nil)
	c := Classify([]CandidateItem{{RawName: "Logo Design"}, {RawName: "New Thing"}}, testSnapshot().Index)

	tax, ok := calc.ItemTax(c.Lines[0])
	require.True(t, ok)
	assert.Equal(t, "52.07", tax.StringFixed(2))

	_, ok = calc.ItemTax(c.Lines[1])
	assert.False(t, ok)
}
