package invoice

import (
	"testing"

	"github.com/invoicer/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	snap := testSnapshot()

	t.Run("known item takes catalog price and tax", func(t *testing.T) {
		c := Classify([]CandidateItem{{RawName: "web development services", Quantity: qty("50")}}, snap.Index)
		require.Len(t, c.Lines, 1)
		line := c.Lines[0]
		assert.Equal(t, OriginKnown, line.Origin)
		assert.Equal(t, "Web Development Service", line.ItemName)
		assert.Equal(t, "50", line.Quantity.String())
		assert.Equal(t, "50.00", line.UnitPrice.String())
		assert.Equal(t, "10.00", line.TaxRate.String())
		assert.Equal(t, "2500.00", line.TotalPrice.String())
		assert.Equal(t, []string{"Web Development Service"}, c.Known)
		assert.False(t, c.HasNew())
	})

	t.Run("new item carries placeholders in every price field", func(t *testing.T) {
		c := Classify([]CandidateItem{{RawName: "custom AI integrations"}}, snap.Index)
		require.Len(t, c.Lines, 1)
		line := c.Lines[0]
		assert.Equal(t, OriginNew, line.Origin)
		assert.Equal(t, "Custom AI Integration", line.ItemName)
		assert.Equal(t, "1", line.Quantity.String(), "quantity defaults to 1")
		assert.True(t, line.UnitPrice.IsPlaceholder())
		assert.True(t, line.TaxRate.IsPlaceholder())
		assert.True(t, line.TotalPrice.IsPlaceholder())
		assert.True(t, line.IsUniform())
		assert.Equal(t, []string{"Custom AI Integration"}, c.New)
	})

	t.Run("matches all caps and mixed case plurals", func(t *testing.T) {
		c := Classify([]CandidateItem{
			{RawName: "WEB DEVELOPMENT SERVICES", Quantity: qty("50")},
			{RawName: "Web Development SERVICES", Quantity: qty("2")},
			{RawName: "LOGO DESIGNS"},
		}, snap.Index)
		require.Len(t, c.Lines, 3)
		for _, l := range c.Lines {
			assert.Equal(t, OriginKnown, l.Origin, l.ItemName)
		}
		assert.Equal(t, "Web Development Service", c.Lines[0].ItemName)
		assert.Equal(t, "2500.00", c.Lines[0].TotalPrice.String())
		assert.Equal(t, "Logo Design", c.Lines[2].ItemName)
		assert.False(t, c.HasNew())
	})

	t.Run("all caps new item is singular and start cased", func(t *testing.T) {
		c := Classify([]CandidateItem{{RawName: "BRAND WORKSHOPS"}}, snap.Index)
		require.Len(t, c.Lines, 1)
		assert.Equal(t, OriginNew, c.Lines[0].Origin)
		assert.Equal(t, "Brand Workshop", c.Lines[0].ItemName)
	})

	t.Run("preserves order and keeps duplicates separate", func(t *testing.T) {
		c := Classify([]CandidateItem{
			{RawName: "Logo Design", Quantity: qty("1")},
			{RawName: "Mystery Box"},
			{RawName: "logo designs", Quantity: qty("2")},
		}, snap.Index)
		require.Len(t, c.Lines, 3)
		assert.Equal(t, "Logo Design", c.Lines[0].ItemName)
		assert.Equal(t, "Mystery Box", c.Lines[1].ItemName)
		assert.Equal(t, "Logo Design", c.Lines[2].ItemName)
		assert.Equal(t, "600.00", c.Lines[2].TotalPrice.String())
	})

	t.Run("classification is deterministic", func(t *testing.T) {
		in := []CandidateItem{{RawName: "Hosting Fees", Quantity: qty("3")}, {RawName: "Unknown Thing"}}
		a := Classify(in, snap.Index)
		b := Classify(in, snap.Index)
		assert.Equal(t, a, b)
	})

	t.Run("every line is uniform", func(t *testing.T) {
		c := Classify([]CandidateItem{{RawName: "Logo Design"}, {RawName: "Brand Strategy"}}, snap.Index)
		for _, l := range c.Lines {
			assert.True(t, l.IsUniform(), l.ItemName)
		}
	})
}

func TestApplyItemInputs(t *testing.T) {
	snap := testSnapshot()
	base := Classify([]CandidateItem{
		{RawName: "Web Development Service", Quantity: qty("2")},
		{RawName: "Custom AI Integration"},
		{RawName: "Brand Strategy", Quantity: qty("3")},
	}, snap.Index)

	t.Run("complete input turns a new line into a supplied line", func(t *testing.T) {
		out, adv := ApplyItemInputs(base, []ItemInput{{
			ItemName:  "custom ai integration",
			UnitPrice: valueobject.NewAmount(dec("1200")),
			TaxRate:   valueobject.NewAmount(dec("20")),
		}})
		assert.Empty(t, adv)
		assert.Equal(t, OriginSupplied, out.Lines[1].Origin)
		assert.Equal(t, "1200.00", out.Lines[1].TotalPrice.String())
		assert.Equal(t, []string{"Brand Strategy"}, out.New)
	})

	t.Run("incomplete input keeps the line new but updates quantity", func(t *testing.T) {
		five := valueobject.MustQuantity(5)
		out, _ := ApplyItemInputs(base, []ItemInput{{
			ItemName:  "Brand Strategy",
			Quantity:  &five,
			UnitPrice: valueobject.NewAmount(dec("80")),
			TaxRate:   valueobject.PlaceholderAmount(),
		}})
		line := out.Lines[2]
		assert.Equal(t, OriginNew, line.Origin)
		assert.Equal(t, "5", line.Quantity.String())
		assert.True(t, line.UnitPrice.IsPlaceholder(), "partial input never mixes concrete and placeholder fields")
		assert.Contains(t, out.New, "Brand Strategy")
	})

	t.Run("input for a known item is ignored", func(t *testing.T) {
		out, adv := ApplyItemInputs(base, []ItemInput{{
			ItemName:  "Web Development Service",
			UnitPrice: valueobject.NewAmount(dec("1")),
			TaxRate:   valueobject.NewAmount(dec("0")),
		}})
		require.Len(t, adv, 1)
		assert.Equal(t, AdvisoryOverrideIgnored, adv[0].Code)
		assert.Equal(t, "50.00", out.Lines[0].UnitPrice.String())
	})
}

func TestItemInputValidate(t *testing.T) {
	assert.NoError(t, ItemInput{ItemName: "X", UnitPrice: valueobject.PlaceholderAmount()}.Validate())
	assert.Error(t, ItemInput{ItemName: " "}.Validate())
	assert.Error(t, ItemInput{ItemName: "X", UnitPrice: valueobject.NewAmount(dec("-1"))}.Validate())
	assert.Error(t, ItemInput{ItemName: "X", UnitPrice: valueobject.NewAmount(dec("1")), TaxRate: valueobject.NewAmount(dec("120"))}.Validate())
}

func TestSuppliedItems(t *testing.T) {
	snap := testSnapshot()
	c := Classify([]CandidateItem{{RawName: "Custom AI Integration"}, {RawName: "custom ai integrations"}}, snap.Index)
	c, _ = ApplyItemInputs(c, []ItemInput{{
		ItemName:  "Custom AI Integration",
		UnitPrice: valueobject.NewAmount(dec("1200")),
		TaxRate:   valueobject.NewAmount(dec("20")),
	}})
	items, err := SuppliedItems(c.Lines)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Custom AI Integration", items[0].Name)
}

func TestSuggest(t *testing.T) {
	snap := testSnapshot()
	c := Classify([]CandidateItem{{RawName: "Logo Desing"}, {RawName: "Quantum Computing"}}, snap.Index)
	adv := Suggest(c, snap.Index)
	require.Len(t, adv, 1)
	assert.Equal(t, AdvisoryItemSuggestion, adv[0].Code)
	assert.Equal(t, "Logo Desing", adv[0].Item)
	assert.Contains(t, adv[0].Message, `"Logo Design"`)
	assert.Equal(t, OriginNew, c.Lines[0].Origin, "suggestions never reclassify")
}
