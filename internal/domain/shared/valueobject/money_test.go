package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount(t *testing.T) {
	t.Run("resolved amount renders two decimals", func(t *testing.T) {
		a := NewAmount(decimal.RequireFromString("2272.727272"))
		assert.False(t, a.IsPlaceholder())
		assert.Equal(t, "2272.73", a.String())
		assert.Equal(t, "€2272.73", a.Format(EUR))
	})

	t.Run("placeholder is distinct from zero", func(t *testing.T) {
		p := PlaceholderAmount()
		zero := NewAmount(decimal.Zero)
		assert.True(t, p.IsPlaceholder())
		assert.False(t, p.Equal(zero))
		assert.Equal(t, Placeholder, p.String())
		assert.Equal(t, Placeholder, p.Format(EUR))
	})

	t.Run("round leaves placeholder untouched", func(t *testing.T) {
		assert.True(t, PlaceholderAmount().Round(2).IsPlaceholder())
		assert.Equal(t, "10.01", NewAmountFromFloat(10.005).Round(2).String())
	})
}

func TestAmountJSON(t *testing.T) {
	t.Run("marshals resolved as number", func(t *testing.T) {
		out, err := json.Marshal(NewAmountFromFloat(2500))
		require.NoError(t, err)
		assert.Equal(t, "2500.00", string(out))
	})

	t.Run("marshals placeholder as sentinel string", func(t *testing.T) {
		out, err := json.Marshal(PlaceholderAmount())
		require.NoError(t, err)
		assert.Equal(t, `"PLACEHOLDER"`, string(out))
	})

	tests := []struct {
		name        string
		input       string
		placeholder bool
		want        string
	}{
		{"number", `50`, false, "50.00"},
		{"numeric string", `"12.5"`, false, "12.50"},
		{"sentinel", `"PLACEHOLDER"`, true, Placeholder},
		{"empty string", `""`, true, Placeholder},
		{"null", `null`, true, Placeholder},
	}
	for _, tt := range tests {
		t.Run("unmarshal "+tt.name, func(t *testing.T) {
			var a Amount
			require.NoError(t, json.Unmarshal([]byte(tt.input), &a))
			assert.Equal(t, tt.placeholder, a.IsPlaceholder())
			assert.Equal(t, tt.want, a.String())
		})
	}

	t.Run("rejects garbage", func(t *testing.T) {
		var a Amount
		assert.Error(t, json.Unmarshal([]byte(`"ten"`), &a))
	})
}

func TestParseCurrency(t *testing.T) {
	c, ok := ParseCurrency("USD")
	assert.True(t, ok)
	assert.Equal(t, USD, c)

	c, ok = ParseCurrency("")
	assert.False(t, ok)
	assert.Equal(t, EUR, c)

	c, ok = ParseCurrency("doubloons")
	assert.False(t, ok)
	assert.Equal(t, DefaultCurrency, c)
}
