package valueobject

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Placeholder is the sentinel rendered for amounts that are not known yet.
// It is distinct from zero and from null.
const Placeholder = "PLACEHOLDER"

// Currency is the display symbol prefixed to monetary amounts.
type Currency string

const (
	EUR Currency = "€"
	USD Currency = "$"
	GBP Currency = "£"
)

// DefaultCurrency applies when a request names no currency.
const DefaultCurrency = EUR

// currencyAliases maps words and codes found in free text to display symbols.
var currencyAliases = map[string]Currency{
	"€":       EUR,
	"eur":     EUR,
	"euro":    EUR,
	"euros":   EUR,
	"$":       USD,
	"usd":     USD,
	"dollar":  USD,
	"dollars": USD,
	"£":       GBP,
	"gbp":     GBP,
	"pound":   GBP,
	"pounds":  GBP,
}

// ParseCurrency resolves a currency hint. Empty or unknown hints yield DefaultCurrency
// and ok=false.
func ParseCurrency(hint string) (Currency, bool) {
	c, ok := currencyAliases[strings.ToLower(strings.TrimSpace(hint))]
	if !ok {
		return DefaultCurrency, false
	}
	return c, true
}

// Amount is a decimal value or the placeholder sentinel.
// It is immutable; arithmetic on a placeholder yields a placeholder.
type Amount struct {
	value    decimal.Decimal
	resolved bool
}

// NewAmount creates a resolved amount
func NewAmount(d decimal.Decimal) Amount {
	return Amount{value: d, resolved: true}
}

// NewAmountFromFloat creates a resolved amount from a float64 value
func NewAmountFromFloat(f float64) Amount {
	return NewAmount(decimal.NewFromFloat(f))
}

// PlaceholderAmount returns the unresolved amount
func PlaceholderAmount() Amount {
	return Amount{}
}

// ParseAmount parses a decimal string or the placeholder sentinel.
// Blank input is treated as a placeholder.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, Placeholder) {
		return PlaceholderAmount(), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return NewAmount(d), nil
}

// IsPlaceholder reports whether the amount is still unknown
func (a Amount) IsPlaceholder() bool {
	return !a.resolved
}

// Decimal returns the value and whether it is resolved
func (a Amount) Decimal() (decimal.Decimal, bool) {
	return a.value, a.resolved
}

// Round rounds a resolved amount half away from zero
func (a Amount) Round(places int32) Amount {
	if !a.resolved {
		return a
	}
	return NewAmount(a.value.Round(places))
}

// Equal compares two amounts; two placeholders are equal
func (a Amount) Equal(other Amount) bool {
	if a.resolved != other.resolved {
		return false
	}
	return !a.resolved || a.value.Equal(other.value)
}

// String returns the 2-decimal representation or the sentinel
func (a Amount) String() string {
	if !a.resolved {
		return Placeholder
	}
	return a.value.StringFixed(2)
}

// Format renders the amount with a currency symbol prefix, e.g. "€2500.00"
func (a Amount) Format(c Currency) string {
	if !a.resolved {
		return Placeholder
	}
	return string(c) + a.value.StringFixed(2)
}

// MarshalJSON renders a JSON number with two decimals or the sentinel string
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.resolved {
		return json.Marshal(Placeholder)
	}
	return []byte(a.value.StringFixed(2)), nil
}

// UnmarshalJSON accepts numbers, numeric strings, the sentinel, "" and null
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = PlaceholderAmount()
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseAmount(s)
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	*a = NewAmount(d)
	return nil
}
