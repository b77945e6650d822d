package valueobject

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNonPositiveQuantity is returned for zero or negative quantities
var ErrNonPositiveQuantity = errors.New("quantity must be positive")

// Quantity is a strictly positive count of billed units or hours.
// Fractional quantities are allowed for hourly work.
type Quantity struct {
	value decimal.Decimal
}

// NewQuantity creates a Quantity, rejecting zero and negative values
func NewQuantity(value decimal.Decimal) (Quantity, error) {
	if !value.IsPositive() {
		return Quantity{}, ErrNonPositiveQuantity
	}
	return Quantity{value: value}, nil
}

// NewQuantityFromInt creates a Quantity from an int64 value
func NewQuantityFromInt(value int64) (Quantity, error) {
	return NewQuantity(decimal.NewFromInt(value))
}

// MustQuantity panics on invalid input. Intended for constants and tests.
func MustQuantity(value int64) Quantity {
	q, err := NewQuantityFromInt(value)
	if err != nil {
		panic(err)
	}
	return q
}

// One is the default quantity when a request does not state one
func One() Quantity {
	return Quantity{value: decimal.NewFromInt(1)}
}

// Decimal returns the underlying value
func (q Quantity) Decimal() decimal.Decimal {
	return q.value
}

// IsZero reports whether q is the zero value (never constructed)
func (q Quantity) IsZero() bool {
	return q.value.IsZero()
}

// String returns the shortest decimal representation
func (q Quantity) String() string {
	return q.value.String()
}

// MarshalJSON renders a bare JSON number
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.value.String()), nil
}

// UnmarshalJSON accepts a JSON number or numeric string
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid quantity: %w", err)
	}
	parsed, err := NewQuantity(d)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}
