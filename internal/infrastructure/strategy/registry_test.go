package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicer/backend/internal/domain/invoice"
	"github.com/invoicer/backend/internal/domain/shared"
)

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(invoice.InclusiveTax{}))

	err := r.Register(invoice.InclusiveTax{})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, r.Register(invoice.GrossRateTax{}))
	assert.ErrorIs(t, r.SetDefault("inclusive"), shared.ErrNotFound)
	require.NoError(t, r.SetDefault(invoice.TaxModeGross))

	s, err := r.Get("")
	require.NoError(t, err)
	assert.Equal(t, invoice.TaxModeGross, s.Name())

	_, err = r.Get("vat-on-top")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestNewRegistryWithDefaults(t *testing.T) {
	r, err := NewRegistryWithDefaults()
	require.NoError(t, err)
	assert.Equal(t, []string{"gross", "inclusive"}, r.Names())

	calc, err := NewCalculator(r, "")
	require.NoError(t, err)
	assert.Equal(t, invoice.TaxModeInclusive, calc.TaxMode())

	calc, err = NewCalculator(r, invoice.TaxModeGross)
	require.NoError(t, err)
	assert.Equal(t, invoice.TaxModeGross, calc.TaxMode())

	_, err = NewCalculator(r, "unknown")
	assert.Error(t, err)
}
