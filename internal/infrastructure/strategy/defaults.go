package strategy

import "github.com/invoicer/backend/internal/domain/invoice"

// NewRegistryWithDefaults registers the inclusive and gross tax modes with inclusive as default.
func NewRegistryWithDefaults() (*Registry, error) {
	r := NewRegistry()
	for _, s := range []invoice.TaxStrategy{invoice.InclusiveTax{}, invoice.GrossRateTax{}} {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	if err := r.SetDefault(invoice.TaxModeInclusive); err != nil {
		return nil, err
	}
	return r, nil
}

// NewCalculator resolves mode and builds the calculator using it
func NewCalculator(r *Registry, mode string) (*invoice.Calculator, error) {
	s, err := r.Get(mode)
	if err != nil {
		return nil, err
	}
	return invoice.NewCalculator(s), nil
}
