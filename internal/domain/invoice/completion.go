package invoice

import (
	"fmt"

	"github.com/invoicer/backend/internal/domain/catalog"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/invoicer/backend/internal/domain/shared/valueobject"
)

// ItemInput carries user-supplied values for an item that is not in the catalog
type ItemInput struct {
	ItemName  string                `json:"item_name"`
	Quantity  *valueobject.Quantity `json:"quantity,omitempty"`
	UnitPrice valueobject.Amount    `json:"unit_price"`
	TaxRate   valueobject.Amount    `json:"tax_rate"`
}

// IsComplete reports whether both price fields are provided
func (in ItemInput) IsComplete() bool {
	return !in.UnitPrice.IsPlaceholder() && !in.TaxRate.IsPlaceholder()
}

// Validate checks the supplied values without requiring them to be complete
func (in ItemInput) Validate() error {
	if catalog.NormalizeName(in.ItemName) == "" {
		return shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	price, hasPrice := in.UnitPrice.Decimal()
	if hasPrice && price.IsNegative() {
		return shared.NewDomainError("INVALID_UNIT_PRICE", fmt.Sprintf("Unit price of %q cannot be negative", in.ItemName))
	}
	rate, hasRate := in.TaxRate.Decimal()
	if hasRate && (rate.IsNegative() || rate.GreaterThan(hundred)) {
		return shared.NewDomainError("INVALID_TAX_RATE", fmt.Sprintf("Tax rate of %q must be between 0 and 100", in.ItemName))
	}
	return nil
}

// ApplyItemInputs fills New lines from user input. Lines whose input is complete
// become Supplied; incomplete input only updates the quantity and the line stays
// New. Input naming a Known line is ignored with an advisory.
func ApplyItemInputs(c Classification, inputs []ItemInput) (Classification, []Advisory) {
	if len(inputs) == 0 {
		return c, nil
	}
	byKey := make(map[string]ItemInput, len(inputs))
	for _, in := range inputs {
		byKey[catalog.Key(in.ItemName)] = in
	}

	var advisories []Advisory
	out := Classification{Lines: make([]LineItem, 0, len(c.Lines)), Known: c.Known}
	ignored := make(map[string]bool)
	for _, line := range c.Lines {
		key := catalog.Key(line.ItemName)
		in, ok := byKey[key]
		switch {
		case ok && line.Origin == OriginKnown:
			if !ignored[key] {
				ignored[key] = true
				advisories = append(advisories, Advisory{
					Code:    AdvisoryOverrideIgnored,
					Message: fmt.Sprintf("%q is priced from the catalog; supplied values were ignored", line.ItemName),
					Item:    line.ItemName,
				})
			}
			out.Lines = append(out.Lines, line)
		case !ok || line.Origin != OriginNew:
			out.Lines = append(out.Lines, line)
			if line.Origin == OriginNew {
				out.New = append(out.New, line.ItemName)
			}
		default:
			qty := line.Quantity
			if in.Quantity != nil && !in.Quantity.IsZero() {
				qty = *in.Quantity
			}
			if !in.IsComplete() {
				out.Lines = append(out.Lines, placeholderLine(line.ItemName, qty))
				out.New = append(out.New, line.ItemName)
				continue
			}
			price, _ := in.UnitPrice.Decimal()
			rate, _ := in.TaxRate.Decimal()
			out.Lines = append(out.Lines, pricedLine(line.ItemName, qty, price, rate, OriginSupplied))
		}
	}
	return out, advisories
}

// SuppliedItems returns the catalog entries the user supplied for New lines.
// Invalid values are reported as errors.
func SuppliedItems(lines []LineItem) ([]catalog.Item, error) {
	var items []catalog.Item
	seen := make(map[string]bool)
	for _, l := range lines {
		if l.Origin != OriginSupplied {
			continue
		}
		key := catalog.Key(l.ItemName)
		if seen[key] {
			continue
		}
		seen[key] = true
		price, _ := l.UnitPrice.Decimal()
		rate, _ := l.TaxRate.Decimal()
		item, err := catalog.NewItem(l.ItemName, price, rate)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", l.ItemName, err)
		}
		items = append(items, item)
	}
	return items, nil
}
