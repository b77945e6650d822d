package catalog

import (
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Item is a catalog entry. UnitPrice is tax-inclusive; TaxRate is in percentage points.
type Item struct {
	Name      string
	UnitPrice decimal.Decimal
	TaxRate   decimal.Decimal
}

// NewItem validates and normalizes a catalog entry
func NewItem(name string, unitPrice, taxRate decimal.Decimal) (Item, error) {
	normalized := NormalizeName(name)
	if normalized == "" {
		return Item{}, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if unitPrice.IsNegative() {
		return Item{}, shared.NewDomainError("INVALID_UNIT_PRICE", "Unit price cannot be negative")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(hundred) {
		return Item{}, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}
	return Item{Name: normalized, UnitPrice: unitPrice, TaxRate: taxRate}, nil
}

// Key returns the normalized lookup key
func (i Item) Key() string {
	return Key(i.Name)
}

// SameName reports whether two names refer to the same stored entry, using
// the same fold as Index lookups.
func SameName(a, b string) bool {
	return Key(a) == Key(b)
}

// Index is an exact-match lookup over a fixed set of items, keyed by normalized name.
// The first item wins when two entries normalize to the same key.
type Index struct {
	byKey map[string]Item
	items []Item
}

// NewIndex builds an index over items
func NewIndex(items []Item) *Index {
	idx := &Index{byKey: make(map[string]Item, len(items)), items: items}
	for _, it := range items {
		k := it.Key()
		if _, exists := idx.byKey[k]; !exists {
			idx.byKey[k] = it
		}
	}
	return idx
}

// Lookup finds the item matching a free-text name
func (x *Index) Lookup(name string) (Item, bool) {
	it, ok := x.byKey[Key(name)]
	return it, ok
}

// Items returns the indexed items in catalog order
func (x *Index) Items() []Item {
	return x.items
}

// Len returns the number of distinct keys
func (x *Index) Len() int {
	return len(x.byKey)
}
