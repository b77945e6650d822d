package invoice

import (
	"github.com/invoicer/backend/internal/domain/catalog"
	"github.com/invoicer/backend/internal/domain/shared/valueobject"
)

// Classification is the Known/New partition of a request's items
type Classification struct {
	Lines []LineItem
	Known []string
	New   []string
}

// HasNew reports whether any line still needs user input
func (c Classification) HasNew() bool {
	return len(c.New) > 0
}

// Classify matches candidates against the catalog by exact normalized name.
// Known lines take price and tax rate from the catalog; New lines carry
// placeholders. Request order and duplicates are preserved.
func Classify(candidates []CandidateItem, index *catalog.Index) Classification {
	out := Classification{Lines: make([]LineItem, 0, len(candidates))}
	for _, c := range candidates {
		qty := candidateQuantity(c)
		if item, ok := index.Lookup(c.RawName); ok {
			out.Lines = append(out.Lines, pricedLine(item.Name, qty, item.UnitPrice, item.TaxRate, OriginKnown))
			out.Known = append(out.Known, item.Name)
			continue
		}
		name := catalog.NormalizeName(c.RawName)
		out.Lines = append(out.Lines, placeholderLine(name, qty))
		out.New = append(out.New, name)
	}
	return out
}

func candidateQuantity(c CandidateItem) valueobject.Quantity {
	if c.Quantity == nil {
		return valueobject.One()
	}
	q, err := valueobject.NewQuantity(*c.Quantity)
	if err != nil {
		// Validate rejects non-positive quantities before classification.
		return valueobject.One()
	}
	return q
}
