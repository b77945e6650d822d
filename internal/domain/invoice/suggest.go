package invoice

import (
	"fmt"

	"github.com/agnivade/levenshtein"
	"github.com/invoicer/backend/internal/domain/catalog"
)

// Suggest proposes the closest catalog name for each New line. Suggestions are
// advisory only and never change classification.
func Suggest(c Classification, index *catalog.Index) []Advisory {
	var out []Advisory
	seen := make(map[string]bool)
	for _, name := range c.New {
		key := catalog.Key(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		if match, ok := closest(key, index.Items()); ok {
			out = append(out, Advisory{
				Code:    AdvisoryItemSuggestion,
				Message: fmt.Sprintf("%q is not in the catalog. Did you mean %q?", name, match),
				Item:    name,
			})
		}
	}
	return out
}

func closest(key string, items []catalog.Item) (string, bool) {
	limit := len(key) / 4
	if limit < 2 {
		limit = 2
	}
	best, bestDist := "", limit+1
	for _, it := range items {
		d := levenshtein.ComputeDistance(key, it.Key())
		if d < bestDist {
			best, bestDist = it.Name, d
		}
	}
	return best, best != ""
}
