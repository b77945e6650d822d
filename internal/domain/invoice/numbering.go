package invoice

import (
	"context"
	"fmt"
)

// Numberer hands out invoice sequence numbers. Values are distinct within the
// lifetime of the backing counter; no stronger guarantee is made.
type Numberer interface {
	Next(ctx context.Context, companyID string, year int) (int64, error)
}

// FormatNumber renders prefix + year + zero-padded sequence, e.g. "INV-2025001"
func FormatNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s%d%03d", prefix, year, seq)
}
