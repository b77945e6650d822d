// Package interpreter turns a free-text billing request into an invoice draft.
// Its output is untrusted; the invoice pipeline validates every draft.
package interpreter

import (
	"context"
	"errors"
	"time"

	"github.com/invoicer/backend/internal/domain/catalog"
	"github.com/invoicer/backend/internal/domain/invoice"
)

// ErrUninterpretable is returned when no usable draft could be produced
var ErrUninterpretable = errors.New("request could not be interpreted")

// Request carries the text and the context the interpreter may rely on.
// ItemNames and CustomerNames come from the company catalog so references
// like "web dev" or "Acme" can be mapped to stored names.
type Request struct {
	Message       string
	Today         time.Time
	ItemNames     []string
	CustomerNames []string
}

// NewRequest builds a request carrying the catalog names of snap
func NewRequest(message string, today time.Time, snap *catalog.Snapshot) Request {
	req := Request{Message: message, Today: today}
	if snap == nil {
		return req
	}
	seen := make(map[string]bool)
	for _, it := range snap.Index.Items() {
		if seen[it.Key()] {
			continue
		}
		seen[it.Key()] = true
		req.ItemNames = append(req.ItemNames, it.Name)
	}
	for _, c := range snap.Customers {
		req.CustomerNames = append(req.CustomerNames, c.Name)
	}
	return req
}

// Interpreter produces a draft from a request
type Interpreter interface {
	Interpret(ctx context.Context, req Request) (*invoice.Draft, error)
	Name() string
}
