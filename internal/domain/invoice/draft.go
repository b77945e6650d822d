package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used on documents and drafts
const DateLayout = "2006-01-02"

// CandidateItem is one item reference extracted from the request text
type CandidateItem struct {
	RawName  string           `json:"name"`
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
}

// Draft is the interpreter's structured reading of a request.
// It is untrusted input; Validate must pass before it is processed.
type Draft struct {
	IsInvoiceRequest bool            `json:"is_invoice_request"`
	Reason           string          `json:"reason,omitempty"`
	Items            []CandidateItem `json:"items"`
	CustomerRef      string          `json:"customer,omitempty"`
	InvoiceDate      string          `json:"invoice_date,omitempty"`
	DueDate          string          `json:"due_date,omitempty"`
	Currency         string          `json:"currency,omitempty"`
	Notes            string          `json:"notes,omitempty"`
}

// MalformedDraftError describes why interpreter output cannot be processed
type MalformedDraftError struct {
	Reason string
}

func (e *MalformedDraftError) Error() string {
	return "malformed draft: " + e.Reason
}

func malformed(format string, args ...any) *MalformedDraftError {
	return &MalformedDraftError{Reason: fmt.Sprintf(format, args...)}
}

// HasStructuralCues reports whether the draft references anything billable
func (d Draft) HasStructuralCues() bool {
	return len(d.Items) > 0 || strings.TrimSpace(d.CustomerRef) != ""
}

// Validate checks the draft of an invoice request
func (d Draft) Validate() error {
	if len(d.Items) == 0 {
		return malformed("no billable items in request")
	}
	for i, it := range d.Items {
		if strings.TrimSpace(it.RawName) == "" {
			return malformed("item %d has an empty name", i+1)
		}
		if it.Quantity != nil && !it.Quantity.IsPositive() {
			return malformed("quantity for item %q must be positive, got %s", it.RawName, it.Quantity.String())
		}
	}
	invoiceDate, err := parseOptionalDate(d.InvoiceDate)
	if err != nil {
		return malformed("invoice_date %q is not a YYYY-MM-DD date", d.InvoiceDate)
	}
	dueDate, err := parseOptionalDate(d.DueDate)
	if err != nil {
		return malformed("due_date %q is not a YYYY-MM-DD date", d.DueDate)
	}
	if invoiceDate != nil && dueDate != nil && dueDate.Before(*invoiceDate) {
		return malformed("due_date %s precedes invoice_date %s", d.DueDate, d.InvoiceDate)
	}
	return nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
