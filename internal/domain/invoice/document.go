package invoice

import (
	"github.com/invoicer/backend/internal/domain/shared/valueobject"
)

// Rejection messages
const (
	RejectNotInvoice      = "INPUT IS NOT FOR A INVOICE"
	RejectInterpretFailed = "INPUT COULD NOT BE INTERPRETED"
	rejectMalformedPrefix = "INVALID INVOICE REQUEST: "
)

// Document is the emitted invoice. Field order and JSON keys are the output contract.
type Document struct {
	BusinessName    string               `json:"business_name"`
	BusinessAddress string               `json:"business_address"`
	BusinessContact string               `json:"business_contact"`
	InvoiceNumber   string               `json:"invoice_number"`
	InvoiceDate     string               `json:"invoice_date"`
	DueDate         string               `json:"due_date"`
	CustomerName    string               `json:"customer_name"`
	CustomerAddress string               `json:"customer_address"`
	CustomerContact string               `json:"customer_contact"`
	Items           []LineItem           `json:"items"`
	Subtotal        valueobject.Amount   `json:"subtotal"`
	Tax             valueobject.Amount   `json:"tax"`
	TotalDue        valueobject.Amount   `json:"total_due"`
	PaymentTerms    string               `json:"payment_terms"`
	Notes           string               `json:"notes"`
	Currency        valueobject.Currency `json:"-"`
}

// IsComplete reports whether all aggregates are resolved
func (d *Document) IsComplete() bool {
	return !d.TotalDue.IsPlaceholder()
}

// Rejection is the single-field document emitted for requests that do not
// produce an invoice
type Rejection struct {
	Output string `json:"output"`
}

// NotInvoiceRejection is emitted for requests unrelated to billing
func NotInvoiceRejection() *Rejection {
	return &Rejection{Output: RejectNotInvoice}
}

// MalformedRejection is emitted when interpreter output fails validation
func MalformedRejection(reason string) *Rejection {
	return &Rejection{Output: rejectMalformedPrefix + reason}
}

// InterpretFailedRejection is emitted when the interpreter call itself fails
func InterpretFailedRejection() *Rejection {
	return &Rejection{Output: RejectInterpretFailed}
}
