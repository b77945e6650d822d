package invoice

import (
	"github.com/invoicer/backend/internal/domain/invoice"
)

// GenerateRequest is a free-text invoice request
type GenerateRequest struct {
	Message string `json:"message" binding:"required,max=4000"`
	// CurrentDate overrides today's date, YYYY-MM-DD
	CurrentDate string `json:"current_date,omitempty"`
}

// CompleteRequest re-runs a draft with values supplied for New items
type CompleteRequest struct {
	Draft       invoice.Draft       `json:"draft"`
	Items       []invoice.ItemInput `json:"items"`
	CurrentDate string              `json:"current_date,omitempty"`
}

// ExportRequest carries a document to render
type ExportRequest struct {
	Document invoice.Document `json:"document"`
	Currency string           `json:"currency,omitempty"`
}

// GenerateResponse is the envelope returned for every processed request:
// either a document or a rejection, plus what was decided along the way.
type GenerateResponse struct {
	State      invoice.State      `json:"state"`
	States     []invoice.State    `json:"states"`
	Document   *invoice.Document  `json:"document,omitempty"`
	Rejection  *invoice.Rejection `json:"rejection,omitempty"`
	Advisories []invoice.Advisory `json:"advisories"`
	KnownItems []string           `json:"known_items"`
	NewItems   []string           `json:"new_items"`
	Draft      *invoice.Draft     `json:"draft,omitempty"`
	Complete   bool               `json:"complete"`
	Currency   string             `json:"currency,omitempty"`
	TaxMode    string             `json:"tax_mode,omitempty"`
}

// Output returns the single document a caller displays: the invoice or the rejection
func (r *GenerateResponse) Output() any {
	if r.Rejection != nil {
		return r.Rejection
	}
	return r.Document
}

func newResponse(res *invoice.Result, draft *invoice.Draft, taxMode string) *GenerateResponse {
	out := &GenerateResponse{
		States:     res.States,
		Document:   res.Document,
		Rejection:  res.Rejection,
		Advisories: res.Advisories,
		KnownItems: res.Classification.Known,
		NewItems:   res.Classification.New,
		Draft:      draft,
		Complete:   res.Complete(),
	}
	if len(res.States) > 0 {
		out.State = res.States[len(res.States)-1]
	}
	if out.Advisories == nil {
		out.Advisories = []invoice.Advisory{}
	}
	if out.KnownItems == nil {
		out.KnownItems = []string{}
	}
	if out.NewItems == nil {
		out.NewItems = []string{}
	}
	if res.Document != nil {
		out.Currency = string(res.Document.Currency)
		out.TaxMode = taxMode
	}
	return out
}
