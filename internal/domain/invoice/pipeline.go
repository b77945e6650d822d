package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/invoicer/backend/internal/domain/catalog"
)

// Request is one validated invoice request ready for processing
type Request struct {
	CompanyID string
	Draft     Draft
	Today     time.Time
	Inputs    []ItemInput
}

// Result is the outcome of one request: a document or a rejection
type Result struct {
	Document       *Document
	Rejection      *Rejection
	Classification Classification
	Resolution     Resolution
	Totals         Totals
	Advisories     []Advisory
	States         []State
}

// Rejected reports whether the request ended in a rejection document
func (r *Result) Rejected() bool {
	return r.Rejection != nil
}

// Complete reports whether the document has no unresolved amounts
func (r *Result) Complete() bool {
	return r.Document != nil && r.Document.IsComplete()
}

// Pipeline runs classification, resolution, calculation and assembly
type Pipeline struct {
	calc     *Calculator
	numberer Numberer
	policy   Policy
}

// NewPipeline creates a pipeline
func NewPipeline(calc *Calculator, numberer Numberer, policy Policy) *Pipeline {
	if calc == nil {
		calc = NewCalculator(nil)
	}
	return &Pipeline{calc: calc, numberer: numberer, policy: policy}
}

// Policy returns the defaults in effect
func (p *Pipeline) Policy() Policy {
	return p.policy
}

// Gate decides whether a request is invoice-related. It returns the trace to
// continue with, and a rejected result when processing must stop.
func (p *Pipeline) Gate(draft *Draft, interpretErr error) (*Trace, *Result) {
	trace := NewTrace()
	if interpretErr != nil || draft == nil {
		return trace, p.reject(trace, InterpretFailedRejection())
	}
	_ = trace.Advance(StateClassified)
	if !draft.IsInvoiceRequest || !draft.HasStructuralCues() {
		return trace, p.reject(trace, NotInvoiceRejection())
	}
	if err := draft.Validate(); err != nil {
		var m *MalformedDraftError
		if errors.As(err, &m) {
			return trace, p.reject(trace, MalformedRejection(m.Reason))
		}
		return trace, p.reject(trace, MalformedRejection(err.Error()))
	}
	return trace, nil
}

func (p *Pipeline) reject(trace *Trace, r *Rejection) *Result {
	_ = trace.Advance(StateRejected)
	return &Result{Rejection: r, States: trace.States()}
}

// Process runs the stages after a passing Gate against one catalog snapshot
func (p *Pipeline) Process(ctx context.Context, trace *Trace, req Request, snap *catalog.Snapshot) (*Result, error) {
	if trace == nil || trace.Current() != StateClassified {
		return nil, fmt.Errorf("process requires a classified request")
	}
	res := &Result{}

	classification := Classify(req.Draft.Items, snap.Index)
	classification, ignored := ApplyItemInputs(classification, req.Inputs)
	res.Advisories = append(res.Advisories, ignored...)
	res.Advisories = append(res.Advisories, Suggest(classification, snap.Index)...)
	if classification.HasNew() {
		res.Advisories = append(res.Advisories, Advisory{
			Code:    AdvisoryItemsNeedInput,
			Message: fmt.Sprintf("%d item(s) are not in the catalog; unit price and tax rate are required before totals can be computed", len(classification.New)),
		})
	}
	res.Classification = classification
	if err := trace.Advance(StateItemsResolved); err != nil {
		return nil, err
	}

	resolution := Resolve(req.Draft, snap.Customers, req.Today, p.policy)
	res.Resolution = resolution
	res.Advisories = append(res.Advisories, resolution.Advisories...)
	if err := trace.Advance(StateCustomerResolved); err != nil {
		return nil, err
	}

	res.Totals = p.calc.Calculate(classification.Lines)
	if err := trace.Advance(StateCalculated); err != nil {
		return nil, err
	}

	number, err := p.nextNumber(ctx, req.CompanyID, resolution.InvoiceDate.Year())
	if err != nil {
		return nil, err
	}
	res.Document = p.assemble(snap.Profile, req.Draft, number, classification, resolution, res.Totals)
	if err := trace.Advance(StateAssembled); err != nil {
		return nil, err
	}
	if err := trace.Advance(StateEmitted); err != nil {
		return nil, err
	}
	res.States = trace.States()
	return res, nil
}

func (p *Pipeline) nextNumber(ctx context.Context, companyID string, year int) (string, error) {
	if p.numberer == nil {
		return "", errors.New("no invoice numberer configured")
	}
	seq, err := p.numberer.Next(ctx, companyID, year)
	if err != nil {
		return "", fmt.Errorf("allocate invoice number: %w", err)
	}
	return FormatNumber(p.policy.NumberPrefix, year, seq), nil
}

func (p *Pipeline) assemble(profile catalog.BusinessProfile, d Draft, number string, c Classification, r Resolution, t Totals) *Document {
	notes := d.Notes
	if notes == "" {
		notes = p.policy.DefaultNotes
	}
	items := make([]LineItem, len(c.Lines))
	copy(items, c.Lines)
	return &Document{
		BusinessName:    profile.Name,
		BusinessAddress: profile.Address,
		BusinessContact: profile.Contact,
		InvoiceNumber:   number,
		InvoiceDate:     r.InvoiceDate.Format(DateLayout),
		DueDate:         r.DueDate.Format(DateLayout),
		CustomerName:    r.Customer.Name,
		CustomerAddress: r.Customer.Address,
		CustomerContact: r.Customer.Contact,
		Items:           items,
		Subtotal:        t.Subtotal,
		Tax:             t.Tax,
		TotalDue:        t.TotalDue,
		PaymentTerms:    profile.PaymentTermsLine(p.dueDays()),
		Notes:           notes,
		Currency:        r.Currency,
	}
}

func (p *Pipeline) dueDays() int {
	if p.policy.DueDays <= 0 {
		return DefaultDueDays
	}
	return p.policy.DueDays
}
