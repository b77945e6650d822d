package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// InvoiceMeterName is the meter scope for invoice metrics
const InvoiceMeterName = "invoicer/invoice"

// GenerationOutcome describes how one generate request ended
type GenerationOutcome struct {
	CompanyID        string
	State            string // terminal state: emitted or rejected
	Complete         bool
	KnownItems       int
	NewItems         int
	Advisories       []string
	Interpreter      string
	InterpretLatency time.Duration
	Latency          time.Duration
}

// InvoiceMetrics records invoice generation metrics.
// A nil *InvoiceMetrics is valid and records nothing.
type InvoiceMetrics struct {
	requests           *Counter
	itemLines          *Counter
	advisories         *Counter
	interpretFailures  *Counter
	catalogUnavailable *Counter
	itemsConfirmed     *Counter
	exports            *Counter
	duration           *Histogram
	interpretDuration  *Histogram
	logger             *zap.Logger
}

// NewInvoiceMetrics creates the invoice instruments on meter.
func NewInvoiceMetrics(meter metric.Meter, logger *zap.Logger) (*InvoiceMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &InvoiceMetrics{logger: logger}
	var err error

	counters := []struct {
		dst        **Counter
		name, desc string
	}{
		{&m.requests, "invoice_requests_total", "Invoice generation requests by terminal state"},
		{&m.itemLines, "invoice_item_lines_total", "Requested item lines by catalog origin"},
		{&m.advisories, "invoice_advisories_total", "Advisories attached to generated invoices"},
		{&m.interpretFailures, "invoice_interpret_failures_total", "Requests the interpreter could not read"},
		{&m.catalogUnavailable, "invoice_catalog_unavailable_total", "Catalog reads that failed"},
		{&m.itemsConfirmed, "invoice_items_confirmed_total", "Supplied items offered to the catalog"},
		{&m.exports, "invoice_exports_total", "Rendered invoice documents by format"},
	}
	for _, c := range counters {
		if *c.dst, err = NewCounter(meter, c.name, c.desc, "1"); err != nil {
			return nil, err
		}
	}

	if m.duration, err = NewHistogram(meter, HistogramOpts{
		Name:        "invoice_generate_duration_seconds",
		Description: "End-to-end invoice generation latency",
		Unit:        "s",
		Boundaries:  DurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.interpretDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "invoice_interpret_duration_seconds",
		Description: "Interpreter latency",
		Unit:        "s",
		Boundaries:  DurationBuckets,
	}); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordGeneration records one finished generate request.
func (m *InvoiceMetrics) RecordGeneration(ctx context.Context, o GenerationOutcome) {
	if m == nil {
		return
	}
	company := AttrCompanyID.String(o.CompanyID)
	m.requests.Inc(ctx, company, AttrState.String(o.State), AttrComplete.Bool(o.Complete))
	if o.KnownItems > 0 {
		m.itemLines.Add(ctx, int64(o.KnownItems), company, AttrOutcome.String("known"))
	}
	if o.NewItems > 0 {
		m.itemLines.Add(ctx, int64(o.NewItems), company, AttrOutcome.String("new"))
	}
	for _, code := range o.Advisories {
		m.advisories.Inc(ctx, company, AttrAdvisory.String(code))
	}
	if o.Interpreter != "" {
		m.interpretDuration.RecordDuration(ctx, o.InterpretLatency, AttrInterpreter.String(o.Interpreter))
	}
	m.duration.RecordDuration(ctx, o.Latency, AttrState.String(o.State))
}

// RecordInterpretFailure counts a request the interpreter failed on.
func (m *InvoiceMetrics) RecordInterpretFailure(ctx context.Context, interpreter string) {
	if m == nil {
		return
	}
	m.interpretFailures.Inc(ctx, AttrInterpreter.String(interpreter))
}

// RecordCatalogUnavailable counts a failed catalog read.
func (m *InvoiceMetrics) RecordCatalogUnavailable(ctx context.Context, backend string) {
	if m == nil {
		return
	}
	m.catalogUnavailable.Inc(ctx, AttrBackend.String(backend))
	m.logger.Debug("catalog unavailable recorded", zap.String("backend", backend))
}

// RecordItemsConfirmed counts items saved to and skipped by the catalog.
func (m *InvoiceMetrics) RecordItemsConfirmed(ctx context.Context, companyID string, saved, skipped int) {
	if m == nil {
		return
	}
	company := AttrCompanyID.String(companyID)
	if saved > 0 {
		m.itemsConfirmed.Add(ctx, int64(saved), company, AttrOutcome.String("saved"))
	}
	if skipped > 0 {
		m.itemsConfirmed.Add(ctx, int64(skipped), company, AttrOutcome.String("skipped"))
	}
}

// RecordExport counts a rendered document.
func (m *InvoiceMetrics) RecordExport(ctx context.Context, format string) {
	if m == nil {
		return
	}
	m.exports.Inc(ctx, AttrFormat.String(format))
}
