package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestInvoiceMetrics(t *testing.T) (*InvoiceMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewInvoiceMetrics(provider.Meter(InvoiceMeterName), nil)
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumWhere(m metricdata.Metrics, key attribute.Key, value string) int64 {
	var total int64
	for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
		if v, ok := dp.Attributes.Value(key); ok && v.Emit() == value {
			total += dp.Value
		}
	}
	return total
}

func TestInvoiceMetrics_RecordGeneration(t *testing.T) {
	m, reader := newTestInvoiceMetrics(t)
	ctx := context.Background()

	m.RecordGeneration(ctx, GenerationOutcome{
		CompanyID:        "1",
		State:            "emitted",
		KnownItems:       2,
		NewItems:         1,
		Advisories:       []string{"ITEMS_NEED_INPUT", "CUSTOMER_DEFAULTED"},
		Interpreter:      "rules",
		InterpretLatency: 3 * time.Millisecond,
		Latency:          20 * time.Millisecond,
	})
	m.RecordGeneration(ctx, GenerationOutcome{CompanyID: "1", State: "rejected", Latency: time.Millisecond})

	got := collect(t, reader)
	assert.EqualValues(t, 1, sumWhere(got["invoice_requests_total"], AttrState, "emitted"))
	assert.EqualValues(t, 1, sumWhere(got["invoice_requests_total"], AttrState, "rejected"))
	assert.EqualValues(t, 2, sumWhere(got["invoice_item_lines_total"], AttrOutcome, "known"))
	assert.EqualValues(t, 1, sumWhere(got["invoice_item_lines_total"], AttrOutcome, "new"))
	assert.EqualValues(t, 1, sumWhere(got["invoice_advisories_total"], AttrAdvisory, "ITEMS_NEED_INPUT"))

	hist := got["invoice_generate_duration_seconds"].Data.(metricdata.Histogram[float64])
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.EqualValues(t, 2, count)

	interp := got["invoice_interpret_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.Len(t, interp.DataPoints, 1)
	assert.EqualValues(t, 1, interp.DataPoints[0].Count)
}

func TestInvoiceMetrics_Counters(t *testing.T) {
	m, reader := newTestInvoiceMetrics(t)
	ctx := context.Background()

	m.RecordInterpretFailure(ctx, "openai")
	m.RecordCatalogUnavailable(ctx, "redis")
	m.RecordCatalogUnavailable(ctx, "redis")
	m.RecordItemsConfirmed(ctx, "1", 2, 1)
	m.RecordExport(ctx, "pdf")

	got := collect(t, reader)
	assert.EqualValues(t, 1, sumWhere(got["invoice_interpret_failures_total"], AttrInterpreter, "openai"))
	assert.EqualValues(t, 2, sumWhere(got["invoice_catalog_unavailable_total"], AttrBackend, "redis"))
	assert.EqualValues(t, 2, sumWhere(got["invoice_items_confirmed_total"], AttrOutcome, "saved"))
	assert.EqualValues(t, 1, sumWhere(got["invoice_items_confirmed_total"], AttrOutcome, "skipped"))
	assert.EqualValues(t, 1, sumWhere(got["invoice_exports_total"], AttrFormat, "pdf"))
}

func TestInvoiceMetrics_NilIsNoop(t *testing.T) {
	var m *InvoiceMetrics
	assert.NotPanics(t, func() {
		m.RecordGeneration(context.Background(), GenerationOutcome{State: "emitted"})
		m.RecordInterpretFailure(context.Background(), "rules")
		m.RecordCatalogUnavailable(context.Background(), "memory")
		m.RecordItemsConfirmed(context.Background(), "1", 1, 0)
		m.RecordExport(context.Background(), "html")
	})
}
