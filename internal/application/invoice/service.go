package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/invoicer/backend/internal/domain/catalog"
	"github.com/invoicer/backend/internal/domain/invoice"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/invoicer/backend/internal/domain/shared/valueobject"
	"github.com/invoicer/backend/internal/infrastructure/interpreter"
	"github.com/invoicer/backend/internal/infrastructure/logger"
	"github.com/invoicer/backend/internal/infrastructure/printing"
	"github.com/invoicer/backend/internal/infrastructure/telemetry"
)

// Service generates invoices from free-text requests
type Service struct {
	interpreter interpreter.Interpreter
	store       catalog.Store
	pipeline    *invoice.Pipeline
	taxMode     string
	exporter    *printing.Exporter
	metrics     *telemetry.InvoiceMetrics
	backend     string
	location    *time.Location
	now         func() time.Time
	logger      *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithExporter enables Export
func WithExporter(e *printing.Exporter) Option {
	return func(s *Service) { s.exporter = e }
}

// WithMetrics records generation metrics
func WithMetrics(m *telemetry.InvoiceMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLocation sets the timezone that decides today's date
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.location = loc }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithBackendName labels catalog metrics with the store driver
func WithBackendName(name string) Option {
	return func(s *Service) { s.backend = name }
}

// NewService creates a new invoice service
func NewService(interp interpreter.Interpreter, store catalog.Store, calc *invoice.Calculator, numberer invoice.Numberer, policy invoice.Policy, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if calc == nil {
		calc = invoice.NewCalculator(nil)
	}
	s := &Service{
		interpreter: interp,
		store:       store,
		pipeline:    invoice.NewPipeline(calc, numberer, policy),
		taxMode:     calc.TaxMode(),
		location:    time.UTC,
		now:         time.Now,
		logger:      log.Named("invoice"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate interprets message against the company's catalog and runs the
// pipeline for companyID. Non-invoice and malformed requests produce a
// rejection, not an error. Errors are returned for a missing company, an
// unavailable catalog or a failed number allocation.
func (s *Service) Generate(ctx context.Context, companyID string, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "generate",
		telemetry.WithAttribute(telemetry.SpanAttrCompanyID, companyID))
	defer span.End()

	today, err := s.today(req.CurrentDate)
	if err != nil {
		return nil, err
	}

	snap, err := s.loadSnapshot(ctx, companyID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	interpretStart := time.Now()
	draft, interpretErr := s.interpreter.Interpret(ctx, interpreter.NewRequest(req.Message, today, snap))
	interpretLatency := time.Since(interpretStart)
	telemetry.SetAttributes(span, telemetry.SpanAttrInterpreter, s.interpreter.Name())
	if interpretErr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.metrics.RecordInterpretFailure(ctx, s.interpreter.Name())
		logger.With(ctx, s.logger).Warn("request could not be interpreted",
			zap.String("interpreter", s.interpreter.Name()),
			zap.Error(interpretErr),
		)
	}

	resp, err := s.run(ctx, companyID, snap, draft, interpretErr, today, nil)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.record(ctx, companyID, resp, time.Since(start), interpretLatency)
	telemetry.SetAttributes(span, telemetry.SpanAttrState, string(resp.State))
	telemetry.SetOK(span)
	return resp, nil
}

// Complete re-runs a draft with user-supplied prices for New items
func (s *Service) Complete(ctx context.Context, companyID string, req CompleteRequest) (*GenerateResponse, error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "complete",
		telemetry.WithAttribute(telemetry.SpanAttrCompanyID, companyID))
	defer span.End()

	for _, in := range req.Items {
		if err := in.Validate(); err != nil {
			return nil, err
		}
	}
	today, err := s.today(req.CurrentDate)
	if err != nil {
		return nil, err
	}

	draft := req.Draft
	resp, err := s.run(ctx, companyID, nil, &draft, nil, today, req.Items)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.record(ctx, companyID, resp, time.Since(start), 0)
	return resp, nil
}

// Export renders a document. The currency symbol is not part of the document
// JSON, so callers pass back the one reported with it.
func (s *Service) Export(ctx context.Context, format printing.Format, req ExportRequest) (*printing.Output, error) {
	if s.exporter == nil {
		return nil, shared.NewDomainError("EXPORT_UNAVAILABLE", "Export is not configured")
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "export",
		telemetry.WithAttribute(telemetry.SpanAttrFormat, string(format)))
	defer span.End()

	doc := req.Document
	if req.Currency != "" {
		c, ok := valueobject.ParseCurrency(req.Currency)
		if !ok {
			return nil, shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Unknown currency %q", req.Currency))
		}
		doc.Currency = c
	}
	out, err := s.exporter.Export(ctx, format, &doc)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.metrics.RecordExport(ctx, string(format))
	return out, nil
}

// run gates the draft and processes it against snap. A nil snap is loaded
// only once the draft passes the gate.
func (s *Service) run(ctx context.Context, companyID string, snap *catalog.Snapshot, draft *invoice.Draft, interpretErr error, today time.Time, inputs []invoice.ItemInput) (*GenerateResponse, error) {
	log := logger.With(ctx, s.logger).With(zap.String("company_id", companyID))

	trace, rejected := s.pipeline.Gate(draft, interpretErr)
	if rejected != nil {
		log.Info("invoice request rejected", zap.String("output", rejected.Rejection.Output))
		return newResponse(rejected, draft, s.taxMode), nil
	}

	if snap == nil {
		var err error
		if snap, err = s.loadSnapshot(ctx, companyID); err != nil {
			return nil, err
		}
	}

	res, err := s.pipeline.Process(ctx, trace, invoice.Request{
		CompanyID: companyID,
		Draft:     *draft,
		Today:     today,
		Inputs:    inputs,
	}, snap)
	if err != nil {
		return nil, err
	}
	s.logDecisions(log, res)
	return newResponse(res, draft, s.taxMode), nil
}

func (s *Service) loadSnapshot(ctx context.Context, companyID string) (*catalog.Snapshot, error) {
	snap, err := catalog.LoadSnapshot(ctx, s.store, companyID)
	if err != nil {
		if errors.Is(err, shared.ErrCatalogUnavailable) {
			s.metrics.RecordCatalogUnavailable(ctx, s.backend)
			logger.With(ctx, s.logger).Error("catalog unavailable",
				zap.String("company_id", companyID),
				zap.Error(err),
			)
		}
		return nil, err
	}
	return snap, nil
}

func (s *Service) logDecisions(log *zap.Logger, res *invoice.Result) {
	r := res.Resolution
	if r.CustomerDefault {
		log.Info("customer defaulted", zap.String("customer", r.Customer.Name))
	}
	if r.InvoiceDateDefault {
		log.Debug("invoice date defaulted to today", zap.Time("invoice_date", r.InvoiceDate))
	}
	if r.DueDateDefault {
		log.Debug("due date defaulted", zap.Time("due_date", r.DueDate))
	}
	if r.CurrencyDefault {
		log.Debug("currency defaulted", zap.String("currency", string(r.Currency)))
	}
	if !res.Complete() {
		log.Info("totals left as placeholders", zap.Strings("new_items", res.Classification.New))
	}
	log.Info("invoice assembled",
		zap.String("invoice_number", res.Document.InvoiceNumber),
		zap.Int("known_items", len(res.Classification.Known)),
		zap.Int("new_items", len(res.Classification.New)),
		zap.Bool("complete", res.Complete()),
	)
}

func (s *Service) record(ctx context.Context, companyID string, resp *GenerateResponse, latency, interpretLatency time.Duration) {
	codes := make([]string, 0, len(resp.Advisories))
	for _, a := range resp.Advisories {
		codes = append(codes, string(a.Code))
	}
	outcome := telemetry.GenerationOutcome{
		CompanyID:        companyID,
		State:            string(resp.State),
		Complete:         resp.Complete,
		KnownItems:       len(resp.KnownItems),
		NewItems:         len(resp.NewItems),
		Advisories:       codes,
		InterpretLatency: interpretLatency,
		Latency:          latency,
	}
	if interpretLatency > 0 {
		outcome.Interpreter = s.interpreter.Name()
	}
	s.metrics.RecordGeneration(ctx, outcome)
}

// today returns the override date or the current date in the configured zone
func (s *Service) today(override string) (time.Time, error) {
	if override == "" {
		return s.now().In(s.location), nil
	}
	t, err := time.ParseInLocation(invoice.DateLayout, override, s.location)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_DATE", fmt.Sprintf("current_date %q is not a YYYY-MM-DD date", override))
	}
	return t, nil
}
