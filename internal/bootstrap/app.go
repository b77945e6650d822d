// Package bootstrap assembles the invoicing services from configuration.
// The HTTP server and the invoicectl CLI share it.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	appcatalog "github.com/invoicer/backend/internal/application/catalog"
	appinvoice "github.com/invoicer/backend/internal/application/invoice"
	"github.com/invoicer/backend/internal/domain/invoice"
	"github.com/invoicer/backend/internal/domain/shared/valueobject"
	"github.com/invoicer/backend/internal/infrastructure/cache"
	"github.com/invoicer/backend/internal/infrastructure/config"
	"github.com/invoicer/backend/internal/infrastructure/interpreter"
	"github.com/invoicer/backend/internal/infrastructure/persistence"
	"github.com/invoicer/backend/internal/infrastructure/printing"
	"github.com/invoicer/backend/internal/infrastructure/strategy"
	"github.com/invoicer/backend/internal/infrastructure/telemetry"
)

// App holds the wired services and everything that must be closed with them
type App struct {
	Config *config.Config
	// Logger is the caller's logger, teed into OTLP when telemetry logs are on
	Logger   *zap.Logger
	Logs     *telemetry.LoggerProvider
	Profiler *telemetry.Profiler
	Backend  *persistence.CatalogBackend
	Tracer   *telemetry.TracerProvider
	Meter    *telemetry.MeterProvider
	Metrics  *telemetry.InvoiceMetrics
	Exporter *printing.Exporter
	Invoices *appinvoice.Service
	Catalog  *appcatalog.Service
}

// Build opens the catalog backend and constructs both application services.
// The caller owns the returned App and must Close it.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: log}
	ok := false
	defer func() {
		if !ok {
			_ = app.Close(context.Background())
		}
	}()

	var err error
	app.Logs, err = telemetry.NewLoggerProvider(ctx, telemetry.LogsConfigFromTelemetry(cfg.Telemetry), log)
	if err != nil {
		return nil, fmt.Errorf("logger provider: %w", err)
	}
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	log = app.Logs.Bridge(log, level)
	app.Logger = log

	app.Profiler, err = telemetry.NewProfiler(telemetry.ProfilerConfigFromTelemetry(cfg.Telemetry), log)
	if err != nil {
		return nil, fmt.Errorf("profiler: %w", err)
	}

	app.Tracer, err = telemetry.NewTracerProvider(ctx, telemetry.FromConfig(cfg.Telemetry), log)
	if err != nil {
		return nil, fmt.Errorf("tracer provider: %w", err)
	}
	if cfg.Telemetry.SpanProfiles && app.Profiler.IsEnabled() {
		app.Tracer.EnableSpanProfiles()
	}
	app.Meter, err = telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("meter provider: %w", err)
	}
	app.Metrics, err = telemetry.NewInvoiceMetrics(app.Meter.Meter("invoicer"), log)
	if err != nil {
		return nil, fmt.Errorf("invoice metrics: %w", err)
	}

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled
	dbTracing.LogFullSQL = cfg.App.Env == "development"
	if cfg.Catalog.Driver == config.CatalogDriverSQLite {
		dbTracing.DBSystem = "sqlite"
	}
	plugin := telemetry.NewDBTracingPlugin(dbTracing, log)

	app.Backend, err = persistence.OpenCatalog(ctx, cfg, log, persistence.WithGormHook(plugin.Register))
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	log.Info("catalog backend ready", zap.String("driver", app.Backend.Driver))

	numberer := newNumberer(app.Backend, log)

	registry, err := strategy.NewRegistryWithDefaults()
	if err != nil {
		return nil, err
	}
	calc, err := strategy.NewCalculator(registry, cfg.Invoice.TaxMode)
	if err != nil {
		return nil, fmt.Errorf("tax mode: %w", err)
	}

	interp, err := interpreter.New(cfg.Interpreter, log)
	if err != nil {
		return nil, err
	}

	var pdf printing.PDFRenderer
	if cfg.Render.PDFEnabled {
		pdf = printing.NewChromedpRenderer(printing.ChromedpConfigFromRender(cfg.Render, log))
	}
	app.Exporter = printing.NewExporter(pdf, log)

	policy, err := PolicyFromConfig(cfg.Invoice)
	if err != nil {
		return nil, err
	}

	app.Invoices = appinvoice.NewService(interp, app.Backend.Store, calc, numberer, policy, log,
		appinvoice.WithExporter(app.Exporter),
		appinvoice.WithMetrics(app.Metrics),
		appinvoice.WithLocation(cfg.Invoice.Location()),
		appinvoice.WithBackendName(app.Backend.Driver),
	)
	app.Catalog = appcatalog.NewService(app.Backend.Store, app.Metrics, app.Backend.Driver, log)

	ok = true
	return app, nil
}

// PolicyFromConfig maps the invoice section onto the assembly defaults
func PolicyFromConfig(cfg config.InvoiceConfig) (invoice.Policy, error) {
	policy := invoice.DefaultPolicy()
	if cfg.DefaultCurrency != "" {
		currency, known := valueobject.ParseCurrency(cfg.DefaultCurrency)
		if !known {
			return invoice.Policy{}, fmt.Errorf("invoice.default_currency: unknown currency %q", cfg.DefaultCurrency)
		}
		policy.DefaultCurrency = currency
	}
	if cfg.DueDays > 0 {
		policy.DueDays = cfg.DueDays
	}
	if cfg.NumberPrefix != "" {
		policy.NumberPrefix = cfg.NumberPrefix
	}
	if cfg.DefaultNotes != "" {
		policy.DefaultNotes = cfg.DefaultNotes
	}
	return policy, nil
}

func newNumberer(backend *persistence.CatalogBackend, log *zap.Logger) invoice.Numberer {
	opts := []cache.NumbererFactoryOption{
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	}
	if backend.Redis != nil {
		opts = append(opts, cache.WithRedis(backend.Redis))
	}
	if backend.Database != nil {
		opts = append(opts, cache.WithSQL(persistence.NewGormNumberer(backend.Database.DB)))
	}
	return cache.NewNumbererFactory(opts...).Create()
}

// HealthChecks returns a probe per shared dependency of the backend
func (a *App) HealthChecks() map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{}
	if a.Backend == nil {
		return checks
	}
	if client := a.Backend.Redis; client != nil {
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}
	if db := a.Backend.Database; db != nil {
		checks["database"] = func(ctx context.Context) error {
			sqlDB, err := db.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	return checks
}

// Close releases the exporter, the catalog backend and the telemetry providers.
// The log provider goes last so shutdown messages are still exported.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Exporter != nil {
		errs = append(errs, a.Exporter.Close())
	}
	if a.Backend != nil {
		errs = append(errs, a.Backend.Close())
	}
	if a.Meter != nil {
		errs = append(errs, a.Meter.Shutdown(ctx))
	}
	if a.Tracer != nil {
		errs = append(errs, a.Tracer.Shutdown(ctx))
	}
	if a.Profiler != nil {
		errs = append(errs, a.Profiler.Stop())
	}
	if a.Logs != nil {
		errs = append(errs, a.Logs.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
