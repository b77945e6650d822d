package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appinvoice "github.com/invoicer/backend/internal/application/invoice"
	"github.com/invoicer/backend/internal/domain/invoice"
	"github.com/invoicer/backend/internal/domain/shared/valueobject"
	"github.com/invoicer/backend/internal/infrastructure/config"
)

func testConfig(t *testing.T, driver string) *config.Config {
	return &config.Config{
		App:         config.AppConfig{Name: "invoicer", Env: "test"},
		Catalog:     config.CatalogConfig{Driver: driver},
		Database:    config.DatabaseConfig{SQLitePath: filepath.Join(t.TempDir(), "catalog.db")},
		Interpreter: config.InterpreterConfig{Provider: config.InterpreterRules},
		Invoice: config.InvoiceConfig{
			NumberPrefix:    "INV-",
			DueDays:         14,
			DefaultCurrency: "€",
			TaxMode:         invoice.TaxModeInclusive,
			Timezone:        "UTC",
		},
	}
}

func TestPolicyFromConfig(t *testing.T) {
	t.Run("maps every field", func(t *testing.T) {
		p, err := PolicyFromConfig(config.InvoiceConfig{
			NumberPrefix:    "AB-",
			DueDays:         30,
			DefaultCurrency: "usd",
			DefaultNotes:    "Thanks",
		})
		require.NoError(t, err)
		assert.Equal(t, "AB-", p.NumberPrefix)
		assert.Equal(t, 30, p.DueDays)
		assert.Equal(t, valueobject.USD, p.DefaultCurrency)
		assert.Equal(t, "Thanks", p.DefaultNotes)
	})

	t.Run("empty section keeps the defaults", func(t *testing.T) {
		p, err := PolicyFromConfig(config.InvoiceConfig{})
		require.NoError(t, err)
		assert.Equal(t, invoice.DefaultPolicy(), p)
	})

	t.Run("unknown currency", func(t *testing.T) {
		_, err := PolicyFromConfig(config.InvoiceConfig{DefaultCurrency: "doubloons"})
		assert.ErrorContains(t, err, "doubloons")
	})
}

func TestBuild_Memory(t *testing.T) {
	cfg := testConfig(t, config.CatalogDriverMemory)
	cfg.Catalog.SeedFile = filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(cfg.Catalog.SeedFile, []byte(`{"1": {
		"business_name": "ABC Solutions",
		"item_list": [{"item_name": "Logo Design", "unit_price": 300, "tax_rate": 21}],
		"customer_list": [{"customer_name": "Acme Corp"}]
	}}`), 0o600))

	app, err := Build(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer app.Close(context.Background())

	assert.Equal(t, config.CatalogDriverMemory, app.Backend.Driver)
	assert.Empty(t, app.HealthChecks())
	assert.False(t, app.Logs.IsEnabled())
	assert.False(t, app.Profiler.IsEnabled())
	assert.False(t, app.Tracer.SpanProfilesEnabled())
	require.NotNil(t, app.Invoices)
	require.NotNil(t, app.Catalog)

	resp, err := app.Invoices.Generate(context.Background(), "1", appinvoice.GenerateRequest{Message: "hello there"})
	require.NoError(t, err)
	assert.Equal(t, invoice.RejectNotInvoice, resp.Rejection.Output)

	resp, err = app.Invoices.Generate(context.Background(), "1", appinvoice.GenerateRequest{Message: "Invoice Acme for 2 LOGO DESIGNS"})
	require.NoError(t, err)
	require.NotNil(t, resp.Document)
	assert.Equal(t, "Acme Corp", resp.Document.CustomerName)
	assert.Equal(t, "600.00", resp.Document.TotalDue.String())
}

func TestBuild_SQLite(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t, config.CatalogDriverSQLite), zap.NewNop())
	require.NoError(t, err)
	defer app.Close(context.Background())

	checks := app.HealthChecks()
	require.Contains(t, checks, "database")
	assert.NoError(t, checks["database"](context.Background()))
}

func TestBuild_UnknownTaxMode(t *testing.T) {
	cfg := testConfig(t, config.CatalogDriverMemory)
	cfg.Invoice.TaxMode = "flat"

	_, err := Build(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "tax mode")
}

func TestBuild_ProfilerNeedsAddress(t *testing.T) {
	cfg := testConfig(t, config.CatalogDriverMemory)
	cfg.Telemetry.ProfilingEnabled = true
	cfg.Telemetry.ServiceName = "invoicer"

	_, err := Build(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "profiler")
}
