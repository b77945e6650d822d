package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/invoicer/backend/internal/infrastructure/config"
)

type recordingProcessor struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (p *recordingProcessor) OnEmit(_ context.Context, r *sdklog.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, r.Clone())
	return nil
}

func (p *recordingProcessor) Enabled(context.Context, sdklog.EnabledParameters) bool { return true }

func (p *recordingProcessor) Shutdown(context.Context) error   { return nil }
func (p *recordingProcessor) ForceFlush(context.Context) error { return nil }

func (p *recordingProcessor) bodies() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.records))
	for _, r := range p.records {
		out = append(out, r.Body().AsString())
	}
	return out
}

func newRecordingLoggerProvider(t *testing.T) (*LoggerProvider, *recordingProcessor) {
	t.Helper()
	rec := &recordingProcessor{}
	lp := &LoggerProvider{
		provider: sdklog.NewLoggerProvider(sdklog.WithProcessor(rec)),
		logger:   zap.NewNop(),
		config:   LogsConfig{Enabled: true, ServiceName: "invoicer-test"},
	}
	t.Cleanup(func() { _ = lp.Shutdown(context.Background()) })
	return lp, rec
}

func TestLogsConfigFromTelemetry(t *testing.T) {
	cfg := config.TelemetryConfig{Enabled: false, LogsEnabled: true, ServiceName: "invoicer"}
	assert.False(t, LogsConfigFromTelemetry(cfg).Enabled, "logs need telemetry enabled")

	cfg.Enabled = true
	got := LogsConfigFromTelemetry(cfg)
	assert.True(t, got.Enabled)
	assert.Equal(t, "invoicer", got.ServiceName)
}

func TestNewLoggerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	lp, err := NewLoggerProvider(ctx, LogsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.ForceFlush(ctx))
	assert.NoError(t, lp.Shutdown(ctx))

	base := zap.NewNop()
	assert.Same(t, base, lp.Bridge(base, zapcore.InfoLevel))
}

func TestLoggerProvider_Bridge(t *testing.T) {
	lp, rec := newRecordingLoggerProvider(t)
	core, logs := observer.New(zapcore.DebugLevel)

	log := lp.Bridge(zap.New(core), zapcore.InfoLevel).With(zap.String("company_id", "1"))
	log.Debug("due date defaulted")
	log.Info("customer defaulted", zap.String("customer", "XYZ Enterprises"))
	log.Warn("request could not be interpreted")

	assert.Equal(t, 3, logs.Len(), "the base core still sees every entry")
	assert.Equal(t, []string{"customer defaulted", "request could not be interpreted"}, rec.bodies())

	rec.mu.Lock()
	defer rec.mu.Unlock()
	attrs := map[string]string{}
	rec.records[0].WalkAttributes(func(kv otellog.KeyValue) bool {
		attrs[kv.Key] = kv.Value.AsString()
		return true
	})
	assert.Equal(t, "1", attrs["company_id"])
	assert.Equal(t, "XYZ Enterprises", attrs["customer"])
	assert.Equal(t, otellog.SeverityInfo, rec.records[0].Severity())
}

func TestLevelFilterCore(t *testing.T) {
	base, _ := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: base, minLevel: zapcore.WarnLevel}

	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.ErrorLevel))

	with := core.With([]zapcore.Field{zap.String("k", "v")})
	filtered, ok := with.(*levelFilterCore)
	require.True(t, ok)
	assert.Equal(t, zapcore.WarnLevel, filtered.minLevel)
}
