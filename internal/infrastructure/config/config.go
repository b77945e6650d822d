package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig
	HTTP        HTTPConfig
	Log         LogConfig
	Redis       RedisConfig
	Catalog     CatalogConfig
	Database    DatabaseConfig
	Interpreter InterpreterConfig
	Invoice     InvoiceConfig
	Auth        AuthConfig
	Telemetry   TelemetryConfig
	Render      RenderConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Catalog drivers
const (
	CatalogDriverRedis    = "redis"
	CatalogDriverMemory   = "memory"
	CatalogDriverPostgres = "postgres"
	CatalogDriverSQLite   = "sqlite"
)

// CatalogConfig selects the catalog store
type CatalogConfig struct {
	Driver    string // redis, memory, postgres, sqlite
	KeyPrefix string // redis hash key prefix, "company:" by default
	SeedFile  string // optional JSON file loaded into the memory store at startup
	Fallback  bool   // fall back to the memory store when redis is unreachable at startup
}

// DatabaseConfig holds SQL catalog connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	AutoMigrate     bool
}

// Interpreter providers
const (
	InterpreterOpenAI = "openai"
	InterpreterRules  = "rules"
)

// InterpreterConfig configures the request interpreter
type InterpreterConfig struct {
	Provider    string // openai, rules
	Model       string
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	Temperature float32
	MaxRetries  int
	Fallback    bool // use the rules interpreter when the model call fails
}

// InvoiceConfig holds invoice defaults
type InvoiceConfig struct {
	NumberPrefix    string
	DueDays         int
	DefaultCurrency string
	DefaultNotes    string
	TaxMode         string // inclusive, gross
	Timezone        string
}

// Location returns the timezone used for "today"
func (c InvoiceConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AuthConfig holds API token settings
type AuthConfig struct {
	Enabled         bool
	Secret          string
	Issuer          string
	TokenExpiration time.Duration
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	MetricsInterval   time.Duration
	// LogsEnabled also ships zap output to the collector; it requires Enabled.
	LogsEnabled bool

	ProfilingEnabled      bool
	ProfilerAddress       string
	ProfileTypes          []string
	ProfilerBasicAuthUser string
	ProfilerBasicAuthPass string
	// SpanProfiles links CPU samples to spans; it requires Enabled and ProfilingEnabled.
	SpanProfiles bool
}

// ProfileTypeNames are the accepted telemetry.profile_types values
var ProfileTypeNames = []string{
	"cpu", "alloc_objects", "alloc_space", "inuse_objects", "inuse_space",
	"goroutines", "mutex_count", "mutex_duration", "block_count", "block_duration",
}

// RenderConfig holds PDF rendering settings
type RenderConfig struct {
	PDFEnabled      bool
	ChromeRemoteURL string
	Timeout         time.Duration
	NoSandbox       bool
}

// Load loads configuration from config.toml and environment variables
// Priority (highest to lowest):
// 1. Environment variables with INVOICER_ prefix (e.g., INVOICER_REDIS_HOST)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path. An empty path searches
// the default locations.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/app")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("INVOICER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Catalog: CatalogConfig{
			Driver:    v.GetString("catalog.driver"),
			KeyPrefix: v.GetString("catalog.key_prefix"),
			SeedFile:  v.GetString("catalog.seed_file"),
			Fallback:  v.GetBool("catalog.fallback"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			SQLitePath:      v.GetString("database.sqlite_path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			AutoMigrate:     v.GetBool("database.auto_migrate"),
		},
		Interpreter: InterpreterConfig{
			Provider:    v.GetString("interpreter.provider"),
			Model:       v.GetString("interpreter.model"),
			BaseURL:     v.GetString("interpreter.base_url"),
			APIKey:      v.GetString("interpreter.api_key"),
			Timeout:     v.GetDuration("interpreter.timeout"),
			Temperature: float32(v.GetFloat64("interpreter.temperature")),
			MaxRetries:  v.GetInt("interpreter.max_retries"),
			Fallback:    v.GetBool("interpreter.fallback"),
		},
		Invoice: InvoiceConfig{
			NumberPrefix:    v.GetString("invoice.number_prefix"),
			DueDays:         v.GetInt("invoice.due_days"),
			DefaultCurrency: v.GetString("invoice.default_currency"),
			DefaultNotes:    v.GetString("invoice.default_notes"),
			TaxMode:         v.GetString("invoice.tax_mode"),
			Timezone:        v.GetString("invoice.timezone"),
		},
		Auth: AuthConfig{
			Enabled:         v.GetBool("auth.enabled"),
			Secret:          v.GetString("auth.secret"),
			Issuer:          v.GetString("auth.issuer"),
			TokenExpiration: v.GetDuration("auth.token_expiration"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),

			ProfilingEnabled:      v.GetBool("telemetry.profiling_enabled"),
			ProfilerAddress:       v.GetString("telemetry.profiler_address"),
			ProfileTypes:          v.GetStringSlice("telemetry.profile_types"),
			ProfilerBasicAuthUser: v.GetString("telemetry.profiler_basic_auth_user"),
			ProfilerBasicAuthPass: v.GetString("telemetry.profiler_basic_auth_password"),
			SpanProfiles:          v.GetBool("telemetry.span_profiles"),
		},
		Render: RenderConfig{
			PDFEnabled:      v.GetBool("render.pdf_enabled"),
			ChromeRemoteURL: v.GetString("render.chrome_remote_url"),
			Timeout:         v.GetDuration("render.timeout"),
			NoSandbox:       v.GetBool("render.no_sandbox"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "invoicer"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		// Model calls dominate request latency.
		cfg.HTTP.WriteTimeout = 90 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Catalog.Driver == "" {
		cfg.Catalog.Driver = CatalogDriverRedis
	}
	if cfg.Catalog.KeyPrefix == "" {
		cfg.Catalog.KeyPrefix = "company:"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "invoicer"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "invoicer.db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 2
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Interpreter.Provider == "" {
		cfg.Interpreter.Provider = InterpreterOpenAI
	}
	if cfg.Interpreter.Model == "" {
		cfg.Interpreter.Model = "gpt-4.1"
	}
	if cfg.Interpreter.Timeout == 0 {
		cfg.Interpreter.Timeout = 60 * time.Second
	}
	if cfg.Interpreter.MaxRetries == 0 {
		cfg.Interpreter.MaxRetries = 2
	}
	if cfg.Invoice.NumberPrefix == "" {
		cfg.Invoice.NumberPrefix = "INV-"
	}
	if cfg.Invoice.DueDays == 0 {
		cfg.Invoice.DueDays = 14
	}
	if cfg.Invoice.DefaultCurrency == "" {
		cfg.Invoice.DefaultCurrency = "€"
	}
	if cfg.Invoice.DefaultNotes == "" {
		cfg.Invoice.DefaultNotes = "Thank you for your business!"
	}
	if cfg.Invoice.TaxMode == "" {
		cfg.Invoice.TaxMode = "inclusive"
	}
	if cfg.Invoice.Timezone == "" {
		cfg.Invoice.Timezone = "UTC"
	}
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = "invoicer"
	}
	if cfg.Auth.TokenExpiration == 0 {
		cfg.Auth.TokenExpiration = 24 * time.Hour
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "invoicer"
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
	if cfg.Telemetry.ProfilerAddress == "" {
		cfg.Telemetry.ProfilerAddress = "http://localhost:4040"
	}
	if len(cfg.Telemetry.ProfileTypes) == 0 {
		cfg.Telemetry.ProfileTypes = []string{"cpu", "alloc_space", "inuse_space", "goroutines"}
	}
	if cfg.Render.Timeout == 0 {
		cfg.Render.Timeout = 30 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Catalog.Driver {
	case CatalogDriverRedis, CatalogDriverMemory, CatalogDriverPostgres, CatalogDriverSQLite:
	default:
		return fmt.Errorf("catalog.driver must be one of redis, memory, postgres, sqlite; got %q", c.Catalog.Driver)
	}
	switch c.Interpreter.Provider {
	case InterpreterOpenAI, InterpreterRules:
	default:
		return fmt.Errorf("interpreter.provider must be openai or rules; got %q", c.Interpreter.Provider)
	}
	switch c.Invoice.TaxMode {
	case "inclusive", "gross":
	default:
		return fmt.Errorf("invoice.tax_mode must be inclusive or gross; got %q", c.Invoice.TaxMode)
	}
	if c.Invoice.DueDays < 0 {
		return fmt.Errorf("invoice.due_days cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Interpreter.Temperature < 0 || c.Interpreter.Temperature > 2 {
		return fmt.Errorf("interpreter.temperature must be between 0 and 2")
	}
	if c.Auth.Enabled && len(c.Auth.Secret) < 32 {
		return fmt.Errorf("auth.secret must be at least 32 characters when auth is enabled")
	}

	if c.App.Env == "production" {
		if !c.Auth.Enabled {
			return fmt.Errorf("auth.enabled must be true in production")
		}
		if c.Interpreter.Provider == InterpreterOpenAI && c.Interpreter.APIKey == "" {
			return fmt.Errorf("interpreter.api_key is required in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	for _, pt := range c.Telemetry.ProfileTypes {
		if !slices.Contains(ProfileTypeNames, pt) {
			return fmt.Errorf("telemetry.profile_types: unknown profile type %q", pt)
		}
	}

	return nil
}

// DSN returns the postgres connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
