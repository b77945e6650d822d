package cache

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/invoicer/backend/internal/domain/invoice"
)

// NumbererFactory picks the invoice numberer for the opened backends
type NumbererFactory struct {
	redis                 redis.UniversalClient
	sql                   invoice.Numberer
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// NumbererFactoryOption configures the factory
type NumbererFactoryOption func(*NumbererFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) NumbererFactoryOption {
	return func(f *NumbererFactory) {
		f.logger = logger
	}
}

// WithRedis makes redis INCR the primary allocator
func WithRedis(client redis.UniversalClient) NumbererFactoryOption {
	return func(f *NumbererFactory) {
		f.redis = client
	}
}

// WithSQL uses a database-backed allocator when redis is not configured
func WithSQL(n invoice.Numberer) NumbererFactoryOption {
	return func(f *NumbererFactory) {
		f.sql = n
	}
}

// WithInMemoryFallback controls whether failed allocations fall back to process memory.
// Default is true.
func WithInMemoryFallback(allow bool) NumbererFactoryOption {
	return func(f *NumbererFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewNumbererFactory creates a factory
func NewNumbererFactory(opts ...NumbererFactoryOption) *NumbererFactory {
	f := &NumbererFactory{logger: zap.NewNop(), allowInMemoryFallback: true}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns redis, then SQL, then in-memory numbering, wrapping the
// shared ones with the in-memory fallback when allowed.
func (f *NumbererFactory) Create() invoice.Numberer {
	var primary invoice.Numberer
	switch {
	case f.redis != nil:
		f.logger.Info("using redis invoice numbering")
		primary = NewRedisNumberer(f.redis, "")
	case f.sql != nil:
		f.logger.Info("using SQL invoice numbering")
		primary = f.sql
	default:
		f.logger.Warn("no shared store for invoice numbering, numbers restart with the process")
		return NewInMemoryNumberer()
	}
	if !f.allowInMemoryFallback {
		return primary
	}
	return NewFallbackNumberer(primary, NewInMemoryNumberer(), f.logger)
}
