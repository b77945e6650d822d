// Package cache holds the invoice sequence allocators used to number emitted invoices.
package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/invoicer/backend/internal/domain/invoice"
	"github.com/invoicer/backend/internal/domain/shared"
)

// DefaultSequenceKeyPrefix prefixes the per company and year counter key
const DefaultSequenceKeyPrefix = "invoice:seq:"

// RedisNumberer allocates sequences with INCR, so every process sharing the
// redis instance draws from the same counter.
type RedisNumberer struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisNumberer creates a numberer over an existing client
func NewRedisNumberer(client redis.UniversalClient, keyPrefix string) *RedisNumberer {
	if keyPrefix == "" {
		keyPrefix = DefaultSequenceKeyPrefix
	}
	return &RedisNumberer{client: client, keyPrefix: keyPrefix}
}

func (n *RedisNumberer) key(companyID string, year int) string {
	return fmt.Sprintf("%s%s:%d", n.keyPrefix, companyID, year)
}

// Next implements invoice.Numberer
func (n *RedisNumberer) Next(ctx context.Context, companyID string, year int) (int64, error) {
	v, err := n.client.Incr(ctx, n.key(companyID, year)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: incr invoice sequence: %v", shared.ErrCatalogUnavailable, err)
	}
	return v, nil
}

// InMemoryNumberer keeps counters in process memory. Numbers restart with the
// process and are not shared between instances.
type InMemoryNumberer struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewInMemoryNumberer creates an empty in-memory numberer
func NewInMemoryNumberer() *InMemoryNumberer {
	return &InMemoryNumberer{counters: make(map[string]int64)}
}

// Next implements invoice.Numberer
func (n *InMemoryNumberer) Next(_ context.Context, companyID string, year int) (int64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	key := fmt.Sprintf("%s:%d", companyID, year)
	n.counters[key]++
	return n.counters[key], nil
}

// FallbackNumberer uses primary and switches to secondary for a call that fails.
type FallbackNumberer struct {
	primary   invoice.Numberer
	secondary invoice.Numberer
	logger    *zap.Logger
}

// NewFallbackNumberer chains two numberers
func NewFallbackNumberer(primary, secondary invoice.Numberer, logger *zap.Logger) *FallbackNumberer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackNumberer{primary: primary, secondary: secondary, logger: logger}
}

// Next implements invoice.Numberer
func (n *FallbackNumberer) Next(ctx context.Context, companyID string, year int) (int64, error) {
	v, err := n.primary.Next(ctx, companyID, year)
	if err == nil {
		return v, nil
	}
	n.logger.Warn("primary invoice numberer failed, using fallback",
		zap.String("company_id", companyID),
		zap.Int("year", year),
		zap.Error(err),
	)
	return n.secondary.Next(ctx, companyID, year)
}

var (
	_ invoice.Numberer = (*RedisNumberer)(nil)
	_ invoice.Numberer = (*InMemoryNumberer)(nil)
	_ invoice.Numberer = (*FallbackNumberer)(nil)
)
