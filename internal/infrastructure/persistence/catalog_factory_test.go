package persistence

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/invoicer/backend/internal/infrastructure/config"
)

const seedJSON = `{"1": {"business_name": "ABC Solutions",
	"item_list": [{"item_name": "Logo Design", "unit_price": 300, "tax_rate": 21}],
	"customer_list": [{"customer_name": "XYZ Enterprises"}]}}`

func writeSeed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(seedJSON), 0o600))
	return path
}

func TestOpenCatalog_Memory(t *testing.T) {
	cfg := &config.Config{Catalog: config.CatalogConfig{Driver: config.CatalogDriverMemory, SeedFile: writeSeed(t)}}

	backend, err := OpenCatalog(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer backend.Close()

	items, err := backend.Store.GetItems(context.Background(), "1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestOpenCatalog_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	cfg := &config.Config{
		Catalog: config.CatalogConfig{Driver: config.CatalogDriverRedis},
		Redis:   config.RedisConfig{Host: mr.Host(), Port: port},
	}

	backend, err := OpenCatalog(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer backend.Close()

	assert.Equal(t, config.CatalogDriverRedis, backend.Driver)
	assert.NotNil(t, backend.Redis)
}

func TestOpenCatalog_RedisFallback(t *testing.T) {
	cfg := &config.Config{
		Catalog: config.CatalogConfig{Driver: config.CatalogDriverRedis, Fallback: true, SeedFile: writeSeed(t)},
		Redis:   config.RedisConfig{Host: "127.0.0.1", Port: 1},
	}

	backend, err := OpenCatalog(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, config.CatalogDriverMemory, backend.Driver)

	cfg.Catalog.Fallback = false
	_, err = OpenCatalog(context.Background(), cfg, zap.NewNop())
	assert.ErrorIs(t, err, shared.ErrCatalogUnavailable)
}

func TestOpenCatalog_SQLite(t *testing.T) {
	hooked := false
	cfg := &config.Config{
		Catalog:  config.CatalogConfig{Driver: config.CatalogDriverSQLite},
		Database: config.DatabaseConfig{SQLitePath: filepath.Join(t.TempDir(), "catalog.db")},
	}

	backend, err := OpenCatalog(context.Background(), cfg, zap.NewNop(),
		WithGormHook(func(*gorm.DB) error { hooked = true; return nil }))
	require.NoError(t, err)
	defer backend.Close()

	assert.True(t, hooked)
	n, err := SeedFromFile(context.Background(), backend.Seeder, writeSeed(t))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	customers, err := backend.Store.GetCustomers(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "XYZ Enterprises", customers[0].Name)
}

func TestOpenCatalog_UnknownDriver(t *testing.T) {
	_, err := OpenCatalog(context.Background(), &config.Config{Catalog: config.CatalogConfig{Driver: "mongo"}}, zap.NewNop())
	assert.Error(t, err)
}
