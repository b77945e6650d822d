package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/invoicer/backend/internal/domain/catalog"
	"github.com/invoicer/backend/internal/infrastructure/config"
	"github.com/invoicer/backend/internal/infrastructure/logger"
)

// CatalogBackend is the opened catalog store plus the handles other components share
type CatalogBackend struct {
	Driver   string
	Store    catalog.Store
	Seeder   catalog.Seeder
	Redis    *redis.Client // set for the redis driver
	Database *Database     // set for the postgres and sqlite drivers
	closers  []func() error
}

// Close releases every connection the backend opened
func (b *CatalogBackend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	return errors.Join(errs...)
}

// CatalogOption customizes OpenCatalog
type CatalogOption func(*catalogOptions)

type catalogOptions struct {
	gormPlugins []func(*gorm.DB) error
}

// WithGormHook runs fn against the SQL connection after it opens, e.g. to register tracing.
func WithGormHook(fn func(*gorm.DB) error) CatalogOption {
	return func(o *catalogOptions) { o.gormPlugins = append(o.gormPlugins, fn) }
}

// OpenCatalog opens the store selected by cfg.Catalog.Driver.
func OpenCatalog(ctx context.Context, cfg *config.Config, log *zap.Logger, opts ...CatalogOption) (*CatalogBackend, error) {
	o := &catalogOptions{}
	for _, opt := range opts {
		opt(o)
	}

	switch cfg.Catalog.Driver {
	case config.CatalogDriverMemory:
		return openMemory(ctx, cfg, log)

	case config.CatalogDriverRedis, "":
		client, err := NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			if !cfg.Catalog.Fallback {
				return nil, err
			}
			log.Warn("redis unreachable, falling back to the in-memory catalog",
				zap.String("addr", cfg.Redis.Addr()),
				zap.Error(err),
			)
			return openMemory(ctx, cfg, log)
		}
		store := NewRedisCatalogStore(client, cfg.Catalog.KeyPrefix, log)
		return &CatalogBackend{
			Driver:  config.CatalogDriverRedis,
			Store:   store,
			Seeder:  store,
			Redis:   client,
			closers: []func() error{client.Close},
		}, nil

	case config.CatalogDriverPostgres, config.CatalogDriverSQLite:
		db, err := NewDatabase(cfg.Catalog.Driver, &cfg.Database, log, logger.GormLevel(cfg.Log.Level))
		if err != nil {
			return nil, dbUnavailable(err)
		}
		for _, hook := range o.gormPlugins {
			if err := hook(db.DB); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("gorm hook: %w", err)
			}
		}
		if cfg.Database.AutoMigrate || cfg.Catalog.Driver == config.CatalogDriverSQLite {
			if err := db.AutoMigrate(); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("auto migrate catalog: %w", err)
			}
		}
		store := NewGormCatalogStore(db.DB, log)
		return &CatalogBackend{
			Driver:   cfg.Catalog.Driver,
			Store:    store,
			Seeder:   store,
			Database: db,
			closers:  []func() error{db.Close},
		}, nil
	}
	return nil, fmt.Errorf("unknown catalog driver %q", cfg.Catalog.Driver)
}

func openMemory(ctx context.Context, cfg *config.Config, log *zap.Logger) (*CatalogBackend, error) {
	store := NewMemoryCatalogStore(nil)
	if cfg.Catalog.SeedFile != "" {
		n, err := SeedFromFile(ctx, store, cfg.Catalog.SeedFile)
		if err != nil {
			return nil, err
		}
		log.Info("memory catalog seeded", zap.String("file", cfg.Catalog.SeedFile), zap.Int("companies", n))
	}
	return &CatalogBackend{Driver: config.CatalogDriverMemory, Store: store, Seeder: store}, nil
}

// SeedFromFile loads a seed file into seeder and reports how many companies were written.
func SeedFromFile(ctx context.Context, seeder catalog.Seeder, path string) (int, error) {
	data, err := LoadSeedFile(path)
	if err != nil {
		return 0, err
	}
	companies, err := data.Companies()
	if err != nil {
		return 0, err
	}
	for id, c := range companies {
		if err := seeder.PutCompany(ctx, id, c); err != nil {
			return 0, err
		}
	}
	return len(companies), nil
}
