package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"github.com/invoicer/backend/internal/domain/catalog"
	"github.com/invoicer/backend/internal/infrastructure/config"
)

func newSQLiteDatabase(t *testing.T) *Database {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.db")
	db, err := NewDatabaseFromDialector(sqlite.Open(path), config.CatalogDriverSQLite)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestGormCatalogStore(t *testing.T) {
	ctx := context.Background()
	store := NewGormCatalogStore(newSQLiteDatabase(t).DB, nil)

	_, err := store.GetBusinessProfile(ctx, "1")
	assert.ErrorIs(t, err, catalog.ErrCompanyNotFound)

	require.NoError(t, store.PutCompany(ctx, "1", testCompany(t)))

	profile, err := store.GetBusinessProfile(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "ABC Solutions", profile.Name)
	assert.Equal(t, []string{"Bank Transfer", "PayPal"}, profile.PaymentMethods)

	customers, err := store.GetCustomers(ctx, "1")
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "XYZ Enterprises", customers[0].Name, "list order is preserved")

	added, err := store.PutItem(ctx, "1", testItem(t, "Hosting Fee", "19.99", "0"))
	require.NoError(t, err)
	assert.True(t, added)

	added, err = store.PutItem(ctx, "1", testItem(t, "hosting fee", "5", "0"))
	require.NoError(t, err)
	assert.False(t, added)

	items, err := store.GetItems(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, items, 3)

	idx := catalog.NewIndex(items)
	hosting, ok := idx.Lookup("Hosting Fee")
	require.True(t, ok)
	assert.Equal(t, "19.99", hosting.UnitPrice.String())
}

func TestGormCatalogStore_ReseedReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewGormCatalogStore(newSQLiteDatabase(t).DB, nil)

	require.NoError(t, store.PutCompany(ctx, "1", testCompany(t)))
	smaller := testCompany(t)
	smaller.Items = smaller.Items[:1]
	smaller.Customers = nil
	require.NoError(t, store.PutCompany(ctx, "1", smaller))

	items, err := store.GetItems(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
	customers, err := store.GetCustomers(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestGormNumberer(t *testing.T) {
	ctx := context.Background()
	n := NewGormNumberer(newSQLiteDatabase(t).DB)

	first, err := n.Next(ctx, "1", 2025)
	require.NoError(t, err)
	second, err := n.Next(ctx, "1", 2025)
	require.NoError(t, err)
	other, err := n.Next(ctx, "1", 2026)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
	assert.Equal(t, int64(1), other)
}
