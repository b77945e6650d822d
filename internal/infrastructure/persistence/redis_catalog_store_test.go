package persistence

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicer/backend/internal/domain/catalog"
	"github.com/invoicer/backend/internal/domain/shared"
)

func newRedisStore(t *testing.T) (*RedisCatalogStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCatalogStore(client, "", nil), mr
}

func TestRedisCatalogStore_ReadsImporterLayout(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	mr.HSet("company:1",
		"business_name", "ABC Solutions",
		"business_address", "1 Main Street",
		"business_contact", "billing@abc.example",
		"item_list", `[{"item_name":"Web Development Service","unit_price":50,"tax_rate":10},{"item_name":"","unit_price":1,"tax_rate":0}]`,
		"customer_list", `[{"customer_name":"XYZ Enterprises","customer_address":"2 High Road","customer_contact":"ap@xyz.example"}]`,
	)

	profile, err := store.GetBusinessProfile(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "ABC Solutions", profile.Name)
	assert.Empty(t, profile.PaymentMethods)

	items, err := store.GetItems(ctx, "1")
	require.NoError(t, err)
	require.Len(t, items, 1, "invalid entries are skipped")
	assert.Equal(t, "50", items[0].UnitPrice.String())

	customers, err := store.GetCustomers(ctx, "1")
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "2 High Road", customers[0].Address)
}

func TestRedisCatalogStore_MissingCompany(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)

	_, err := store.GetBusinessProfile(ctx, "404")
	assert.ErrorIs(t, err, catalog.ErrCompanyNotFound)
	_, err = store.GetItems(ctx, "404")
	assert.ErrorIs(t, err, catalog.ErrCompanyNotFound)
	_, err = store.PutItem(ctx, "404", testItem(t, "Audit", "1", "0"))
	assert.ErrorIs(t, err, catalog.ErrCompanyNotFound)
}

func TestRedisCatalogStore_EmptyLists(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	mr.HSet("company:2", "business_name", "Bare Co")

	items, err := store.GetItems(ctx, "2")
	require.NoError(t, err)
	assert.Empty(t, items)
	customers, err := store.GetCustomers(ctx, "2")
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestRedisCatalogStore_PutCompanyAndItem(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	require.NoError(t, store.PutCompany(ctx, "1", testCompany(t)))
	assert.Equal(t, "ABC Solutions", mr.HGet("company:1", "business_name"))

	added, err := store.PutItem(ctx, "1", testItem(t, "Hosting Fee", "19.99", "0"))
	require.NoError(t, err)
	assert.True(t, added)

	added, err = store.PutItem(ctx, "1", testItem(t, "LOGO DESIGN", "1", "0"))
	require.NoError(t, err)
	assert.False(t, added)

	items, err := store.GetItems(ctx, "1")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Hosting Fee", items[2].Name)

	profile, err := store.GetBusinessProfile(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bank Transfer", "PayPal"}, profile.PaymentMethods)
}

func TestRedisCatalogStore_PutItemFoldsPlurals(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	mr.HSet("company:1",
		"business_name", "ABC Solutions",
		"item_list", `[{"item_name":"Logo Designs","unit_price":300,"tax_rate":21}]`,
	)

	added, err := store.PutItem(ctx, "1", testItem(t, "Logo Design", "250", "21"))
	require.NoError(t, err)
	assert.False(t, added)

	items, err := store.GetItems(ctx, "1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "300", items[0].UnitPrice.String())
}

func TestRedisCatalogStore_Unavailable(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	mr.Close()

	_, err := store.GetBusinessProfile(ctx, "1")
	assert.ErrorIs(t, err, shared.ErrCatalogUnavailable)
	assert.ErrorIs(t, store.Ping(ctx), shared.ErrCatalogUnavailable)
}
