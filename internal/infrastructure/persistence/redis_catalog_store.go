package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/invoicer/backend/internal/domain/catalog"
	"github.com/invoicer/backend/internal/domain/partner"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/invoicer/backend/internal/infrastructure/config"
)

// DefaultKeyPrefix is prepended to company IDs to form the hash key
const DefaultKeyPrefix = "company:"

// RedisCatalogStore reads company catalogs from one redis hash per company
type RedisCatalogStore struct {
	client    redis.UniversalClient
	keyPrefix string
	logger    *zap.Logger
}

// NewRedisClient connects to redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping redis at %s: %v", shared.ErrCatalogUnavailable, cfg.Addr(), err)
	}
	return client, nil
}

// NewRedisCatalogStore wraps an existing client
func NewRedisCatalogStore(client redis.UniversalClient, keyPrefix string, logger *zap.Logger) *RedisCatalogStore {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCatalogStore{client: client, keyPrefix: keyPrefix, logger: logger.Named("catalog.redis")}
}

func (s *RedisCatalogStore) key(companyID string) string {
	return s.keyPrefix + companyID
}

func (s *RedisCatalogStore) load(ctx context.Context, companyID string) (map[string]string, error) {
	fields, err := s.client.HGetAll(ctx, s.key(companyID)).Result()
	if err != nil {
		return nil, unavailable(err)
	}
	if len(fields) == 0 {
		return nil, catalog.ErrCompanyNotFound
	}
	return fields, nil
}

// GetBusinessProfile implements catalog.Store
func (s *RedisCatalogStore) GetBusinessProfile(ctx context.Context, companyID string) (*catalog.BusinessProfile, error) {
	fields, err := s.load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	profile := catalog.BusinessProfile{
		CompanyID:      companyID,
		Name:           fields[fieldBusinessName],
		Address:        fields[fieldBusinessAddress],
		Contact:        fields[fieldBusinessContact],
		PaymentTerms:   fields[fieldPaymentTerms],
		PaymentMethods: parsePaymentMethods(fields[fieldPaymentMethods]),
		BankDetails:    fields[fieldBankDetails],
	}
	return &profile, nil
}

// GetItems implements catalog.Store. Entries that fail validation are skipped and logged.
func (s *RedisCatalogStore) GetItems(ctx context.Context, companyID string) ([]catalog.Item, error) {
	raw, err := s.listField(ctx, companyID, fieldItemList)
	if err != nil {
		return nil, err
	}
	var records []itemRecord
	if err := decodeList(raw, &records); err != nil {
		return nil, fmt.Errorf("decode %s of company %s: %w", fieldItemList, companyID, err)
	}
	items := make([]catalog.Item, 0, len(records))
	for _, r := range records {
		it, err := catalog.NewItem(r.ItemName, r.UnitPrice.Decimal, r.TaxRate.Decimal)
		if err != nil {
			s.logger.Warn("skipping invalid catalog item",
				zap.String("company_id", companyID),
				zap.String("item_name", r.ItemName),
				zap.Error(err),
			)
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

// GetCustomers implements catalog.Store
func (s *RedisCatalogStore) GetCustomers(ctx context.Context, companyID string) ([]partner.Customer, error) {
	raw, err := s.listField(ctx, companyID, fieldCustomerList)
	if err != nil {
		return nil, err
	}
	var records []customerRecord
	if err := decodeList(raw, &records); err != nil {
		return nil, fmt.Errorf("decode %s of company %s: %w", fieldCustomerList, companyID, err)
	}
	return fromCustomerRecords(records), nil
}

// listField reads one JSON list field, distinguishing a missing company from an empty field
func (s *RedisCatalogStore) listField(ctx context.Context, companyID, field string) (string, error) {
	raw, err := s.client.HGet(ctx, s.key(companyID), field).Result()
	if err == nil {
		return raw, nil
	}
	if !errors.Is(err, redis.Nil) {
		return "", unavailable(err)
	}
	exists, err := s.client.Exists(ctx, s.key(companyID)).Result()
	if err != nil {
		return "", unavailable(err)
	}
	if exists == 0 {
		return "", catalog.ErrCompanyNotFound
	}
	return "", nil
}

// PutItem appends an item to item_list unless one with the same name exists.
// The read-modify-write runs under WATCH so concurrent confirmations do not lose entries.
func (s *RedisCatalogStore) PutItem(ctx context.Context, companyID string, item catalog.Item) (bool, error) {
	key := s.key(companyID)
	added := false

	txf := func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists == 0 {
			return catalog.ErrCompanyNotFound
		}
		raw, err := tx.HGet(ctx, key, fieldItemList).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		var records []itemRecord
		if err := decodeList(raw, &records); err != nil {
			return fmt.Errorf("decode %s: %w", fieldItemList, err)
		}
		for _, r := range records {
			if catalog.SameName(r.ItemName, item.Name) {
				added = false
				return nil
			}
		}
		records = append(records, toItemRecords([]catalog.Item{item})...)
		encoded, err := json.Marshal(records)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fieldItemList, string(encoded))
			return nil
		})
		if err == nil {
			added = true
		}
		return err
	}

	for attempt := 0; attempt < 3; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		switch {
		case err == nil:
			if added {
				s.logger.Info("catalog item saved",
					zap.String("company_id", companyID),
					zap.String("item_name", item.Name),
				)
			}
			return added, nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		case errors.Is(err, catalog.ErrCompanyNotFound):
			return false, err
		default:
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				return false, err
			}
			return false, unavailable(err)
		}
	}
	return false, fmt.Errorf("put item %q: too much contention on %s", item.Name, key)
}

// PutCompany replaces every field of the company hash in a single transaction.
func (s *RedisCatalogStore) PutCompany(ctx context.Context, companyID string, company catalog.Company) error {
	fields, err := NewCompanyRecord(company).Fields()
	if err != nil {
		return fmt.Errorf("encode company %s: %w", companyID, err)
	}
	key := s.key(companyID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields)
		return nil
	})
	if err != nil {
		return unavailable(err)
	}
	s.logger.Info("company seeded",
		zap.String("company_id", companyID),
		zap.Int("items", len(company.Items)),
		zap.Int("customers", len(company.Customers)),
	)
	return nil
}

// Ping checks redis connectivity
func (s *RedisCatalogStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func decodeList(raw string, dst any) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", shared.ErrCatalogUnavailable, err)
}

var (
	_ catalog.Store  = (*RedisCatalogStore)(nil)
	_ catalog.Seeder = (*RedisCatalogStore)(nil)
)
