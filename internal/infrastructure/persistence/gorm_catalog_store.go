package persistence

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/invoicer/backend/internal/domain/catalog"
	"github.com/invoicer/backend/internal/domain/partner"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/invoicer/backend/internal/infrastructure/persistence/models"
)

// GormCatalogStore serves catalogs from postgres or sqlite
type GormCatalogStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormCatalogStore creates a SQL-backed catalog store
func NewGormCatalogStore(db *gorm.DB, logger *zap.Logger) *GormCatalogStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormCatalogStore{db: db, logger: logger.Named("catalog.sql")}
}

func (s *GormCatalogStore) requireCompany(ctx context.Context, companyID string) (*models.CompanyModel, error) {
	var m models.CompanyModel
	err := s.db.WithContext(ctx).Where("id = ?", companyID).First(&m).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, catalog.ErrCompanyNotFound
	case err != nil:
		return nil, dbUnavailable(err)
	}
	return &m, nil
}

// GetBusinessProfile implements catalog.Store
func (s *GormCatalogStore) GetBusinessProfile(ctx context.Context, companyID string) (*catalog.BusinessProfile, error) {
	m, err := s.requireCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// GetItems implements catalog.Store
func (s *GormCatalogStore) GetItems(ctx context.Context, companyID string) ([]catalog.Item, error) {
	if _, err := s.requireCompany(ctx, companyID); err != nil {
		return nil, err
	}
	var rows []models.CatalogItemModel
	if err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at ASC, name ASC").
		Find(&rows).Error; err != nil {
		return nil, dbUnavailable(err)
	}
	items := make([]catalog.Item, 0, len(rows))
	for i := range rows {
		it, err := rows[i].ToDomain()
		if err != nil {
			s.logger.Warn("skipping invalid catalog item",
				zap.String("company_id", companyID),
				zap.String("item_name", rows[i].Name),
				zap.Error(err),
			)
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

// GetCustomers implements catalog.Store
func (s *GormCatalogStore) GetCustomers(ctx context.Context, companyID string) ([]partner.Customer, error) {
	if _, err := s.requireCompany(ctx, companyID); err != nil {
		return nil, err
	}
	var rows []models.CustomerModel
	if err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, dbUnavailable(err)
	}
	customers := make([]partner.Customer, 0, len(rows))
	for i := range rows {
		customers = append(customers, rows[i].ToDomain())
	}
	return customers, nil
}

// PutItem implements catalog.Store. The unique (company_id, name_key) index
// turns duplicate names into a no-op insert.
func (s *GormCatalogStore) PutItem(ctx context.Context, companyID string, item catalog.Item) (bool, error) {
	if _, err := s.requireCompany(ctx, companyID); err != nil {
		return false, err
	}
	m := models.CatalogItemModelFromDomain(companyID, item)
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}, {Name: "name_key"}},
			DoNothing: true,
		}).
		Create(m)
	if res.Error != nil {
		return false, dbUnavailable(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// PutCompany implements catalog.Seeder; it replaces the company's rows in one transaction.
func (s *GormCatalogStore) PutCompany(ctx context.Context, companyID string, company catalog.Company) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", companyID).Delete(&models.CatalogItemModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", companyID).Delete(&models.CustomerModel{}).Error; err != nil {
			return err
		}
		if err := tx.Save(models.CompanyModelFromDomain(companyID, company.Profile)).Error; err != nil {
			return err
		}
		seen := make(map[string]struct{}, len(company.Items))
		for _, it := range company.Items {
			m := models.CatalogItemModelFromDomain(companyID, it)
			if _, dup := seen[m.NameKey]; dup {
				continue
			}
			seen[m.NameKey] = struct{}{}
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}
		for i, c := range company.Customers {
			if err := tx.Create(models.CustomerModelFromDomain(companyID, i, c)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed company %s: %w", companyID, dbUnavailable(err))
	}
	return nil
}

func dbUnavailable(err error) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return fmt.Errorf("%w: %v", shared.ErrCatalogUnavailable, err)
}

var (
	_ catalog.Store  = (*GormCatalogStore)(nil)
	_ catalog.Seeder = (*GormCatalogStore)(nil)
)
