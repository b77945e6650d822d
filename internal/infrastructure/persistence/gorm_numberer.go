package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/invoicer/backend/internal/domain/invoice"
	"github.com/invoicer/backend/internal/infrastructure/persistence/models"
)

// GormNumberer allocates invoice sequences from the invoice_sequences table
type GormNumberer struct {
	db *gorm.DB
}

// NewGormNumberer creates a SQL-backed numberer
func NewGormNumberer(db *gorm.DB) *GormNumberer {
	return &GormNumberer{db: db}
}

// Next increments and returns the company's sequence for year. The row update
// holds a lock until commit, so concurrent callers get distinct values.
func (n *GormNumberer) Next(ctx context.Context, companyID string, year int) (int64, error) {
	var next int64
	err := n.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := models.InvoiceSequenceModel{CompanyID: companyID, Year: year}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return err
		}
		res := tx.Model(&models.InvoiceSequenceModel{}).
			Where("company_id = ? AND year = ?", companyID, year).
			Update("last_value", gorm.Expr("last_value + 1"))
		if res.Error != nil {
			return res.Error
		}
		var row models.InvoiceSequenceModel
		if err := tx.Where("company_id = ? AND year = ?", companyID, year).First(&row).Error; err != nil {
			return err
		}
		next = row.LastValue
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("next invoice sequence: %w", dbUnavailable(err))
	}
	return next, nil
}

var _ invoice.Numberer = (*GormNumberer)(nil)
