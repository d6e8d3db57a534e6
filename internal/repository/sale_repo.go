package repository

import (
	"context"
	"time"

	"erp-pdv-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	FindAll(ctx context.Context) ([]model.Sale, error)
	FindByID(ctx context.Context, id uint) (*model.Sale, error)
	LockByID(tx *gorm.DB, id uint) (*model.Sale, error)
	MarkCanceled(tx *gorm.DB, id uint, canceledBy string, at time.Time) error
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

// Create inserts the sale together with its items.
func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return tx.Create(sale).Error
}

func (r *saleRepo) FindAll(ctx context.Context) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("created_at DESC, id DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByID(ctx context.Context, id uint) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&sale, id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) LockByID(tx *gorm.DB, id uint) (*model.Sale, error) {
	var sale model.Sale
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&sale, id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) MarkCanceled(tx *gorm.DB, id uint, canceledBy string, at time.Time) error {
	return tx.Model(&model.Sale{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      model.SaleCanceled,
			"canceled_by": canceledBy,
			"canceled_at": at,
		}).Error
}
