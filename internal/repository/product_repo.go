package repository

import (
	"context"

	"erp-pdv-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(tx *gorm.DB, product *model.Product, deletedBy string) error
	LockByID(tx *gorm.DB, id uint) (*model.Product, error)
	LockByIDs(tx *gorm.DB, ids []uint) ([]model.Product, error)
	SetStock(tx *gorm.DB, id uint, expected, newStock int, updatedBy string) (bool, error)
	CountBySupplier(ctx context.Context, supplierID uint) (int64, error)
	GetStats(ctx context.Context, lowStockThreshold int) (*ProductStats, error)
}

// ProductStats untuk report summary
type ProductStats struct {
	TotalProducts int64 `json:"total_products"`
	TotalStock    int64 `json:"total_stock"`
	LowStock      int64 `json:"low_stock"`
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return tx.Create(product).Error
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Order("id DESC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Supplier").First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySKU includes soft-deleted rows because the unique index does too.
func (r *productRepo) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Unscoped().Where("sku = ?", sku).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Update writes the editable columns only; stock_qty is owned by the ledger.
func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Model(product).
		Select("name", "sku", "unit", "price", "cost", "ncm", "supplier_id", "updated_by").
		Updates(product).Error
}

func (r *productRepo) Delete(tx *gorm.DB, product *model.Product, deletedBy string) error {
	if err := tx.Model(product).Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return tx.Delete(product).Error
}

// LockByID loads one product with SELECT ... FOR UPDATE.
func (r *productRepo) LockByID(tx *gorm.DB, id uint) (*model.Product, error) {
	var product model.Product
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// LockByIDs locks every product in ids in one statement, in id order so that
// concurrent transactions acquire the row locks in the same sequence.
func (r *productRepo) LockByIDs(tx *gorm.DB, ids []uint) ([]model.Product, error) {
	var products []model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&products).Error
	return products, err
}

// SetStock is a compare-and-swap on stock_qty. It reports false when the row
// no longer holds the expected quantity.
func (r *productRepo) SetStock(tx *gorm.DB, id uint, expected, newStock int, updatedBy string) (bool, error) {
	result := tx.Unscoped().Model(&model.Product{}).
		Where("id = ? AND stock_qty = ?", id, expected).
		Updates(map[string]interface{}{
			"stock_qty":  newStock,
			"updated_by": updatedBy,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *productRepo) CountBySupplier(ctx context.Context, supplierID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&model.Product{}).
		Where("supplier_id = ?", supplierID).
		Count(&count).Error
	return count, err
}

func (r *productRepo) GetStats(ctx context.Context, lowStockThreshold int) (*ProductStats, error) {
	var stats ProductStats
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select(
			"COUNT(*) AS total_products, "+
				"COALESCE(SUM(stock_qty), 0) AS total_stock, "+
				"COALESCE(SUM(CASE WHEN stock_qty <= ? THEN 1 ELSE 0 END), 0) AS low_stock",
			lowStockThreshold,
		).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
