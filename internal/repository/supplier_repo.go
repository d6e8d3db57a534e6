package repository

import (
	"context"

	"erp-pdv-api/internal/model"

	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(ctx context.Context, supplier *model.Supplier) error
	FindAll(ctx context.Context) ([]model.Supplier, error)
	FindByID(ctx context.Context, id uint) (*model.Supplier, error)
	FindByName(ctx context.Context, name string) (*model.Supplier, error)
	Update(ctx context.Context, supplier *model.Supplier) error
	Delete(tx *gorm.DB, supplier *model.Supplier) error
}

type supplierRepo struct {
	db *gorm.DB
}

func NewSupplierRepo(db *gorm.DB) SupplierRepository {
	return &supplierRepo{db}
}

func (r *supplierRepo) Create(ctx context.Context, supplier *model.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

func (r *supplierRepo) FindAll(ctx context.Context) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.WithContext(ctx).Order("name ASC").Find(&suppliers).Error
	return suppliers, err
}

func (r *supplierRepo) FindByID(ctx context.Context, id uint) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepo) FindByName(ctx context.Context, name string) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&supplier).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepo) Update(ctx context.Context, supplier *model.Supplier) error {
	return r.db.WithContext(ctx).Model(supplier).
		Select("name", "document", "phone", "email", "updated_by").
		Updates(supplier).Error
}

// Delete removes the row for good so the name can be reused.
func (r *supplierRepo) Delete(tx *gorm.DB, supplier *model.Supplier) error {
	return tx.Unscoped().Delete(supplier).Error
}
