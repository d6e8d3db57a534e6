package repository

import (
	"context"

	"erp-pdv-api/internal/model"

	"gorm.io/gorm"
)

type AuditRepository interface {
	Create(tx *gorm.DB, entry *model.AuditLog) error
	FindRecent(ctx context.Context, limit int) ([]model.AuditLog, error)
}

type auditRepo struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) AuditRepository {
	return &auditRepo{db}
}

func (r *auditRepo) Create(tx *gorm.DB, entry *model.AuditLog) error {
	return tx.Create(entry).Error
}

func (r *auditRepo) FindRecent(ctx context.Context, limit int) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	err := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
