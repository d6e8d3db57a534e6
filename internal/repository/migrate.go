package repository

import (
	"erp-pdv-api/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table the API uses.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Privilege{},
		&model.Role{},
		&model.User{},
		&model.Supplier{},
		&model.Product{},
		&model.Sale{},
		&model.SaleItem{},
		&model.StockMove{},
		&model.AuditLog{},
	)
}
