package repository

import (
	"erp-pdv-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PrivilegeRepository interface {
	FindByCodes(codes []string) ([]model.Privilege, error)
	FindAll() ([]model.Privilege, error)
	SeedDefaults() error
}

type privilegeRepo struct {
	db *gorm.DB
}

func NewPrivilegeRepo(db *gorm.DB) PrivilegeRepository {
	return &privilegeRepo{db}
}

// FindByCodes returns the privileges that exist among codes. Callers compare
// lengths to detect unknown codes.
func (r *privilegeRepo) FindByCodes(codes []string) ([]model.Privilege, error) {
	var privileges []model.Privilege
	if len(codes) == 0 {
		return privileges, nil
	}
	err := r.db.Where("code IN ?", codes).Order("id ASC").Find(&privileges).Error
	return privileges, err
}

func (r *privilegeRepo) FindAll() ([]model.Privilege, error) {
	var privileges []model.Privilege
	err := r.db.Order("id ASC").Find(&privileges).Error
	return privileges, err
}

// SeedDefaults inserts the built-in privileges, leaving existing codes as they are.
func (r *privilegeRepo) SeedDefaults() error {
	defaults := make([]model.Privilege, len(model.DefaultPrivileges))
	copy(defaults, model.DefaultPrivileges)
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(&defaults).Error
}
