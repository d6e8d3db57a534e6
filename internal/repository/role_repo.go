package repository

import (
	"erp-pdv-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoleRepository interface {
	FindAll() ([]model.Role, error)
	FindByID(id uint) (*model.Role, error)
	FindByCode(code string) (*model.Role, error)
	AssignPrivileges(role *model.Role, privileges []model.Privilege) error
	SeedDefaults() error
}

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) withPrivileges() *gorm.DB {
	return r.db.Preload("Privileges", func(db *gorm.DB) *gorm.DB { return db.Order("privileges.id ASC") })
}

func (r *roleRepo) FindAll() ([]model.Role, error) {
	var roles []model.Role
	err := r.withPrivileges().Order("id ASC").Find(&roles).Error
	return roles, err
}

func (r *roleRepo) FindByID(id uint) (*model.Role, error) {
	var role model.Role
	if err := r.withPrivileges().First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) FindByCode(code string) (*model.Role, error) {
	var role model.Role
	if err := r.withPrivileges().Where("code = ?", code).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// AssignPrivileges replaces the role's privilege set; users created later
// start from it.
func (r *roleRepo) AssignPrivileges(role *model.Role, privileges []model.Privilege) error {
	return r.db.Model(role).Association("Privileges").Replace(privileges)
}

// SeedDefaults inserts the built-in roles without privileges; existing roles
// keep whatever grants they have.
func (r *roleRepo) SeedDefaults() error {
	defaults := make([]model.Role, len(model.DefaultRoles))
	copy(defaults, model.DefaultRoles)
	return r.db.Omit("Privileges").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(&defaults).Error
}
