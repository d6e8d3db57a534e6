package repository

import (
	"erp-pdv-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	FindByEmail(email string) (*model.User, error)
	FindByID(id uint) (*model.User, error)
	Create(user *model.User) error
	Update(user *model.User) error
	Delete(id uint, deletedBy string) error
	UpdatePassword(userID uint, hashedPassword string) error
	UpdatePrivileges(userID uint, privileges []model.Privilege) error
	FindAll() ([]model.User, error)
	UpdateTokenVersion(userID uint, version string) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

// withAccess loads the role and the user's own privileges.
func (r *userRepo) withAccess() *gorm.DB {
	return r.db.Preload("Role").
		Preload("Privileges", func(db *gorm.DB) *gorm.DB { return db.Order("privileges.id ASC") })
}

func (r *userRepo) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.withAccess().Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.withAccess().First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindAll() ([]model.User, error) {
	var users []model.User
	err := r.withAccess().Order("id ASC").Find(&users).Error
	return users, err
}

// Create inserts the user and links the privileges it carries.
func (r *userRepo) Create(user *model.User) error {
	return r.db.Omit("Role").Create(user).Error
}

// Update saves the user's own columns. Role and privileges change through
// RoleID and UpdatePrivileges only.
func (r *userRepo) Update(user *model.User) error {
	return r.db.Omit(clause.Associations).Save(user).Error
}

func (r *userRepo) UpdatePassword(userID uint, hashedPassword string) error {
	return r.updateColumn(userID, "password", hashedPassword)
}

func (r *userRepo) UpdateTokenVersion(userID uint, version string) error {
	return r.updateColumn(userID, "token_version", version)
}

func (r *userRepo) updateColumn(userID uint, column string, value interface{}) error {
	res := r.db.Model(&model.User{}).Where("id = ?", userID).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepo) UpdatePrivileges(userID uint, privileges []model.Privilege) error {
	user := model.User{}
	user.ID = userID
	if err := r.db.Select("id").First(&user).Error; err != nil {
		return err
	}
	return r.db.Model(&user).Association("Privileges").Replace(privileges)
}

// Delete soft-deletes the user, recording who did it.
func (r *userRepo) Delete(id uint, deletedBy string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).Where("id = ?", id).Update("deleted_by", deletedBy)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Delete(&model.User{}, id).Error
	})
}
