package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength applies to every password set through the API.
const MinPasswordLength = 6

// User is an operator of the system. Its privileges start as a copy of the
// role's grants and may then be edited per user.
type User struct {
	BaseModel
	Email        string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password     string      `gorm:"type:varchar(255);not null" json:"-"`
	FullName     string      `gorm:"type:varchar(255)" json:"full_name"`
	PhoneNumber  string      `gorm:"type:varchar(20)" json:"phone_number"`
	RoleID       *uint       `gorm:"index" json:"role_id"`
	Role         *Role       `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	IsActive     bool        `gorm:"default:true" json:"is_active"`
	Privileges   []Privilege `gorm:"many2many:user_privileges;" json:"privileges,omitempty"`
	TokenVersion string      `gorm:"type:varchar(64);default:''" json:"-"` // current session; older tokens are rejected
}

func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

func (u *User) HasPrivilege(code string) bool {
	for _, p := range u.Privileges {
		if p.Code == code {
			return true
		}
	}
	return false
}

// GetPrivilegeCodes is the flat list carried in tokens and login responses.
func (u *User) GetPrivilegeCodes() []string {
	codes := make([]string, 0, len(u.Privileges))
	for _, p := range u.Privileges {
		codes = append(codes, p.Code)
	}
	return codes
}

func (u *User) RoleCode() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Code
}

// Actor returns the identity recorded in audit fields for this user.
func (u *User) Actor() Actor {
	return Actor{UserID: u.ID, Name: u.FullName, Email: u.Email}
}

// UserResponse is the API view of a user, without credentials.
type UserResponse struct {
	ID          uint        `json:"id"`
	Email       string      `json:"email"`
	FullName    string      `json:"full_name"`
	PhoneNumber string      `json:"phone_number"`
	RoleID      *uint       `json:"role_id,omitempty"`
	Role        *Role       `json:"role,omitempty"`
	IsActive    bool        `json:"is_active"`
	Privileges  []Privilege `json:"privileges"`
	CreatedAt   time.Time   `json:"created_at"`
	CreatedBy   string      `json:"created_by"`
}

func (u *User) ToResponse() UserResponse {
	privileges := u.Privileges
	if privileges == nil {
		privileges = []Privilege{}
	}
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
		RoleID:      u.RoleID,
		Role:        u.Role,
		IsActive:    u.IsActive,
		Privileges:  privileges,
		CreatedAt:   u.CreatedAt,
		CreatedBy:   u.CreatedBy,
	}
}
