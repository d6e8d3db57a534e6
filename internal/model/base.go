package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel handles ID and standard Audit Trails
type BaseModel struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"` // Soft Delete support

	// Audit User Tracking
	CreatedBy string `gorm:"type:varchar(255)" json:"created_by"`
	UpdatedBy string `gorm:"type:varchar(255)" json:"updated_by"`
	DeletedBy string `gorm:"type:varchar(255)" json:"deleted_by,omitempty"`
}

// Actor is the authenticated caller of a mutating operation. It is built
// per request by the auth middleware and passed down explicitly.
type Actor struct {
	UserID uint   `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// SystemActor is used for startup seeding and background jobs.
var SystemActor = Actor{Name: "system"}
