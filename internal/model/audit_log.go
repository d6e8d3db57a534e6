package model

import "time"

type AuditLevel string

const (
	AuditInfo     AuditLevel = "INFO"
	AuditCritical AuditLevel = "CRITICAL"
)

// Audit actions
const (
	AuditProductDelete  = "PRODUCT_DELETE"
	AuditSupplierDelete = "SUPPLIER_DELETE"
	AuditSaleCancel     = "SALE_CANCEL"
	AuditUserDelete     = "USER_DELETE"
)

type AuditLog struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	UserID    uint       `json:"user_id"`
	UserName  string     `gorm:"type:varchar(255)" json:"user_name"`
	Action    string     `gorm:"type:varchar(50);not null;index" json:"action"`
	Level     AuditLevel `gorm:"type:varchar(10);not null" json:"level"`
	Detail    string     `gorm:"type:text" json:"detail"`
}

func NewAuditLog(actor Actor, action string, level AuditLevel, detail string) *AuditLog {
	return &AuditLog{
		UserID:   actor.UserID,
		UserName: actor.Name,
		Action:   action,
		Level:    level,
		Detail:   detail,
	}
}
