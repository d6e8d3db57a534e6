package model

import "time"

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentPix  PaymentMethod = "pix"
	PaymentCard PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentPix, PaymentCard:
		return true
	}
	return false
}

type SaleStatus string

const (
	SaleCompleted SaleStatus = "completed"
	SaleCanceled  SaleStatus = "canceled"
)

// Sale owns its items. Items are kept in submission order (by id).
type Sale struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time     `gorm:"not null;index" json:"created_at"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(10);not null;default:'cash'" json:"payment_method"`
	Status        SaleStatus    `gorm:"type:varchar(10);not null;default:'completed'" json:"status"`
	Total         int64         `gorm:"not null" json:"total"` // cents
	CreatedBy     string        `gorm:"type:varchar(255)" json:"created_by"`
	CanceledAt    *time.Time    `json:"canceled_at,omitempty"`
	CanceledBy    string        `gorm:"type:varchar(255)" json:"canceled_by,omitempty"`
	Items         []SaleItem    `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

type SaleItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	SaleID    uint     `gorm:"not null;index" json:"sale_id"`
	ProductID uint     `gorm:"not null;index" json:"product_id"`
	Product   *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	Qty       int      `gorm:"not null" json:"qty"`
	UnitPrice int64    `gorm:"not null" json:"unit_price"` // cents, snapshot at sale time
}

// Quantity is the total number of units sold.
func (s *Sale) Quantity() int {
	total := 0
	for _, item := range s.Items {
		total += item.Qty
	}
	return total
}
