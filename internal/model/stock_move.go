package model

import "time"

const MaxReasonLength = 200

// StockMove is one ledger entry. Rows are only ever inserted; the sum of
// Delta per product equals Product.StockQty.
type StockMove struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProductID   uint      `gorm:"not null;index:idx_stock_moves_product_created,priority:1" json:"product_id"`
	Product     *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	Delta       int       `gorm:"not null" json:"delta"`
	Reason      string    `gorm:"type:varchar(200)" json:"reason"`
	StockBefore int       `gorm:"not null" json:"stock_before"`
	StockAfter  int       `gorm:"not null" json:"stock_after"`
	SaleID      *uint     `gorm:"index" json:"sale_id,omitempty"`
	CreatedBy   string    `gorm:"type:varchar(255)" json:"created_by"`
	CreatedAt   time.Time `gorm:"not null;index;index:idx_stock_moves_product_created,priority:2" json:"created_at"`
}

const (
	ReasonAdjust       = "Ajuste"
	ReasonInitialStock = "INITIAL STOCK"
)
