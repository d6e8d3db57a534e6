package model

const DefaultUnit = "UN"

type Product struct {
	BaseModel
	Name     string  `gorm:"type:varchar(120);not null" json:"name"`
	SKU      *string `gorm:"type:varchar(60);uniqueIndex" json:"sku"`
	StockQty int     `gorm:"not null;default:0" json:"stock_qty"`
	Unit     string  `gorm:"type:varchar(10);not null;default:'UN'" json:"unit"`
	Price    int64   `gorm:"not null;default:0" json:"price"` // cents
	Cost     int64   `gorm:"not null;default:0" json:"cost"`  // cents

	// Tax attributes
	NCM string `gorm:"type:varchar(8)" json:"ncm"`

	SupplierID *uint     `gorm:"index" json:"supplier_id"`
	Supplier   *Supplier `gorm:"foreignKey:SupplierID;constraint:OnDelete:RESTRICT" json:"supplier,omitempty"`
}

// LowStock reports whether the product is at or below threshold.
func (p *Product) LowStock(threshold int) bool {
	return p.StockQty <= threshold
}
