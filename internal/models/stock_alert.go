package models

import (
	"time"
)

// StockAlert is one low-stock warning per (product, variant). Repeated drops
// below the threshold refresh the existing row instead of inserting a new one.
type StockAlert struct {
	ID         uint       `gorm:"primarykey" json:"id"`                                                       // primary key
	ProductID  uint       `gorm:"not null;uniqueIndex:idx_alert_product_variant,priority:1" json:"product_id"` // product
	VariantID  uint       `gorm:"not null;default:0;uniqueIndex:idx_alert_product_variant,priority:2" json:"variant_id"` // variant (0 = simple product)
	Stock      int        `gorm:"not null" json:"stock"`                                                      // stock level at last trigger
	Threshold  int        `gorm:"not null" json:"threshold"`                                                  // threshold in effect at last trigger
	Notified   bool       `gorm:"not null;default:false;index" json:"notified"`                               // acknowledged by staff
	NotifiedAt *time.Time `json:"notified_at"`                                                                // acknowledgement time
	CreatedAt  time.Time  `json:"created_at"`                                                                 // first trigger time
	UpdatedAt  time.Time  `gorm:"index" json:"updated_at"`                                                    // last trigger time

	Product Product         `gorm:"foreignKey:ProductID" json:"product,omitempty"` // product
	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"` // variant
}

// TableName sets the table name.
func (StockAlert) TableName() string {
	return "stock_alerts"
}
