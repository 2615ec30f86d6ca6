package models

import (
	"time"
)

// OrderItem is one order line. Product name, variant label and unit price are
// snapshotted at order time so later catalog edits never rewrite history.
type OrderItem struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                      // primary key
	OrderID      uint      `gorm:"not null;index" json:"order_id"`                            // owning order
	ProductID    uint      `gorm:"not null;index" json:"product_id"`                          // product at order time
	VariantID    uint      `gorm:"not null;default:0" json:"variant_id"`                      // variant (0 = simple product)
	ProductName  string    `gorm:"type:varchar(255);not null" json:"product_name"`            // name snapshot
	VariantLabel string    `gorm:"type:varchar(255)" json:"variant_label"`                    // attribute label snapshot, e.g. "Color: Red, Size: M"
	SKU          string    `gorm:"type:varchar(64)" json:"sku"`                               // SKU snapshot
	UnitPrice    Money     `gorm:"type:decimal(20,0);not null;default:0" json:"unit_price"`   // price snapshot
	Quantity     int       `gorm:"not null" json:"quantity"`                                  // purchased quantity
	LineTotal    Money     `gorm:"type:decimal(20,0);not null;default:0" json:"line_total"`   // unit price * quantity
	CreatedAt    time.Time `json:"created_at"`                                                // creation time
	UpdatedAt    time.Time `json:"updated_at"`                                                // update time
}

// TableName sets the table name.
func (OrderItem) TableName() string {
	return "order_items"
}
