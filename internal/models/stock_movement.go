package models

import (
	"time"
)

// StockMovement is the append-only inventory ledger. Rows are created inside
// the same transaction as the stock change they record and are never updated
// or deleted afterwards.
type StockMovement struct {
	ID            uint      `gorm:"primarykey" json:"id"`                               // primary key
	ProductID     uint      `gorm:"not null;index" json:"product_id"`                   // product
	VariantID     uint      `gorm:"not null;default:0;index" json:"variant_id"`         // variant (0 = simple product)
	Type          string    `gorm:"type:varchar(20);not null;index" json:"type"`        // in / out / adjustment
	Quantity      int       `gorm:"not null" json:"quantity"`                           // signed delta applied to stock
	PreviousStock int       `gorm:"not null" json:"previous_stock"`                     // stock before the change
	NewStock      int       `gorm:"not null" json:"new_stock"`                          // stock after the change
	Reason        string    `gorm:"type:varchar(50);not null;index" json:"reason"`      // order_placed / order_cancelled / stock_in / stock_adjustment
	Reference     string    `gorm:"type:varchar(64);index" json:"reference"`            // e.g. order number
	OperatorID    uint      `gorm:"not null;default:0" json:"operator_id"`              // admin who triggered it (0 = system)
	Note          string    `gorm:"type:varchar(255)" json:"note"`                      // free-form note
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                            // record time
}

// TableName sets the table name.
func (StockMovement) TableName() string {
	return "stock_movements"
}
