package models

import (
	"time"

	"gorm.io/gorm"
)

// CartItem is one line in a user's cart. VariantID is zero for simple
// products.
type CartItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                          // primary key
	UserID    uint           `gorm:"not null;index:idx_cart_user_product,priority:1" json:"user_id"` // owning user
	ProductID uint           `gorm:"not null;index:idx_cart_user_product,priority:2" json:"product_id"` // product
	VariantID uint           `gorm:"not null;default:0;index:idx_cart_user_product,priority:3" json:"variant_id"` // variant (0 = simple product)
	Quantity  int            `gorm:"not null;default:1" json:"quantity"`                            // requested quantity
	CreatedAt time.Time      `json:"created_at"`                                                    // creation time
	UpdatedAt time.Time      `json:"updated_at"`                                                    // update time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                                // soft delete time

	Product Product         `gorm:"foreignKey:ProductID" json:"product,omitempty"` // product snapshot source
	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"` // variant snapshot source
}

// TableName sets the table name.
func (CartItem) TableName() string {
	return "cart_items"
}
