package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductVariant is one concrete combination of product attributes, with its
// own stock counter and a signed price adjustment over the base price.
type ProductVariant struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                          // primary key
	ProductID       uint           `gorm:"not null;index" json:"product_id"`                              // owning product
	SKU             string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"sku"`              // stock keeping unit code
	Attributes      AttributeSet   `gorm:"type:json;not null" json:"attributes"`                          // attribute pairs, canonical order
	AttributesKey   string         `gorm:"type:varchar(255);index;not null" json:"-"`                     // canonical key for uniqueness per product
	PriceAdjustment Money          `gorm:"type:decimal(20,0);not null;default:0" json:"price_adjustment"` // signed delta added to the product base price
	Stock           int            `gorm:"not null;default:0" json:"stock"`                               // on-hand stock
	IsActive        bool           `gorm:"default:true;index" json:"is_active"`                           // sellable or not
	CreatedAt       time.Time      `json:"created_at"`                                                    // creation time
	UpdatedAt       time.Time      `json:"updated_at"`                                                    // update time
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                                // soft delete time

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // owning product
}

// TableName sets the table name.
func (ProductVariant) TableName() string {
	return "product_variants"
}

// BeforeSave keeps the canonical attribute key in sync with the attributes.
func (v *ProductVariant) BeforeSave(tx *gorm.DB) error {
	v.Attributes = NormalizeAttributeSet(v.Attributes)
	v.AttributesKey = v.Attributes.Canonical()
	return nil
}
