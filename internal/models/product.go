package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is the sellable item table. Stock lives either directly on the
// product (simple product) or on its variants (HasVariants = true).
type Product struct {
	ID             uint             `gorm:"primarykey" json:"id"`                             // primary key
	Name           string           `gorm:"type:varchar(255);not null" json:"name"`           // display name
	Slug           string           `gorm:"uniqueIndex;not null" json:"slug"`                 // unique identifier
	Description    string           `gorm:"type:text" json:"description"`                     // long description
	PriceAmount    Money            `gorm:"type:decimal(20,0);not null;default:0" json:"price_amount"` // base price (VND)
	Images         StringArray      `gorm:"type:json" json:"images"`                          // image URLs
	HasVariants    bool             `gorm:"not null;default:false" json:"has_variants"`       // stock tracked per variant when true
	Stock          int              `gorm:"not null;default:0" json:"stock"`                  // on-hand stock (simple products only)
	AttributeNames StringArray      `gorm:"type:json" json:"attribute_names"`                 // attribute axes, e.g. ["Color","Size"]
	WeightGram     int              `gorm:"not null;default:0" json:"weight_gram"`            // unit weight for shipping quotes
	IsActive       bool             `gorm:"default:true;index" json:"is_active"`              // listed or not
	SortOrder      int              `gorm:"default:0;index" json:"sort_order"`                // sort weight
	CreatedAt      time.Time        `gorm:"index" json:"created_at"`                          // creation time
	UpdatedAt      time.Time        `json:"updated_at"`                                       // update time
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`                                   // soft delete time

	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"` // variant list
}

// TableName sets the table name.
func (Product) TableName() string {
	return "products"
}

// TracksVariantStock reports whether stock is managed at the variant level.
func (p *Product) TracksVariantStock() bool {
	return p.HasVariants
}
