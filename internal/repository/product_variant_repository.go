package repository

import (
	"errors"
	"strings"

	"github.com/tiemhang/tiemhang-api/internal/models"

	"gorm.io/gorm"
)

// ProductVariantRepository is the variant data access interface.
type ProductVariantRepository interface {
	ListByProduct(productID uint, onlyActive bool) ([]models.ProductVariant, error)
	GetByID(id uint) (*models.ProductVariant, error)
	GetBySKU(sku string) (*models.ProductVariant, error)
	Create(item *models.ProductVariant) error
	CreateBatch(items []models.ProductVariant) error
	Update(item *models.ProductVariant) error
	UpdateStockCAS(id uint, previousStock, newStock int) (int64, error)
	WithTx(tx *gorm.DB) ProductVariantRepository
}

// GormProductVariantRepository is the GORM implementation.
type GormProductVariantRepository struct {
	db *gorm.DB
}

// NewProductVariantRepository creates a variant repository.
func NewProductVariantRepository(db *gorm.DB) *GormProductVariantRepository {
	return &GormProductVariantRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormProductVariantRepository) WithTx(tx *gorm.DB) ProductVariantRepository {
	if tx == nil {
		return r
	}
	return &GormProductVariantRepository{db: tx}
}

// ListByProduct fetches the variants of a product.
func (r *GormProductVariantRepository) ListByProduct(productID uint, onlyActive bool) ([]models.ProductVariant, error) {
	if productID == 0 {
		return nil, errors.New("invalid product id")
	}
	query := r.db.Model(&models.ProductVariant{}).Where("product_id = ?", productID)
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	var items []models.ProductVariant
	if err := query.Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID fetches a variant by ID.
func (r *GormProductVariantRepository) GetByID(id uint) (*models.ProductVariant, error) {
	if id == 0 {
		return nil, errors.New("invalid variant id")
	}
	var item models.ProductVariant
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetBySKU fetches a variant by SKU code.
func (r *GormProductVariantRepository) GetBySKU(sku string) (*models.ProductVariant, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, errors.New("invalid sku")
	}
	var item models.ProductVariant
	if err := r.db.Where("sku = ?", sku).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Create inserts a variant.
func (r *GormProductVariantRepository) Create(item *models.ProductVariant) error {
	if item == nil {
		return errors.New("variant is nil")
	}
	return r.db.Create(item).Error
}

// CreateBatch inserts variants in bulk.
func (r *GormProductVariantRepository) CreateBatch(items []models.ProductVariant) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.Create(&items).Error
}

// Update saves a variant.
func (r *GormProductVariantRepository) Update(item *models.ProductVariant) error {
	if item == nil {
		return errors.New("variant is nil")
	}
	return r.db.Save(item).Error
}

// UpdateStockCAS writes the stock counter only when it still holds the
// previously observed value.
func (r *GormProductVariantRepository) UpdateStockCAS(id uint, previousStock, newStock int) (int64, error) {
	if id == 0 || newStock < 0 {
		return 0, errors.New("invalid variant stock update params")
	}
	result := r.db.Model(&models.ProductVariant{}).
		Where("id = ? AND stock = ?", id, previousStock).
		Update("stock", newStock)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
