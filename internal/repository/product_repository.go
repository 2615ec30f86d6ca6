package repository

import (
	"errors"
	"strings"

	"github.com/tiemhang/tiemhang-api/internal/models"

	"gorm.io/gorm"
)

// ProductRepository is the product data access interface.
type ProductRepository interface {
	GetByID(id uint) (*models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	List(filter ProductListFilter) ([]models.Product, int64, error)
	Create(item *models.Product) error
	Update(item *models.Product) error
	UpdateStockCAS(id uint, previousStock, newStock int) (int64, error)
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository is the GORM implementation.
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a product repository.
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// GetByID fetches a product by ID.
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, errors.New("invalid product id")
	}
	var item models.Product
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetBySlug fetches a product by slug.
func (r *GormProductRepository) GetBySlug(slug string) (*models.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, errors.New("invalid product slug")
	}
	var item models.Product
	if err := r.db.Where("slug = ?", slug).Preload("Variants", "is_active = ?", true).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// List fetches products with pagination.
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		query = query.Where("name LIKE ?", "%"+keyword+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Product
	query = applyPagination(query.Order("sort_order DESC, id DESC"), filter.Page, filter.PageSize)
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Create inserts a product.
func (r *GormProductRepository) Create(item *models.Product) error {
	if item == nil {
		return errors.New("product is nil")
	}
	return r.db.Create(item).Error
}

// Update saves a product.
func (r *GormProductRepository) Update(item *models.Product) error {
	if item == nil {
		return errors.New("product is nil")
	}
	return r.db.Save(item).Error
}

// UpdateStockCAS writes the stock counter only when it still holds the
// previously observed value. Returns the affected row count so the caller can
// detect a lost race and retry.
func (r *GormProductRepository) UpdateStockCAS(id uint, previousStock, newStock int) (int64, error) {
	if id == 0 || newStock < 0 {
		return 0, errors.New("invalid product stock update params")
	}
	result := r.db.Model(&models.Product{}).
		Where("id = ? AND stock = ?", id, previousStock).
		Update("stock", newStock)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
