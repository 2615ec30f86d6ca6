package repository

import (
	"errors"

	"github.com/tiemhang/tiemhang-api/internal/models"

	"gorm.io/gorm"
)

// CartRepository is the cart data access interface.
type CartRepository interface {
	ListByUser(userID uint) ([]models.CartItem, error)
	GetByID(id uint) (*models.CartItem, error)
	GetByUserAndLine(userID, productID, variantID uint) (*models.CartItem, error)
	Create(item *models.CartItem) error
	Update(item *models.CartItem) error
	Delete(id uint) error
	DeleteByUser(userID uint) error
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository is the GORM implementation.
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a cart repository.
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// ListByUser fetches a user's cart lines with product and variant preloaded.
func (r *GormCartRepository) ListByUser(userID uint) ([]models.CartItem, error) {
	if userID == 0 {
		return nil, errors.New("invalid user id")
	}
	var items []models.CartItem
	err := r.db.Where("user_id = ?", userID).
		Preload("Product").
		Preload("Variant").
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID fetches a cart line by ID.
func (r *GormCartRepository) GetByID(id uint) (*models.CartItem, error) {
	if id == 0 {
		return nil, errors.New("invalid cart item id")
	}
	var item models.CartItem
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetByUserAndLine fetches the cart line for a (user, product, variant) tuple.
func (r *GormCartRepository) GetByUserAndLine(userID, productID, variantID uint) (*models.CartItem, error) {
	if userID == 0 || productID == 0 {
		return nil, errors.New("invalid cart lookup params")
	}
	var item models.CartItem
	err := r.db.Where("user_id = ? AND product_id = ? AND variant_id = ?", userID, productID, variantID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Create inserts a cart line.
func (r *GormCartRepository) Create(item *models.CartItem) error {
	if item == nil {
		return errors.New("cart item is nil")
	}
	return r.db.Create(item).Error
}

// Update saves a cart line.
func (r *GormCartRepository) Update(item *models.CartItem) error {
	if item == nil {
		return errors.New("cart item is nil")
	}
	return r.db.Save(item).Error
}

// Delete removes a cart line.
func (r *GormCartRepository) Delete(id uint) error {
	if id == 0 {
		return errors.New("invalid cart item id")
	}
	return r.db.Delete(&models.CartItem{}, id).Error
}

// DeleteByUser clears a user's cart.
func (r *GormCartRepository) DeleteByUser(userID uint) error {
	if userID == 0 {
		return errors.New("invalid user id")
	}
	return r.db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
