package repository

import (
	"errors"
	"time"

	"github.com/tiemhang/tiemhang-api/internal/models"

	"gorm.io/gorm"
)

// StockAlertRepository is the low-stock alert access interface. Alert rows
// are unique per (product, variant); the service layer decides when the
// notified flag is touched.
type StockAlertRepository interface {
	Create(alert *models.StockAlert) error
	UpdateFields(id uint, fields map[string]interface{}) error
	GetByID(id uint) (*models.StockAlert, error)
	GetByLine(productID, variantID uint) (*models.StockAlert, error)
	List(filter AlertListFilter) ([]models.StockAlert, int64, error)
	MarkNotified(id uint) error
	WithTx(tx *gorm.DB) StockAlertRepository
}

// GormStockAlertRepository is the GORM implementation.
type GormStockAlertRepository struct {
	db *gorm.DB
}

// NewStockAlertRepository creates an alert repository.
func NewStockAlertRepository(db *gorm.DB) *GormStockAlertRepository {
	return &GormStockAlertRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormStockAlertRepository) WithTx(tx *gorm.DB) StockAlertRepository {
	if tx == nil {
		return r
	}
	return &GormStockAlertRepository{db: tx}
}

// Create inserts an alert row.
func (r *GormStockAlertRepository) Create(alert *models.StockAlert) error {
	if alert == nil {
		return errors.New("alert is nil")
	}
	return r.db.Create(alert).Error
}

// UpdateFields updates selected columns of an alert.
func (r *GormStockAlertRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	if id == 0 || len(fields) == 0 {
		return errors.New("invalid alert update params")
	}
	fields["updated_at"] = time.Now()
	return r.db.Model(&models.StockAlert{}).Where("id = ?", id).Updates(fields).Error
}

// GetByID fetches an alert by ID.
func (r *GormStockAlertRepository) GetByID(id uint) (*models.StockAlert, error) {
	if id == 0 {
		return nil, errors.New("invalid alert id")
	}
	var alert models.StockAlert
	if err := r.db.First(&alert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &alert, nil
}

// GetByLine fetches the alert for a (product, variant) pair.
func (r *GormStockAlertRepository) GetByLine(productID, variantID uint) (*models.StockAlert, error) {
	if productID == 0 {
		return nil, errors.New("invalid product id")
	}
	var alert models.StockAlert
	err := r.db.Where("product_id = ? AND variant_id = ?", productID, variantID).First(&alert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &alert, nil
}

// List fetches alerts with pagination, most recently triggered first.
func (r *GormStockAlertRepository) List(filter AlertListFilter) ([]models.StockAlert, int64, error) {
	query := r.db.Model(&models.StockAlert{})
	if filter.ProductID > 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.OnlyPending {
		query = query.Where("notified = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var alerts []models.StockAlert
	query = applyPagination(query.Order("updated_at DESC").Preload("Product").Preload("Variant"), filter.Page, filter.PageSize)
	if err := query.Find(&alerts).Error; err != nil {
		return nil, 0, err
	}
	return alerts, total, nil
}

// MarkNotified flags an alert as acknowledged.
func (r *GormStockAlertRepository) MarkNotified(id uint) error {
	if id == 0 {
		return errors.New("invalid alert id")
	}
	now := time.Now()
	return r.db.Model(&models.StockAlert{}).Where("id = ?", id).Updates(map[string]interface{}{
		"notified":    true,
		"notified_at": now,
	}).Error
}
