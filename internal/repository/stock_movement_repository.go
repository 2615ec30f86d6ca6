package repository

import (
	"errors"
	"strings"

	"github.com/tiemhang/tiemhang-api/internal/models"

	"gorm.io/gorm"
)

// StockMovementRepository is the inventory ledger access interface. The
// ledger is append-only, so only Create and read operations exist.
type StockMovementRepository interface {
	Create(movement *models.StockMovement) error
	List(filter MovementListFilter) ([]models.StockMovement, int64, error)
	CountByReference(reference string) (int64, error)
	WithTx(tx *gorm.DB) StockMovementRepository
}

// GormStockMovementRepository is the GORM implementation.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewStockMovementRepository creates a movement repository.
func NewStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormStockMovementRepository) WithTx(tx *gorm.DB) StockMovementRepository {
	if tx == nil {
		return r
	}
	return &GormStockMovementRepository{db: tx}
}

// Create appends a ledger row.
func (r *GormStockMovementRepository) Create(movement *models.StockMovement) error {
	if movement == nil {
		return errors.New("movement is nil")
	}
	return r.db.Create(movement).Error
}

// List fetches ledger rows with filters and pagination, newest first.
func (r *GormStockMovementRepository) List(filter MovementListFilter) ([]models.StockMovement, int64, error) {
	query := r.db.Model(&models.StockMovement{})
	if filter.ProductID > 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.VariantID != nil {
		query = query.Where("variant_id = ?", *filter.VariantID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Reason != "" {
		query = query.Where("reason = ?", filter.Reason)
	}
	if reference := strings.TrimSpace(filter.Reference); reference != "" {
		query = query.Where("reference = ?", reference)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at < ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.StockMovement
	query = applyPagination(query.Order("id DESC"), filter.Page, filter.PageSize)
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// CountByReference counts ledger rows carrying a reference.
func (r *GormStockMovementRepository) CountByReference(reference string) (int64, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return 0, errors.New("invalid reference")
	}
	var count int64
	if err := r.db.Model(&models.StockMovement{}).Where("reference = ?", reference).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
