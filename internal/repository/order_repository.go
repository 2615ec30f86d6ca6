package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/tiemhang/tiemhang-api/internal/constants"
	"github.com/tiemhang/tiemhang-api/internal/models"

	"gorm.io/gorm"
)

// OrderRepository is the order data access interface.
type OrderRepository interface {
	GetByID(id uint) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	Create(order *models.Order) error
	Update(order *models.Order) error
	UpdateFields(id uint, fields map[string]interface{}) error
	UpdateStatusCAS(id uint, observedStatus string, guardUnpaid bool, fields map[string]interface{}) (int64, error)
	CreateItems(items []models.OrderItem) error
	ListItems(orderID uint) ([]models.OrderItem, error)
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository is the GORM implementation.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates an order repository.
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// GetByID fetches an order with its items.
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	if id == 0 {
		return nil, errors.New("invalid order id")
	}
	var order models.Order
	if err := r.db.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo fetches an order by its external number.
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return nil, errors.New("invalid order no")
	}
	var order models.Order
	if err := r.db.Preload("Items").Where("order_no = ?", orderNo).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List fetches orders with filters and pagination.
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.PaymentMethod != "" {
		query = query.Where("payment_method = ?", filter.PaymentMethod)
	}
	if orderNo := strings.TrimSpace(filter.OrderNo); orderNo != "" {
		query = query.Where("order_no = ?", orderNo)
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

	var orders []models.Order
	query = applyPagination(query.Order("id DESC").Preload("Items"), filter.Page, filter.PageSize)
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Create inserts an order header.
func (r *GormOrderRepository) Create(order *models.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	return r.db.Create(order).Error
}

// Update saves an order header.
func (r *GormOrderRepository) Update(order *models.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	return r.db.Save(order).Error
}

// UpdateFields updates selected columns of an order.
func (r *GormOrderRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	if id == 0 || len(fields) == 0 {
		return errors.New("invalid order update params")
	}
	fields["updated_at"] = time.Now()
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(fields).Error
}

// UpdateStatusCAS updates order columns only while the status still holds the
// previously observed value. With guardUnpaid the update additionally requires
// payment to be uncaptured. Returns the affected row count so the caller can
// detect a lost race.
func (r *GormOrderRepository) UpdateStatusCAS(id uint, observedStatus string, guardUnpaid bool, fields map[string]interface{}) (int64, error) {
	if id == 0 || observedStatus == "" || len(fields) == 0 {
		return 0, errors.New("invalid order update params")
	}
	fields["updated_at"] = time.Now()
	query := r.db.Model(&models.Order{}).Where("id = ? AND status = ?", id, observedStatus)
	if guardUnpaid {
		query = query.Where("payment_status <> ?", constants.PaymentStatusPaid)
	}
	result := query.Updates(fields)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CreateItems inserts order lines in bulk.
func (r *GormOrderRepository) CreateItems(items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.Create(&items).Error
}

// ListItems fetches the lines of an order.
func (r *GormOrderRepository) ListItems(orderID uint) ([]models.OrderItem, error) {
	if orderID == 0 {
		return nil, errors.New("invalid order id")
	}
	var items []models.OrderItem
	if err := r.db.Where("order_id = ?", orderID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
