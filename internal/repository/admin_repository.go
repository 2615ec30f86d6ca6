package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/tiemhang/tiemhang-api/internal/models"

	"gorm.io/gorm"
)

// AdminRepository is the operator account access interface.
type AdminRepository interface {
	GetByID(id uint) (*models.Admin, error)
	GetByUsername(username string) (*models.Admin, error)
	Create(admin *models.Admin) error
	Update(admin *models.Admin) error
	TouchLastLogin(id uint) error
	WithTx(tx *gorm.DB) AdminRepository
}

// GormAdminRepository is the GORM implementation.
type GormAdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates an admin repository.
func NewAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormAdminRepository) WithTx(tx *gorm.DB) AdminRepository {
	if tx == nil {
		return r
	}
	return &GormAdminRepository{db: tx}
}

// GetByID fetches an admin by ID.
func (r *GormAdminRepository) GetByID(id uint) (*models.Admin, error) {
	if id == 0 {
		return nil, errors.New("invalid admin id")
	}
	var admin models.Admin
	if err := r.db.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

// GetByUsername fetches an admin by login name.
func (r *GormAdminRepository) GetByUsername(username string) (*models.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("invalid username")
	}
	var admin models.Admin
	if err := r.db.Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

// Create inserts an admin.
func (r *GormAdminRepository) Create(admin *models.Admin) error {
	if admin == nil {
		return errors.New("admin is nil")
	}
	return r.db.Create(admin).Error
}

// Update saves an admin.
func (r *GormAdminRepository) Update(admin *models.Admin) error {
	if admin == nil {
		return errors.New("admin is nil")
	}
	return r.db.Save(admin).Error
}

// TouchLastLogin records the login time.
func (r *GormAdminRepository) TouchLastLogin(id uint) error {
	if id == 0 {
		return errors.New("invalid admin id")
	}
	now := time.Now()
	return r.db.Model(&models.Admin{}).Where("id = ?", id).Update("last_login_at", now).Error
}
