package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/tiemhang/tiemhang-api/internal/models"

	"gorm.io/gorm"
)

// UserRepository is the customer account access interface.
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	TouchLastLogin(id uint) error
	WithTx(tx *gorm.DB) UserRepository
}

// GormUserRepository is the GORM implementation.
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a user repository.
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormUserRepository) WithTx(tx *gorm.DB) UserRepository {
	if tx == nil {
		return r
	}
	return &GormUserRepository{db: tx}
}

// GetByID fetches a user by ID.
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, errors.New("invalid user id")
	}
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail fetches a user by email, case-insensitive.
func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("invalid email")
	}
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create inserts a user.
func (r *GormUserRepository) Create(user *models.User) error {
	if user == nil {
		return errors.New("user is nil")
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return r.db.Create(user).Error
}

// Update saves a user.
func (r *GormUserRepository) Update(user *models.User) error {
	if user == nil {
		return errors.New("user is nil")
	}
	return r.db.Save(user).Error
}

// TouchLastLogin records the login time.
func (r *GormUserRepository) TouchLastLogin(id uint) error {
	if id == 0 {
		return errors.New("invalid user id")
	}
	now := time.Now()
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("last_login_at", now).Error
}
