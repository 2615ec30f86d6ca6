package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the storefront customer account.
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                  // primary key
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`   // login email
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`                   // bcrypt hash
	Name         string         `gorm:"type:varchar(100)" json:"name"`                         // display name
	Phone        string         `gorm:"type:varchar(20)" json:"phone"`                         // contact phone
	IsActive     bool           `gorm:"default:true" json:"is_active"`                         // account enabled
	LastLoginAt  *time.Time     `json:"last_login_at"`                                         // last login time
	CreatedAt    time.Time      `json:"created_at"`                                            // creation time
	UpdatedAt    time.Time      `json:"updated_at"`                                            // update time
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                        // soft delete time
}

// TableName sets the table name.
func (User) TableName() string {
	return "users"
}
