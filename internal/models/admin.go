package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin is a back-office operator account.
type Admin struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                   // primary key
	Username     string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`  // login name
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`                    // bcrypt hash
	Role         string         `gorm:"type:varchar(20);not null;default:'staff'" json:"role"`  // staff / super
	IsActive     bool           `gorm:"default:true" json:"is_active"`                          // account enabled
	LastLoginAt  *time.Time     `json:"last_login_at"`                                          // last login time
	CreatedAt    time.Time      `json:"created_at"`                                             // creation time
	UpdatedAt    time.Time      `json:"updated_at"`                                             // update time
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                         // soft delete time
}

// TableName sets the table name.
func (Admin) TableName() string {
	return "admins"
}
