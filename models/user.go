package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered learner, identified by phone number
type User struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Phone         string     `gorm:"uniqueIndex;not null" json:"phone"`
	FullName      string     `json:"full_name"`
	Email         string     `json:"email"`
	Role          string     `gorm:"default:'user'" json:"role"` // user, premium
	IsActive      bool       `gorm:"default:true" json:"is_active"`
	PhoneVerified bool       `gorm:"default:false" json:"phone_verified"`
	LastLoginAt   *time.Time `json:"last_login_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Otp represents a one-time password issued for phone verification
type Otp struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Phone     string    `gorm:"index;not null" json:"phone"`
	Code      string    `gorm:"not null" json:"-"`
	Attempts  int       `gorm:"default:0" json:"attempts"`
	Used      bool      `gorm:"default:false" json:"used"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired checks if the OTP has expired
func (o *Otp) IsExpired() bool {
	return time.Now().After(o.ExpiresAt)
}

// MigrateUserModels runs database migrations for user-related models
func MigrateUserModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Otp{},
	)
}
