package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment status constants
const (
	PaymentStatusCreated = "created"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// Payment represents a course purchase order
type Payment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index" json:"user_id"`
	User        User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Course      string     `gorm:"not null" json:"course"`
	AmountPaise int64      `gorm:"not null" json:"amount_paise"`
	Status      string     `gorm:"default:'created'" json:"status"` // created, success, failed
	Reference   string     `json:"reference"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsTerminal reports whether the payment has reached a final status
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentStatusSuccess || p.Status == PaymentStatusFailed
}

// IsValidPaymentStatus checks if the status is a known payment status
func IsValidPaymentStatus(status string) bool {
	switch status {
	case PaymentStatusCreated, PaymentStatusSuccess, PaymentStatusFailed:
		return true
	}
	return false
}

// MigratePaymentModels runs database migrations for payment models
func MigratePaymentModels(db *gorm.DB) error {
	return db.AutoMigrate(&Payment{})
}
