package models

import (
	"time"

	"gorm.io/gorm"
)

// Lead represents a course enquiry submitted from the website
type Lead struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Phone          string    `gorm:"index;not null" json:"phone"`
	Email          string    `json:"email"`
	CourseInterest string    `json:"course_interest"`
	Message        string    `json:"message"`
	Status         string    `gorm:"default:'new'" json:"status"` // new, contacted, converted, dropped
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MigrateLeadModels runs database migrations for lead models
func MigrateLeadModels(db *gorm.DB) error {
	return db.AutoMigrate(&Lead{})
}
