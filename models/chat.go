package models

import (
	"time"

	"gorm.io/gorm"
)

// ChatMessage represents a message in the community chat
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Body      string    `gorm:"not null" json:"body"`
	IsAdmin   bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// MigrateChatModels runs database migrations for chat models
func MigrateChatModels(db *gorm.DB) error {
	return db.AutoMigrate(&ChatMessage{})
}
